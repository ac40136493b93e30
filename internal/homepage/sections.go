// Package homepage validates the landing page sections and composes them, in
// declaration order, into renderable sections.
package homepage

import (
	"encoding/json"

	"github.com/studyknots/knotsdocs/internal/navigation"
)

// Kind names a landing page section variant. The names are the ones reported by
// MalformedSection errors.
type Kind string

const (
	KindHero            Kind = "Hero"
	KindBanner          Kind = "Banner"
	KindStatGrid        Kind = "StatGrid"
	KindFeatureGrid     Kind = "FeatureGrid"
	KindComparisonTable Kind = "ComparisonTable"
	KindQuickStart      Kind = "QuickStart"
	KindCallToAction    Kind = "CallToAction"
)

// Section is one landing page section. The set of variants is closed.
type Section interface {
	Kind() Kind
	section()
}

// Link is a labelled link with a validated target.
type Link struct {
	Label string `json:"label"`
	navigation.Target
}

// Button is a call-to-action link with a display style.
type Button struct {
	Label string `json:"label"`
	navigation.Target
	Style string `json:"style,omitempty"`
}

type Hero struct {
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Description string   `json:"description,omitempty"`
	Buttons     []Button `json:"buttons"`
}

type Banner struct {
	Heading     string   `json:"heading"`
	Description string   `json:"description,omitempty"`
	Buttons     []Button `json:"buttons"`
}

type Stat struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type StatGrid struct {
	Stats []Stat `json:"stats"`
}

type Feature struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Link        navigation.Target `json:"link"`
}

type FeatureGrid struct {
	Title    string    `json:"title,omitempty"`
	Subtitle string    `json:"subtitle,omitempty"`
	Features []Feature `json:"features"`
}

type ComparisonTable struct {
	Title    string     `json:"title,omitempty"`
	Subtitle string     `json:"subtitle,omitempty"`
	Header   []string   `json:"header"`
	Rows     [][]string `json:"rows"`
	Link     *Link      `json:"link,omitempty"`
}

type QuickStart struct {
	Heading     string `json:"heading"`
	Description string `json:"description,omitempty"`
	Snippet     string `json:"snippet"`
	Language    string `json:"language,omitempty"`
	Guide       *Link  `json:"guide,omitempty"`
	TopicsTitle string `json:"topics_title,omitempty"`
	Topics      []Link `json:"topics,omitempty"`
}

type CallToAction struct {
	Heading     string   `json:"heading"`
	Description string   `json:"description,omitempty"`
	Buttons     []Button `json:"buttons"`
}

func (Hero) Kind() Kind            { return KindHero }
func (Banner) Kind() Kind          { return KindBanner }
func (StatGrid) Kind() Kind        { return KindStatGrid }
func (FeatureGrid) Kind() Kind     { return KindFeatureGrid }
func (ComparisonTable) Kind() Kind { return KindComparisonTable }
func (QuickStart) Kind() Kind      { return KindQuickStart }
func (CallToAction) Kind() Kind    { return KindCallToAction }

func (Hero) section()            {}
func (Banner) section()          {}
func (StatGrid) section()        {}
func (FeatureGrid) section()     {}
func (ComparisonTable) section() {}
func (QuickStart) section()      {}
func (CallToAction) section()    {}

// RenderableSection is a validated section at its position on the page.
type RenderableSection struct {
	Index   int
	Section Section
}

// MarshalJSON writes {"type": kind, "index": n, "data": {...}}.
func (r RenderableSection) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  Kind    `json:"type"`
		Index int     `json:"index"`
		Data  Section `json:"data"`
	}{r.Section.Kind(), r.Index, r.Section})
}

// Page is the composed landing page.
type Page struct {
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Sections    []RenderableSection `json:"sections"`
}

// Kinds returns the section kinds in page order.
func (p *Page) Kinds() []string {
	out := make([]string, len(p.Sections))
	for i, s := range p.Sections {
		out[i] = string(s.Section.Kind())
	}
	return out
}
