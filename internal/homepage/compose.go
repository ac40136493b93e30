package homepage

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/studyknots/knotsdocs/internal/config"
	"github.com/studyknots/knotsdocs/internal/navigation"
	serrors "github.com/studyknots/knotsdocs/internal/site/errors"
)

var kindByType = map[string]Kind{
	config.SectionHero:         KindHero,
	config.SectionBanner:       KindBanner,
	config.SectionStats:        KindStatGrid,
	config.SectionFeatures:     KindFeatureGrid,
	config.SectionComparison:   KindComparisonTable,
	config.SectionQuickStart:   KindQuickStart,
	config.SectionCallToAction: KindCallToAction,

	"statgrid":        KindStatGrid,
	"featuregrid":     KindFeatureGrid,
	"comparisontable": KindComparisonTable,
	"calltoaction":    KindCallToAction,
}

// ComposePage validates home and returns the landing page.
func ComposePage(home config.HomeConfig, routes navigation.RouteSet) (*Page, error) {
	sections, err := Compose(home.Sections, routes)
	if err != nil {
		return nil, err
	}
	return &Page{Title: home.Title, Description: home.Description, Sections: sections}, nil
}

// Compose validates each declared section and returns them in declaration order.
// The first malformed section fails the page. When routes is non-nil, internal
// links must resolve in it.
func Compose(decls []config.SectionConfig, routes navigation.RouteSet) ([]RenderableSection, error) {
	out := make([]RenderableSection, 0, len(decls))
	for i, d := range decls {
		s, err := Decode(d)
		if err != nil {
			return nil, err
		}
		if routes != nil {
			if err := checkRoutes(s, fmt.Sprintf("home/%s[%d]", s.Kind(), i), routes); err != nil {
				return nil, err
			}
		}
		out = append(out, RenderableSection{Index: i, Section: s})
	}
	return out, nil
}

// Decode converts a declared section into its typed variant and checks its schema.
func Decode(d config.SectionConfig) (Section, error) {
	kind, ok := kindByType[strings.ToLower(strings.TrimSpace(d.Type))]
	if !ok {
		return nil, serrors.MalformedSection(d.Type, "unknown section type")
	}
	v := validator{kind: kind}

	switch kind {
	case KindHero:
		s := Hero{Title: d.Title, Subtitle: d.Subtitle, Description: d.Description}
		v.require(s.Title, "title")
		s.Buttons = v.buttons(d.Buttons)
		return s, v.err

	case KindBanner:
		s := Banner{Heading: d.Title, Description: d.Description}
		v.require(s.Heading, "heading")
		v.nonEmpty(len(d.Buttons), "buttons")
		s.Buttons = v.buttons(d.Buttons)
		return s, v.err

	case KindStatGrid:
		s := StatGrid{}
		v.nonEmpty(len(d.Stats), "stats")
		for i, st := range d.Stats {
			v.require(st.Value, fmt.Sprintf("stats[%d].value", i))
			v.require(st.Label, fmt.Sprintf("stats[%d].label", i))
			s.Stats = append(s.Stats, Stat(st))
		}
		return s, v.err

	case KindFeatureGrid:
		s := FeatureGrid{Title: d.Title, Subtitle: d.Subtitle}
		if len(d.Features) == 0 {
			return nil, serrors.MalformedSection(string(kind), "empty")
		}
		for i, f := range d.Features {
			field := fmt.Sprintf("features[%d]", i)
			v.require(f.Title, field+".title")
			v.require(f.Description, field+".description")
			v.require(f.Link, field+".link")
			s.Features = append(s.Features, Feature{Title: f.Title, Description: f.Description, Link: v.href(f.Link, field+".link")})
		}
		return s, v.err

	case KindComparisonTable:
		s := ComparisonTable{Title: d.Title, Subtitle: d.Subtitle, Header: d.Header, Rows: d.Rows}
		v.nonEmpty(len(d.Header), "header")
		v.nonEmpty(len(d.Rows), "rows")
		for i, row := range d.Rows {
			if v.err == nil && len(row) != len(d.Header) {
				v.fail(fmt.Sprintf("row %d has %d cells, header has %d", i, len(row), len(d.Header)))
			}
		}
		s.Link = v.optionalLink(d.Link, "link")
		return s, v.err

	case KindQuickStart:
		s := QuickStart{Heading: d.Title, Description: d.Description, Snippet: d.Snippet, Language: d.Language, TopicsTitle: d.LinksTitle}
		v.require(s.Heading, "heading")
		v.require(strings.TrimSpace(s.Snippet), "snippet")
		s.Guide = v.optionalLink(d.Link, "link")
		for i, l := range d.Links {
			if link := v.link(l, fmt.Sprintf("links[%d]", i)); v.err == nil {
				s.Topics = append(s.Topics, link)
			}
		}
		return s, v.err

	default: // KindCallToAction
		s := CallToAction{Heading: d.Title, Description: d.Description}
		v.require(s.Heading, "heading")
		v.nonEmpty(len(d.Buttons), "buttons")
		s.Buttons = v.buttons(d.Buttons)
		return s, v.err
	}
}

// validator records the first schema violation of one section.
type validator struct {
	kind Kind
	err  error
}

func (v *validator) fail(detail string) {
	if v.err == nil {
		v.err = serrors.MalformedSection(string(v.kind), detail)
	}
}

func (v *validator) require(value, field string) {
	if strings.TrimSpace(value) == "" {
		v.fail("missing " + field)
	}
}

func (v *validator) nonEmpty(n int, field string) {
	if n == 0 {
		v.fail("no " + field)
	}
}

func (v *validator) target(to, href, field string) navigation.Target {
	to, href = strings.TrimSpace(to), strings.TrimSpace(href)
	switch {
	case to != "" && href != "":
		v.fail(field + " sets both to and href")
	case to == "" && href == "":
		v.fail(field + " sets neither to nor href")
	case href != "":
		if !isAbsoluteHTTP(href) {
			v.fail(field + " href must be absolute http(s): " + href)
		}
		return navigation.Target{External: href}
	}
	return navigation.Target{Internal: to}
}

// href classifies a single link string: site routes start with "/".
func (v *validator) href(raw, field string) navigation.Target {
	if strings.HasPrefix(raw, "/") {
		return v.target(raw, "", field)
	}
	return v.target("", raw, field)
}

func (v *validator) link(l config.LinkConfig, field string) Link {
	v.require(l.Label, field+".label")
	return Link{Label: l.Label, Target: v.target(l.To, l.Href, field)}
}

func (v *validator) optionalLink(l *config.LinkConfig, field string) *Link {
	if l == nil {
		return nil
	}
	link := v.link(*l, field)
	return &link
}

func (v *validator) buttons(decl []config.ButtonConfig) []Button {
	out := make([]Button, 0, len(decl))
	for i, b := range decl {
		field := fmt.Sprintf("buttons[%d]", i)
		v.require(b.Label, field+".label")
		out = append(out, Button{Label: b.Label, Target: v.target(b.To, b.Href, field), Style: b.Style})
	}
	return out
}

func isAbsoluteHTTP(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// checkRoutes reports the first internal link of s that is not a site route.
func checkRoutes(s Section, path string, routes navigation.RouteSet) error {
	check := func(t navigation.Target, field string) error {
		if t.IsInternal() && !routes.HasRoute(t.Internal) {
			return serrors.DanglingReference(t.Internal, path+"/"+field)
		}
		return nil
	}
	checkButtons := func(buttons []Button) error {
		for i, b := range buttons {
			if err := check(b.Target, fmt.Sprintf("buttons[%d]", i)); err != nil {
				return err
			}
		}
		return nil
	}

	switch s := s.(type) {
	case Hero:
		return checkButtons(s.Buttons)
	case Banner:
		return checkButtons(s.Buttons)
	case CallToAction:
		return checkButtons(s.Buttons)
	case FeatureGrid:
		for i, f := range s.Features {
			if err := check(f.Link, fmt.Sprintf("features[%d]", i)); err != nil {
				return err
			}
		}
	case ComparisonTable:
		if s.Link != nil {
			return check(s.Link.Target, "link")
		}
	case QuickStart:
		if s.Guide != nil {
			if err := check(s.Guide.Target, "link"); err != nil {
				return err
			}
		}
		for i, l := range s.Topics {
			if err := check(l.Target, fmt.Sprintf("links[%d]", i)); err != nil {
				return err
			}
		}
	}
	return nil
}
