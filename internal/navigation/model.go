// Package navigation turns the declared sidebars, navbar and footer into a validated
// navigation model. Every document reference resolves, no tree repeats a document,
// and declaration order is kept.
package navigation

import (
	"encoding/json"

	"github.com/studyknots/knotsdocs/internal/config"
)

// ItemKind names a sidebar item variant.
type ItemKind string

const (
	KindDocument ItemKind = "doc"
	KindCategory ItemKind = "category"
	KindLink     ItemKind = "link"
	KindDivider  ItemKind = "divider"
)

// Item is a sidebar entry. The set of variants is closed: Document, Category,
// ExternalLink and Divider.
type Item interface {
	Kind() ItemKind
	item()
}

// Document links to a content document.
type Document struct {
	ID    string
	Label string
	Route string
}

// Category groups child items under a label.
type Category struct {
	Label              string
	CollapsedByDefault bool
	Children           []Item
}

// ExternalLink points outside the site.
type ExternalLink struct {
	Label string
	URL   string
}

// Divider separates groups of items.
type Divider struct{}

func (Document) Kind() ItemKind     { return KindDocument }
func (Category) Kind() ItemKind     { return KindCategory }
func (ExternalLink) Kind() ItemKind { return KindLink }
func (Divider) Kind() ItemKind      { return KindDivider }

func (Document) item()     {}
func (Category) item()     {}
func (ExternalLink) item() {}
func (Divider) item()      {}

func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  ItemKind `json:"type"`
		ID    string   `json:"id"`
		Label string   `json:"label"`
		Route string   `json:"route"`
	}{KindDocument, d.ID, d.Label, d.Route})
}

func (c Category) MarshalJSON() ([]byte, error) {
	children := c.Children
	if children == nil {
		children = []Item{}
	}
	return json.Marshal(struct {
		Type      ItemKind `json:"type"`
		Label     string   `json:"label"`
		Collapsed bool     `json:"collapsed"`
		Items     []Item   `json:"items"`
	}{KindCategory, c.Label, c.CollapsedByDefault, children})
}

func (l ExternalLink) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  ItemKind `json:"type"`
		Label string   `json:"label"`
		Href  string   `json:"href"`
	}{KindLink, l.Label, l.URL})
}

func (Divider) MarshalJSON() ([]byte, error) {
	return []byte(`{"type":"divider"}`), nil
}

// Sidebar is one named sidebar tree.
type Sidebar struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// DocumentIDs returns the document identifiers of the tree in depth-first order.
func (s Sidebar) DocumentIDs() []string {
	var ids []string
	Walk(s.Items, func(it Item, _ int) {
		if d, ok := it.(Document); ok {
			ids = append(ids, d.ID)
		}
	})
	return ids
}

// Walk visits items depth-first in order. depth is zero for top-level items.
func Walk(items []Item, fn func(it Item, depth int)) {
	var walk func([]Item, int)
	walk = func(items []Item, depth int) {
		for _, it := range items {
			fn(it, depth)
			if c, ok := it.(Category); ok {
				walk(c.Children, depth+1)
			}
		}
	}
	walk(items, 0)
}

// Target is where a navbar, footer or button link points. Exactly one field is set.
type Target struct {
	Internal string `json:"to,omitempty"`
	External string `json:"href,omitempty"`
}

// IsInternal reports whether the target is a site route.
func (t Target) IsInternal() bool { return t.Internal != "" }

// String returns the route or URL.
func (t Target) String() string {
	if t.Internal != "" {
		return t.Internal
	}
	return t.External
}

// NavbarKind names a navbar entry variant.
type NavbarKind string

const (
	NavbarLink     NavbarKind = "link"
	NavbarDropdown NavbarKind = "dropdown"
	NavbarDivider  NavbarKind = "divider"
)

// NavbarEntry is a navbar link, a dropdown holding children, or a divider inside a dropdown.
type NavbarEntry struct {
	Kind     NavbarKind      `json:"type"`
	Label    string          `json:"label,omitempty"`
	Target                   // zero for dropdowns and dividers
	Position config.Position `json:"position,omitempty"`
	Children []NavbarEntry   `json:"items,omitempty"`
}

// FooterLink is one labelled footer link.
type FooterLink struct {
	Label string `json:"label"`
	Target
}

// FooterColumn is a titled column of footer links.
type FooterColumn struct {
	Title string       `json:"title"`
	Links []FooterLink `json:"items"`
}

// NavModel is the validated navigation of the whole site.
type NavModel struct {
	Sidebars []Sidebar      `json:"sidebars"`
	Navbar   []NavbarEntry  `json:"navbar"`
	Footer   []FooterColumn `json:"footer"`
}

// Sidebar returns the sidebar with the given name.
func (m *NavModel) Sidebar(name string) (Sidebar, bool) {
	for _, s := range m.Sidebars {
		if s.Name == name {
			return s, true
		}
	}
	return Sidebar{}, false
}

// ReferencedDocuments returns the set of document IDs reachable from any sidebar.
func (m *NavModel) ReferencedDocuments() map[string]bool {
	out := make(map[string]bool)
	for _, s := range m.Sidebars {
		for _, id := range s.DocumentIDs() {
			out[id] = true
		}
	}
	return out
}

// CountItems returns the number of sidebar items across all trees, categories included.
func (m *NavModel) CountItems() int {
	n := 0
	for _, s := range m.Sidebars {
		Walk(s.Items, func(Item, int) { n++ })
	}
	return n
}
