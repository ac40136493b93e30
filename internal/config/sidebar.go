package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sidebar item kinds.
const (
	ItemDoc      = "doc"
	ItemCategory = "category"
	ItemLink     = "link"
	ItemDivider  = "divider"
	ItemHTML     = "html"
)

// SidebarItem declares one entry of a sidebar tree. A bare YAML string is shorthand
// for a doc item with that ID.
type SidebarItem struct {
	Type      string        `yaml:"type,omitempty"`
	ID        string        `yaml:"id,omitempty"`
	Label     string        `yaml:"label,omitempty"`
	Collapsed *bool         `yaml:"collapsed,omitempty"`
	Href      string        `yaml:"href,omitempty"`
	Value     string        `yaml:"value,omitempty"`
	Items     []SidebarItem `yaml:"items,omitempty"`
}

// Doc returns the shorthand doc item for id.
func Doc(id string) SidebarItem { return SidebarItem{ID: id} }

// Category returns a category item.
func Category(label string, collapsed bool, items ...SidebarItem) SidebarItem {
	if items == nil {
		items = []SidebarItem{}
	}
	return SidebarItem{Type: ItemCategory, Label: label, Collapsed: &collapsed, Items: items}
}

// Kind resolves the item kind, inferring it from the populated fields when Type is empty.
func (s SidebarItem) Kind() string {
	if t := strings.ToLower(strings.TrimSpace(s.Type)); t != "" {
		return t
	}
	switch {
	case s.Items != nil:
		return ItemCategory
	case s.Href != "":
		return ItemLink
	case s.ID != "":
		return ItemDoc
	default:
		return ""
	}
}

func (s SidebarItem) isShorthand() bool {
	return s.Kind() == ItemDoc && s.Label == "" && s.Collapsed == nil &&
		s.Href == "" && s.Value == "" && s.Items == nil
}

// UnmarshalYAML accepts either a document ID scalar or a full mapping.
func (s *SidebarItem) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var id string
		if err := node.Decode(&id); err != nil {
			return err
		}
		*s = SidebarItem{ID: id}
		return nil
	}
	type plain SidebarItem
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = SidebarItem(p)
	return nil
}

// MarshalYAML writes doc items without overrides back in shorthand form.
func (s SidebarItem) MarshalYAML() (any, error) {
	if s.isShorthand() {
		return s.ID, nil
	}
	type plain SidebarItem
	return plain(s), nil
}

// Sidebar is a named navigation tree.
type Sidebar struct {
	Name  string
	Items []SidebarItem
}

// Sidebars keeps sidebars in declaration order. In YAML it is a mapping of
// sidebar name to item list.
type Sidebars []Sidebar

// Lookup returns the sidebar with the given name.
func (s Sidebars) Lookup(name string) (Sidebar, bool) {
	for _, sb := range s {
		if sb.Name == name {
			return sb, true
		}
	}
	return Sidebar{}, false
}

func (s *Sidebars) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: sidebars must be a mapping of name to items", node.Line)
	}
	out := make(Sidebars, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var name string
		if err := node.Content[i].Decode(&name); err != nil {
			return err
		}
		var items []SidebarItem
		if err := node.Content[i+1].Decode(&items); err != nil {
			return fmt.Errorf("sidebar %q: %w", name, err)
		}
		out = append(out, Sidebar{Name: name, Items: items})
	}
	*s = out
	return nil
}

func (s Sidebars) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, sb := range s {
		var value yaml.Node
		if err := value.Encode(sb.Items); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: sb.Name},
			&value)
	}
	return node, nil
}
