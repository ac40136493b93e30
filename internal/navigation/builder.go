package navigation

import (
	"fmt"
	"strings"

	"github.com/studyknots/knotsdocs/internal/config"
	"github.com/studyknots/knotsdocs/internal/diag"
	"github.com/studyknots/knotsdocs/internal/docs"
	"github.com/studyknots/knotsdocs/internal/linkverify"
	serrors "github.com/studyknots/knotsdocs/internal/site/errors"
)

// documentLookup is implemented by content sets that can supply document titles.
type documentLookup interface {
	Document(id string) (docs.Document, bool)
}

// Builder validates a Declaration against a content set.
type Builder struct {
	set docs.Set
}

// NewBuilder returns a Builder resolving references in set.
func NewBuilder(set docs.Set) *Builder {
	return &Builder{set: set}
}

// Build walks decl in order and returns the navigation model. The first dangling,
// duplicate or malformed entry fails the build; empty categories are warnings.
func (b *Builder) Build(decl Declaration) (*NavModel, diag.List, error) {
	var diags diag.List
	model := &NavModel{
		Sidebars: make([]Sidebar, 0, len(decl.Sidebars)),
		Navbar:   make([]NavbarEntry, 0, len(decl.Navbar)),
		Footer:   make([]FooterColumn, 0, len(decl.Footer)),
	}

	for _, s := range decl.Sidebars {
		t := &treeBuilder{set: b.set, diags: &diags, seen: make(map[string]string)}
		items, err := t.items(s.Items, "sidebar:"+s.Name)
		if err != nil {
			return nil, diags, err
		}
		model.Sidebars = append(model.Sidebars, Sidebar{Name: s.Name, Items: items})
	}

	for i, item := range decl.Navbar {
		entry, err := b.navbarEntry(item, fmt.Sprintf("navbar[%d]", i), "navbar", &diags)
		if err != nil {
			return nil, diags, err
		}
		model.Navbar = append(model.Navbar, entry)
	}

	for _, col := range decl.Footer {
		column := FooterColumn{Title: col.Title, Links: make([]FooterLink, 0, len(col.Items))}
		for k, link := range col.Items {
			path := fmt.Sprintf("footer/%s[%d]", col.Title, k)
			target, err := ResolveTarget(b.set, path, link.To, link.Href)
			if err != nil {
				return nil, diags, err
			}
			column.Links = append(column.Links, FooterLink{Label: link.Label, Target: target})
		}
		model.Footer = append(model.Footer, column)
	}

	return model, diags, nil
}

// treeBuilder builds one sidebar. Document uniqueness is scoped to the tree.
type treeBuilder struct {
	set   docs.Set
	diags *diag.List
	seen  map[string]string // doc ID -> breadcrumb of first occurrence
}

func (t *treeBuilder) items(decl []config.SidebarItem, parent string) ([]Item, error) {
	out := make([]Item, 0, len(decl))
	for i, d := range decl {
		it, err := t.item(d, fmt.Sprintf("%s[%d]", parent, i), parent)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

func (t *treeBuilder) item(d config.SidebarItem, path, parent string) (Item, error) {
	switch kind := d.Kind(); kind {
	case config.ItemDoc:
		return t.document(d, path)

	case config.ItemCategory:
		label := strings.TrimSpace(d.Label)
		if label == "" {
			return nil, serrors.InvalidTarget(path, "category has no label")
		}
		collapsed := true
		if d.Collapsed != nil {
			collapsed = *d.Collapsed
		}
		catPath := parent + "/" + label
		children, err := t.items(d.Items, catPath)
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			t.diags.Warn(diag.CodeEmptyCategory, catPath, "category %q has no items", label)
		}
		return Category{Label: label, CollapsedByDefault: collapsed, Children: children}, nil

	case config.ItemLink:
		if err := CheckExternalURL(path, d.Href); err != nil {
			return nil, err
		}
		return ExternalLink{Label: d.Label, URL: d.Href}, nil

	case config.ItemDivider:
		return Divider{}, nil

	case config.ItemHTML:
		if !linkverify.IsDivider(d.Value) {
			return nil, serrors.InvalidTarget(path, "html item must be a lone <hr>")
		}
		return Divider{}, nil

	case "":
		return nil, serrors.InvalidTarget(path, "item has no type, id, href or items")

	default:
		return nil, serrors.InvalidTarget(path, fmt.Sprintf("unknown item type %q", kind))
	}
}

func (t *treeBuilder) document(d config.SidebarItem, path string) (Item, error) {
	id := strings.TrimSpace(d.ID)
	if id == "" {
		return nil, serrors.InvalidTarget(path, "doc item has no id")
	}
	route, ok := t.set.ResolvedRoute(id)
	if !ok {
		return nil, serrors.DanglingReference(id, path)
	}
	if _, dup := t.seen[id]; dup {
		return nil, serrors.DuplicateReference(id, path)
	}
	t.seen[id] = path

	label := d.Label
	if label == "" {
		label = id
		if lookup, ok := t.set.(documentLookup); ok {
			if doc, found := lookup.Document(id); found && doc.Label() != "" {
				label = doc.Label()
			}
		}
	}
	return Document{ID: id, Label: label, Route: route}, nil
}

// navbarEntry builds one navbar item. parent is the breadcrumb prefix used for
// children of a dropdown.
func (b *Builder) navbarEntry(item config.NavbarItem, path, parent string, diags *diag.List) (NavbarEntry, error) {
	switch typ := config.NavbarType(item.Type); {
	case typ == config.NavbarHTML:
		if !linkverify.IsDivider(item.Value) {
			return NavbarEntry{}, serrors.InvalidTarget(path, "html item must be a lone <hr>")
		}
		return NavbarEntry{Kind: NavbarDivider, Position: item.Position}, nil

	case typ == config.NavbarDropdown || (typ == config.NavbarLink && len(item.Items) > 0):
		if item.To != "" || item.Href != "" {
			return NavbarEntry{}, serrors.InvalidTarget(path, "dropdown has children and cannot have a target")
		}
		dropPath := parent + "/" + item.Label
		entry := NavbarEntry{Kind: NavbarDropdown, Label: item.Label, Position: item.Position}
		if len(item.Items) == 0 {
			diags.Warn(diag.CodeEmptyCategory, dropPath, "dropdown %q has no items", item.Label)
		}
		for j, child := range item.Items {
			c, err := b.navbarEntry(child, fmt.Sprintf("%s[%d]", dropPath, j), dropPath, diags)
			if err != nil {
				return NavbarEntry{}, err
			}
			entry.Children = append(entry.Children, c)
		}
		return entry, nil

	case typ == config.NavbarLink:
		target, err := ResolveTarget(b.set, path, item.To, item.Href)
		if err != nil {
			return NavbarEntry{}, err
		}
		return NavbarEntry{Kind: NavbarLink, Label: item.Label, Target: target, Position: item.Position}, nil

	default:
		return NavbarEntry{}, serrors.InvalidTarget(path, fmt.Sprintf("unknown navbar item type %q", typ))
	}
}
