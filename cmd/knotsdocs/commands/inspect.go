package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/list"

	"github.com/studyknots/knotsdocs/internal/config"
	"github.com/studyknots/knotsdocs/internal/foundation/errors"
	"github.com/studyknots/knotsdocs/internal/homepage"
	"github.com/studyknots/knotsdocs/internal/navigation"
	"github.com/studyknots/knotsdocs/internal/site"
)

// TriggerInspect is recorded on builds started by 'inspect'.
const TriggerInspect = "inspect"

// InspectCmd implements the 'inspect' command.
type InspectCmd struct {
	Sidebar string `name:"sidebar" help:"Only print the named sidebar"`
	JSON    bool   `name:"json" help:"Print the navigation model as JSON"`
}

func (i *InspectCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	res, err := site.NewService().WithLogger(g.Logger).Run(context.Background(), site.Request{
		Config:     cfg,
		ConfigPath: root.Config,
		Options:    site.Options{BaseDir: baseDir(root.Config), Trigger: TriggerInspect},
	})
	if err != nil {
		return err
	}

	nav := res.Bundle.Navigation
	if i.Sidebar != "" {
		sb, ok := nav.Sidebar(i.Sidebar)
		if !ok {
			return errors.ValidationError("unknown sidebar").
				WithContext("sidebar", i.Sidebar).
				Build()
		}
		nav = &navigation.NavModel{Sidebars: []navigation.Sidebar{sb}}
	}
	if i.JSON {
		return writeJSON(g.Out, nav)
	}
	RenderNavigation(g.Out, nav)
	if i.Sidebar == "" {
		RenderHome(g.Out, res.Bundle.Home)
	}
	return nil
}

// RenderNavigation prints the sidebars, navbar and footer of nav as a tree.
func RenderNavigation(w io.Writer, nav *navigation.NavModel) {
	l := list.NewWriter()
	l.SetOutputMirror(w)
	l.SetStyle(list.StyleConnectedRounded)

	for _, sb := range nav.Sidebars {
		l.AppendItem("sidebar " + sb.Name)
		l.Indent()
		appendItems(l, sb.Items)
		l.UnIndent()
	}
	if len(nav.Navbar) > 0 {
		l.AppendItem("navbar")
		l.Indent()
		appendNavbar(l, nav.Navbar)
		l.UnIndent()
	}
	if len(nav.Footer) > 0 {
		l.AppendItem("footer")
		l.Indent()
		for _, col := range nav.Footer {
			l.AppendItem(col.Title)
			l.Indent()
			for _, link := range col.Links {
				l.AppendItem(fmt.Sprintf("%s -> %s", link.Label, link.Target))
			}
			l.UnIndent()
		}
		l.UnIndent()
	}
	l.Render()
}

func appendItems(l list.Writer, items []navigation.Item) {
	for _, it := range items {
		switch v := it.(type) {
		case navigation.Document:
			l.AppendItem(fmt.Sprintf("%s -> %s", v.Label, v.Route))
		case navigation.Category:
			label := v.Label + "/"
			if v.CollapsedByDefault {
				label += " (collapsed)"
			}
			l.AppendItem(label)
			l.Indent()
			appendItems(l, v.Children)
			l.UnIndent()
		case navigation.ExternalLink:
			l.AppendItem(fmt.Sprintf("%s -> %s (external)", v.Label, v.URL))
		case navigation.Divider:
			l.AppendItem("---")
		}
	}
}

func appendNavbar(l list.Writer, entries []navigation.NavbarEntry) {
	for _, e := range entries {
		switch e.Kind {
		case navigation.NavbarDropdown:
			l.AppendItem(positioned(e.Label, e))
			l.Indent()
			appendNavbar(l, e.Children)
			l.UnIndent()
		case navigation.NavbarDivider:
			l.AppendItem("---")
		default:
			l.AppendItem(positioned(fmt.Sprintf("%s -> %s", e.Label, e.Target), e))
		}
	}
}

func positioned(label string, e navigation.NavbarEntry) string {
	if e.Position == "" {
		return label
	}
	return fmt.Sprintf("%s [%s]", label, e.Position)
}

// RenderHome prints the home page section kinds in order.
func RenderHome(w io.Writer, page *homepage.Page) {
	if page == nil || len(page.Sections) == 0 {
		return
	}
	l := list.NewWriter()
	l.SetOutputMirror(w)
	l.SetStyle(list.StyleConnectedRounded)
	l.AppendItem("home")
	l.Indent()
	for _, kind := range page.Kinds() {
		l.AppendItem(kind)
	}
	l.Render()
}
