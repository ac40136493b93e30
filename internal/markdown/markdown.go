// Package markdown extracts the few facts the site model needs from a document body.
package markdown

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Analysis is the result of a single parse of a Markdown body.
type Analysis struct {
	// Title is the plain text of the first level-1 heading, or "".
	Title string
	Links []Link
}

// Analyze parses a Markdown body (frontmatter already removed).
func Analyze(body []byte) Analysis {
	md := goldmark.New()
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	var a Analysis
	used := map[string]bool{}
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.Heading:
			if node.Level == 1 && a.Title == "" {
				a.Title = strings.TrimSpace(plainText(node, body))
			}
		case *gmast.AutoLink:
			a.Links = append(a.Links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			used[string(node.Destination)] = true
			a.Links = append(a.Links, Link{Kind: LinkKindImage, Destination: string(node.Destination)})
		case *gmast.Link:
			used[string(node.Destination)] = true
			a.Links = append(a.Links, Link{Kind: LinkKindInline, Destination: string(node.Destination)})
		}
		return gmast.WalkContinue, nil
	})

	// Reference definitions live in the parse context, not the AST. Links that
	// use one already carry its destination, so only unused ones are added.
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		if used[string(ref.Destination())] {
			continue
		}
		a.Links = append(a.Links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}
	return a
}

// FirstHeading returns the text of the first level-1 heading in body.
func FirstHeading(body []byte) string {
	return Analyze(body).Title
}

func plainText(n gmast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		default:
			b.WriteString(plainText(c, source))
		}
	}
	return b.String()
}
