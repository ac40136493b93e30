// Package docs discovers content documents and answers identifier and route queries
// about them for the navigation builder and page composer.
package docs

import (
	"slices"

	"github.com/studyknots/knotsdocs/internal/git"
	serrors "github.com/studyknots/knotsdocs/internal/site/errors"
)

// Document is one content page.
type Document struct {
	ID           string      `json:"id"`
	SourcePath   string      `json:"source_path"` // slash-separated, relative to the docs dir
	Route        string      `json:"route"`
	Title        string      `json:"title"`
	SidebarLabel string      `json:"sidebar_label,omitempty"`
	Fingerprint  string      `json:"fingerprint"`
	EditURL      string      `json:"edit_url,omitempty"`
	LastUpdated  *git.Commit `json:"last_updated,omitempty"`

	// Links are the link destinations found in the body.
	Links []string `json:"-"`
}

// Label returns the sidebar label, falling back to the title.
func (d Document) Label() string {
	if d.SidebarLabel != "" {
		return d.SidebarLabel
	}
	return d.Title
}

// Set is the read-only view of the content documents the site model validates against.
type Set interface {
	Exists(id string) bool
	ResolvedRoute(id string) (string, bool)
	// HasRoute reports whether route is served by the site. The home route always is.
	HasRoute(route string) bool
	Routes() []string
}

// Index is the in-memory Set built by discovery.
type Index struct {
	docs     []Document
	byID     map[string]int
	bySource map[string]int
	routes   map[string]bool
}

// NewIndex indexes docs in the given order. Two documents with the same ID are a
// DuplicateReference error.
func NewIndex(docs []Document) (*Index, error) {
	idx := &Index{
		docs:     slices.Clone(docs),
		byID:     make(map[string]int, len(docs)),
		bySource: make(map[string]int, len(docs)),
		routes:   map[string]bool{HomeRoute: true},
	}
	for i, d := range idx.docs {
		if j, ok := idx.byID[d.ID]; ok {
			return nil, serrors.DuplicateDocument(d.ID, idx.docs[j].SourcePath, d.SourcePath)
		}
		idx.byID[d.ID] = i
		if d.SourcePath != "" {
			idx.bySource[d.SourcePath] = i
		}
		idx.routes[NormalizeRoute(d.Route)] = true
	}
	return idx, nil
}

// NewStatic builds an Index of documents whose route is "/" + id. It panics on
// duplicate IDs and is meant for tests and programmatic use.
func NewStatic(ids ...string) *Index {
	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, Document{ID: id, SourcePath: id + ".md", Route: "/" + id, Title: id})
	}
	idx, err := NewIndex(docs)
	if err != nil {
		panic(err)
	}
	return idx
}

func (x *Index) Exists(id string) bool {
	_, ok := x.byID[id]
	return ok
}

func (x *Index) ResolvedRoute(id string) (string, bool) {
	i, ok := x.byID[id]
	if !ok {
		return "", false
	}
	return x.docs[i].Route, true
}

func (x *Index) HasRoute(route string) bool {
	return x.routes[NormalizeRoute(route)]
}

// Routes returns the normalized route set, sorted.
func (x *Index) Routes() []string {
	out := make([]string, 0, len(x.routes))
	for r := range x.routes {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// Document returns the document with the given ID.
func (x *Index) Document(id string) (Document, bool) {
	i, ok := x.byID[id]
	if !ok {
		return Document{}, false
	}
	return x.docs[i], true
}

// BySource returns the document discovered at the given docs-relative path.
func (x *Index) BySource(source string) (Document, bool) {
	i, ok := x.bySource[source]
	if !ok {
		return Document{}, false
	}
	return x.docs[i], true
}

// Documents returns the documents in discovery order.
func (x *Index) Documents() []Document {
	return slices.Clone(x.docs)
}

func (x *Index) Len() int { return len(x.docs) }
