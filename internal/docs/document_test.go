package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	serrors "github.com/studyknots/knotsdocs/internal/site/errors"
)

func TestNewStatic(t *testing.T) {
	idx := NewStatic("intro", "guides/mining")

	assert.True(t, idx.Exists("intro"))
	assert.False(t, idx.Exists("missing"))

	r, ok := idx.ResolvedRoute("guides/mining")
	require.True(t, ok)
	assert.Equal(t, "/guides/mining", r)

	assert.True(t, idx.HasRoute("/"))
	assert.True(t, idx.HasRoute("/guides/mining/"))
	assert.False(t, idx.HasRoute("/guides"))
	assert.Equal(t, []string{"/", "/guides/mining", "/intro"}, idx.Routes())
}

func TestNewStatic_PanicsOnDuplicate(t *testing.T) {
	assert.Panics(t, func() { NewStatic("a", "a") })
}

func TestNewIndex_DuplicateID(t *testing.T) {
	_, err := NewIndex([]Document{
		{ID: "x", SourcePath: "x.md", Route: "/x"},
		{ID: "x", SourcePath: "sub/x.md", Route: "/sub/x"},
	})
	require.ErrorIs(t, err, serrors.ErrDuplicateReference)
	path, _ := serrors.DeclPath(err)
	assert.Equal(t, "sub/x.md", path)
}

func TestResolveRoute(t *testing.T) {
	no, yes := false, true
	tests := []struct {
		name string
		id   string
		slug string
		opts RouteOptions
		want string
	}{
		{"root base", "guides/mining", "", RouteOptions{BasePath: "/"}, "/guides/mining"},
		{"docs base", "guides/mining", "", RouteOptions{BasePath: "docs"}, "/docs/guides/mining"},
		{"nested base", "intro", "", RouteOptions{BasePath: "/learn/docs/"}, "/learn/docs/intro"},
		{"index", "reference/index", "", RouteOptions{BasePath: "/"}, "/reference"},
		{"root index", "index", "", RouteOptions{BasePath: "/"}, "/"},
		{"absolute slug", "guides/mining", "/mine", RouteOptions{BasePath: "docs"}, "/docs/mine"},
		{"relative slug", "guides/mining", "pools", RouteOptions{BasePath: "/"}, "/guides/pools"},
		{"trailing slash on", "intro", "", RouteOptions{TrailingSlash: &yes}, "/intro/"},
		{"trailing slash off", "intro", "/intro/", RouteOptions{TrailingSlash: &no}, "/intro"},
		{"root keeps slash", "index", "", RouteOptions{TrailingSlash: &no}, "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveRoute(tt.id, tt.slug, tt.opts))
		})
	}
}

func TestDocID(t *testing.T) {
	assert.Equal(t, "guides/mining", docID("guides/02-mining", ""))
	assert.Equal(t, "guides/node", docID("01-guides/running", "node"))
	assert.Equal(t, "top", docID("intro", "top"))
	assert.Equal(t, "v29/notes", docID("v29/notes", ""))
}

func TestNormalizeRoute(t *testing.T) {
	assert.Equal(t, "/", NormalizeRoute(""))
	assert.Equal(t, "/", NormalizeRoute("/"))
	assert.Equal(t, "/", NormalizeRoute("//"))
	assert.Equal(t, "/a/b", NormalizeRoute("a/b/"))
	assert.Equal(t, "/a", NormalizeRoute("/a?x=1#frag"))
}

func TestNormalizeRoute_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := rapid.StringMatching(`/?([a-z0-9-]{1,8}/){0,3}[a-z0-9-]{0,8}/?(#[a-z]{1,4})?`).Draw(t, "route")
		once := NormalizeRoute(r)
		if NormalizeRoute(once) != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", r, once, NormalizeRoute(once))
		}
	})
}

func TestCheckLinks(t *testing.T) {
	idx, err := NewIndex([]Document{
		{ID: "guides/mining", SourcePath: "guides/mining.md", Route: "/guides/mining", Links: []string{
			"running-a-node.md",
			"../reference/faq.md#top",
			"/reference/faq",
			"configuration",
			"https://bitcoinknots.org",
			"#local",
			"/img/diagram.png",
			"missing.md",
			"/nowhere",
		}},
		{ID: "guides/running-a-node", SourcePath: "guides/running-a-node.md", Route: "/guides/running-a-node"},
		{ID: "guides/configuration", SourcePath: "guides/configuration.md", Route: "/guides/configuration"},
		{ID: "reference/faq", SourcePath: "reference/faq.md", Route: "/reference/faq"},
	})
	require.NoError(t, err)

	diags := CheckLinks(idx)
	require.Len(t, diags, 2)
	assert.Contains(t, diags[0].Message, "missing.md")
	assert.Contains(t, diags[1].Message, "/nowhere")
	assert.Equal(t, "guides/mining.md", diags[0].Path)
}

func TestHash_OrderIndependent(t *testing.T) {
	a, err := NewIndex([]Document{{ID: "a", Route: "/a", Fingerprint: "1"}, {ID: "b", Route: "/b", Fingerprint: "2"}})
	require.NoError(t, err)
	b, err := NewIndex([]Document{{ID: "b", Route: "/b", Fingerprint: "2"}, {ID: "a", Route: "/a", Fingerprint: "1"}})
	require.NoError(t, err)
	c, err := NewIndex([]Document{{ID: "a", Route: "/a", Fingerprint: "1"}, {ID: "b", Route: "/b", Fingerprint: "3"}})
	require.NoError(t, err)

	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), c.Hash())
}

func TestHash_IncludesTitle(t *testing.T) {
	a, err := NewIndex([]Document{{ID: "a", Route: "/a", Title: "Mining", Fingerprint: "1"}})
	require.NoError(t, err)
	b, err := NewIndex([]Document{{ID: "a", Route: "/a", Title: "Mining Pools", Fingerprint: "1"}})
	require.NoError(t, err)

	assert.NotEqual(t, a.Hash(), b.Hash())
}
