package docs

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyknots/knotsdocs/internal/diag"
	ferrors "github.com/studyknots/knotsdocs/internal/foundation/errors"
	serrors "github.com/studyknots/knotsdocs/internal/site/errors"
	helpers "github.com/studyknots/knotsdocs/internal/testutil/testutils"
)

func discover(t *testing.T, dir string, opts Options) (*Index, diag.List) {
	t.Helper()
	opts.Dir = dir
	idx, diags, err := NewDiscovery(opts, nil).Discover(context.Background())
	require.NoError(t, err)
	return idx, diags
}

func TestDiscover_IDsRoutesAndTitles(t *testing.T) {
	dir := t.TempDir()
	helpers.WriteTree(t, dir, map[string]string{
		"getting-started/introduction.md":    "# Introduction\n\nWelcome.\n",
		"getting-started/quick-start.mdx":    "---\ntitle: Quick Start\nsidebar_label: Quickstart\n---\nBody\n",
		"guides/02-mining.md":                "# Mining\n",
		"guides/running-a-node.md":           "---\nid: node\nslug: /run\n---\n# Running\n",
		"reference/index.md":                 "Reference home.\n",
		"reference/cli-commands.md":          "No heading here.\n",
		"_partials/snippet.md":               "# Partial\n",
		"guides/_draft-notes.md":             "# Hidden\n",
		".hidden/secret.md":                  "# Secret\n",
		"patches/policy/dust-and-fees.md":    "---\nslug: dust\n---\n# Dust and Fees\n",
		"img/diagram.png":                    "png",
		"patches/policy/mempool-policies.md": "---\ndraft: true\n---\n# WIP\n",
	})

	idx, diags := discover(t, dir, Options{Route: RouteOptions{BasePath: "/"}})

	ids := make([]string, 0)
	for _, d := range idx.Documents() {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{
		"getting-started/introduction",
		"getting-started/quick-start",
		"guides/mining",
		"guides/node",
		"patches/policy/dust-and-fees",
		"reference/cli-commands",
		"reference/index",
	}, ids)

	route := func(id string) string {
		r, ok := idx.ResolvedRoute(id)
		require.True(t, ok, id)
		return r
	}
	assert.Equal(t, "/getting-started/introduction", route("getting-started/introduction"))
	assert.Equal(t, "/guides/mining", route("guides/mining"))
	assert.Equal(t, "/run", route("guides/node"))
	assert.Equal(t, "/patches/policy/dust", route("patches/policy/dust-and-fees"))
	assert.Equal(t, "/reference", route("reference/index"))

	qs, _ := idx.Document("getting-started/quick-start")
	assert.Equal(t, "Quick Start", qs.Title)
	assert.Equal(t, "Quickstart", qs.Label())

	intro, _ := idx.Document("getting-started/introduction")
	assert.Equal(t, "Introduction", intro.Title)
	assert.NotEmpty(t, intro.Fingerprint)

	cli, _ := idx.Document("reference/cli-commands")
	assert.Equal(t, "Cli Commands", cli.Title)
	ref, _ := idx.Document("reference/index")
	assert.Equal(t, "Reference", ref.Title)

	assert.False(t, idx.Exists("patches/policy/mempool-policies"))
	assert.Equal(t, 2, countCode(diags, diag.CodeUntitledDocument))
	assert.Equal(t, 1, countCode(diags, diag.CodeDraftSkipped))
	assert.Equal(t, 0, diags.Count(diag.SeverityWarning))
}

func countCode(l diag.List, code string) int {
	n := 0
	for _, d := range l {
		if d.Code == code {
			n++
		}
	}
	return n
}

func TestDiscover_RouteBasePathAndTrailingSlash(t *testing.T) {
	dir := t.TempDir()
	helpers.WriteTree(t, dir, map[string]string{"intro.md": "# Intro\n"})
	yes := true

	idx, _ := discover(t, dir, Options{Route: RouteOptions{BasePath: "docs", TrailingSlash: &yes}})

	r, ok := idx.ResolvedRoute("intro")
	require.True(t, ok)
	assert.Equal(t, "/docs/intro/", r)
	assert.True(t, idx.HasRoute("/docs/intro"))
	assert.True(t, idx.HasRoute("/docs/intro/#section"))
}

func TestDiscover_EditURL(t *testing.T) {
	dir := t.TempDir()
	helpers.WriteTree(t, dir, map[string]string{"guides/mining.md": "# Mining\n"})

	idx, _ := discover(t, dir, Options{
		EditURL:        "https://github.com/studyknots/studyknots.github.io/tree/main/",
		EditPathPrefix: "docs",
	})

	doc, _ := idx.Document("guides/mining")
	assert.Equal(t, "https://github.com/studyknots/studyknots.github.io/tree/main/docs/guides/mining.md", doc.EditURL)
}

func TestDiscover_DuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	helpers.WriteTree(t, dir, map[string]string{
		"guides/a.md": "---\nid: same\n---\n# A\n",
		"guides/b.md": "---\nid: same\n---\n# B\n",
	})

	_, _, err := NewDiscovery(Options{Dir: dir}, nil).Discover(context.Background())
	require.ErrorIs(t, err, serrors.ErrDuplicateReference)
	id, ok := serrors.ReferenceID(err)
	require.True(t, ok)
	assert.Equal(t, "guides/same", id)
}

func TestDiscover_InvalidFrontmatter(t *testing.T) {
	dir := t.TempDir()
	helpers.WriteTree(t, dir, map[string]string{"bad.md": "---\ntitle: [oops\n---\n# Bad\n"})

	_, _, err := NewDiscovery(Options{Dir: dir}, nil).Discover(context.Background())
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryContent))
}

func TestDiscover_UnclosedFrontmatterIsWarning(t *testing.T) {
	dir := t.TempDir()
	helpers.WriteTree(t, dir, map[string]string{"open.md": "---\ntitle: never closed\n# Heading\n"})

	idx, diags := discover(t, dir, Options{})
	assert.True(t, idx.Exists("open"))
	assert.Equal(t, 1, countCode(diags, diag.CodeFrontmatterInvalid))
}

func TestDiscover_MissingDir(t *testing.T) {
	_, _, err := NewDiscovery(Options{Dir: filepath.Join(t.TempDir(), "nope")}, nil).Discover(context.Background())
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
}

func TestDiscover_Canceled(t *testing.T) {
	dir := t.TempDir()
	helpers.WriteTree(t, dir, map[string]string{"a.md": "# A\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewDiscovery(Options{Dir: dir}, nil).Discover(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_FingerprintIgnoresLastmod(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	helpers.WriteTree(t, a, map[string]string{"x.md": "---\ntitle: X\nlastmod: 2024-01-01\n---\nBody\n"})
	helpers.WriteTree(t, b, map[string]string{"x.md": "---\ntitle: X\nlastmod: 2025-06-30\n---\nBody\n"})

	ia, _ := discover(t, a, Options{})
	ib, _ := discover(t, b, Options{})
	da, _ := ia.Document("x")
	db, _ := ib.Document("x")
	assert.Equal(t, da.Fingerprint, db.Fingerprint)
	assert.Equal(t, ia.Hash(), ib.Hash())
}

func TestDiscover_GitMeta(t *testing.T) {
	_, wt, root := helpers.SetupTestGitRepo(t)
	when := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	helpers.CommitFile(t, wt, root, "docs/intro.md", "# Intro\n", "luke", when)

	idx, diags := discover(t, filepath.Join(root, "docs"), Options{GitMeta: true})
	require.Empty(t, diags)

	doc, _ := idx.Document("intro")
	require.NotNil(t, doc.LastUpdated)
	assert.Equal(t, "luke", doc.LastUpdated.Author)
	assert.True(t, when.Equal(doc.LastUpdated.When))
}

func TestDiscover_GitMetaOutsideRepository(t *testing.T) {
	dir := t.TempDir()
	helpers.WriteTree(t, dir, map[string]string{"intro.md": "# Intro\n"})

	idx, diags := discover(t, dir, Options{GitMeta: true})
	assert.True(t, idx.Exists("intro"))
	assert.Equal(t, 1, countCode(diags, diag.CodeGitMetaUnavailable))
}
