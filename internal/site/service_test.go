package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyknots/knotsdocs/internal/config"
	"github.com/studyknots/knotsdocs/internal/diag"
	"github.com/studyknots/knotsdocs/internal/eventstore"
	ferrors "github.com/studyknots/knotsdocs/internal/foundation/errors"
	"github.com/studyknots/knotsdocs/internal/metrics"
	"github.com/studyknots/knotsdocs/internal/notify"
	serrors "github.com/studyknots/knotsdocs/internal/site/errors"
	helpers "github.com/studyknots/knotsdocs/internal/testutil/testutils"
)

// Documents the landing page banner links to that no sidebar lists.
var bannerDocs = []string{"guides/op-return-controversy", "architecture/code-analysis"}

func sidebarDocIDs(items []config.SidebarItem) []string {
	var ids []string
	for _, it := range items {
		switch it.Kind() {
		case config.ItemDoc:
			ids = append(ids, it.ID)
		case config.ItemCategory:
			ids = append(ids, sidebarDocIDs(it.Items)...)
		}
	}
	return ids
}

// studyKnotsSite writes a docs tree holding every document the built-in config
// references, plus extra files, and returns the site directory.
func studyKnotsSite(t *testing.T, cfg *config.Config, extra map[string]string) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{}
	for _, sb := range cfg.Sidebars {
		for _, id := range sidebarDocIDs(sb.Items) {
			files["docs/"+id+".md"] = fmt.Sprintf("# %s\n\nContent of %s.\n", id, id)
		}
	}
	for _, id := range bannerDocs {
		files["docs/"+id+".md"] = fmt.Sprintf("# %s\n", id)
	}
	for k, v := range extra {
		files[k] = v
	}
	helpers.WriteTree(t, root, files)
	return root
}

func fixedClock(id string) (func() time.Time, func() string) {
	return func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
		func() string { return id }
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (p *recordingPublisher) Publish(_ context.Context, msg notify.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type recordingRecorder struct {
	metrics.NoopRecorder
	outcomes []metrics.BuildOutcomeLabel
	stages   map[string]metrics.ResultLabel
	docs     int
}

func (r *recordingRecorder) IncBuildOutcome(o metrics.BuildOutcomeLabel) {
	r.outcomes = append(r.outcomes, o)
}

func (r *recordingRecorder) IncStageResult(stage string, res metrics.ResultLabel) {
	if r.stages == nil {
		r.stages = map[string]metrics.ResultLabel{}
	}
	r.stages[stage] = res
}

func (r *recordingRecorder) SetDocuments(n int) { r.docs = n }

func TestBuild_StudyKnots(t *testing.T) {
	cfg := config.StudyKnots()
	root := studyKnotsSite(t, cfg, nil)
	rec := &recordingRecorder{}

	res, err := NewService().
		WithRecorder(rec).
		WithClock(fixedClock("build-1")).
		Run(context.Background(), Request{Config: cfg, Options: Options{BaseDir: root, Write: true}})
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "build-1", res.BuildID)
	assert.Zero(t, res.Warnings(), "diagnostics: %v", res.Diagnostics)
	assert.Equal(t, len(bannerDocs), res.Diagnostics.Count(diag.SeverityInfo))

	b := res.Bundle
	require.NotNil(t, b)
	assert.Equal(t, "Study Knots", b.Site.Title)
	assert.Equal(t, "Study Knots 2026 - An educational resource for Bitcoin Knots", b.Site.Theme.Footer.Copyright)
	assert.Len(t, b.Navigation.Sidebars, 1)
	assert.Equal(t, []string{"Hero", "Banner", "StatGrid", "FeatureGrid", "ComparisonTable", "QuickStart", "CallToAction"}, b.Home.Kinds())
	assert.Len(t, b.Manifest.Documents, res.Content.Len())
	assert.Equal(t, res.ContentHash, b.Manifest.ContentHash)

	assert.Equal(t, filepath.Join(root, "build"), res.OutputPath)
	for _, name := range []string{SiteFile, NavFile, HomeFile, ManifestFile} {
		assert.FileExists(t, filepath.Join(res.OutputPath, name))
		assert.NoFileExists(t, filepath.Join(res.OutputPath, name+".tmp"))
	}

	assert.Equal(t, []metrics.BuildOutcomeLabel{metrics.BuildOutcomeSuccess}, rec.outcomes)
	assert.Equal(t, metrics.ResultSuccess, rec.stages[StageWrite])
	assert.Equal(t, res.Content.Len(), rec.docs)
}

func TestBuild_BundleIsDeterministic(t *testing.T) {
	cfg := config.StudyKnots()
	root := studyKnotsSite(t, cfg, nil)

	outputs := make([]string, 2)
	hashes := make([]string, 2)
	for i := range outputs {
		outputs[i] = filepath.Join(t.TempDir(), "out")
		res, err := NewService().
			WithClock(fixedClock(fmt.Sprintf("build-%d", i))).
			Run(context.Background(), Request{
				Config:  config.StudyKnots(),
				Options: Options{BaseDir: root, OutputDir: outputs[i], Write: true},
			})
		require.NoError(t, err)
		hashes[i] = res.BundleHash
	}

	assert.Equal(t, hashes[0], hashes[1])
	for _, name := range []string{SiteFile, NavFile, HomeFile, ManifestFile} {
		a, err := os.ReadFile(filepath.Join(outputs[0], name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(outputs[1], name))
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), name)
	}
}

func TestBuild_CheckOnlyWritesNothing(t *testing.T) {
	cfg := config.StudyKnots()
	root := studyKnotsSite(t, cfg, nil)

	res, err := Build(context.Background(), cfg, Options{BaseDir: root})
	require.NoError(t, err)
	assert.Empty(t, res.OutputPath)
	assert.NoDirExists(t, filepath.Join(root, "build"))
}

func TestBuild_DanglingBannerLinkFailsHome(t *testing.T) {
	cfg := config.StudyKnots()
	root := studyKnotsSite(t, cfg, nil)
	require.NoError(t, os.Remove(filepath.Join(root, "docs", "architecture", "code-analysis.md")))
	pub := &recordingPublisher{}

	res, err := NewService().WithPublisher(pub).WithClock(fixedClock("build-x")).
		Run(context.Background(), Request{Config: cfg, Options: Options{BaseDir: root}})
	require.ErrorIs(t, err, serrors.ErrDanglingReference)
	id, _ := serrors.ReferenceID(err)
	assert.Equal(t, "/architecture/code-analysis", id)

	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, StageHome, res.FailedStage)
	assert.Nil(t, res.Bundle)

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, notify.OutcomeFailed, pub.msgs[0].Outcome)
	assert.Equal(t, "build-x", pub.msgs[0].BuildID)
	assert.NotEmpty(t, pub.msgs[0].Error)
}

func TestBuild_BodyLinkPolicy(t *testing.T) {
	extra := map[string]string{"docs/guides/notes.md": "# Notes\n\nSee [the archive](/archive/2017).\n"}

	tests := []struct {
		policy   config.BrokenLinkPolicy
		wantErr  bool
		warnings int
	}{
		{config.BrokenLinksWarn, false, 1},
		{config.BrokenLinksIgnore, false, 0},
		{config.BrokenLinksThrow, true, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			cfg := config.StudyKnots()
			cfg.Site.OnBrokenLinks = tt.policy
			root := studyKnotsSite(t, cfg, extra)

			res, err := Build(context.Background(), cfg, Options{BaseDir: root})
			if tt.wantErr {
				require.ErrorIs(t, err, serrors.ErrDanglingReference)
				path, _ := serrors.DeclPath(err)
				assert.Equal(t, "guides/notes.md", path)
				assert.Equal(t, StageLinks, res.FailedStage)
				return
			}
			require.NoError(t, err)
			broken := 0
			for _, d := range res.Diagnostics {
				if d.Code == diag.CodeBrokenLink {
					broken++
					assert.Equal(t, "guides/notes.md", d.Path)
				}
			}
			assert.Equal(t, tt.warnings, broken)
		})
	}
}

func TestBuild_AnnouncementLinks(t *testing.T) {
	cfg := config.StudyKnots()
	cfg.Site.OnBrokenLinks = config.BrokenLinksThrow
	cfg.Theme.Announcement.Content = `Read <a href="/getting-started/introduction">the intro</a> and <a href="/release-notes/latest">the notes</a>.`
	root := studyKnotsSite(t, cfg, nil)

	res, err := Build(context.Background(), cfg, Options{BaseDir: root})
	require.ErrorIs(t, err, serrors.ErrDanglingReference)
	id, _ := serrors.ReferenceID(err)
	assert.Equal(t, "/release-notes/latest", id)
	path, _ := serrors.DeclPath(err)
	assert.Equal(t, AnnouncementPath, path)
	assert.Equal(t, StageAnnouncement, res.FailedStage)

	cfg = config.StudyKnots()
	cfg.Theme.Announcement.Content = `<a href="https://studyknots.com/release-notes/latest">notes</a>`
	res, err = Build(context.Background(), cfg, Options{BaseDir: root})
	require.NoError(t, err)
	require.Equal(t, 1, res.Warnings())
	assert.Equal(t, AnnouncementPath, res.Diagnostics.Filter(diag.SeverityWarning)[0].Path)
}

func TestBuild_RecordsEventsAndNotifies(t *testing.T) {
	store, err := eventstore.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	pub := &recordingPublisher{}

	cfg := config.StudyKnots()
	root := studyKnotsSite(t, cfg, nil)
	res, err := NewService().
		WithEventStore(store).
		WithPublisher(pub).
		WithClock(fixedClock("build-ev")).
		Run(context.Background(), Request{Config: cfg, ConfigPath: "knotsdocs.yaml", Options: Options{BaseDir: root, Trigger: "cli"}})
	require.NoError(t, err)

	events, err := store.GetByBuildID(context.Background(), "build-ev")
	require.NoError(t, err)
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.Type()
	}
	assert.Equal(t, []string{
		eventstore.TypeBuildStarted,
		eventstore.TypeNavigationBuilt,
		eventstore.TypePageComposed,
		eventstore.TypeBuildCompleted,
	}, types)

	projection := eventstore.NewBuildHistoryProjection(store, 10)
	require.NoError(t, projection.Rebuild(context.Background()))
	summary, ok := projection.GetLastCompletedBuild()
	require.True(t, ok)
	assert.Equal(t, "cli", summary.Trigger)
	assert.Equal(t, res.BundleHash, summary.BundleHash)

	require.Len(t, pub.msgs, 1)
	msg := pub.msgs[0]
	assert.Equal(t, notify.OutcomeCompleted, msg.Outcome)
	assert.Equal(t, res.Content.Len(), msg.Documents)
	assert.Equal(t, res.ContentHash, msg.ContentHash)
}

func TestBuild_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pub := &recordingPublisher{}
	rec := &recordingRecorder{}

	res, err := NewService().WithPublisher(pub).WithRecorder(rec).
		Run(ctx, Request{Config: config.StudyKnots(), Options: Options{BaseDir: t.TempDir()}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusCanceled, res.Status)
	assert.Equal(t, StageConfig, res.FailedStage)
	assert.Equal(t, []metrics.BuildOutcomeLabel{metrics.BuildOutcomeCanceled}, rec.outcomes)
	require.Len(t, pub.msgs, 1)
	assert.Equal(t, notify.OutcomeFailed, pub.msgs[0].Outcome)
}

func TestBuild_NilConfig(t *testing.T) {
	res, err := Build(context.Background(), nil, Options{})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	assert.Equal(t, StatusFailed, res.Status)
}

func TestBuild_MissingDocsDir(t *testing.T) {
	res, err := Build(context.Background(), config.StudyKnots(), Options{BaseDir: t.TempDir()})
	require.Error(t, err)
	assert.Equal(t, StageContent, res.FailedStage)
}

func TestWriteBundle_RefusesToCleanWorkingDirectory(t *testing.T) {
	err := WriteBundle(&Bundle{}, ".", true)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.Error(t, WriteBundle(&Bundle{}, filepath.Dir(wd), true))
	assert.FileExists(t, filepath.Join(wd, "service_test.go"))
}

func TestBuild_CleanRefusesSourceDirectories(t *testing.T) {
	for name, out := range map[string]string{
		"docs directory":   "docs",
		"inside docs":      "docs/getting-started",
		"config directory": ".",
	} {
		t.Run(name, func(t *testing.T) {
			cfg := config.StudyKnots()
			cfg.Output.Directory = out
			cfg.Output.Clean = true
			root := studyKnotsSite(t, cfg, nil)
			before, err := os.ReadDir(filepath.Join(root, "docs"))
			require.NoError(t, err)

			res, err := Build(context.Background(), cfg, Options{BaseDir: root, Write: true})
			require.Error(t, err)
			assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
			assert.Equal(t, StageWrite, res.FailedStage)

			after, err := os.ReadDir(filepath.Join(root, "docs"))
			require.NoError(t, err)
			assert.Len(t, after, len(before))
		})
	}
}

func TestWriteBundleGuarded_KeepAllowsSubdirectory(t *testing.T) {
	root := t.TempDir()
	guard := CleanGuard{Sources: []string{filepath.Join(root, "docs")}, Keep: []string{root}}

	require.NoError(t, WriteBundleGuarded(&Bundle{}, filepath.Join(root, "build"), true, guard))
	require.Error(t, WriteBundleGuarded(&Bundle{}, root, true, guard))
	require.Error(t, WriteBundleGuarded(&Bundle{}, filepath.Join(root, "docs", "out"), true, guard))
}

func TestWriteBundle_CleanRemovesStaleFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	helpers.WriteTree(t, dir, map[string]string{"stale.json": "{}"})

	require.NoError(t, WriteBundle(&Bundle{}, dir, false))
	assert.FileExists(t, filepath.Join(dir, "stale.json"))

	require.NoError(t, WriteBundle(&Bundle{}, dir, true))
	assert.NoFileExists(t, filepath.Join(dir, "stale.json"))
	assert.FileExists(t, filepath.Join(dir, ManifestFile))
}

func TestNewSiteMetadata_CopiesConfig(t *testing.T) {
	cfg := config.StudyKnots()
	m := NewSiteMetadata(cfg, 2030)

	cfg.Site.I18n.Locales[0] = "de"
	cfg.Theme.Announcement.Content = "changed"
	*cfg.Site.TrailingSlash = true

	assert.Equal(t, []string{"en"}, m.Locales.All)
	assert.Contains(t, m.Theme.Announcement.Content, "Bitcoin Knots 29.2")
	assert.False(t, *m.TrailingSlash)
	assert.Equal(t, "Study Knots 2030 - An educational resource for Bitcoin Knots", m.Theme.Footer.Copyright)
}

func TestExpandYear(t *testing.T) {
	assert.Equal(t, "© 2026 Study Knots, 2026", ExpandYear("© {year} Study Knots, {year}", 2026))
	assert.Equal(t, "no placeholder", ExpandYear("no placeholder", 2026))
}
