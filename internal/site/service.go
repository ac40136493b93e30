package site

import (
	"context"
	stderrors "errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/studyknots/knotsdocs/internal/config"
	"github.com/studyknots/knotsdocs/internal/diag"
	"github.com/studyknots/knotsdocs/internal/docs"
	"github.com/studyknots/knotsdocs/internal/eventstore"
	"github.com/studyknots/knotsdocs/internal/foundation/errors"
	"github.com/studyknots/knotsdocs/internal/homepage"
	"github.com/studyknots/knotsdocs/internal/linkverify"
	"github.com/studyknots/knotsdocs/internal/logfields"
	"github.com/studyknots/knotsdocs/internal/metrics"
	"github.com/studyknots/knotsdocs/internal/navigation"
	"github.com/studyknots/knotsdocs/internal/notify"
	"github.com/studyknots/knotsdocs/internal/observability"
	serrors "github.com/studyknots/knotsdocs/internal/site/errors"
)

// Stage names, in execution order.
const (
	StageConfig       = "config"
	StageContent      = "content"
	StageLinks        = "links"
	StageNavigation   = "navigation"
	StageHome         = "home"
	StageAnnouncement = "announcement"
	StageBundle       = "bundle"
	StageWrite        = "write"
)

// AnnouncementPath is the diagnostic path of the announcement bar.
const AnnouncementPath = "theme/announcement_bar"

// Status is the outcome of a build.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
)

// Options adjusts a single build.
type Options struct {
	// BaseDir resolves relative docs and output directories, normally the
	// directory holding the config file.
	BaseDir string
	// OutputDir overrides output.directory. It is used as given.
	OutputDir string
	// Write writes the bundle; without it the build only checks.
	Write bool
	// Trigger records what started the build (cli, preview, poll).
	Trigger string
	// IncludeDrafts keeps documents marked draft.
	IncludeDrafts bool
	// GitMeta attaches last-commit metadata even when docs.git_meta is off.
	GitMeta bool
}

// Request contains all inputs of a build.
type Request struct {
	Config     *config.Config
	ConfigPath string
	Options    Options
}

// Result contains the outcome of a build. On failure it holds everything
// produced before the failing stage.
type Result struct {
	BuildID     string
	Status      Status
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	Bundle      *Bundle
	Content     *docs.Index
	Diagnostics diag.List
	ContentHash string
	BundleHash  string
	OutputPath  string
	FailedStage string
}

// Warnings returns the number of warning diagnostics.
func (r *Result) Warnings() int { return r.Diagnostics.Count(diag.SeverityWarning) }

// Service runs site builds. All collaborators are optional.
type Service struct {
	recorder  metrics.Recorder
	store     eventstore.Store
	publisher notify.Publisher
	log       observability.Logger
	now       func() time.Time
	newID     func() string
}

// NewService creates a Service with no-op metrics, no event store, no
// notifications and the default logger.
func NewService() *Service {
	return &Service{
		recorder:  metrics.NoopRecorder{},
		publisher: notify.Noop{},
		log:       observability.NewLogger(nil),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *Service) WithRecorder(r metrics.Recorder) *Service {
	if r != nil {
		s.recorder = r
	}
	return s
}

// WithEventStore records build events in store. Store failures are logged and
// never fail the build.
func (s *Service) WithEventStore(store eventstore.Store) *Service {
	s.store = store
	return s
}

func (s *Service) WithPublisher(p notify.Publisher) *Service {
	if p != nil {
		s.publisher = p
	}
	return s
}

func (s *Service) WithLogger(l *slog.Logger) *Service {
	s.log = observability.NewLogger(l)
	return s
}

// WithClock replaces the time source and build ID generator (for testing).
func (s *Service) WithClock(now func() time.Time, newID func() string) *Service {
	if now != nil {
		s.now = now
	}
	if newID != nil {
		s.newID = newID
	}
	return s
}

// Build runs a build of cfg with a default Service.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	return NewService().Run(ctx, Request{Config: cfg, Options: opts})
}

// run carries the state of one build between stages.
type run struct {
	req    Request
	cfg    *config.Config
	result *Result
	nav    *navigation.NavModel
	home   *homepage.Page
}

// Run executes the build stages in order. The first fatal error stops the build
// and is returned together with the partial result. req.Config is finalized in
// place.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	start := s.now()
	r := &run{req: req, cfg: req.Config, result: &Result{
		BuildID:   s.newID(),
		StartTime: start,
	}}
	ctx = observability.WithBuildID(ctx, r.result.BuildID)
	if req.Options.Trigger != "" {
		ctx = observability.WithTrigger(ctx, req.Options.Trigger)
	}

	if r.cfg == nil {
		return s.fail(ctx, r, StageConfig, errors.ConfigError("config required").Build())
	}

	s.log.Info(ctx, "Build started", logfields.Config(req.ConfigPath))
	started, err := eventstore.NewBuildStarted(r.result.BuildID, eventstore.BuildStartedData{
		Config:  req.ConfigPath,
		Site:    r.cfg.Site.Title,
		DocsDir: r.cfg.Docs.Dir,
		Trigger: req.Options.Trigger,
	})
	s.append(ctx, started, err)

	stages := []struct {
		name string
		fn   func(context.Context, *run) error
	}{
		{StageConfig, s.validateConfig},
		{StageContent, s.loadContent},
		{StageLinks, s.checkBodyLinks},
		{StageNavigation, s.buildNavigation},
		{StageHome, s.composeHome},
		{StageAnnouncement, s.checkAnnouncement},
		{StageBundle, s.assembleBundle},
		{StageWrite, s.writeBundle},
	}
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return s.fail(ctx, r, st.name, err)
		}
		stageCtx := observability.WithStage(ctx, st.name)
		stageStart := time.Now()
		warningsBefore := r.result.Warnings()

		err := st.fn(stageCtx, r)
		s.recorder.ObserveStageDuration(st.name, time.Since(stageStart))
		if err != nil {
			return s.fail(stageCtx, r, st.name, err)
		}
		if r.result.Warnings() > warningsBefore {
			s.recorder.IncStageResult(st.name, metrics.ResultWarning)
		} else {
			s.recorder.IncStageResult(st.name, metrics.ResultSuccess)
		}
		s.log.Debug(stageCtx, "Stage complete", logfields.Duration(time.Since(stageStart)))
	}

	return s.complete(ctx, r)
}

func (s *Service) validateConfig(_ context.Context, r *run) error {
	return config.Finalize(r.cfg)
}

// DiscoveryOptions returns the content discovery options a build of cfg uses.
func DiscoveryOptions(cfg *config.Config, opts Options) docs.Options {
	dir := cfg.Docs.Dir
	if !filepath.IsAbs(dir) && opts.BaseDir != "" {
		dir = filepath.Join(opts.BaseDir, dir)
	}
	return docs.Options{
		Dir:            dir,
		EditURL:        cfg.Docs.EditURL,
		EditPathPrefix: cfg.Docs.Dir,
		Route: docs.RouteOptions{
			BasePath:      cfg.Docs.RouteBasePath,
			TrailingSlash: cfg.Site.TrailingSlash,
		},
		GitMeta:       cfg.Docs.GitMeta || opts.GitMeta,
		IncludeDrafts: opts.IncludeDrafts,
	}
}

func (s *Service) loadContent(ctx context.Context, r *run) error {
	dopts := DiscoveryOptions(r.cfg, r.req.Options)
	discovery := docs.NewDiscovery(dopts, s.log.Base())

	idx, diags, err := discovery.Discover(ctx)
	r.result.Diagnostics = append(r.result.Diagnostics, diags...)
	if err != nil {
		return err
	}
	r.result.Content = idx
	r.result.ContentHash = idx.Hash()
	s.recorder.SetDocuments(idx.Len())
	s.log.Info(ctx, "Content discovered", logfields.Count(idx.Len()), logfields.Path(dopts.Dir))
	return nil
}

func (s *Service) checkBodyLinks(_ context.Context, r *run) error {
	for _, l := range docs.BrokenLinks(r.result.Content) {
		err := applyPolicy(r.cfg.Site.OnBrokenLinks, &r.result.Diagnostics, l.Source, l.Destination,
			"link %q does not resolve to a document", l.Destination)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) buildNavigation(ctx context.Context, r *run) error {
	model, diags, err := navigation.NewBuilder(r.result.Content).Build(navigation.DeclarationFrom(r.cfg))
	r.result.Diagnostics = append(r.result.Diagnostics, diags...)
	if err != nil {
		return err
	}
	r.nav = model

	referenced := model.ReferencedDocuments()
	for _, d := range r.result.Content.Documents() {
		if !referenced[d.ID] {
			r.result.Diagnostics.Info(diag.CodeUnreferencedDoc, d.SourcePath, "document %q is not in any sidebar", d.ID)
		}
	}

	ev, err := eventstore.NewNavigationBuilt(r.result.BuildID, eventstore.NavigationBuiltData{
		Documents:     r.result.Content.Len(),
		Sidebars:      len(model.Sidebars),
		SidebarItems:  model.CountItems(),
		NavbarEntries: len(model.Navbar),
		FooterColumns: len(model.Footer),
		Warnings:      diags.Count(diag.SeverityWarning),
	})
	s.append(ctx, ev, err)
	s.log.Info(ctx, "Navigation built", logfields.Count(len(model.Sidebars)))
	return nil
}

func (s *Service) composeHome(ctx context.Context, r *run) error {
	page, err := homepage.ComposePage(r.cfg.Home, r.result.Content)
	if err != nil {
		return err
	}
	r.home = page
	ev, err := eventstore.NewPageComposed(r.result.BuildID, page.Kinds())
	s.append(ctx, ev, err)
	return nil
}

func (s *Service) checkAnnouncement(_ context.Context, r *run) error {
	bar := r.cfg.Theme.Announcement
	if bar == nil || bar.Content == "" {
		return nil
	}
	broken, err := linkverify.BrokenLinks(bar.Content, r.cfg.Site.URL, r.cfg.Site.BaseURL, r.result.Content)
	if err != nil {
		return err
	}
	for _, l := range broken {
		if err := applyPolicy(r.cfg.Site.OnBrokenLinks, &r.result.Diagnostics, AnnouncementPath, l.URL,
			"link %q does not resolve to a route", l.URL); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) assembleBundle(_ context.Context, r *run) error {
	b := &Bundle{
		Site:       NewSiteMetadata(r.cfg, r.result.StartTime.Year()),
		Navigation: r.nav,
		Home:       r.home,
		Manifest:   NewManifest(r.result.Content),
	}
	hash, err := b.Hash()
	if err != nil {
		return err
	}
	r.result.Bundle = b
	r.result.BundleHash = hash
	return nil
}

func (s *Service) writeBundle(ctx context.Context, r *run) error {
	if !r.req.Options.Write {
		return nil
	}
	dir := r.req.Options.OutputDir
	if dir == "" {
		dir = r.cfg.Output.Directory
		if !filepath.IsAbs(dir) && r.req.Options.BaseDir != "" {
			dir = filepath.Join(r.req.Options.BaseDir, dir)
		}
	}
	guard := CleanGuard{
		Sources: []string{DiscoveryOptions(r.cfg, r.req.Options).Dir},
		Keep:    []string{r.req.Options.BaseDir},
	}
	if r.req.ConfigPath != "" {
		guard.Keep = append(guard.Keep, filepath.Dir(r.req.ConfigPath))
	}
	if err := WriteBundleGuarded(r.result.Bundle, dir, r.cfg.Output.Clean, guard); err != nil {
		return err
	}
	r.result.OutputPath = dir
	s.log.Info(ctx, "Bundle written", logfields.Output(dir))
	return nil
}

func (s *Service) complete(ctx context.Context, r *run) (*Result, error) {
	res := r.result
	res.Status = StatusSuccess
	s.finish(res)

	outcome := metrics.BuildOutcomeSuccess
	if res.Warnings() > 0 {
		outcome = metrics.BuildOutcomeWarning
	}
	s.recorder.IncBuildOutcome(outcome)

	ev, err := eventstore.NewBuildCompleted(res.BuildID, eventstore.BuildCompletedData{
		Documents:   res.Content.Len(),
		Warnings:    res.Warnings(),
		Output:      res.OutputPath,
		BundleHash:  res.BundleHash,
		ContentHash: res.ContentHash,
		Duration:    res.Duration,
	})
	s.append(ctx, ev, err)
	s.publish(ctx, notify.Message{
		BuildID:     res.BuildID,
		Outcome:     notify.OutcomeCompleted,
		Site:        r.cfg.Site.Title,
		Documents:   res.Content.Len(),
		Warnings:    res.Warnings(),
		Output:      res.OutputPath,
		DurationMS:  res.Duration.Milliseconds(),
		Timestamp:   res.EndTime.UTC(),
		BundleHash:  res.BundleHash,
		ContentHash: res.ContentHash,
	})
	s.log.Info(ctx, "Build completed",
		logfields.Count(res.Content.Len()),
		slog.Int("warnings", res.Warnings()),
		logfields.Duration(res.Duration))
	return res, nil
}

func (s *Service) fail(ctx context.Context, r *run, stage string, err error) (*Result, error) {
	res := r.result
	res.FailedStage = stage
	res.Status = StatusFailed
	result, outcome := metrics.ResultFatal, metrics.BuildOutcomeFailed
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		res.Status = StatusCanceled
		result, outcome = metrics.ResultCanceled, metrics.BuildOutcomeCanceled
	}
	s.finish(res)
	s.recorder.IncStageResult(stage, result)
	s.recorder.IncBuildOutcome(outcome)

	category := ""
	if ce, ok := errors.AsClassified(err); ok {
		category = string(ce.Category())
	}
	// Use a fresh context so a canceled build is still recorded.
	bg := context.WithoutCancel(ctx)
	ev, evErr := eventstore.NewBuildFailed(res.BuildID, eventstore.BuildFailedData{
		Stage:    stage,
		Error:    err.Error(),
		Category: category,
	})
	s.append(bg, ev, evErr)
	site := ""
	if r.cfg != nil {
		site = r.cfg.Site.Title
	}
	s.publish(bg, notify.Message{
		BuildID:    res.BuildID,
		Outcome:    notify.OutcomeFailed,
		Site:       site,
		Error:      err.Error(),
		DurationMS: res.Duration.Milliseconds(),
		Timestamp:  res.EndTime.UTC(),
	})
	s.log.Error(ctx, "Build failed", logfields.Error(err))
	return res, err
}

func (s *Service) finish(res *Result) {
	res.EndTime = s.now()
	res.Duration = res.EndTime.Sub(res.StartTime)
	s.recorder.ObserveBuildDuration(res.Duration)
	s.recorder.AddDiagnostics(diag.SeverityWarning.String(), res.Diagnostics.Count(diag.SeverityWarning))
	s.recorder.AddDiagnostics(diag.SeverityInfo.String(), res.Diagnostics.Count(diag.SeverityInfo))
	s.recorder.AddDiagnostics(diag.SeverityError.String(), res.Diagnostics.Count(diag.SeverityError))
}

// append stores ev when an event store is configured.
func (s *Service) append(ctx context.Context, ev eventstore.Event, err error) {
	if s.store == nil {
		return
	}
	if err == nil {
		err = s.store.Append(ctx, ev)
	}
	if err != nil {
		s.log.Warn(ctx, "Failed to record build event", logfields.Error(err))
	}
}

func (s *Service) publish(ctx context.Context, msg notify.Message) {
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.log.Warn(ctx, "Failed to publish build notification", logfields.Error(err))
	}
}

// applyPolicy reports one broken link under policy: a warning, nothing, or a
// DanglingReference error.
func applyPolicy(policy config.BrokenLinkPolicy, diags *diag.List, path, dest, format string, args ...any) error {
	switch policy {
	case config.BrokenLinksIgnore:
		return nil
	case config.BrokenLinksThrow:
		return serrors.DanglingReference(dest, path)
	default:
		diags.Warn(diag.CodeBrokenLink, path, format, args...)
		return nil
	}
}
