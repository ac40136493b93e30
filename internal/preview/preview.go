// Package preview rebuilds the site bundle whenever the docs tree or the
// configuration file changes.
package preview

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"github.com/studyknots/knotsdocs/internal/config"
	"github.com/studyknots/knotsdocs/internal/docs"
	"github.com/studyknots/knotsdocs/internal/logfields"
	"github.com/studyknots/knotsdocs/internal/metrics"
	"github.com/studyknots/knotsdocs/internal/site"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 300 * time.Millisecond

// Triggers recorded on preview builds.
const (
	TriggerInitial = "preview-initial"
	TriggerChange  = "preview"
	TriggerPoll    = "poll"
)

// Options configures a preview session.
type Options struct {
	ConfigPath string
	// Build is passed to every build. Trigger is set per rebuild.
	Build site.Options
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// PollInterval enables a periodic rebuild check; zero disables it.
	PollInterval time.Duration
	// OnRebuild is called after every rebuild attempt, skipped ones included.
	OnRebuild func(Outcome)
}

// Outcome describes one rebuild attempt.
type Outcome struct {
	Trigger string
	Skipped bool
	Result  *site.Result
	Err     error
}

// Session owns the rebuild state of one preview run. Rebuilds are serialized.
type Session struct {
	opts     Options
	service  *site.Service
	recorder metrics.Recorder
	logger   *slog.Logger

	mu      sync.Mutex
	lastKey string
}

// NewSession creates a session that builds through service.
func NewSession(service *site.Service, opts Options, recorder metrics.Recorder, logger *slog.Logger) *Session {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{opts: opts, service: service, recorder: recorder, logger: logger}
}

// Rebuild reloads the configuration and rebuilds unless neither the configuration
// nor the content set changed since the last successful build. force always
// rebuilds.
func (s *Session) Rebuild(ctx context.Context, trigger string, force bool) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.rebuildLocked(ctx, trigger, force)
	if s.opts.OnRebuild != nil {
		s.opts.OnRebuild(out)
	}
	return out
}

func (s *Session) rebuildLocked(ctx context.Context, trigger string, force bool) Outcome {
	out := Outcome{Trigger: trigger}

	cfg, err := config.Load(s.opts.ConfigPath)
	if err != nil {
		out.Err = err
		s.logger.Warn("Preview config reload failed", logfields.Config(s.opts.ConfigPath), logfields.Error(err))
		return out
	}
	// A discovery failure leaves key empty; the build reports it.
	key, _ := s.contentKey(ctx, cfg)
	if !force && key != "" && key == s.lastKey {
		out.Skipped = true
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeSkipped)
		s.logger.Debug("Content unchanged; rebuild skipped", slog.String("trigger", trigger))
		return out
	}

	opts := s.opts.Build
	opts.Trigger = trigger
	out.Result, out.Err = s.service.Run(ctx, site.Request{Config: cfg, ConfigPath: s.opts.ConfigPath, Options: opts})
	if out.Err != nil {
		s.lastKey = ""
		s.logger.Warn("Rebuild failed", logfields.Error(out.Err))
		return out
	}
	s.lastKey = key
	return out
}

// contentKey digests the configuration and the content set fingerprints.
func (s *Session) contentKey(ctx context.Context, cfg *config.Config) (string, error) {
	raw, err := config.Marshal(cfg, config.FormatYAML)
	if err != nil {
		return "", err
	}
	idx, _, err := docs.NewDiscovery(site.DiscoveryOptions(cfg, s.opts.Build), nil).Discover(ctx)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write(raw)
	h.Write([]byte(idx.Hash()))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Run performs an initial build, then rebuilds on changes until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	configPath, err := filepath.Abs(s.opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	docsDir, err := filepath.Abs(site.DiscoveryOptions(cfg, s.opts.Build).Dir)
	if err != nil {
		return fmt.Errorf("resolve docs dir: %w", err)
	}

	s.Rebuild(ctx, TriggerInitial, true)

	watcher, err := newWatcher(configPath, docsDir)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	rebuildReq, trigger := debouncer(s.opts.Debounce)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildReq:
				s.Rebuild(ctx, TriggerChange, false)
			}
		}
	}()

	if s.opts.PollInterval > 0 {
		scheduler, err := s.schedulePoll(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = scheduler.Shutdown() }()
	}

	s.logger.Info("Watching for changes", logfields.Path(docsDir), logfields.Config(configPath))
	relevant := func(name string) bool {
		name = filepath.Clean(name)
		return name == configPath || name == docsDir || strings.HasPrefix(name, docsDir+string(filepath.Separator))
	}
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Preview stopped")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if shouldIgnoreEvent(ev.Name) || !relevant(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					addDirsRecursive(watcher, ev.Name, s.logger)
				}
			}
			s.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (s *Session) schedulePoll(ctx context.Context) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create poll scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(s.opts.PollInterval),
		gocron.NewTask(func() { s.Rebuild(ctx, TriggerPoll, false) }),
		gocron.WithName("preview-poll"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("failed to schedule poll rebuild: %w", err)
	}
	scheduler.Start()
	return scheduler, nil
}

// newWatcher watches the docs tree recursively and the directory holding the
// config file, so a config replaced by rename is still seen.
func newWatcher(configPath, docsDir string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch config dir: %w", err)
	}
	addDirsRecursive(watcher, docsDir, slog.Default())
	return watcher, nil
}

// debouncer returns a request channel and a trigger that sends on it once
// changes have been quiet for d.
func debouncer(d time.Duration) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	req := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case req <- struct{}{}:
			default:
			}
		})
	}
	return req, trigger
}

func addDirsRecursive(w *fsnotify.Watcher, root string, logger *slog.Logger) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent reports hidden, editor swap and lock files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}
