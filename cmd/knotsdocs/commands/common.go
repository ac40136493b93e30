package commands

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/studyknots/knotsdocs/internal/config"
	"github.com/studyknots/knotsdocs/internal/eventstore"
	"github.com/studyknots/knotsdocs/internal/logfields"
	"github.com/studyknots/knotsdocs/internal/metrics"
	"github.com/studyknots/knotsdocs/internal/notify"
	"github.com/studyknots/knotsdocs/internal/retry"
	"github.com/studyknots/knotsdocs/internal/site"
)

// Global is shared by every subcommand.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

// NewGlobal returns a Global writing to stdout with the default logger.
func NewGlobal() *Global {
	return &Global{Logger: slog.Default(), Out: os.Stdout}
}

// CLI definition & global flags.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path" default:"knotsdocs.yaml" type:"path"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`
	MetricsFile string           `name:"metrics-file" help:"Write build metrics to this Prometheus textfile"`

	Build   BuildCmd   `cmd:"" help:"Build the site bundle"`
	Check   CheckCmd   `cmd:"" help:"Build without writing and report diagnostics"`
	Inspect InspectCmd `cmd:"" help:"Print the resolved navigation tree"`
	Init    InitCmd    `cmd:"" help:"Write the built-in Study Knots configuration"`
	Preview PreviewCmd `cmd:"" help:"Rebuild the bundle whenever docs or config change"`
	History HistoryCmd `cmd:"" help:"List recorded builds from the history database"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// baseDir is the directory relative paths in the config resolve against.
func baseDir(configPath string) string {
	return filepath.Dir(configPath)
}

// resolvePath joins a relative path onto the config directory.
func resolvePath(configPath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir(configPath), p)
}

// runtime holds the optional build collaborators enabled by flags and config.
type runtime struct {
	service     *site.Service
	recorder    metrics.Recorder
	registry    *prom.Registry
	metricsFile string
	store       *eventstore.SQLiteStore
	publisher   notify.Publisher
	logger      *slog.Logger
}

// newRuntime wires metrics, build history and notifications into a build
// service. A NATS connection failure is logged and builds continue without
// notifications.
func newRuntime(g *Global, root *CLI, cfg *config.Config) (*runtime, error) {
	rt := &runtime{
		recorder:  metrics.NoopRecorder{},
		publisher: notify.Noop{},
		logger:    g.Logger,
	}

	rt.metricsFile = root.MetricsFile
	if rt.metricsFile == "" {
		rt.metricsFile = resolvePath(root.Config, cfg.Output.MetricsFile)
	}
	if rt.metricsFile != "" {
		rt.registry = prom.NewRegistry()
		rt.recorder = metrics.NewPrometheusRecorder(rt.registry)
	}

	if cfg.History.DBPath != "" {
		store, err := eventstore.NewSQLiteStore(resolvePath(root.Config, cfg.History.DBPath))
		if err != nil {
			return nil, err
		}
		rt.store = store
	}

	if cfg.Notify.Enabled() {
		pub, err := notify.NewNATSPublisher(cfg.Notify.NATSURL, cfg.Notify.Subject, g.Logger)
		if err != nil {
			g.Logger.Warn("Build notifications disabled", logfields.Error(err))
		} else {
			rt.publisher = pub.WithRetry(publishPolicy(cfg.Notify))
		}
	}

	rt.service = site.NewService().
		WithRecorder(rt.recorder).
		WithPublisher(rt.publisher).
		WithLogger(g.Logger)
	if rt.store != nil {
		rt.service.WithEventStore(rt.store)
	}
	return rt, nil
}

// Close flushes metrics and releases the store and publisher.
func (rt *runtime) Close() {
	if rt.registry != nil {
		if err := metrics.WriteTextfile(rt.metricsFile, rt.registry); err != nil {
			rt.logger.Warn("Failed to write metrics", logfields.Path(rt.metricsFile), logfields.Error(err))
		}
	}
	if err := rt.publisher.Close(); err != nil {
		rt.logger.Warn("Failed to close publisher", logfields.Error(err))
	}
	if rt.store != nil {
		if err := rt.store.Close(); err != nil {
			rt.logger.Warn("Failed to close history store", logfields.Error(err))
		}
	}
}

// publishPolicy is the retry policy for build notifications.
func publishPolicy(n config.NotifyConfig) retry.Policy {
	if n.Retries == nil {
		return retry.DefaultPolicy()
	}
	return retry.NewPolicy(retry.Exponential, 0, 0, *n.Retries)
}
