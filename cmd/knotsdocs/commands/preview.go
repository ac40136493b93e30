package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/studyknots/knotsdocs/internal/config"
	"github.com/studyknots/knotsdocs/internal/preview"
	"github.com/studyknots/knotsdocs/internal/site"
)

// PreviewCmd implements the 'preview' command.
type PreviewCmd struct {
	Output   string        `short:"o" help:"Output directory for the bundle (overrides output.directory)"`
	Drafts   bool          `name:"drafts" help:"Include documents marked draft"`
	Debounce time.Duration `name:"debounce" help:"Quiet period before a rebuild" default:"300ms"`
	Poll     time.Duration `name:"poll" help:"Also check for changes at this interval (for filesystems without change events)"`
}

func (p *PreviewCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	rt, err := newRuntime(g, root, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	session := preview.NewSession(rt.service, preview.Options{
		ConfigPath: root.Config,
		Build: site.Options{
			BaseDir:       baseDir(root.Config),
			OutputDir:     p.Output,
			Write:         true,
			IncludeDrafts: p.Drafts,
		},
		Debounce:     p.Debounce,
		PollInterval: p.Poll,
		OnRebuild:    func(o preview.Outcome) { reportRebuild(g, o) },
	}, rt.recorder, g.Logger)

	fmt.Fprintln(g.Out, "Watching for changes (Ctrl+C to stop)")
	return session.Run(ctx)
}

func reportRebuild(g *Global, o preview.Outcome) {
	switch {
	case o.Skipped:
		return
	case o.Err != nil:
		fmt.Fprintf(g.Out, "[%s] build failed: %v\n", o.Trigger, o.Err)
	default:
		fmt.Fprintf(g.Out, "[%s] built %d documents into %s (%d warnings)\n",
			o.Trigger, o.Result.Content.Len(), o.Result.OutputPath, o.Result.Warnings())
	}
}
