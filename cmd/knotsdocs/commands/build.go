package commands

import (
	"context"
	"fmt"

	"github.com/studyknots/knotsdocs/internal/config"
	"github.com/studyknots/knotsdocs/internal/site"
)

// TriggerCLI is recorded on builds started from the command line.
const TriggerCLI = "cli"

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory for the bundle (overrides output.directory)"`
	Drafts bool   `name:"drafts" help:"Include documents marked draft"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	res, err := RunBuild(context.Background(), g, root, cfg, site.Options{
		BaseDir:       baseDir(root.Config),
		OutputDir:     b.Output,
		Write:         true,
		Trigger:       TriggerCLI,
		IncludeDrafts: b.Drafts,
	})
	if err != nil {
		fmt.Fprintln(g.Out, "Build failed")
		return err
	}
	fmt.Fprintf(g.Out, "Built %d documents into %s (%d warnings)\n", res.Content.Len(), res.OutputPath, res.Warnings())
	fmt.Fprintf(g.Out, "Bundle %s\n", res.BundleHash)
	return nil
}

// RunBuild runs one build of cfg with the collaborators root and cfg enable.
func RunBuild(ctx context.Context, g *Global, root *CLI, cfg *config.Config, opts site.Options) (*site.Result, error) {
	rt, err := newRuntime(g, root, cfg)
	if err != nil {
		return nil, err
	}
	defer rt.Close()
	return rt.service.Run(ctx, site.Request{Config: cfg, ConfigPath: root.Config, Options: opts})
}
