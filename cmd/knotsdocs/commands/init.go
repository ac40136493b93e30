package commands

import (
	"fmt"

	"github.com/studyknots/knotsdocs/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	return RunInit(g, root.Config, i.Force)
}

func RunInit(g *Global, configPath string, force bool) error {
	fmt.Fprintln(g.Out, "Initializing knotsdocs project")
	fmt.Fprintf(g.Out, "Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		fmt.Fprintln(g.Out, "Initialization failed")
		return err
	}
	fmt.Fprintln(g.Out, "initialized successfully")
	return nil
}
