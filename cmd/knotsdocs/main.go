package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/studyknots/knotsdocs/cmd/knotsdocs/commands"
	"github.com/studyknots/knotsdocs/internal/foundation/errors"
	"github.com/studyknots/knotsdocs/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("knotsdocs"),
		kong.Description("Builds the Study Knots documentation site bundle."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	err := parser.Run(commands.NewGlobal(), cli)
	os.Exit(errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Report(err))
}
