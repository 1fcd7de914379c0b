package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/Descent098/ezcv/cmd/ezcv/commands"
	"github.com/Descent098/ezcv/internal/config"
	"github.com/Descent098/ezcv/internal/foundation/errors"
	"github.com/Descent098/ezcv/internal/logfields"
	"github.com/Descent098/ezcv/internal/version"
)

func main() {
	if name, err := config.LoadEnv(); err != nil {
		slog.Warn("Failed to load environment file", logfields.File(name), logfields.Error(err))
	}

	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("ezcv"),
		kong.Description("Build personal websites from markdown content and themes."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	err := parser.Run(&commands.Global{Logger: slog.Default()}, cli)
	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
