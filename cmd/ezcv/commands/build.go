package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Descent098/ezcv/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output   string   `arg:"" optional:"" help:"Output directory, relative to the site directory" default:"site"`
	Theme    string   `short:"t" help:"Override the configured theme"`
	Sections []string `short:"s" help:"Only render these sections"`
	Preview  bool     `short:"p" help:"Rescan theme sections on every build and open the result in a browser"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunBuild(ctx, b.options(root))
}

func (b *BuildCmd) options(root *CLI) site.Options {
	return site.Options{
		Root:       root.Root,
		ConfigPath: root.ConfigPath(),
		Output:     b.Output,
		Theme:      b.Theme,
		Sections:   b.Sections,
		Preview:    b.Preview,
		Open:       b.Preview,
		Progress:   os.Stderr,
	}
}

// RunBuild generates the site and prints the build summary.
func RunBuild(ctx context.Context, opts site.Options) error {
	report, err := site.Generate(ctx, opts)
	if err != nil {
		return err
	}
	fmt.Println(report.Summary())
	return nil
}
