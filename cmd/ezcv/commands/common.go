package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/Descent098/ezcv/internal/config"
	"github.com/Descent098/ezcv/internal/foundation/errors"
)

// Global carries state shared by every subcommand.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command and its global flags.
type CLI struct {
	Root    string           `short:"C" help:"Site directory" default:"." type:"path"`
	Config  string           `short:"c" help:"Configuration file, relative to the site directory" default:"config.yml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init    InitCmd    `cmd:"" help:"Create a new site"`
	Build   BuildCmd   `cmd:"" help:"Build the site into a directory"`
	Theme   ThemeCmd   `cmd:"" help:"List, copy or describe themes"`
	Section SectionCmd `cmd:"" help:"Create a content section with an example file"`
	Preview PreviewCmd `cmd:"" help:"Serve the site locally and rebuild on changes"`
	Ver     VersionCmd `cmd:"" name:"version" help:"Print version information"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// ConfigPath resolves the configuration file against the site directory.
func (c *CLI) ConfigPath() string {
	if filepath.IsAbs(c.Config) {
		return c.Config
	}
	return filepath.Join(c.Root, c.Config)
}

// loadSite reads the site configuration together with the generator paths.
func loadSite(root *CLI) (*config.SiteConfig, config.Paths, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, paths, errors.WrapError(err, errors.CategoryConfig, "failed to resolve generator paths").Build()
	}
	cfg, err := config.Load(root.ConfigPath(), paths)
	if err != nil {
		return nil, paths, err
	}
	return cfg, paths, nil
}
