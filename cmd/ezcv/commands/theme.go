package commands

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"github.com/Descent098/ezcv/internal/config"
	"github.com/Descent098/ezcv/internal/foundation/errors"
	"github.com/Descent098/ezcv/internal/section"
	"github.com/Descent098/ezcv/internal/theme"
)

// ThemeCmd implements the 'theme' command.
type ThemeCmd struct {
	Name       string `arg:"" optional:"" help:"Theme name or URL; defaults to the configured theme"`
	List       bool   `short:"l" help:"List installed themes" xor:"action"`
	Copy       bool   `help:"Copy the theme into ./themes for customisation" xor:"action"`
	Metadata   bool   `short:"m" help:"Describe the theme's sections and required config" xor:"action"`
	Regenerate bool   `help:"Rebuild metadata.yml from the theme and content (with --metadata)"`
}

func (c *ThemeCmd) Run(_ *Global, root *CLI) error {
	cfg, paths, err := loadSite(root)
	if err != nil {
		return err
	}
	if c.List || (!c.Copy && !c.Metadata) {
		return listThemes(paths, cfg)
	}

	name := c.Name
	if name == "" {
		name = cfg.Theme()
	}
	dir, err := theme.NewLocator(root.Root, paths, nil).Locate(context.Background(), name, cfg)
	if err != nil {
		return err
	}
	if c.Copy {
		dst, err := theme.Copy(dir, root.Root)
		if err != nil {
			return err
		}
		fmt.Printf("Copied theme %s to %s\n", name, dst)
		return nil
	}

	m, err := theme.Generate(dir, filepath.Join(root.Root, section.ContentDir), c.Regenerate)
	if err != nil {
		return err
	}
	fmt.Print(theme.Describe(m))
	return nil
}

func listThemes(paths config.Paths, cfg *config.SiteConfig) error {
	names, err := theme.List(paths.ThemesRoot)
	if err != nil {
		return err
	}
	if len(names) == 0 && len(cfg.Remotes()) == 0 {
		return errors.NewError(errors.CategoryNotFound, "no themes installed").
			WithContext("path", paths.ThemesRoot).
			WithHint("set " + config.EnvThemesRoot + " or add remotes to " + paths.RemotesFile).Build()
	}
	fmt.Println("Installed themes:")
	for _, n := range names {
		marker := " "
		if n == cfg.Theme() {
			marker = "*"
		}
		fmt.Printf(" %s %s\n", marker, n)
	}
	if remotes := cfg.Remotes(); len(remotes) > 0 {
		fmt.Println("Remote themes:")
		for _, n := range slices.Sorted(maps.Keys(remotes)) {
			fmt.Printf("   %s (%s)\n", n, remotes[n])
		}
	}
	return nil
}
