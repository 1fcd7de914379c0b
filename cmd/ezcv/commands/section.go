package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Descent098/ezcv/internal/foundation/errors"
	"github.com/Descent098/ezcv/internal/section"
	"github.com/Descent098/ezcv/internal/theme"
)

// SectionCmd implements the 'section' command.
type SectionCmd struct {
	Name string `arg:"" help:"Section name, used as the content directory"`
	Type string `short:"t" help:"Section type when the theme does not define it" placeholder:"markdown|gallery|blog"`
}

func (s *SectionCmd) Run(_ *Global, root *CLI) error {
	cfg, paths, err := loadSite(root)
	if err != nil {
		return err
	}
	dir, err := theme.NewLocator(root.Root, paths, nil).Locate(context.Background(), cfg.Theme(), cfg)
	if err != nil {
		return err
	}
	m, err := theme.Generate(dir, filepath.Join(root.Root, section.ContentDir), false)
	if err != nil {
		return err
	}

	spec, ok := m.Sections[s.Name]
	if s.Type != "" {
		if spec.Type, err = theme.ParseSectionType(s.Type); err != nil {
			return err
		}
	} else if !ok {
		return errors.ValidationError("theme has no section with this name").
			WithContext("section", s.Name).WithContext("theme", m.Name).
			WithHint("pass --type to create it anyway").Build()
	}

	created, err := section.Scaffold(root.Root, s.Name, spec, time.Now().Format("2006-01-02"))
	if err != nil {
		return err
	}
	fmt.Printf("Created %s\n", created)
	return nil
}
