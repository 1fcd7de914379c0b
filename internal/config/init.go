package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Descent098/ezcv/internal/foundation/errors"
)

const exampleProject = `---
title: Example project
image: example.jpg
link: https://example.com
---
Files whose names start with "example" are skipped unless ` + "`examples: true`" + ` is set.
`

// Init scaffolds a new site in dir: config.yml, content/ and images/.
func Init(dir, name, theme string, force bool) error {
	if name == "" {
		name = DefaultName
	}
	if theme == "" {
		theme = DefaultTheme
	}
	configPath := filepath.Join(dir, DefaultFile)
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).Build()
	}

	for _, sub := range []string{"content/projects", "images"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create site directory").
				WithContext("path", sub).Build()
		}
	}

	data, err := yaml.Marshal(map[string]any{
		"name":             name,
		"theme":            theme,
		"resume":           false,
		"examples":         false,
		"ignore_exif_data": false,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append([]byte("# See https://ezcv.readthedocs.io for documentation\n"), data...)
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	example := filepath.Join(dir, "content", "projects", "example-project.md")
	if _, err := os.Stat(example); os.IsNotExist(err) {
		if err := os.WriteFile(example, []byte(exampleProject), 0o600); err != nil {
			return fmt.Errorf("failed to write example content: %w", err)
		}
	}
	return nil
}
