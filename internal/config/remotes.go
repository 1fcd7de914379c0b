package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Descent098/ezcv/internal/foundation/errors"
)

// LoadRemotes reads a name → URL registry. A missing file is an empty registry.
func LoadRemotes(path string) (map[string]string, error) {
	out := map[string]string{}
	if path == "" {
		return out, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return out, nil
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read remote theme registry").
			WithContext("path", path).Build()
	}
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse remote theme registry").
			WithContext("path", path).Build()
	}
	for name, url := range raw {
		out[name] = fmt.Sprint(url)
	}
	return out, nil
}
