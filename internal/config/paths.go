package config

import (
	"os"
	"path/filepath"
)

const (
	EnvHome       = "EZCV_HOME"
	EnvThemesRoot = "EZCV_THEMES_ROOT"
)

// Paths locates the generator's own data: the bundled theme library and the
// remote theme registry.
type Paths struct {
	Home        string
	ThemesRoot  string
	RemotesFile string
}

// DefaultPaths resolves Paths from the environment, falling back to
// <user config dir>/ezcv.
func DefaultPaths() (Paths, error) {
	home := os.Getenv(EnvHome)
	if home == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return Paths{}, err
		}
		home = filepath.Join(dir, "ezcv")
	}
	p := PathsFor(home)
	if root := os.Getenv(EnvThemesRoot); root != "" {
		p.ThemesRoot = root
	}
	return p, nil
}

// PathsFor lays out Paths under a single home directory.
func PathsFor(home string) Paths {
	return Paths{
		Home:        home,
		ThemesRoot:  filepath.Join(home, "themes"),
		RemotesFile: filepath.Join(home, "remotes.yml"),
	}
}
