package theme

import (
	"context"
	"log/slog"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/Descent098/ezcv/internal/config"
	"github.com/Descent098/ezcv/internal/foundation/errors"
	"github.com/Descent098/ezcv/internal/fsutil"
	"github.com/Descent098/ezcv/internal/logfields"
)

// Locator resolves a theme name or URL to a directory.
type Locator struct {
	// Root is the site directory; relative lookups start here.
	Root string
	// ThemesRoot is the bundled theme library.
	ThemesRoot string
	Fetcher    *Fetcher
}

// NewLocator returns a Locator for the site at root using the generator paths.
func NewLocator(root string, paths config.Paths, fetcher *Fetcher) *Locator {
	if fetcher == nil {
		fetcher = NewFetcher(paths.ThemesRoot)
	}
	return &Locator{Root: root, ThemesRoot: paths.ThemesRoot, Fetcher: fetcher}
}

// Locate resolves name, first match wins:
//  1. <root>/<name>
//  2. <root>/themes/<name>
//  3. <themes root>/<name>
//  4. a remote registered under name, fetched into the themes root
//  5. name as an http(s) or git URL, fetched into the themes root
func (l *Locator) Locate(ctx context.Context, name string, cfg *config.SiteConfig) (string, error) {
	if name == "" {
		return "", errors.ThemeNotFound(name)
	}
	root, err := filepath.Abs(l.Root)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve site root").Build()
	}

	candidates := []string{filepath.Join(root, name), filepath.Join(root, "themes", name)}
	if l.ThemesRoot != "" {
		candidates = append(candidates, filepath.Join(l.ThemesRoot, name))
	}
	if !isRemoteURL(name) {
		for _, dir := range candidates {
			if fsutil.IsDir(dir) {
				slog.Debug("Resolved theme", logfields.Theme(name), logfields.Path(dir))
				return dir, nil
			}
		}
	}

	if cfg != nil {
		if remote, ok := cfg.Remotes()[name]; ok {
			return l.Fetcher.Fetch(ctx, name, remote)
		}
	}
	if isRemoteURL(name) {
		return l.Fetcher.Fetch(ctx, NameFromURL(name), name)
	}
	return "", errors.ThemeNotFound(name)
}

// NameFromURL derives a theme name from the last path segment of a URL,
// without a .zip or .git suffix. URLs with no usable segment yield "".
func NameFromURL(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		p = u.Path
	}
	base := path.Base(strings.TrimSuffix(p, "/"))
	base = strings.TrimSuffix(base, ".zip")
	base = strings.TrimSuffix(base, ".git")
	if !validThemeName(base) {
		return ""
	}
	return base
}

func validThemeName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

func isRemoteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "git@")
}
