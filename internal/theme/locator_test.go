package theme

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Descent098/ezcv/internal/config"
	"github.com/Descent098/ezcv/internal/foundation/errors"
)

func TestLocate_ResolutionOrder(t *testing.T) {
	site := t.TempDir()
	paths := config.PathsFor(t.TempDir())
	l := NewLocator(site, paths, &Fetcher{ThemesRoot: paths.ThemesRoot})

	mkfile(t, filepath.Join(paths.ThemesRoot, "base", IndexPage), "lib")
	dir, err := l.Locate(t.Context(), "base", nil)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(paths.ThemesRoot, "base"), dir)

	mkfile(t, filepath.Join(site, "themes", "base", IndexPage), "themes")
	dir, err = l.Locate(t.Context(), "base", nil)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(site, "themes", "base"), dir)

	mkfile(t, filepath.Join(site, "base", IndexPage), "cwd")
	dir, err = l.Locate(t.Context(), "base", nil)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(site, "base"), dir)
}

func TestLocate_RemoteRegistryAndURL(t *testing.T) {
	srv, hits := serveZip(t, zipBytes(t, map[string]string{"index.gohtml": "<html></html>"}))
	paths := config.PathsFor(t.TempDir())
	l := NewLocator(t.TempDir(), paths, &Fetcher{ThemesRoot: paths.ThemesRoot, Client: srv.Client()})

	cfg := config.New(map[string]any{"theme": "neon"}, map[string]string{"neon": srv.URL + "/download"})
	dir, err := l.Locate(t.Context(), "neon", cfg)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(paths.ThemesRoot, "neon"), dir)

	dir, err = l.Locate(t.Context(), srv.URL+"/themes/dusk.zip", cfg)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(paths.ThemesRoot, "dusk"), dir)
	require.Equal(t, int32(2), hits.Load())

	// Installed remotes resolve from the library without another download.
	_, err = l.Locate(t.Context(), "neon", cfg)
	require.NoError(t, err)
	require.Equal(t, int32(2), hits.Load())
}

func TestLocate_NotFound(t *testing.T) {
	paths := config.PathsFor(t.TempDir())
	l := NewLocator(t.TempDir(), paths, nil)
	_, err := l.Locate(t.Context(), "nope", config.New(nil, nil))
	require.Error(t, err)
	require.True(t, errors.HasCode(err, errors.CodeThemeNotFound))
}

func TestNameFromURL(t *testing.T) {
	require.Equal(t, "dusk", NameFromURL("https://example.com/themes/dusk.zip"))
	require.Equal(t, "paper", NameFromURL("https://github.com/u/paper.git"))
	require.Equal(t, "main", NameFromURL("https://example.com/archive/main.zip?dl=1"))
	require.Equal(t, "neon", NameFromURL("https://example.com/neon/"))
	require.Empty(t, NameFromURL("https://example.com/"))
	require.Empty(t, NameFromURL("https://example.com/.."))
}

func TestLocate_URLWithoutName(t *testing.T) {
	paths := config.PathsFor(t.TempDir())
	root := paths.ThemesRoot
	l := NewLocator(t.TempDir(), paths, &Fetcher{ThemesRoot: root})

	_, err := l.Locate(t.Context(), "https://example.com/", nil)
	require.Error(t, err)
	require.True(t, errors.HasCode(err, errors.CodeThemeNotFound))
	require.NoDirExists(t, root)
}
