package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Descent098/ezcv/internal/config"
	"github.com/Descent098/ezcv/internal/foundation/errors"
	"github.com/Descent098/ezcv/internal/site"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

// newEnv installs a "base" theme in a private generator home and returns an
// empty site directory.
func newEnv(t *testing.T) (*CLI, string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvThemesRoot, "")
	dir := filepath.Join(home, "themes", "base")
	writeFile(t, filepath.Join(dir, "index.gohtml"), `<html><body>{{ .config.Name }}{{ .projects_html }}</body></html>`)
	writeFile(t, filepath.Join(dir, "sections", "projects.gohtml"), `{{ range .projects }}<h2>{{ .Meta.Get "title" }}</h2>{{ end }}`)

	root := t.TempDir()
	return &CLI{Root: root, Config: config.DefaultFile}, dir
}

func TestInitThenBuild(t *testing.T) {
	cli, _ := newEnv(t)
	require.NoError(t, (&InitCmd{Name: "Ada", Theme: "base"}).Run(&Global{}, cli))
	require.FileExists(t, filepath.Join(cli.Root, "config.yml"))
	require.DirExists(t, filepath.Join(cli.Root, "images"))

	writeFile(t, filepath.Join(cli.Root, "content", "projects", "engine.md"), "---\ntitle: Engine\n---\nnotes\n")
	require.NoError(t, (&BuildCmd{Output: site.DefaultOutput}).Run(&Global{}, cli))

	page, err := os.ReadFile(filepath.Join(cli.Root, site.DefaultOutput, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "Ada")
	assert.Contains(t, string(page), "<h2>Engine</h2>")
}

func TestInit_RefusesToOverwrite(t *testing.T) {
	cli, _ := newEnv(t)
	require.NoError(t, (&InitCmd{}).Run(&Global{}, cli))
	err := (&InitCmd{}).Run(&Global{}, cli)
	require.Error(t, err)
	assert.Equal(t, errors.CategoryValidation, errors.GetCategory(err))
	require.NoError(t, (&InitCmd{Force: true}).Run(&Global{}, cli))
}

func TestBuild_MissingConfig(t *testing.T) {
	cli, _ := newEnv(t)
	err := (&BuildCmd{Output: site.DefaultOutput}).Run(&Global{}, cli)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeConfigNotFound))
	assert.Equal(t, 7, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestSection_ScaffoldsFromThemeSchema(t *testing.T) {
	cli, _ := newEnv(t)
	require.NoError(t, (&InitCmd{Theme: "base"}).Run(&Global{}, cli))

	require.NoError(t, (&SectionCmd{Name: "projects"}).Run(&Global{}, cli))
	data, err := os.ReadFile(filepath.Join(cli.Root, "content", "projects", "example-projects.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "title:")

	err = (&SectionCmd{Name: "talks"}).Run(&Global{}, cli)
	require.Error(t, err)
	assert.Equal(t, errors.CategoryValidation, errors.GetCategory(err))

	require.NoError(t, (&SectionCmd{Name: "talks", Type: "gallery"}).Run(&Global{}, cli))
	assert.DirExists(t, filepath.Join(cli.Root, "content", "talks"))

	err = (&SectionCmd{Name: "misc", Type: "slideshow"}).Run(&Global{}, cli)
	require.Error(t, err)
}

func TestTheme_CopyAndMetadata(t *testing.T) {
	cli, _ := newEnv(t)
	require.NoError(t, (&InitCmd{Theme: "base"}).Run(&Global{}, cli))

	require.NoError(t, (&ThemeCmd{List: true}).Run(&Global{}, cli))
	require.NoError(t, (&ThemeCmd{Metadata: true}).Run(&Global{}, cli))

	require.NoError(t, (&ThemeCmd{Copy: true, Name: "base"}).Run(&Global{}, cli))
	assert.FileExists(t, filepath.Join(cli.Root, "themes", "base", "index.gohtml"))
	require.Error(t, (&ThemeCmd{Copy: true, Name: "base"}).Run(&Global{}, cli))

	err := (&ThemeCmd{Metadata: true, Name: "nope"}).Run(&Global{}, cli)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeThemeNotFound))
}

func TestTheme_ListWithoutThemes(t *testing.T) {
	cli, themeDir := newEnv(t)
	require.NoError(t, (&InitCmd{}).Run(&Global{}, cli))
	require.NoError(t, os.RemoveAll(filepath.Dir(themeDir)))

	err := (&ThemeCmd{List: true}).Run(&Global{}, cli)
	require.Error(t, err)
	assert.Equal(t, errors.CategoryNotFound, errors.GetCategory(err))
}

func TestParse(t *testing.T) {
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"-C", "/tmp/site", "build", "public", "--sections", "projects,blog"})
	require.NoError(t, err)
	assert.Equal(t, "public", cli.Build.Output)
	assert.Equal(t, []string{"projects", "blog"}, cli.Build.Sections)
	assert.Equal(t, filepath.Join("/tmp/site", "config.yml"), cli.ConfigPath())

	opts := cli.Preview.options(cli)
	assert.Equal(t, "localhost:8000", opts.Addr)
	assert.True(t, opts.Open)

	cli = &CLI{}
	parser, err = kong.New(cli, kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)
	_, err = parser.Parse([]string{"preview", "--port", "9000", "--rebuild-interval", "1m", "--no-open"})
	require.NoError(t, err)
	opts = cli.Preview.options(cli)
	assert.Equal(t, "localhost:9000", opts.Addr)
	assert.False(t, opts.Open)
	assert.Equal(t, "1m0s", opts.RebuildInterval.String())
}
