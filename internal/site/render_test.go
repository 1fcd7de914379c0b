package site

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Descent098/ezcv/internal/config"
	"github.com/Descent098/ezcv/internal/content"
	"github.com/Descent098/ezcv/internal/foundation/errors"
	"github.com/Descent098/ezcv/internal/section"
	"github.com/Descent098/ezcv/internal/theme"
)

func item(title, filename string) content.Item {
	meta := content.Metadata{}
	if title != "" {
		meta["title"] = title
	}
	return content.Item{Kind: content.KindMarkdown, Meta: meta, Body: "<p>body</p>", Filename: filename, Path: "/c/" + filename}
}

func TestRenderer_PartialsAndMissingTemplate(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, filepath.Join(dir, "page.gohtml"), `{{ template "nav" . }}{{ .x }}`)
	mkfile(t, filepath.Join(dir, "partials", "nav.gohtml"), `{{ define "nav" }}<nav>{{ .x }}</nav>{{ end }}`)

	r, err := NewRenderer(dir, Funcs(nil))
	require.NoError(t, err)
	out, err := r.Render("page.gohtml", map[string]any{"x": "<y>"})
	require.NoError(t, err)
	require.Equal(t, "<nav>&lt;y&gt;</nav>&lt;y&gt;", string(out))

	_, err = r.Render("absent.gohtml", nil)
	require.True(t, errors.HasCode(err, errors.CodeTemplateNotFound))
	require.Equal(t, errors.SeverityWarning, errors.GetSeverity(err))

	_, err = r.Render("page.gohtml", map[string]any{})
	require.True(t, errors.HasCode(err, errors.CodeUndefinedTemplateVariable))
}

func TestRenderer_MissingFrontMatterField(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, filepath.Join(dir, "list.gohtml"), `{{ range .items }}{{ if .Meta.github }}gh{{ end }}{{ .Meta.Get "site" }}{{ end }}`)
	r, err := NewRenderer(dir, Funcs(nil))
	require.NoError(t, err)

	withField := content.Item{Meta: content.Metadata{"github": "u"}}
	out, err := r.Render("list.gohtml", map[string]any{"items": []content.Item{withField}})
	require.NoError(t, err)
	require.Equal(t, "ghfalse", string(out))

	_, err = r.Render("list.gohtml", map[string]any{"items": []content.Item{{Meta: content.Metadata{}}}})
	require.True(t, errors.HasCode(err, errors.CodeUndefinedContentField))
	require.Equal(t, errors.CategoryContent, errors.GetCategory(err))
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, "github", ce.Context()["field"])
	require.Contains(t, ce.Hint(), `.Meta.Get "github"`)
}

func TestRenderer_ParseError(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, filepath.Join(dir, "bad.gohtml"), `{{ if }}`)
	r, err := NewRenderer(dir, Funcs(nil))
	require.NoError(t, err)
	_, err = r.Render("bad.gohtml", nil)
	require.True(t, errors.HasCategory(err, errors.CategoryTemplate))
}

func TestRenderSections(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, filepath.Join(dir, "sections", "projects.gohtml"), `{{ range .projects }}{{ .Meta.Get "title" }};{{ end }}{{ .config.Name }}`)
	mkfile(t, filepath.Join(dir, "sections", "blog", "single.gohtml"), `single`)
	mkfile(t, filepath.Join(dir, "sections", "blog", "overview.gohtml"), `overview`)
	r, err := NewRenderer(dir, Funcs(nil))
	require.NoError(t, err)

	c := NewContext(config.New(map[string]any{"name": "Jane"}, nil))
	pages, err := RenderSections(context.Background(), r, c, []section.Section{
		{Name: "projects", Type: theme.SectionMarkdown, Items: []content.Item{item("A", "a.md"), item("B", "b.md")}},
		{Name: "awards", Type: theme.SectionMarkdown, Items: []content.Item{item("X", "x.md")}},
		{Name: "education", Type: theme.SectionMarkdown},
		{Name: "blog", Type: theme.SectionBlog, Items: []content.Item{item("", "hello-world.md"), item("Post/Two", "two.md")}},
	})
	require.NoError(t, err)

	require.Equal(t, "A;B;Jane", string(c.HTML("projects")))
	require.Empty(t, c.HTML("awards"), "missing template yields an empty fragment")
	require.Empty(t, c.HTML("education"))
	require.Contains(t, c, "blog_feed_html", "feed key is defined even without a feed template")
	require.Len(t, c.Sections()["projects"], 2)

	outputs := make([]string, 0, len(pages))
	for _, p := range pages {
		outputs = append(outputs, p.Output)
	}
	require.Equal(t, []string{"blog/index.html", "blog/hello-world.html", "blog/Post-Two.html"}, outputs)
	require.Equal(t, "hello-world.md", pages[1].Extra[PostKey].(content.Item).Filename)
}

func TestRenderSections_ReservedSlugBeforeAnyPage(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, filepath.Join(dir, "sections", "blog", "single.gohtml"), `single`)
	r, err := NewRenderer(dir, Funcs(nil))
	require.NoError(t, err)

	c := NewContext(config.New(nil, nil))
	pages, err := RenderSections(context.Background(), r, c, []section.Section{
		{Name: "blog", Type: theme.SectionBlog, Items: []content.Item{item("ok", "ok.md"), item("", "index.md")}},
	})
	require.True(t, errors.HasCode(err, errors.CodeInvalidSlug))
	require.Nil(t, pages)
}

func TestSlug(t *testing.T) {
	require.Equal(t, "Hello", Slug(item("Hello", "x.md")))
	require.Equal(t, "my-post", Slug(item("", "my-post.markdown")))
	require.Equal(t, "a-b", Slug(item("a/b", "x.md")))
}

func TestEnumeratePages(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, filepath.Join(dir, "index.gohtml"), "")
	mkfile(t, filepath.Join(dir, "resume.gohtml"), "")
	mkfile(t, filepath.Join(dir, "about.html"), "")
	mkfile(t, filepath.Join(dir, "style.css"), "")
	mkfile(t, filepath.Join(dir, "sections", "x.gohtml"), "")

	pages, err := EnumeratePages(dir, config.New(nil, nil))
	require.NoError(t, err)
	require.Equal(t, []PageSpec{
		{Template: "about.html", Output: "about.html"},
		{Template: "index.gohtml", Output: "index.html"},
	}, pages)

	pages, err = EnumeratePages(dir, config.New(map[string]any{"resume": true}, nil))
	require.NoError(t, err)
	require.Len(t, pages, 3)

	_, err = EnumeratePages(filepath.Join(dir, "gone"), config.New(nil, nil))
	require.True(t, errors.HasCode(err, errors.CodeThemeDirectoryMissing))
}

func TestExport_ThemeDirectoryMissing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	ex := &Exporter{Root: t.TempDir(), ThemeDir: filepath.Join(t.TempDir(), "gone"), Output: out}
	_, err := ex.Export(context.Background(), NewContext(config.New(nil, nil)), nil, nil)
	require.True(t, errors.HasCode(err, errors.CodeThemeDirectoryMissing))
	require.NoDirExists(t, out)
}

func TestPipeline(t *testing.T) {
	noop := func(context.Context, *buildState) error { return nil }
	defs := NewPipeline().
		Add(StageConfigLoaded, noop).
		AddIf(false, StagePreviewOpened, noop).
		Add(StageExported, noop).
		Build()
	require.Len(t, defs, 2)
	require.Equal(t, StageExported, defs[1].Name)
}
