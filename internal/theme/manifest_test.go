package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Descent098/ezcv/internal/content"
	"github.com/Descent098/ezcv/internal/foundation/errors"
)

func TestInferFieldType(t *testing.T) {
	fields := InferFields(content.Metadata{
		"created": "2023-01-05",
		"count":   "3",
		"active":  "true",
		"name":    "x",
	})
	require.Equal(t, map[string]FieldType{
		"created": FieldDatetime,
		"count":   FieldInt,
		"active":  FieldBool,
		"name":    FieldString,
	}, fields)

	require.Equal(t, FieldBool, InferFieldType("FALSE"))
	require.Equal(t, FieldString, InferFieldType("-3"))
	require.Equal(t, FieldString, InferFieldType(""))
	require.Equal(t, FieldInt, InferFields(content.Metadata{"n": 7})["n"])
}

func TestScanSections(t *testing.T) {
	dir := t.TempDir()
	baseTheme(t, dir)

	sections, err := ScanSections(dir)
	require.NoError(t, err)
	require.Equal(t, map[string]SectionSpec{
		"projects": {Type: SectionMarkdown},
		"gallery":  {Type: SectionGallery},
		"blog":     {Type: SectionBlog, Single: true, Feed: true},
	}, sections)
}

func TestDiscover_InvalidTheme(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, filepath.Join(dir, "about.gohtml"), "x")
	_, err := Discover(dir, t.TempDir())
	require.Error(t, err)
	require.True(t, errors.HasCode(err, errors.CodeInvalidTheme))
}

func TestDiscover_FieldsFromFirstContentFile(t *testing.T) {
	dir := t.TempDir()
	baseTheme(t, dir)
	contentRoot := t.TempDir()
	mkfile(t, filepath.Join(contentRoot, "projects", "a.md"), "---\ntitle: Demo\nyear: 2020\n---\nbody\n")
	mkfile(t, filepath.Join(contentRoot, "projects", "b.md"), "---\nother: true\n---\nbody\n")

	m, err := Discover(dir, contentRoot)
	require.NoError(t, err)
	require.Equal(t, filepath.Base(dir), m.Name)
	require.Equal(t, map[string]FieldType{"title": FieldString, "year": FieldInt}, m.Sections["projects"].Fields)
	require.Equal(t, DefaultBlogFields(), m.Sections["blog"].Fields)
	require.Nil(t, m.Sections["gallery"].Fields)

	// Discover never writes the sidecar.
	require.NoFileExists(t, filepath.Join(dir, MetadataFile))
}

func TestDiscover_UnquotedDatesInferAsDatetime(t *testing.T) {
	dir := t.TempDir()
	baseTheme(t, dir)
	contentRoot := t.TempDir()
	mkfile(t, filepath.Join(contentRoot, "projects", "a.md"), "---\ncreated: 2023-01-05\ncount: 3\nactive: true\nname: x\n---\nbody\n")

	m, err := Discover(dir, contentRoot)
	require.NoError(t, err)
	require.Equal(t, map[string]FieldType{
		"created": FieldDatetime,
		"count":   FieldInt,
		"active":  FieldBool,
		"name":    FieldString,
	}, m.Sections["projects"].Fields)
}

func TestGenerate_CachesUnlessForced(t *testing.T) {
	dir := t.TempDir()
	baseTheme(t, dir)
	contentRoot := t.TempDir()

	m, err := Generate(dir, contentRoot, false)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, MetadataFile))
	require.Contains(t, m.Sections, "projects")

	// Author adds required config, and a new section appears on disk.
	m.RequiredConfig["api_key"] = RequiredKey{Type: FieldString, Description: "Maps key"}
	require.NoError(t, Save(dir, m))
	mkfile(t, filepath.Join(dir, SectionsDir, "education"+TemplateExt), "x")

	cached, err := Generate(dir, contentRoot, false)
	require.NoError(t, err)
	require.NotContains(t, cached.Sections, "education")

	fresh, err := Generate(dir, contentRoot, true)
	require.NoError(t, err)
	require.Contains(t, fresh.Sections, "education")
	require.Equal(t, "Maps key", fresh.RequiredConfig["api_key"].Description)
	require.True(t, m.Created.Equal(fresh.Created))

	read, err := Get(dir)
	require.NoError(t, err)
	require.Contains(t, read.Sections, "education")
}

func TestGet_Missing(t *testing.T) {
	_, err := Get(t.TempDir())
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryTheme))
}

func TestGet_NormalizesSectionTypes(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, filepath.Join(dir, MetadataFile), "name: x\nsections:\n  posts:\n    type: \" Blog\"\n")
	m, err := Get(dir)
	require.NoError(t, err)
	require.Equal(t, SectionBlog, m.Sections["posts"].Type)

	mkfile(t, filepath.Join(dir, MetadataFile), "name: x\nsections:\n  posts:\n    type: slideshow\n")
	_, err = Get(dir)
	require.Error(t, err)
	require.True(t, errors.HasCode(err, errors.CodeInvalidTheme))
}

func TestParseSectionType(t *testing.T) {
	typ, err := ParseSectionType("GALLERY")
	require.NoError(t, err)
	require.Equal(t, SectionGallery, typ)

	_, err = ParseSectionType("")
	require.Error(t, err)
}

func TestMissingRequired(t *testing.T) {
	m := Manifest{RequiredConfig: map[string]RequiredKey{"b": {}, "a": {}, "c": {}}}
	missing := m.MissingRequired(func(k string) bool { return k == "c" })
	require.Equal(t, []string{"a", "b"}, missing)
}

func TestDescribe(t *testing.T) {
	dir := t.TempDir()
	baseTheme(t, dir)
	m, err := Discover(dir, t.TempDir())
	require.NoError(t, err)
	m.RequiredConfig["api_key"] = RequiredKey{Type: FieldString, Description: "Maps key"}
	out := Describe(m)
	require.Contains(t, out, "api_key (str): Maps key")
	require.Contains(t, out, "blog [blog]")
	require.Contains(t, out, "title: str")
}

func TestListAndCopy(t *testing.T) {
	root := t.TempDir()
	baseTheme(t, filepath.Join(root, "base"))
	baseTheme(t, filepath.Join(root, "aerial"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".cache"), 0o750))

	names, err := List(root)
	require.NoError(t, err)
	require.Equal(t, []string{"aerial", "base"}, names)

	none, err := List(filepath.Join(root, "missing"))
	require.NoError(t, err)
	require.Empty(t, none)

	site := t.TempDir()
	dst, err := Copy(filepath.Join(root, "base"), site)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dst, IndexPage))

	_, err = Copy(filepath.Join(root, "base"), site)
	require.Error(t, err)
}
