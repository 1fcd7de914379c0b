package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body, format, err := Split(input)
	require.NoError(t, err)
	require.Equal(t, FormatNone, format)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	fm, body, format, err := Split([]byte("---\nkey: value\n---\n# Title\n"))
	require.NoError(t, err)
	require.Equal(t, FormatYAML, format)
	require.Equal(t, []byte("key: value\n"), fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_TOMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	fm, body, format, err := Split([]byte("+++\ntitle = \"Demo\"\n+++\nbody\n"))
	require.NoError(t, err)
	require.Equal(t, FormatTOML, format)
	require.Equal(t, []byte("title = \"Demo\"\n"), fm)
	require.Equal(t, []byte("body\n"), body)
}

func TestSplit_CRLF(t *testing.T) {
	fm, body, format, err := Split([]byte("---\r\na: 1\r\n---\r\nbody"))
	require.NoError(t, err)
	require.Equal(t, FormatYAML, format)
	require.Equal(t, []byte("a: 1\r\n"), fm)
	require.Equal(t, []byte("body"), body)
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	fm, body, format, err := Split([]byte("---\na: 1\n---"))
	require.NoError(t, err)
	require.Equal(t, FormatYAML, format)
	require.Equal(t, []byte("a: 1\n"), fm)
	require.Empty(t, body)
}

func TestSplit_EmptyBlock(t *testing.T) {
	fm, body, format, err := Split([]byte("---\n---\nbody\n"))
	require.NoError(t, err)
	require.Equal(t, FormatYAML, format)
	require.Empty(t, fm)
	require.Equal(t, []byte("body\n"), body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, _, format, err := Split([]byte("---\nkey: value\n# Title\n"))
	require.Error(t, err)
	require.Equal(t, FormatNone, format)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestParse(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		fields, err := Parse([]byte("a: \"1\"\nb: x\ntags: [go, web]\n"), FormatYAML)
		require.NoError(t, err)
		require.Equal(t, "1", fields["a"])
		require.Equal(t, []any{"go", "web"}, fields["tags"])
	})

	t.Run("toml", func(t *testing.T) {
		fields, err := Parse([]byte("title = \"Demo\"\ndraft = true\n"), FormatTOML)
		require.NoError(t, err)
		require.Equal(t, "Demo", fields["title"])
		require.Equal(t, true, fields["draft"])
	})

	t.Run("empty", func(t *testing.T) {
		fields, err := Parse(nil, FormatYAML)
		require.NoError(t, err)
		require.Empty(t, fields)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := Parse([]byte("a: [\n"), FormatYAML)
		require.Error(t, err)
	})
}

func TestScalars_CollapsesLists(t *testing.T) {
	out := Scalars(map[string]any{"tags": []any{"go", "web"}, "none": []any{}, "title": "x"})
	require.Equal(t, map[string]any{"tags": "go", "none": "", "title": "x"}, out)
}

func TestScalars_FormatsDates(t *testing.T) {
	yamlFields, err := Parse([]byte("created: 2023-01-05\nstamp: 2023-01-05T10:30:00Z\n"), FormatYAML)
	require.NoError(t, err)
	out := Scalars(yamlFields)
	require.Equal(t, "2023-01-05", out["created"])
	require.Equal(t, "2023-01-05T10:30:00Z", out["stamp"])

	tomlFields, err := Parse([]byte("created = 2023-01-05\nstamp = 2023-01-05T10:30:00\n"), FormatTOML)
	require.NoError(t, err)
	out = Scalars(tomlFields)
	require.Equal(t, "2023-01-05", out["created"])
	require.Equal(t, "2023-01-05T10:30:00Z", out["stamp"])
}

func TestRender_RoundTrip(t *testing.T) {
	doc, err := Render(map[string]any{"title": "Demo", "created": "2024-01-01", "draft": false}, "Body\n")
	require.NoError(t, err)
	require.Contains(t, string(doc), "draft: false\ntitle: Demo\n---\nBody\n")

	fm, body, format, err := Split(doc)
	require.NoError(t, err)
	require.Equal(t, FormatYAML, format)
	require.Equal(t, "Body\n", string(body))
	fields, err := Parse(fm, format)
	require.NoError(t, err)
	require.Equal(t, "Demo", fields["title"])
	require.Equal(t, "2024-01-01", fields["created"])
	require.Equal(t, false, fields["draft"])
}
