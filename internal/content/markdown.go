package content

import (
	"bytes"
	"html/template"
	"os"

	mathjax "github.com/litao91/goldmark-mathjax"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/mermaid"

	"github.com/Descent098/ezcv/internal/foundation/errors"
	"github.com/Descent098/ezcv/internal/frontmatter"
)

// Markdown parses Markdown documents with optional front matter.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown returns a Markdown parser with footnotes, tables, definition
// lists, heading anchors, math and diagram support enabled.
func NewMarkdown() *Markdown {
	return &Markdown{md: goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
			extension.Typographer,
			mathjax.MathJax,
			&mermaid.Extender{RenderMode: mermaid.RenderModeClient},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)}
}

func (p *Markdown) Parse(path string) (Metadata, template.HTML, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.ContentNotFound(path, err)
		}
		return nil, "", errors.WrapError(err, errors.CategoryContent, "failed to read content file").
			WithContext("path", path).Build()
	}
	return p.ParseBytes(path, raw)
}

// ParseBytes parses an in-memory document. path is used for error context only.
func (p *Markdown) ParseBytes(path string, raw []byte) (Metadata, template.HTML, error) {
	fm, body, format, err := frontmatter.Split(raw)
	if err != nil {
		return nil, "", errors.WrapError(err, errors.CategoryContent, "invalid front matter").
			WithContext("path", path).Fatal().UserAction().Build()
	}
	meta := Metadata{}
	if format != frontmatter.FormatNone {
		fields, err := frontmatter.Parse(fm, format)
		if err != nil {
			return nil, "", errors.WrapError(err, errors.CategoryContent, "invalid front matter").
				WithContext("path", path).Fatal().UserAction().Build()
		}
		meta = Metadata(frontmatter.Scalars(fields))
	}

	var buf bytes.Buffer
	if err := p.md.Convert(body, &buf); err != nil {
		return nil, "", errors.WrapError(err, errors.CategoryContent, "failed to render markdown").
			WithContext("path", path).Build()
	}
	return meta, template.HTML(buf.String()), nil //nolint:gosec // rendered from the site's own content
}
