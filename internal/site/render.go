package site

import (
	"bytes"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Descent098/ezcv/internal/foundation/errors"
	"github.com/Descent098/ezcv/internal/theme"
)

// undefinedKeyMarker is the text/template message for a missing map key
// under missingkey=error.
const undefinedKeyMarker = "map has no entry for key"

// metaFieldMarker appears in the failing action when the missing key was
// looked up on an item's front matter, e.g. <.Meta.github>.
const metaFieldMarker = ".Meta."

// missingKey extracts the quoted key from a missing-key execution error.
func missingKey(msg string) string {
	_, after, ok := strings.Cut(msg, undefinedKeyMarker+` "`)
	if !ok {
		return ""
	}
	key, _, _ := strings.Cut(after, `"`)
	return key
}

// Renderer executes theme templates. Every template is parsed together with
// the theme's partials.
type Renderer struct {
	themeDir string
	funcs    template.FuncMap
	partials []string
}

// NewRenderer prepares a renderer for themeDir with the given template funcs.
func NewRenderer(themeDir string, funcs template.FuncMap) (*Renderer, error) {
	partials, err := filepath.Glob(filepath.Join(themeDir, theme.PartialsDir, "*"+theme.TemplateExt))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryTheme, "failed to list theme partials").Build()
	}
	sort.Strings(partials)
	return &Renderer{themeDir: themeDir, funcs: funcs, partials: partials}, nil
}

// Has reports whether the theme contains the template at rel.
func (r *Renderer) Has(rel string) bool {
	info, err := os.Stat(r.path(rel))
	return err == nil && !info.IsDir()
}

func (r *Renderer) path(rel string) string {
	return filepath.Join(r.themeDir, filepath.FromSlash(rel))
}

func (r *Renderer) load(rel string) (*template.Template, error) {
	if !r.Has(rel) {
		return nil, errors.TemplateNotFound(rel)
	}
	t := template.New(filepath.Base(rel)).Funcs(r.funcs).Option("missingkey=error")
	if _, err := t.ParseFiles(r.path(rel)); err != nil {
		return nil, errors.WrapError(err, errors.CategoryTemplate, "failed to parse template").
			WithContext("template", rel).Build()
	}
	if len(r.partials) > 0 {
		if _, err := t.ParseFiles(r.partials...); err != nil {
			return nil, errors.WrapError(err, errors.CategoryTemplate, "failed to parse theme partials").
				WithContext("template", rel).Build()
		}
	}
	return t, nil
}

// Render executes the template at rel (slash separated, relative to the theme
// directory) with data. A reference to a value the data does not define is
// reported as UndefinedTemplateVariable.
func (r *Renderer) Render(rel string, data any) (template.HTML, error) {
	t, err := r.load(rel)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		if msg := err.Error(); strings.Contains(msg, undefinedKeyMarker) {
			if strings.Contains(msg, metaFieldMarker) {
				return "", errors.UndefinedContentField(rel, missingKey(msg), err)
			}
			return "", errors.UndefinedTemplateVariable(rel, err)
		}
		return "", errors.WrapError(err, errors.CategoryTemplate, "failed to render template").
			WithContext("template", rel).Build()
	}
	return template.HTML(buf.String()), nil //nolint:gosec // output of html/template
}
