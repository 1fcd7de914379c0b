package site

import (
	"context"
	"html/template"
	"log/slog"
	"maps"
	"path"
	"path/filepath"
	"strings"

	"github.com/Descent098/ezcv/internal/config"
	"github.com/Descent098/ezcv/internal/content"
	"github.com/Descent098/ezcv/internal/foundation/errors"
	"github.com/Descent098/ezcv/internal/logfields"
	"github.com/Descent098/ezcv/internal/observability"
	"github.com/Descent098/ezcv/internal/section"
	"github.com/Descent098/ezcv/internal/theme"
)

// Context keys shared by every page.
const (
	ConfigKey   = "config"
	SectionsKey = "sections"
	PostKey     = "post"

	htmlSuffix = "_html"
	feedSuffix = "_feed_html"
)

// reservedSlug is the output name a blog post may not take.
const reservedSlug = "index"

// Context is the data every top-level page is rendered with: the config under
// "config", raw section items under "sections", and one "<name>_html"
// fragment per section. Blog sections also get "<name>_feed_html".
type Context map[string]any

// NewContext returns a context holding only cfg.
func NewContext(cfg *config.SiteConfig) Context {
	return Context{ConfigKey: cfg, SectionsKey: map[string][]content.Item{}}
}

// Config returns the site configuration held by c.
func (c Context) Config() *config.SiteConfig {
	cfg, _ := c[ConfigKey].(*config.SiteConfig)
	return cfg
}

// Sections returns the raw items of every section.
func (c Context) Sections() map[string][]content.Item {
	s, _ := c[SectionsKey].(map[string][]content.Item)
	return s
}

// HTML returns the rendered fragment of section name.
func (c Context) HTML(name string) template.HTML {
	h, _ := c[name+htmlSuffix].(template.HTML)
	return h
}

// with returns a copy of c extended by extra.
func (c Context) with(extra map[string]any) Context {
	out := maps.Clone(c)
	maps.Copy(out, extra)
	return out
}

// PageSpec pairs a template with the output file it renders to. Paths are
// slash separated: Template relative to the theme directory, Output relative
// to the output directory.
type PageSpec struct {
	Template string
	Output   string

	// Extra is merged into the site context when the page is rendered.
	Extra map[string]any
}

// sectionTemplate is the template path of a markdown or gallery section.
func sectionTemplate(name string) string {
	return path.Join(theme.SectionsDir, name+theme.TemplateExt)
}

func blogTemplate(name, file string) string {
	return path.Join(theme.SectionsDir, name, file)
}

// RenderSections renders every section into c and returns the blog pages to
// write at export. Sections are processed in order. A missing section
// template is logged and yields an empty fragment.
func RenderSections(ctx context.Context, r *Renderer, c Context, sections []section.Section) ([]PageSpec, error) {
	var pages []PageSpec
	raw := c.Sections()
	if raw == nil {
		raw = map[string][]content.Item{}
		c[SectionsKey] = raw
	}
	for _, sec := range sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw[sec.Name] = sec.Items
		switch sec.Type {
		case theme.SectionBlog:
			feed, blogPages, err := renderBlog(ctx, r, c, sec)
			if err != nil {
				return nil, err
			}
			c[sec.Name+feedSuffix] = feed
			c[sec.Name+htmlSuffix] = feed
			pages = append(pages, blogPages...)
		default:
			h, err := renderFlat(ctx, r, c.Config(), sec)
			if err != nil {
				return nil, err
			}
			c[sec.Name+htmlSuffix] = h
		}
	}
	return pages, nil
}

func renderFlat(ctx context.Context, r *Renderer, cfg *config.SiteConfig, sec section.Section) (template.HTML, error) {
	if len(sec.Items) == 0 {
		observability.DebugContext(ctx, "Section has no content", logfields.Section(sec.Name))
		return "", nil
	}
	tmpl := sectionTemplate(sec.Name)
	h, err := r.Render(tmpl, map[string]any{sec.Name: sec.Items, ConfigKey: cfg})
	if errors.HasCode(err, errors.CodeTemplateNotFound) {
		observability.WarnContext(ctx, "Section is not available in this theme",
			logfields.Section(sec.Name), logfields.Template(tmpl))
		return "", nil
	}
	return h, err
}

// renderBlog renders the feed fragment and plans the overview and single
// pages. Every slug is validated before any page is planned.
func renderBlog(ctx context.Context, r *Renderer, c Context, sec section.Section) (template.HTML, []PageSpec, error) {
	singles := make([]PageSpec, 0, len(sec.Items))
	single := blogTemplate(sec.Name, theme.SingleTemplate)
	hasSingle := r.Has(single)
	if !hasSingle && len(sec.Items) > 0 {
		observability.WarnContext(ctx, "Blog has no single post template", logfields.Section(sec.Name))
	}
	for i := range sec.Items {
		item := sec.Items[i]
		slug := Slug(item)
		if slug == reservedSlug {
			return "", nil, errors.InvalidSlug(slug, item.Path)
		}
		if !hasSingle {
			continue
		}
		singles = append(singles, PageSpec{
			Template: single,
			Output:   path.Join(sec.Name, slug+".html"),
			Extra:    map[string]any{PostKey: item, sec.Name: sec.Items},
		})
	}

	var feed template.HTML
	feedTmpl := blogTemplate(sec.Name, theme.FeedTemplate)
	switch {
	case len(sec.Items) == 0:
	case !r.Has(feedTmpl):
		slog.Debug("Blog has no feed template", logfields.Section(sec.Name))
	default:
		var err error
		feed, err = r.Render(feedTmpl, map[string]any{sec.Name: sec.Items, ConfigKey: c.Config()})
		if err != nil {
			return "", nil, err
		}
	}

	var pages []PageSpec
	overview := blogTemplate(sec.Name, theme.OverviewTemplate)
	if r.Has(overview) {
		pages = append(pages, PageSpec{
			Template: overview,
			Output:   path.Join(sec.Name, "index.html"),
			Extra:    map[string]any{sec.Name: sec.Items},
		})
	}
	return feed, append(pages, singles...), nil
}

var slugReplacer = strings.NewReplacer("/", "-", `\`, "-")

// Slug is a blog item's output name: its title, or the source file name
// without extension.
func Slug(item content.Item) string {
	s := strings.TrimSpace(item.Meta.String("title"))
	if s == "" || s == "false" {
		name := item.Filename
		if name == "" {
			name = filepath.Base(item.Path)
		}
		s = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return slugReplacer.Replace(s)
}
