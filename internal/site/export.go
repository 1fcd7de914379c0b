package site

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/Descent098/ezcv/internal/config"
	"github.com/Descent098/ezcv/internal/content"
	"github.com/Descent098/ezcv/internal/foundation/errors"
	"github.com/Descent098/ezcv/internal/fsutil"
	"github.com/Descent098/ezcv/internal/logfields"
	"github.com/Descent098/ezcv/internal/observability"
	"github.com/Descent098/ezcv/internal/theme"
)

// Site directories copied into the output.
const (
	ImagesDir  = "images"
	galleryDir = "gallery"
)

// EnumeratePages lists the top-level pages of a theme: every template and
// .html file. The resume page is included only when the config enables it.
func EnumeratePages(themeDir string, cfg *config.SiteConfig) ([]PageSpec, error) {
	entries, err := os.ReadDir(themeDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ThemeDirectoryMissing(themeDir)
		}
		return nil, errors.WrapError(err, errors.CategoryTheme, "failed to read theme directory").
			WithContext("path", themeDir).Build()
	}
	var pages []PageSpec
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			continue
		}
		switch {
		case strings.EqualFold(name, theme.ResumePage) && !cfg.Bool("resume"):
			continue
		case theme.IsTemplate(name):
			pages = append(pages, PageSpec{Template: name, Output: theme.TrimTemplateExt(name) + ".html"})
		case strings.EqualFold(filepath.Ext(name), ".html"):
			pages = append(pages, PageSpec{Template: name, Output: name})
		}
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Template < pages[j].Template })
	return pages, nil
}

// skipThemeSource leaves template sources and build-time theme files out of
// the exported copy.
func skipThemeSource(rel string, d fs.DirEntry) bool {
	if d.IsDir() {
		return rel == theme.SectionsDir || rel == theme.PartialsDir
	}
	return theme.IsTemplate(rel) || rel == theme.MetadataFile
}

// Exporter writes a rendered site to its output directory.
type Exporter struct {
	Root     string // site directory holding images/ and content/
	ThemeDir string
	Output   string
	Renderer *Renderer
	// Progress receives the page progress bar; nil silences it.
	Progress io.Writer
}

// Export replaces the output directory with a copy of the theme's static
// files, copies site and gallery images, and writes every page rendered with
// c. It returns the written output paths, relative to the output directory.
func (e *Exporter) Export(ctx context.Context, c Context, pages []PageSpec, images []string) ([]string, error) {
	if !fsutil.IsDir(e.ThemeDir) {
		return nil, errors.ThemeDirectoryMissing(e.ThemeDir)
	}
	for _, dir := range []string{e.Root, e.ThemeDir} {
		if err := checkOutput(e.Output, dir); err != nil {
			return nil, err
		}
	}
	if err := e.copyStatic(images); err != nil {
		return nil, err
	}

	progress := e.Progress
	if progress == nil {
		progress = io.Discard
	}
	bar := progressbar.NewOptions(len(pages),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("Writing pages"),
		progressbar.OptionSetWidth(20),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	written := make([]string, 0, len(pages))
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		data := c
		if len(p.Extra) > 0 {
			data = c.with(p.Extra)
		}
		html, err := e.Renderer.Render(p.Template, data)
		if err != nil {
			return written, err
		}
		target := filepath.Join(e.Output, filepath.FromSlash(p.Output))
		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return written, errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
				WithContext("path", filepath.Dir(target)).Build()
		}
		if err := os.WriteFile(target, []byte(html), 0o600); err != nil {
			return written, errors.WrapError(err, errors.CategoryFileSystem, "failed to write page").
				WithContext("path", target).Build()
		}
		observability.DebugContext(ctx, "Wrote page", logfields.Page(p.Output), logfields.Template(p.Template))
		written = append(written, p.Output)
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	return written, nil
}

// checkOutput rejects an output directory that is dir or one of its parents,
// since the output is wiped before every export.
func checkOutput(output, dir string) error {
	if output == "" || dir == "" {
		return nil
	}
	out, err := filepath.Abs(output)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve output directory").Build()
	}
	src, err := filepath.Abs(dir)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve directory").Build()
	}
	rel, err := filepath.Rel(out, src)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}
	return errors.ValidationError("output directory would overwrite site sources").
		WithContext("output", out).
		WithContext("path", src).
		WithHint("choose an output directory outside the site and theme, e.g. `ezcv build site`").
		Build()
}

func (e *Exporter) copyStatic(images []string) error {
	if err := os.RemoveAll(e.Output); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to clear output directory").
			WithContext("path", e.Output).Build()
	}
	if err := fsutil.CopyDir(e.ThemeDir, e.Output, skipThemeSource); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to copy theme files").
			WithContext("path", e.ThemeDir).Build()
	}

	outImages := filepath.Join(e.Output, ImagesDir)
	if src := filepath.Join(e.Root, ImagesDir); fsutil.IsDir(src) {
		if err := fsutil.CopyDir(src, outImages, nil); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to copy site images").
				WithContext("path", src).Build()
		}
	}

	outGallery := filepath.Join(e.Output, filepath.FromSlash(content.GalleryDir))
	src := filepath.Join(e.Root, "content", galleryDir)
	if _, err := fsutil.CopyFlat(src, outGallery); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to copy gallery images").
			WithContext("path", src).Build()
	}
	for _, img := range images {
		if filepath.Dir(img) == src {
			continue
		}
		if err := fsutil.CopyFile(img, filepath.Join(outGallery, filepath.Base(img))); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to copy content image").
				WithContext("path", img).Build()
		}
	}
	return nil
}

