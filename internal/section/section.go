// Package section discovers content directories and loads them as sections
// declared by a theme.
package section

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/Descent098/ezcv/internal/content"
	"github.com/Descent098/ezcv/internal/foundation/errors"
	"github.com/Descent098/ezcv/internal/fsutil"
	"github.com/Descent098/ezcv/internal/logfields"
	"github.com/Descent098/ezcv/internal/theme"
)

// ContentDir is the site directory holding one subdirectory per section.
const ContentDir = "content"

// examplePrefix marks sample files that are skipped unless examples are enabled.
const examplePrefix = "example"

// Section is a named list of content items and the mode used to render them.
type Section struct {
	Name  string
	Type  theme.SectionType
	Spec  theme.SectionSpec
	Items []content.Item
}

// ContentDirectories lists the immediate subdirectories of <root>/content.
func ContentDirectories(root string) ([]string, error) {
	base := filepath.Join(root, ContentDir)
	entries, err := os.ReadDir(base)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read content directory").
			WithContext("path", base).Build()
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(base, e.Name()))
		}
	}
	return dirs, nil
}

// Load parses every supported file in dir. Files starting with "example" are
// skipped unless examples is set. In blog mode missing created/updated
// fields are filled with the session date.
func Load(s *content.Session, dir string, examples, blog bool) ([]content.Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ContentNotFound(dir, err)
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read section directory").
			WithContext("path", dir).Build()
	}

	var items []content.Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || (!examples && strings.HasPrefix(name, examplePrefix)) {
			continue
		}
		item, ok, err := s.Parse(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if !ok {
			slog.Debug("Skipping unsupported content file", logfields.File(name))
			continue
		}
		if blog {
			for _, key := range []string{"created", "updated"} {
				if !truthy(item.Meta.Get(key)) {
					item.Meta[key] = s.Today()
				}
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	default:
		return true
	}
}

// ThemeSectionNames returns explicit unchanged unless it is empty or preview
// is set; otherwise the names are scanned from the theme directory on every
// call.
func ThemeSectionNames(themeDir string, explicit []string, preview bool) ([]string, error) {
	if len(explicit) > 0 && !preview {
		return slices.Clone(explicit), nil
	}
	specs, err := theme.ScanSections(themeDir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Resolve loads each named section from <root>/content/<name>. Sections
// without a content directory resolve to no items. Content directories the
// theme does not declare are ignored.
func Resolve(ctx context.Context, s *content.Session, root string, m theme.Manifest, names []string, examples bool) ([]Section, error) {
	out := make([]Section, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		spec, ok := m.Sections[name]
		if !ok {
			spec = theme.SectionSpec{Type: theme.SectionMarkdown}
		}
		sec := Section{Name: name, Type: spec.Type, Spec: spec}
		dir := filepath.Join(root, ContentDir, name)
		if fsutil.IsDir(dir) {
			items, err := Load(s, dir, examples, spec.Type == theme.SectionBlog)
			if err != nil {
				return nil, err
			}
			sec.Items = items
		}
		slog.Debug("Resolved section",
			logfields.Section(name), logfields.SectionType(string(spec.Type)), logfields.Count(len(sec.Items)))
		out = append(out, sec)
	}

	dirs, err := ContentDirectories(root)
	if err != nil {
		return nil, err
	}
	for _, d := range dirs {
		if !slices.Contains(names, filepath.Base(d)) {
			slog.Debug("Content directory has no theme section", logfields.Path(d))
		}
	}
	return out, nil
}
