package theme

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Descent098/ezcv/internal/content"
	"github.com/Descent098/ezcv/internal/foundation"
	"github.com/Descent098/ezcv/internal/foundation/errors"
	"github.com/Descent098/ezcv/internal/fsutil"
	"github.com/Descent098/ezcv/internal/logfields"
	"github.com/Descent098/ezcv/internal/version"
)

// SectionType is a section's rendering mode.
type SectionType string

const (
	SectionMarkdown SectionType = "markdown"
	SectionGallery  SectionType = "gallery"
	SectionBlog     SectionType = "blog"
)

// Manifest describes a theme. It is stored next to the templates as metadata.yml.
type Manifest struct {
	Name             string                 `yaml:"name"`
	Created          time.Time              `yaml:"created"`
	Updated          time.Time              `yaml:"updated"`
	GeneratorVersion string                 `yaml:"generator_version"`
	RequiredConfig   map[string]RequiredKey `yaml:"required_config"`
	Sections         map[string]SectionSpec `yaml:"sections"`
}

// RequiredKey is a config.yml key a theme cannot render without.
type RequiredKey struct {
	Type        FieldType `yaml:"type"`
	Default     any       `yaml:"default,omitempty"`
	Description string    `yaml:"description,omitempty"`
}

// SectionSpec describes one theme section.
type SectionSpec struct {
	Type   SectionType          `yaml:"type"`
	Fields map[string]FieldType `yaml:"fields,omitempty"`

	// Blog sub-templates present in sections/<name>/.
	Single   bool `yaml:"single,omitempty"`
	Feed     bool `yaml:"feed,omitempty"`
	Overview bool `yaml:"overview,omitempty"`
}

var sectionTypes = foundation.NewNormalizer(map[string]SectionType{
	"markdown": SectionMarkdown,
	"gallery":  SectionGallery,
	"blog":     SectionBlog,
})

// ParseSectionType accepts a section type in any case.
func ParseSectionType(raw string) (SectionType, error) {
	if t, ok := sectionTypes.Parse(raw); ok {
		return t, nil
	}
	return "", errors.ValidationError("unknown section type").
		WithContext("type", raw).
		WithHint("use one of: " + strings.Join(sectionTypes.Keys(), ", ")).Build()
}

func invalidSection(path, section string, cause error) error {
	return errors.WrapError(cause, errors.CategoryTheme, "invalid section in theme metadata").
		WithCode(errors.CodeInvalidTheme).
		WithContext("path", path).WithContext("section", section).Build()
}

// SectionNames returns the manifest's sections in sorted order.
func (m Manifest) SectionNames() []string {
	names := make([]string, 0, len(m.Sections))
	for n := range m.Sections {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// MissingRequired returns the required keys absent from has, sorted.
func (m Manifest) MissingRequired(has func(key string) bool) []string {
	var missing []string
	for key := range m.RequiredConfig {
		if !has(key) {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

// ScanSections enumerates <themeDir>/sections without reading any content.
// A subdirectory is a blog section; gallery<ext> is a gallery section; any
// other template file is a markdown section.
func ScanSections(themeDir string) (map[string]SectionSpec, error) {
	sections := map[string]SectionSpec{}
	entries, err := os.ReadDir(filepath.Join(themeDir, SectionsDir))
	if os.IsNotExist(err) {
		return sections, nil
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryTheme, "failed to read theme sections").
			WithContext("path", themeDir).Build()
	}
	for _, e := range entries {
		name := e.Name()
		switch {
		case e.IsDir():
			dir := filepath.Join(themeDir, SectionsDir, name)
			sections[name] = SectionSpec{
				Type:     SectionBlog,
				Single:   fsutil.Exists(filepath.Join(dir, SingleTemplate)),
				Feed:     fsutil.Exists(filepath.Join(dir, FeedTemplate)),
				Overview: fsutil.Exists(filepath.Join(dir, OverviewTemplate)),
			}
		case name == GalleryTemplate:
			sections[TrimTemplateExt(name)] = SectionSpec{Type: SectionGallery}
		case IsTemplate(name):
			sections[TrimTemplateExt(name)] = SectionSpec{Type: SectionMarkdown}
		}
	}
	return sections, nil
}

// Discover computes a manifest for themeDir without writing anything. Field
// schemas are inferred from the first file of each matching directory under
// contentRoot.
func Discover(themeDir, contentRoot string) (Manifest, error) {
	if !fsutil.IsDir(themeDir) {
		return Manifest{}, errors.ThemeDirectoryMissing(themeDir)
	}
	if !fsutil.Exists(filepath.Join(themeDir, IndexPage)) {
		return Manifest{}, errors.InvalidTheme(themeDir, "missing "+IndexPage)
	}
	sections, err := ScanSections(themeDir)
	if err != nil {
		return Manifest{}, err
	}

	for name, spec := range sections {
		if spec.Type == SectionGallery {
			continue
		}
		fields, ok := sampleFields(filepath.Join(contentRoot, name))
		switch {
		case ok:
			spec.Fields = fields
		case spec.Type == SectionBlog:
			spec.Fields = DefaultBlogFields()
		}
		sections[name] = spec
	}

	now := time.Now().UTC().Truncate(time.Second)
	return Manifest{
		Name:             filepath.Base(themeDir),
		Created:          now,
		Updated:          now,
		GeneratorVersion: version.Version,
		RequiredConfig:   map[string]RequiredKey{},
		Sections:         sections,
	}, nil
}

// DefaultBlogFields is the schema used for blog sections without content.
func DefaultBlogFields() map[string]FieldType {
	return map[string]FieldType{"created": FieldDatetime, "updated": FieldDatetime, "title": FieldString}
}

// sampleFields infers a schema from the first Markdown file in dir.
func sampleFields(dir string) (map[string]FieldType, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, false
	}
	md := content.NewMarkdown()
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if k, ok := content.KindFor(e.Name()); !ok || k != content.KindMarkdown {
			continue
		}
		meta, _, err := md.Parse(filepath.Join(dir, e.Name()))
		if err != nil {
			slog.Debug("Skipping schema sample", logfields.File(e.Name()), logfields.Error(err))
			return nil, false
		}
		return InferFields(meta), true
	}
	return nil, false
}

// Generate returns the cached manifest for themeDir, or computes and writes a
// fresh one when none exists or force is set. Required config and the
// creation time of an existing manifest survive regeneration.
func Generate(themeDir, contentRoot string, force bool) (Manifest, error) {
	existing, err := Get(themeDir)
	hasExisting := err == nil
	if hasExisting && !force {
		return existing, nil
	}

	m, err := Discover(themeDir, contentRoot)
	if err != nil {
		return Manifest{}, err
	}
	if hasExisting {
		if len(existing.RequiredConfig) > 0 {
			m.RequiredConfig = existing.RequiredConfig
		}
		if !existing.Created.IsZero() {
			m.Created = existing.Created
		}
	}
	if err := Save(themeDir, m); err != nil {
		return Manifest{}, err
	}
	slog.Debug("Generated theme metadata", logfields.Theme(m.Name), logfields.Count(len(m.Sections)))
	return m, nil
}

// Get reads <themeDir>/metadata.yml.
func Get(themeDir string) (Manifest, error) {
	path := filepath.Join(themeDir, MetadataFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, errors.WrapError(err, errors.CategoryTheme, "theme metadata not readable").
			WithContext("path", path).Build()
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, errors.WrapError(err, errors.CategoryTheme, "invalid theme metadata").
			WithContext("path", path).Build()
	}
	if m.RequiredConfig == nil {
		m.RequiredConfig = map[string]RequiredKey{}
	}
	if m.Sections == nil {
		m.Sections = map[string]SectionSpec{}
	}
	for name, spec := range m.Sections {
		typ, err := ParseSectionType(string(spec.Type))
		if err != nil {
			return Manifest{}, invalidSection(path, name, err)
		}
		spec.Type = typ
		m.Sections[name] = spec
	}
	return m, nil
}

// Save writes m to <themeDir>/metadata.yml.
func Save(themeDir string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode theme metadata").Build()
	}
	path := filepath.Join(themeDir, MetadataFile)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write theme metadata").
			WithContext("path", path).Build()
	}
	return nil
}

// Describe renders a human readable summary of m for `ezcv theme --metadata`.
func Describe(m Manifest) string {
	var b strings.Builder
	b.WriteString("Theme: " + m.Name + "\n")
	if len(m.RequiredConfig) > 0 {
		b.WriteString("Required config:\n")
		keys := make([]string, 0, len(m.RequiredConfig))
		for k := range m.RequiredConfig {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			rk := m.RequiredConfig[k]
			b.WriteString("  " + k + " (" + string(rk.Type) + ")")
			if rk.Description != "" {
				b.WriteString(": " + rk.Description)
			}
			b.WriteByte('\n')
		}
	}
	b.WriteString("Sections:\n")
	for _, name := range m.SectionNames() {
		spec := m.Sections[name]
		b.WriteString("  " + name + " [" + string(spec.Type) + "]\n")
		fields := make([]string, 0, len(spec.Fields))
		for f := range spec.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			b.WriteString("    " + f + ": " + string(spec.Fields[f]) + "\n")
		}
	}
	return b.String()
}
