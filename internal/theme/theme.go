// Package theme resolves theme directories, fetches remote themes, and
// describes a theme's sections in a metadata manifest.
package theme

import (
	"path/filepath"
	"strings"
)

// Theme layout.
const (
	TemplateExt  = ".gohtml"
	IndexPage    = "index" + TemplateExt
	ResumePage   = "resume" + TemplateExt
	SectionsDir  = "sections"
	PartialsDir  = "partials"
	MetadataFile = "metadata.yml"

	GalleryTemplate  = "gallery" + TemplateExt
	SingleTemplate   = "single" + TemplateExt
	FeedTemplate     = "feed" + TemplateExt
	OverviewTemplate = "overview" + TemplateExt
)

// IsTemplate reports whether name is a template source file.
func IsTemplate(name string) bool {
	return strings.EqualFold(filepath.Ext(name), TemplateExt)
}

// TrimTemplateExt strips the template extension from name, if present.
func TrimTemplateExt(name string) string {
	if IsTemplate(name) {
		return name[:len(name)-len(TemplateExt)]
	}
	return name
}
