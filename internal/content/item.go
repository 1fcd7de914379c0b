package content

import (
	"html/template"
	"strings"

	"github.com/inful/mdfp"
)

// Item is one parsed content file.
type Item struct {
	Kind     Kind
	Path     string
	Meta     Metadata
	Body     template.HTML
	Summary  string
	Filename string // source file name, set for blog sections

	Fingerprint string
}

// Parser turns one file into metadata and an HTML body.
type Parser interface {
	Parse(path string) (Metadata, template.HTML, error)
}

func fingerprint(meta Metadata, body template.HTML) string {
	var b strings.Builder
	for _, k := range meta.Keys() {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(meta.String(k))
		b.WriteByte('\n')
	}
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(b.String(), "\n"), string(body))
}
