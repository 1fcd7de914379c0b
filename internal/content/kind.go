package content

import (
	"path/filepath"
	"strings"
)

// Kind is a content variant.
type Kind int

const (
	KindMarkdown Kind = iota + 1
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindMarkdown:
		return "markdown"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

var kindExtensions = map[Kind][]string{
	KindMarkdown: {".md", ".markdown", ".mdown", ".mkdn", ".mkd", ".mdwn"},
	KindImage:    {".jpg", ".png", ".jpeg", ".gif", ".svg", ".webp", ".apng", ".jfif", ".pjpeg", ".pjp"},
}

var extensionKinds = func() map[string]Kind {
	m := make(map[string]Kind)
	for kind, exts := range kindExtensions {
		for _, ext := range exts {
			m[ext] = kind
		}
	}
	return m
}()

// KindFor returns the Kind registered for path's extension.
func KindFor(path string) (Kind, bool) {
	k, ok := extensionKinds[strings.ToLower(filepath.Ext(path))]
	return k, ok
}

// Extensions lists the extensions registered for k.
func Extensions(k Kind) []string {
	return append([]string(nil), kindExtensions[k]...)
}
