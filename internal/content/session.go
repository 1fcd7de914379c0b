package content

import (
	"path/filepath"
	"slices"
	"time"
)

// Session holds the parsing state of a single build. Create one per build.
type Session struct {
	now        func() time.Time
	markdown   *Markdown
	image      *Image
	imagePaths []string
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithIgnoreExif disables EXIF extraction for image content.
func WithIgnoreExif(ignore bool) SessionOption {
	return func(s *Session) { s.image.IgnoreExif = ignore }
}

// WithClock overrides the clock used for date backfilling.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		now:      time.Now,
		markdown: NewMarkdown(),
		image:    &Image{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the session clock's current time.
func (s *Session) Now() time.Time { return s.now() }

// Today formats the session date as YYYY-MM-DD.
func (s *Session) Today() string { return s.now().Format(time.DateOnly) }

// ParserFor returns the parser for k, or nil for an unknown Kind.
func (s *Session) ParserFor(k Kind) Parser {
	switch k {
	case KindMarkdown:
		return s.markdown
	case KindImage:
		return s.image
	default:
		return nil
	}
}

// Parse reads path with the parser registered for its extension. ok is false
// when no parser handles the extension.
func (s *Session) Parse(path string) (item Item, ok bool, err error) {
	kind, ok := KindFor(path)
	if !ok {
		return Item{}, false, nil
	}
	meta, body, err := s.ParserFor(kind).Parse(path)
	if err != nil {
		return Item{}, true, err
	}
	if kind == KindImage {
		s.imagePaths = append(s.imagePaths, path)
	}
	return Item{
		Kind:        kind,
		Path:        path,
		Meta:        meta,
		Body:        body,
		Summary:     Summarize(body, SummaryLength),
		Filename:    filepath.Base(path),
		Fingerprint: fingerprint(meta, body),
	}, true, nil
}

// ImagePaths lists every image parsed in this session, in parse order.
func (s *Session) ImagePaths() []string {
	return slices.Clone(s.imagePaths)
}
