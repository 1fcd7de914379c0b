package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyTheme      = "theme"
	KeySection    = "section"
	KeySectionTyp = "section_type"
	KeyPage       = "page"
	KeyTemplate   = "template"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyURL        = "url"
	KeyKey        = "key"
	KeyType       = "type"
	KeyDesc       = "description"
	KeyCount      = "count"
	KeyBytes      = "bytes"
	KeyOutput     = "output"
	KeyAddr       = "addr"
	KeyEvent      = "event"
	KeyError      = "error"
)

func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Theme(name string) slog.Attr     { return slog.String(KeyTheme, name) }
func Section(s string) slog.Attr      { return slog.String(KeySection, s) }
func SectionType(t string) slog.Attr  { return slog.String(KeySectionTyp, t) }
func Page(p string) slog.Attr         { return slog.String(KeyPage, p) }
func Template(name string) slog.Attr  { return slog.String(KeyTemplate, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Key(k string) slog.Attr          { return slog.String(KeyKey, k) }
func Type(t string) slog.Attr         { return slog.String(KeyType, t) }
func Description(d string) slog.Attr  { return slog.String(KeyDesc, d) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Bytes(n int64) slog.Attr         { return slog.Int64(KeyBytes, n) }
func Output(dir string) slog.Attr     { return slog.String(KeyOutput, dir) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func Event(e string) slog.Attr        { return slog.String(KeyEvent, e) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
