// Package frontmatter splits and parses the metadata block at the top of a
// Markdown document. YAML (`---`) and TOML (`+++`) blocks are recognised.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies the front matter syntax of a document.
type Format int

const (
	FormatNone Format = iota
	FormatYAML
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "none"
	}
}

// ErrMissingClosingDelimiter indicates the document opened a front matter
// block but never closed it.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// Split separates the front matter block from the body. Documents without a
// block return FormatNone and the full input as body.
func Split(content []byte) (fm []byte, body []byte, format Format, err error) {
	nl := detectNewline(content)

	for _, d := range []struct {
		delim  string
		format Format
	}{{"---", FormatYAML}, {"+++", FormatTOML}} {
		open := []byte(d.delim + nl)
		if !bytes.HasPrefix(content, open) {
			continue
		}
		start := len(open)
		if bytes.HasPrefix(content[start:], open) {
			return []byte{}, content[start+len(open):], d.format, nil
		}
		closeSeq := []byte(nl + d.delim + nl)
		idx := bytes.Index(content[start:], closeSeq)
		if idx < 0 {
			// A closing delimiter on the final line with no trailing newline.
			tail := []byte(nl + d.delim)
			if bytes.HasSuffix(content, tail) {
				return content[start : len(content)-len(tail)+len(nl)], []byte{}, d.format, nil
			}
			return nil, nil, FormatNone, ErrMissingClosingDelimiter
		}
		return content[start : start+idx+len(nl)], content[start+idx+len(closeSeq):], d.format, nil
	}
	return nil, content, FormatNone, nil
}

// Parse decodes a raw front matter block into a map.
func Parse(fm []byte, format Format) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(fm)) == 0 {
		return fields, nil
	}
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(fm, &fields)
	case FormatTOML:
		err = toml.Unmarshal(fm, &fields)
	default:
		return nil, fmt.Errorf("unsupported front matter format %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s front matter: %w", format, err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Scalars collapses list values to their first element. Empty lists become "".
// Date and time values are rendered back to text: midnight values as
// YYYY-MM-DD, anything else as RFC 3339.
func Scalars(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if list, ok := v.([]any); ok {
			if len(list) == 0 {
				out[k] = ""
				continue
			}
			v = list[0]
		}
		out[k] = scalar(v)
	}
	return out
}

func scalar(v any) any {
	switch t := v.(type) {
	case time.Time:
		return formatTime(t)
	case toml.LocalDate:
		return t.String()
	case toml.LocalDateTime:
		return formatTime(t.AsTime(time.UTC))
	case toml.LocalTime:
		return t.String()
	default:
		return v
	}
}

func formatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
