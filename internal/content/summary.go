package content

import (
	"html/template"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// SummaryLength is the rune budget of Item.Summary.
const SummaryLength = 200

// Summarize returns the visible text of body, whitespace collapsed, cut on a
// word boundary at max runes.
func Summarize(body template.HTML, max int) string {
	z := html.NewTokenizer(strings.NewReader(string(body)))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return truncate(strings.Join(strings.Fields(b.String()), " "), max)
		case html.StartTagToken:
			if name, _ := z.TagName(); isHidden(string(name)) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isHidden(string(name)) && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isHidden(tag string) bool {
	return tag == "script" || tag == "style"
}

func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	cut := []rune(s)[:max]
	out := string(cut)
	if i := strings.LastIndexByte(out, ' '); i > 0 {
		out = out[:i]
	}
	return out + "…"
}
