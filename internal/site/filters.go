package site

import (
	"fmt"
	"html"
	"html/template"
	"path"
	"reflect"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Descent098/ezcv/internal/config"
	"github.com/Descent098/ezcv/internal/foundation/errors"
)

var dumper = spew.ConfigState{
	Indent:                  "    ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Funcs returns the helpers available to every theme template. Entries in
// extra are added after the built-ins and replace them on a name clash.
func Funcs(extra template.FuncMap) template.FuncMap {
	titler := cases.Title(language.English)
	fm := template.FuncMap{
		"split_to_sublists":              SplitToSublists,
		"get_image_path":                 ImagePath,
		"get_filename_without_extension": FilenameWithoutExtension,
		"pretty_datetime":                PrettyDatetime,
		"pretty_config":                  PrettyConfig,
		"title":                          func(s string) string { return titler.String(s) },
		"safe":                           func(s any) template.HTML { return template.HTML(fmt.Sprint(s)) }, //nolint:gosec // explicit opt-in by the theme
	}
	for name, fn := range extra {
		fm[name] = fn
	}
	return fm
}

// SplitToSublists splits list into consecutive chunks of n. Unless strict is
// passed as false, a list whose length is not a multiple of n is an error.
func SplitToSublists(n int, list any, strict ...bool) ([][]any, error) {
	if n <= 0 {
		return nil, errors.ValidationError("sublist size must be positive").WithContext("size", n).Build()
	}
	v := reflect.ValueOf(list)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, errors.ValidationError("split_to_sublists expects a list").
			WithContext("type", fmt.Sprintf("%T", list)).Build()
	}
	if (len(strict) == 0 || strict[0]) && v.Len()%n != 0 {
		return nil, errors.ValidationError("list length is not a multiple of the sublist size").
			WithContext("length", v.Len()).WithContext("size", n).Build()
	}
	out := make([][]any, 0, (v.Len()+n-1)/n)
	for i := 0; i < v.Len(); i += n {
		end := min(i+n, v.Len())
		chunk := make([]any, 0, end-i)
		for j := i; j < end; j++ {
			chunk = append(chunk, v.Index(j).Interface())
		}
		out = append(out, chunk)
	}
	return out, nil
}

// ImagePath turns an image reference from config or front matter into a src
// attribute: URLs and paths already under images/ pass through, anything else
// is placed under images/.
func ImagePath(p any) (string, error) {
	s, ok := p.(string)
	if !ok || s == "" {
		return "", errors.ConfigError("no path provided for a required image").
			WithHint("check the theme documentation for the images it requires in config.yml").Build()
	}
	switch {
	case strings.HasPrefix(s, "http"), strings.HasPrefix(s, "images"):
		return s, nil
	default:
		return "images/" + s, nil
	}
}

// FilenameWithoutExtension returns the last path segment up to its first dot.
func FilenameWithoutExtension(p string) string {
	base := path.Base(p)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

// PrettyDatetime formats a start and end period, e.g. "October 2013 - December 2017".
// A truthy current replaces the end with "Present".
func PrettyDatetime(monthStarted, yearStarted, monthEnded, yearEnded, current any) string {
	begin := joinSet(monthStarted, yearStarted)
	var end string
	if config.Truthy(current) {
		end = "Present"
	} else {
		end = joinSet(monthEnded, yearEnded)
	}
	switch {
	case begin == "":
		return end
	case end == "":
		return begin
	default:
		return begin + " - " + end
	}
}

func joinSet(vals ...any) string {
	parts := make([]string, 0, len(vals))
	for _, v := range vals {
		if config.Truthy(v) {
			parts = append(parts, fmt.Sprint(v))
		}
	}
	return strings.Join(parts, " ")
}

// PrettyConfig dumps v as escaped HTML with <br> line breaks. A SiteConfig is
// dumped as its plain values.
func PrettyConfig(v any) template.HTML {
	if cfg, ok := v.(*config.SiteConfig); ok {
		v = cfg.Values()
	}
	out := html.EscapeString(strings.TrimRight(dumper.Sdump(v), "\n"))
	return template.HTML(strings.ReplaceAll(out, "\n", "<br>")) //nolint:gosec // content escaped above
}
