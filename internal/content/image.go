package content

import (
	"fmt"
	"html/template"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/Descent098/ezcv/internal/foundation/errors"
	"github.com/Descent098/ezcv/internal/logfields"
)

// GalleryDir is where image content is copied to in the output tree.
const GalleryDir = "images/gallery"

// FilePathKey is the metadata key pointing at an image's published location.
const FilePathKey = "file_path"

// EXIF only exists in the JPEG family among the registered image extensions.
var exifExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".jfif": true, ".pjpeg": true, ".pjp": true}

// Image parses image files into their EXIF tags and a short HTML description.
type Image struct {
	IgnoreExif bool
}

func (p *Image) Parse(path string) (Metadata, template.HTML, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.ContentNotFound(path, err)
		}
		return nil, "", errors.WrapError(err, errors.CategoryContent, "failed to stat image").
			WithContext("path", path).Build()
	}

	meta := Metadata{}
	if !p.IgnoreExif && exifExtensions[strings.ToLower(filepath.Ext(path))] {
		tags, err := readExif(path)
		if err != nil {
			slog.Debug("No EXIF data", logfields.Path(path), logfields.Error(err))
		}
		meta = tags
	}
	body := exifHTML(meta)
	meta[FilePathKey] = GalleryDir + "/" + filepath.Base(path)
	return meta, body, nil
}

func readExif(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, err
	}
	defer func() { _ = f.Close() }()

	x, err := exif.Decode(f)
	if err != nil {
		return Metadata{}, err
	}
	w := tagWalker{meta: Metadata{}}
	if err := x.Walk(w); err != nil {
		return w.meta, err
	}
	return w.meta, nil
}

type tagWalker struct {
	meta Metadata
}

func (w tagWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if v, ok := tagValue(tag); ok {
		w.meta[string(name)] = v
	}
	return nil
}

func tagValue(tag *tiff.Tag) (any, bool) {
	if tag == nil || tag.Count == 0 {
		return nil, false
	}
	switch tag.Format() {
	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return nil, false
		}
		return strings.TrimSpace(strings.TrimRight(s, "\x00")), true
	case tiff.IntVal:
		if tag.Count != 1 {
			return tag.String(), true
		}
		v, err := tag.Int(0)
		if err != nil {
			return nil, false
		}
		return v, true
	case tiff.RatVal:
		if tag.Count != 1 {
			return tag.String(), true
		}
		num, den, err := tag.Rat2(0)
		if err != nil {
			return nil, false
		}
		return formatRational(num, den), true
	default:
		return tag.String(), true
	}
}

// formatRational prints a reduced fraction, or an integer when the
// denominator reduces to one.
func formatRational(num, den int64) string {
	if den == 0 {
		return strconv.FormatInt(num, 10)
	}
	r := big.NewRat(num, den)
	if r.IsInt() {
		return r.Num().String()
	}
	return r.String()
}

// parseNumber reads "6.3", "63/10" or "50" as a float.
func parseNumber(s string) (float64, bool) {
	if r, ok := new(big.Rat).SetString(s); ok {
		f, _ := r.Float64()
		return f, true
	}
	return 0, false
}

func exifHTML(meta Metadata) template.HTML {
	var b strings.Builder
	p := func(class, format string, args ...any) {
		for i, a := range args {
			args[i] = template.HTMLEscapeString(fmt.Sprint(a))
		}
		fmt.Fprintf(&b, "<p class='%s'>"+format+"</p>\n", append([]any{class}, args...)...)
	}

	if lens := meta.String("LensModel"); lens != "" {
		p("lens", "%s", lens)
	}

	ff, focal := meta.String("FocalLengthIn35mmFilm"), meta.String("FocalLength")
	switch {
	case ff != "" && ff != focal:
		p("focal-length", "%smm (full frame equivalent)", ff)
	case ff != "":
		p("focal-length", "%smm", ff)
	case focal != "":
		p("focal-length", "%smm", focal)
	}

	if iso := meta.String("ISOSpeedRatings"); iso != "" {
		p("iso", "ISO %s", iso)
	}
	if exposure := meta.String("ExposureTime"); exposure != "" {
		p("shutter-speed", "%s Second(s)", exposure)
	}
	if fnum := meta.String("FNumber"); fnum != "" {
		if f, ok := parseNumber(fnum); ok {
			fnum = strconv.FormatFloat(f, 'f', -1, 64)
		}
		p("aperture", "f%s", fnum)
	}

	maker, model := meta.String("Make"), meta.String("Model")
	switch {
	case maker != "" && model != "":
		p("camera-type", "%s %s", maker, model)
	case maker != "":
		p("camera-type", "%s", maker)
	case model != "":
		p("camera-type", "%s", model)
	}
	return template.HTML(b.String()) //nolint:gosec // values escaped above
}
