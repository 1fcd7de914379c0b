package section

import (
	"os"
	"path/filepath"

	"github.com/Descent098/ezcv/internal/foundation/errors"
	"github.com/Descent098/ezcv/internal/frontmatter"
	"github.com/Descent098/ezcv/internal/theme"
)

// Scaffold creates <root>/content/<name> with an example file whose front
// matter follows spec's field schema. Gallery sections get an empty
// directory. It returns the created example file, or the directory for
// galleries.
func Scaffold(root, name string, spec theme.SectionSpec, today string) (string, error) {
	if name == "" {
		return "", errors.ValidationError("section name is required").Build()
	}
	dir := filepath.Join(root, ContentDir, name)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to create section directory").
			WithContext("path", dir).Build()
	}
	if spec.Type == theme.SectionGallery {
		return dir, nil
	}

	fields := spec.Fields
	if len(fields) == 0 && spec.Type == theme.SectionBlog {
		fields = theme.DefaultBlogFields()
	}
	values := make(map[string]any, len(fields))
	for key, typ := range fields {
		values[key] = placeholder(key, typ, today)
	}
	if _, ok := values["title"]; !ok {
		values["title"] = "Example " + name
	}

	doc, err := frontmatter.Render(values, "Write your "+name+" content here.\n")
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryInternal, "failed to render example front matter").Build()
	}
	path := filepath.Join(dir, examplePrefix+"-"+name+".md")
	if _, err := os.Stat(path); err == nil {
		return "", errors.ValidationError("example file already exists").WithContext("path", path).Build()
	}
	if err := os.WriteFile(path, doc, 0o600); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to write example file").
			WithContext("path", path).Build()
	}
	return path, nil
}

func placeholder(key string, typ theme.FieldType, today string) any {
	switch typ {
	case theme.FieldDatetime:
		return today
	case theme.FieldInt:
		return 0
	case theme.FieldBool:
		return false
	default:
		return "Your " + key
	}
}
