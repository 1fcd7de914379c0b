package theme

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Descent098/ezcv/internal/foundation/errors"
	"github.com/Descent098/ezcv/internal/fsutil"
)

// List returns the themes installed under themesRoot.
func List(themesRoot string) ([]string, error) {
	entries, err := os.ReadDir(themesRoot)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read theme library").
			WithContext("path", themesRoot).Build()
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Copy copies the theme at src into <siteRoot>/themes/<name> for local
// customisation and returns the new directory.
func Copy(src, siteRoot string) (string, error) {
	if !fsutil.IsDir(src) {
		return "", errors.ThemeDirectoryMissing(src)
	}
	dst := filepath.Join(siteRoot, "themes", filepath.Base(src))
	if fsutil.Exists(dst) {
		return "", errors.ValidationError("theme already copied").WithContext("path", dst).Build()
	}
	err := fsutil.CopyDir(src, dst, func(rel string, d fs.DirEntry) bool {
		return rel == ".git"
	})
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to copy theme").
			WithContext("path", dst).Build()
	}
	return dst, nil
}
