package theme

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func mkfile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

// zipBytes builds an archive from name → content; names ending in / are dirs.
func zipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		if body != "" {
			_, err = w.Write([]byte(body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// baseTheme writes a minimal valid theme into dir.
func baseTheme(t *testing.T, dir string) {
	t.Helper()
	mkfile(t, filepath.Join(dir, IndexPage), `<html>{{ .projects_html }}</html>`)
	mkfile(t, filepath.Join(dir, SectionsDir, "projects"+TemplateExt), `{{ range .projects }}{{ .Meta.Get "title" }}{{ end }}`)
	mkfile(t, filepath.Join(dir, SectionsDir, GalleryTemplate), `{{ range .gallery }}{{ end }}`)
	mkfile(t, filepath.Join(dir, SectionsDir, "blog", SingleTemplate), `{{ .post.Body }}`)
	mkfile(t, filepath.Join(dir, SectionsDir, "blog", FeedTemplate), `feed`)
	mkfile(t, filepath.Join(dir, SectionsDir, "notes.txt"), `ignored`)
}
