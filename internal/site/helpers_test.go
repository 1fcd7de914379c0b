package site

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Descent098/ezcv/internal/config"
	"github.com/Descent098/ezcv/internal/metrics"
)

func mkfile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// newSite lays out a site using the "base" theme under <root>/themes/base.
func newSite(t *testing.T, cfg string) string {
	t.Helper()
	root := t.TempDir()
	mkfile(t, filepath.Join(root, "config.yml"), cfg)

	dir := filepath.Join(root, "themes", "base")
	mkfile(t, filepath.Join(dir, "index.gohtml"),
		`<html><body>{{ .projects_html }}{{ template "footer" . }}</body></html>`)
	mkfile(t, filepath.Join(dir, "resume.gohtml"), `<p>resume of {{ .config.Name }}</p>`)
	mkfile(t, filepath.Join(dir, "partials", "footer.gohtml"),
		`{{ define "footer" }}<footer>{{ .config.Name }}</footer>{{ end }}`)
	mkfile(t, filepath.Join(dir, "sections", "projects.gohtml"),
		`{{ range .projects }}<h2>{{ .Meta.Get "title" }}</h2>{{ .Body }}{{ end }}`)
	mkfile(t, filepath.Join(dir, "css", "style.css"), `body {}`)
	return root
}

func themeDir(root string) string { return filepath.Join(root, "themes", "base") }

func testOptions(t *testing.T, root string) Options {
	t.Helper()
	return Options{
		Root:   root,
		Paths:  config.PathsFor(t.TempDir()),
		Opener: func(string) error { return nil },
		Clock:  func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) },
	}
}

type countingRecorder struct {
	metrics.NoopRecorder
	mu       sync.Mutex
	stages   map[string]metrics.ResultLabel
	outcomes []metrics.BuildOutcome
	pages    int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{stages: map[string]metrics.ResultLabel{}}
}

func (c *countingRecorder) IncStageResult(stage string, res metrics.ResultLabel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stages[stage] = res
}

func (c *countingRecorder) IncBuildOutcome(o metrics.BuildOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcomes = append(c.outcomes, o)
}

func (c *countingRecorder) IncPagesRendered(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages += n
}
