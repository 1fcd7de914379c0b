package theme

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/schollz/progressbar/v3"

	ezerrors "github.com/Descent098/ezcv/internal/foundation/errors"
	"github.com/Descent098/ezcv/internal/logfields"
	"github.com/Descent098/ezcv/internal/metrics"
	"github.com/Descent098/ezcv/internal/retry"
)

const maxThemeArchiveBytes = 200 * 1024 * 1024

// Fetcher downloads remote themes into the theme library.
type Fetcher struct {
	ThemesRoot string
	Client     *http.Client
	// Progress receives download and clone progress; nil silences it.
	Progress io.Writer
	Recorder metrics.Recorder
	// Retry applies to transient network failures. The zero value tries once.
	Retry retry.Policy
}

func NewFetcher(themesRoot string) *Fetcher {
	return &Fetcher{
		ThemesRoot: themesRoot,
		Client:     NewHTTPClient(),
		Progress:   os.Stderr,
		Recorder:   metrics.NoopRecorder{},
		Retry:      retry.DefaultPolicy(),
	}
}

// NewHTTPClient creates an HTTP client with timeouts and a redirect limit.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 5 * time.Minute,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
				return errors.New("redirect to unsupported scheme blocked")
			}
			if len(via) >= 10 {
				return errors.New("too many redirects")
			}
			return nil
		},
	}
}

// Fetch installs the theme at rawURL as <themes root>/<name>. If that
// directory already exists nothing is downloaded.
func (f *Fetcher) Fetch(ctx context.Context, name, rawURL string) (string, error) {
	if f.ThemesRoot == "" {
		return "", ezerrors.ThemeError("no theme library configured").WithContext("theme", name).Build()
	}
	if !validThemeName(name) {
		return "", ezerrors.ThemeNotFound(name)
	}
	target := filepath.Join(f.ThemesRoot, name)
	if _, err := os.Stat(target); err == nil {
		slog.Debug("Remote theme already installed", logfields.Theme(name), logfields.Path(target))
		return target, nil
	}
	if err := os.MkdirAll(f.ThemesRoot, 0o750); err != nil {
		return "", ezerrors.WrapError(err, ezerrors.CategoryFileSystem, "failed to create theme library").
			WithContext("path", f.ThemesRoot).Build()
	}

	source := "zip"
	if isGitURL(rawURL) {
		source = "git"
	}
	err := retry.Do(ctx, f.Retry, func() error {
		_ = os.RemoveAll(target)
		if source == "git" {
			return f.clone(ctx, target, rawURL)
		}
		return f.download(ctx, name, target, rawURL)
	})
	if f.Recorder != nil {
		f.Recorder.IncThemeFetch(source, err == nil)
	}
	if err != nil {
		_ = os.RemoveAll(target)
		return "", err
	}
	slog.Info("Installed remote theme", logfields.Theme(name), logfields.URL(rawURL), logfields.Path(target))
	return target, nil
}

func (f *Fetcher) progress() io.Writer {
	if f.Progress == nil {
		return io.Discard
	}
	return f.Progress
}

func (f *Fetcher) download(ctx context.Context, name, target, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ezerrors.ValidationError("unsupported theme URL").WithContext("url", rawURL).Build()
	}

	tmp, err := os.CreateTemp("", "ezcv-theme-*.zip")
	if err != nil {
		return ezerrors.WrapError(err, ezerrors.CategoryFileSystem, "failed to create temp file").Build()
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	client := f.Client
	if client == nil {
		client = NewHTTPClient()
	}
	resp, err := client.Do(req)
	if err != nil {
		return ezerrors.WrapError(err, ezerrors.CategoryNetwork, "theme download failed").
			WithContext("url", rawURL).Retryable().Build()
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b := ezerrors.NewError(ezerrors.CategoryNetwork, fmt.Sprintf("theme download failed: HTTP %d", resp.StatusCode)).
			WithContext("url", rawURL)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			b = b.Retryable()
		}
		return b.Build()
	}

	bar := progressbar.NewOptions64(resp.ContentLength,
		progressbar.OptionSetWriter(f.progress()),
		progressbar.OptionSetDescription("Downloading "+name),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(20),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() { _, _ = fmt.Fprintln(f.progress()) }),
	)
	n, err := io.Copy(io.MultiWriter(tmp, bar), io.LimitReader(resp.Body, maxThemeArchiveBytes+1))
	if err != nil {
		return ezerrors.WrapError(err, ezerrors.CategoryNetwork, "theme download interrupted").
			WithContext("url", rawURL).Retryable().Build()
	}
	if n > maxThemeArchiveBytes {
		return ezerrors.ValidationError("theme archive too large").WithContext("url", rawURL).Build()
	}
	_ = bar.Finish()
	slog.Debug("Downloaded theme archive", logfields.Theme(name), logfields.Bytes(n))

	if err := extractZip(tmp.Name(), target); err != nil {
		return ezerrors.WrapError(err, ezerrors.CategoryTheme, "failed to extract theme archive").
			WithContext("url", rawURL).Build()
	}
	return hoistSingleDir(target)
}

func (f *Fetcher) clone(ctx context.Context, target, rawURL string) error {
	opts := &git.CloneOptions{URL: rawURL, Progress: f.progress()}
	if strings.Contains(rawURL, "://") && !strings.HasPrefix(rawURL, "file://") {
		opts.Depth = 1
	}
	if _, err := git.PlainCloneContext(ctx, target, false, opts); err != nil {
		return ezerrors.WrapError(err, ezerrors.CategoryGit, "theme clone failed").
			WithContext("url", rawURL).Retryable().Build()
	}
	return os.RemoveAll(filepath.Join(target, ".git"))
}

func isGitURL(s string) bool {
	return strings.HasSuffix(strings.TrimSuffix(s, "/"), ".git") || strings.HasPrefix(s, "git@")
}

func extractZip(archive, target string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	root := filepath.Clean(target) + string(os.PathSeparator)
	if err := os.MkdirAll(target, 0o750); err != nil {
		return err
	}
	for _, zf := range r.File {
		if strings.HasPrefix(zf.Name, "__MACOSX/") {
			continue
		}
		dest := filepath.Join(target, filepath.FromSlash(zf.Name))
		if !strings.HasPrefix(dest+string(os.PathSeparator), root) {
			return fmt.Errorf("archive entry %q escapes target directory", zf.Name)
		}
		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o750); err != nil {
				return err
			}
			continue
		}
		if err := extractFile(zf, dest); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(zf *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return err
	}
	in, err := zf.Open()
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, io.LimitReader(in, maxThemeArchiveBytes)); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// hoistSingleDir moves the contents of dir/<only entry> up into dir when the
// only entry is a directory.
func hoistSingleDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(entries) != 1 || !entries[0].IsDir() {
		return nil
	}
	// Rename the wrapper first so a child with the same name can move up.
	wrapper, err := os.MkdirTemp(dir, ".hoist-")
	if err != nil {
		return err
	}
	if err := os.Remove(wrapper); err != nil {
		return err
	}
	if err := os.Rename(filepath.Join(dir, entries[0].Name()), wrapper); err != nil {
		return err
	}
	children, err := os.ReadDir(wrapper)
	if err != nil {
		return err
	}
	for _, c := range children {
		if err := os.Rename(filepath.Join(wrapper, c.Name()), filepath.Join(dir, c.Name())); err != nil {
			return err
		}
	}
	return os.Remove(wrapper)
}
