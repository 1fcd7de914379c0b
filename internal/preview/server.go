// Package preview serves a site from a temporary workspace and rebuilds it
// when its sources change, reloading connected browsers.
package preview

import (
	"context"
	stdErrors "errors"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"github.com/Descent098/ezcv/internal/foundation/errors"
	"github.com/Descent098/ezcv/internal/logfields"
	"github.com/Descent098/ezcv/internal/metrics"
	"github.com/Descent098/ezcv/internal/site"
	"github.com/Descent098/ezcv/internal/workspace"
)

// DefaultAddr is the address the preview server listens on.
const DefaultAddr = "localhost:8000"

// Options configure a preview Server.
type Options struct {
	// Site configures each build. Output, Preview and Recorder are set by the
	// server.
	Site site.Options
	Addr string
	// Output keeps the preview in this directory instead of a temporary
	// workspace.
	Output string
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// RebuildInterval, when positive, also rebuilds on a fixed schedule.
	RebuildInterval time.Duration
	// Open shows the site in a browser once the server is listening.
	Open bool
}

// buildStatus tracks the outcome of the latest build.
type buildStatus struct {
	mu       sync.RWMutex
	lastErr  error
	report   *site.BuildReport
	goodOnce bool
}

func (b *buildStatus) set(r *site.BuildReport, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastErr = err
	if r != nil {
		b.report = r
	}
	if err == nil {
		b.goodOnce = true
	}
}

func (b *buildStatus) get() (*site.BuildReport, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.report, b.lastErr
}

// Server builds the site into a workspace and serves it with live reload.
type Server struct {
	opts     Options
	ws       *workspace.Manager
	output   string
	hub      *LiveReloadHub
	recorder *metrics.PrometheusRecorder
	status   buildStatus
	requests chan struct{}
	buildMu  sync.Mutex
}

// New prepares a server and its workspace. Call Close to remove the
// workspace.
func New(opts Options) (*Server, error) {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Site.Opener == nil {
		opts.Site.Opener = site.OpenBrowser
	}
	ws := workspace.NewManager("")
	if opts.Output != "" {
		ws = workspace.NewPersistentManager(opts.Output)
	}
	if err := ws.Create(); err != nil {
		return nil, err
	}
	out := ws.Path()
	if !ws.Persistent() {
		var err error
		if out, err = ws.Subdir(site.DefaultOutput); err != nil {
			_ = ws.Cleanup()
			return nil, err
		}
	}
	return &Server{
		opts:     opts,
		ws:       ws,
		output:   out,
		hub:      NewLiveReloadHub(),
		recorder: metrics.NewPrometheusRecorder(nil),
		requests: make(chan struct{}, 1),
	}, nil
}

// Output is the directory the site is built into.
func (s *Server) Output() string { return s.output }

// Build runs one full build and notifies browsers of the result. Builds never
// overlap.
func (s *Server) Build(ctx context.Context) error {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	opts := s.opts.Site
	opts.Output = s.output
	opts.Preview = true
	opts.Open = false
	opts.Recorder = s.recorder
	report, err := site.Generate(ctx, opts)
	s.status.set(report, err)

	hash := ""
	if report != nil {
		hash = report.BuildID
	}
	if err != nil {
		slog.Warn("Preview build failed", logfields.Error(err))
		s.hub.Broadcast("error:" + hash)
		return err
	}
	slog.Info("Preview rebuilt", logfields.BuildID(hash), logfields.Count(len(report.Pages)))
	s.hub.Broadcast(hash)
	return nil
}

// Request queues a rebuild. While a build is running at most one further
// rebuild stays queued.
func (s *Server) Request() {
	select {
	case s.requests <- struct{}{}:
	default:
	}
}

// Handler serves the built site, the live reload endpoints and /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/livereload", s.hub)
	mux.HandleFunc(scriptPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write([]byte(liveReloadScript))
	})
	mux.Handle("/metrics", s.recorder.Handler())

	files := http.FileServer(http.Dir(s.output))
	mux.Handle("/", injectLiveReload(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.status.get(); err != nil && isHTMLPath(r.URL.Path) {
			renderBuildError(w, err)
			return
		}
		files.ServeHTTP(w, r)
	})))
	return mux
}

var errorPage = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html><head><title>Build failed</title></head>
<body><h1>Build failed</h1><pre>{{ .Message }}</pre>{{ with .Hint }}<p>{{ . }}</p>{{ end }}</body></html>`))

func renderBuildError(w http.ResponseWriter, err error) {
	data := struct{ Message, Hint string }{Message: err.Error()}
	if ce, ok := errors.AsClassified(err); ok {
		data.Hint = ce.Hint()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_ = errorPage.Execute(w, data)
}

// Run builds the site, serves it on opts.Addr and rebuilds on changes until
// ctx is canceled. A failing initial build is served as an error page.
func (s *Server) Run(ctx context.Context) error {
	_ = s.Build(ctx)

	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return errors.WrapError(err, errors.CategoryNetwork, "failed to listen").
			WithContext("addr", s.opts.Addr).Build()
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second, IdleTimeout: 300 * time.Second}
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()
	url := "http://" + ln.Addr().String()
	slog.Info("Preview server listening", logfields.Addr(url), logfields.Output(s.output))

	if s.opts.Open {
		if err := s.opts.Site.Opener(url); err != nil {
			slog.Warn("Could not open preview", logfields.URL(url), logfields.Error(err))
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		_ = srv.Close()
		return errors.WrapError(err, errors.CategoryRuntime, "failed to start file watcher").Build()
	}
	defer func() { _ = watcher.Close() }()
	watched := s.watchSet()
	if err := watched.add(watcher); err != nil {
		_ = srv.Close()
		return errors.WrapError(err, errors.CategoryRuntime, "failed to watch site").Build()
	}

	sched, err := s.schedule()
	if err != nil {
		_ = srv.Close()
		return err
	}
	if sched != nil {
		defer func() { _ = sched.Shutdown() }()
	}

	deb := newDebouncer(s.opts.Debounce, s.Request)
	defer deb.Stop()
	go s.rebuildLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return s.shutdown(srv)
		case err := <-serveErr:
			if err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
				return errors.WrapError(err, errors.CategoryNetwork, "preview server stopped").Build()
			}
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			s.handleEvent(watcher, watched, ev, deb)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (s *Server) watchSet() watchSet {
	root := s.opts.Site.Root
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	configPath := s.opts.Site.ConfigPath
	if configPath == "" {
		configPath = "config.yml"
	}
	themeDir := ""
	if r, _ := s.status.get(); r != nil {
		themeDir = r.ThemeDir
	}
	return newWatchSet(root, configPath, themeDir)
}

func (s *Server) handleEvent(w *fsnotify.Watcher, ws watchSet, ev fsnotify.Event, deb *debouncer) {
	if !ws.relevant(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
			addDirsRecursive(w, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), logfields.Event(ev.Op.String()))
	deb.Trigger()
}

// schedule starts periodic rebuilds when an interval is configured.
func (s *Server) schedule() (gocron.Scheduler, error) {
	if s.opts.RebuildInterval <= 0 {
		return nil, nil //nolint:nilnil // no scheduler without an interval
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to create scheduler").Build()
	}
	if _, err := sched.NewJob(
		gocron.DurationJob(s.opts.RebuildInterval),
		gocron.NewTask(s.Request),
		gocron.WithName("periodic-rebuild"),
	); err != nil {
		_ = sched.Shutdown()
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to schedule periodic rebuild").Build()
	}
	sched.Start()
	slog.Info("Periodic rebuild enabled", slog.Duration("interval", s.opts.RebuildInterval))
	return sched, nil
}

func (s *Server) rebuildLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.requests:
			slog.Info("Change detected; rebuilding site")
			_ = s.Build(ctx)
		}
	}
}

func (s *Server) shutdown(srv *http.Server) error {
	slog.Info("Shutting down preview server")
	s.hub.Shutdown()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	return s.Close()
}

// Close removes a temporary workspace. Calling it twice is harmless.
func (s *Server) Close() error {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()
	return s.ws.Cleanup()
}
