// Package site assembles the rendering context, renders theme pages and
// exports the finished site.
package site

import (
	"context"
	stdErrors "errors"
	"html/template"
	"io"
	"path/filepath"
	"time"

	"github.com/Descent098/ezcv/internal/config"
	"github.com/Descent098/ezcv/internal/content"
	"github.com/Descent098/ezcv/internal/foundation/errors"
	"github.com/Descent098/ezcv/internal/logfields"
	"github.com/Descent098/ezcv/internal/metrics"
	"github.com/Descent098/ezcv/internal/observability"
	"github.com/Descent098/ezcv/internal/section"
	"github.com/Descent098/ezcv/internal/theme"
)

// DefaultOutput is the output directory used when none is given.
const DefaultOutput = "site"

// Options configure one call to Generate. Zero values fall back to the site
// defaults.
type Options struct {
	// Root is the site directory. Defaults to the working directory.
	Root string
	// ConfigPath defaults to <Root>/config.yml.
	ConfigPath string
	// Output defaults to <Root>/site.
	Output string
	// Theme overrides the config's theme when set.
	Theme string
	// Sections limits the build to these sections. Empty means every
	// section the theme declares.
	Sections []string
	// Preview rescans the theme's sections on every build.
	Preview bool
	// Open shows the exported index page with Opener.
	Open   bool
	Opener func(target string) error

	Paths    config.Paths
	Fetcher  *theme.Fetcher
	Recorder metrics.Recorder
	// Progress receives progress bars; nil silences them.
	Progress io.Writer
	// Filters are added to the template funcs.
	Filters template.FuncMap
	// Clock overrides the date used to backfill blog posts.
	Clock func() time.Time
}

// buildState is the mutable state threaded through the stages of one build.
type buildState struct {
	opts   Options
	report *BuildReport

	cfg      *config.SiteConfig
	themeDir string
	manifest theme.Manifest
	renderer *Renderer
	session  *content.Session
	names    []string
	sections []section.Section
	context  Context
	pages    []PageSpec
}

func (bs *buildState) recorder() metrics.Recorder {
	if bs.opts.Recorder == nil {
		return metrics.NoopRecorder{}
	}
	return bs.opts.Recorder
}

// Generate builds the site described by opts. Every call is a full rebuild
// with fresh content state. The report is returned even when the build fails.
func Generate(ctx context.Context, opts Options) (*BuildReport, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	bs := &buildState{opts: opts, report: newBuildReport()}
	bs.report.Output = opts.Output
	ctx = observability.WithBuildID(ctx, bs.report.BuildID)

	stages := NewPipeline().
		Add(StageConfigLoaded, stageLoadConfig).
		Add(StageThemeResolved, stageResolveTheme).
		Add(StageRequiredConfigChecked, stageCheckRequiredConfig).
		Add(StageFiltersInjected, stageInjectFilters).
		Add(StageSectionsDiscovered, stageDiscoverSections).
		Add(StageContentLoaded, stageLoadContent).
		Add(StageSectionsRendered, stageRenderSections).
		Add(StagePagesEnumerated, stageEnumeratePages).
		Add(StageExported, stageExport).
		AddIf(opts.Open, StagePreviewOpened, stageOpenPreview).
		Build()

	observability.InfoContext(ctx, "Building site", logfields.Output(opts.Output))
	err = runStages(ctx, bs, stages)
	bs.report.finish(err)

	rec := bs.recorder()
	rec.ObserveBuildDuration(bs.report.Duration())
	rec.IncBuildOutcome(bs.report.Outcome)
	rec.IncPagesRendered(len(bs.report.Pages))
	if err != nil {
		return bs.report, err
	}
	observability.InfoContext(ctx, "Site built",
		logfields.Count(len(bs.report.Pages)),
		logfields.DurationMS(float64(bs.report.Duration().Microseconds())/1000))
	return bs.report, nil
}

func (o Options) withDefaults() (Options, error) {
	if o.Root == "" {
		o.Root = "."
	}
	root, err := filepath.Abs(o.Root)
	if err != nil {
		return o, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve site root").Build()
	}
	o.Root = root
	if o.ConfigPath == "" {
		o.ConfigPath = filepath.Join(root, config.DefaultFile)
	}
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if !filepath.IsAbs(o.Output) {
		o.Output = filepath.Join(root, o.Output)
	}
	if err := checkOutput(o.Output, root); err != nil {
		return o, err
	}
	if o.Paths == (config.Paths{}) {
		if o.Paths, err = config.DefaultPaths(); err != nil {
			return o, err
		}
	}
	if o.Opener == nil {
		o.Opener = OpenBrowser
	}
	return o, nil
}

func stageLoadConfig(_ context.Context, bs *buildState) error {
	cfg, err := config.Load(bs.opts.ConfigPath, bs.opts.Paths)
	if err != nil {
		return err
	}
	bs.cfg = cfg
	return nil
}

func stageResolveTheme(ctx context.Context, bs *buildState) error {
	name := bs.opts.Theme
	if name == "" {
		name = bs.cfg.Theme()
	}
	fetcher := bs.opts.Fetcher
	if fetcher == nil {
		fetcher = theme.NewFetcher(bs.opts.Paths.ThemesRoot)
		fetcher.Progress = bs.opts.Progress
		fetcher.Recorder = bs.recorder()
	}
	dir, err := theme.NewLocator(bs.opts.Root, bs.opts.Paths, fetcher).Locate(ctx, name, bs.cfg)
	if err != nil {
		return err
	}
	m, err := theme.Generate(dir, filepath.Join(bs.opts.Root, section.ContentDir), false)
	if err != nil {
		return err
	}
	bs.themeDir, bs.manifest = dir, m
	bs.report.Theme, bs.report.ThemeDir = name, dir
	observability.InfoContext(observability.WithTheme(ctx, name), "Resolved theme", logfields.Path(dir))
	return nil
}

// stageCheckRequiredConfig reports every required key the config lacks. It
// runs before anything under the output directory is touched.
func stageCheckRequiredConfig(ctx context.Context, bs *buildState) error {
	missing := bs.manifest.MissingRequired(func(key string) bool {
		_, ok := bs.cfg.Lookup(key)
		return ok
	})
	if len(missing) == 0 {
		return nil
	}
	errs := make([]error, 0, len(missing))
	for _, key := range missing {
		rk := bs.manifest.RequiredConfig[key]
		observability.ErrorContext(ctx, "Missing required configuration",
			logfields.Key(key), logfields.Type(string(rk.Type)),
			logfields.Description(rk.Description), logfields.Theme(bs.manifest.Name))
		errs = append(errs, errors.MissingRequiredConfig(key, string(rk.Type), rk.Description))
	}
	return stdErrors.Join(errs...)
}

func stageInjectFilters(_ context.Context, bs *buildState) error {
	r, err := NewRenderer(bs.themeDir, Funcs(bs.opts.Filters))
	if err != nil {
		return err
	}
	bs.renderer = r
	bs.context = NewContext(bs.cfg)
	return nil
}

func stageDiscoverSections(ctx context.Context, bs *buildState) error {
	names, err := section.ThemeSectionNames(bs.themeDir, bs.opts.Sections, bs.opts.Preview)
	if err != nil {
		return err
	}
	// The directory scan decides section types; a stale manifest only
	// contributes field schemas.
	scanned, err := theme.ScanSections(bs.themeDir)
	if err != nil {
		return err
	}
	specs := make(map[string]theme.SectionSpec, len(scanned))
	for name, spec := range scanned {
		spec.Fields = bs.manifest.Sections[name].Fields
		specs[name] = spec
	}
	bs.manifest.Sections = specs
	bs.names = names
	observability.DebugContext(ctx, "Discovered sections", logfields.Count(len(names)))
	return nil
}

func stageLoadContent(ctx context.Context, bs *buildState) error {
	opts := []content.SessionOption{content.WithIgnoreExif(bs.cfg.Bool("ignore_exif_data"))}
	if bs.opts.Clock != nil {
		opts = append(opts, content.WithClock(bs.opts.Clock))
	}
	bs.session = content.NewSession(opts...)
	secs, err := section.Resolve(ctx, bs.session, bs.opts.Root, bs.manifest, bs.names, bs.cfg.Bool("examples"))
	if err != nil {
		return err
	}
	bs.sections = secs
	bs.report.Sections = len(secs)
	for _, s := range secs {
		bs.report.Items += len(s.Items)
	}
	return nil
}

func stageRenderSections(ctx context.Context, bs *buildState) error {
	pages, err := RenderSections(ctx, bs.renderer, bs.context, bs.sections)
	if err != nil {
		return err
	}
	bs.pages = pages
	return nil
}

func stageEnumeratePages(_ context.Context, bs *buildState) error {
	pages, err := EnumeratePages(bs.themeDir, bs.cfg)
	if err != nil {
		return err
	}
	bs.pages = append(pages, bs.pages...)
	return nil
}

func stageExport(ctx context.Context, bs *buildState) error {
	ex := &Exporter{
		Root:     bs.opts.Root,
		ThemeDir: bs.themeDir,
		Output:   bs.opts.Output,
		Renderer: bs.renderer,
		Progress: bs.opts.Progress,
	}
	images := bs.session.ImagePaths()
	written, err := ex.Export(ctx, bs.context, bs.pages, images)
	bs.report.Pages = written
	bs.report.Images = len(images)
	return err
}

func stageOpenPreview(ctx context.Context, bs *buildState) error {
	index := filepath.Join(bs.opts.Output, "index.html")
	if err := bs.opts.Opener(index); err != nil {
		// Not being able to open a browser does not fail the build.
		observability.WarnContext(ctx, "Could not open preview", logfields.Path(index), logfields.Error(err))
	}
	return nil
}

func isCanceled(err error) bool {
	return stdErrors.Is(err, context.Canceled) || stdErrors.Is(err, context.DeadlineExceeded)
}
