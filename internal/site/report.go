package site

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Descent098/ezcv/internal/metrics"
	"github.com/Descent098/ezcv/internal/version"
)

// BuildReport captures what one site generation did.
type BuildReport struct {
	BuildID          string
	GeneratorVersion string
	Start            time.Time
	End              time.Time

	Theme    string
	ThemeDir string
	Output   string

	Stages         []StageName
	StageDurations map[StageName]time.Duration
	StageResults   map[StageName]StageResult

	Sections int
	Items    int
	Images   int
	Pages    []string

	Outcome metrics.BuildOutcome
}

func newBuildReport() *BuildReport {
	return &BuildReport{
		BuildID:          uuid.NewString(),
		GeneratorVersion: version.Version,
		Start:            time.Now(),
		StageDurations:   make(map[StageName]time.Duration),
		StageResults:     make(map[StageName]StageResult),
	}
}

func (r *BuildReport) recordStage(name StageName, d time.Duration, res StageResult) {
	r.Stages = append(r.Stages, name)
	r.StageDurations[name] = d
	r.StageResults[name] = res
}

func (r *BuildReport) finish(err error) {
	r.End = time.Now()
	switch {
	case err == nil:
		r.Outcome = metrics.OutcomeSuccess
	case isCanceled(err):
		r.Outcome = metrics.OutcomeCanceled
	default:
		r.Outcome = metrics.OutcomeFailed
	}
}

// Duration is the wall time of the build.
func (r *BuildReport) Duration() time.Duration {
	if r.End.IsZero() {
		return time.Since(r.Start)
	}
	return r.End.Sub(r.Start)
}

// Summary renders a one-line description of the build.
func (r *BuildReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d pages from %d sections (%d items) with theme %s in %s",
		r.Outcome, len(r.Pages), r.Sections, r.Items, r.Theme, r.Duration().Round(time.Millisecond))
	if r.Output != "" {
		fmt.Fprintf(&b, " -> %s", r.Output)
	}
	return b.String()
}
