package site

import (
	"context"
	"fmt"
	"time"

	"github.com/Descent098/ezcv/internal/logfields"
	"github.com/Descent098/ezcv/internal/metrics"
	"github.com/Descent098/ezcv/internal/observability"
)

// Stage is a discrete unit of work in the site build.
type Stage func(ctx context.Context, bs *buildState) error

// StageName is a strongly-typed identifier for a build stage.
type StageName string

// Canonical stage names, in execution order.
const (
	StageConfigLoaded          StageName = "config_loaded"
	StageThemeResolved         StageName = "theme_resolved"
	StageRequiredConfigChecked StageName = "required_config_checked"
	StageFiltersInjected       StageName = "filters_injected"
	StageSectionsDiscovered    StageName = "sections_discovered"
	StageContentLoaded         StageName = "content_loaded"
	StageSectionsRendered      StageName = "sections_rendered"
	StagePagesEnumerated       StageName = "pages_enumerated"
	StageExported              StageName = "exported"
	StagePreviewOpened         StageName = "preview_opened"
)

// StageErrorKind classifies the outcome of a failed stage.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"
	StageErrorCanceled StageErrorKind = "canceled"
)

// StageError records which stage stopped the build.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// StageResult captures the high-level outcome of a stage.
type StageResult string

const (
	StageResultSuccess  StageResult = "success"
	StageResultFatal    StageResult = "fatal"
	StageResultCanceled StageResult = "canceled"
)

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// Pipeline is a fluent builder for ordered stage definitions.
type Pipeline struct{ defs []StageDef }

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline { return &Pipeline{defs: make([]StageDef, 0, 10)} }

// Add appends a stage unconditionally.
func (p *Pipeline) Add(name StageName, fn Stage) *Pipeline {
	p.defs = append(p.defs, StageDef{Name: name, Fn: fn})
	return p
}

// AddIf appends a stage only if cond is true.
func (p *Pipeline) AddIf(cond bool, name StageName, fn Stage) *Pipeline {
	if cond {
		p.Add(name, fn)
	}
	return p
}

// Build returns a copy of the stage definitions.
func (p *Pipeline) Build() []StageDef {
	out := make([]StageDef, len(p.defs))
	copy(out, p.defs)
	return out
}

// runStages executes stages in order, recording timings, and stops at the
// first error.
func runStages(ctx context.Context, bs *buildState, stages []StageDef) error {
	rec := bs.recorder()
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			se := &StageError{Kind: StageErrorCanceled, Stage: st.Name, Err: err}
			bs.report.recordStage(st.Name, 0, StageResultCanceled)
			rec.IncStageResult(string(st.Name), metrics.ResultCanceled)
			return se
		}

		sctx := observability.WithStage(ctx, string(st.Name))
		t0 := time.Now()
		err := st.Fn(sctx, bs)
		dur := time.Since(t0)
		rec.ObserveStageDuration(string(st.Name), dur)

		if err != nil {
			kind, result, label := StageErrorFatal, StageResultFatal, metrics.ResultFatal
			if isCanceled(err) {
				kind, result, label = StageErrorCanceled, StageResultCanceled, metrics.ResultCanceled
			}
			bs.report.recordStage(st.Name, dur, result)
			rec.IncStageResult(string(st.Name), label)
			observability.DebugContext(sctx, "Stage failed", logfields.Error(err))
			return &StageError{Kind: kind, Stage: st.Name, Err: err}
		}

		bs.report.recordStage(st.Name, dur, StageResultSuccess)
		rec.IncStageResult(string(st.Name), metrics.ResultSuccess)
		observability.DebugContext(sctx, "Stage complete", logfields.DurationMS(float64(dur.Microseconds())/1000))
	}
	return nil
}
