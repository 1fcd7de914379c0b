package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger, out: os.Stderr, exit: os.Exit}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	ce, ok := AsClassified(err)
	if !ok {
		return 1
	}
	switch ce.Category() {
	case CategoryValidation:
		return 2
	case CategoryConfig:
		return 7
	case CategoryNetwork, CategoryGit:
		return 8
	case CategoryTheme, CategoryNotFound:
		return 9
	case CategoryBuild, CategoryContent, CategoryTemplate, CategoryFileSystem:
		return 11
	case CategoryRuntime:
		return 12
	case CategoryInternal:
		return 10
	default:
		return 1
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	all := classifiedLeaves(err)
	if len(all) == 0 {
		return fmt.Sprintf("Error: %v", err)
	}
	if a.verbose {
		if len(all) == 1 {
			return all[0].Error()
		}
		return err.Error()
	}

	blocks := make([]string, 0, len(all))
	for _, ce := range all {
		blocks = append(blocks, formatClassified(ce))
	}
	return strings.Join(blocks, "\n")
}

// classifiedLeaves collects every ClassifiedError reachable from err,
// descending into joined errors. A ClassifiedError's own cause is not
// searched.
func classifiedLeaves(err error) []*ClassifiedError {
	switch e := err.(type) {
	case nil:
		return nil
	case *ClassifiedError:
		return []*ClassifiedError{e}
	case interface{ Unwrap() []error }:
		var out []*ClassifiedError
		for _, child := range e.Unwrap() {
			out = append(out, classifiedLeaves(child)...)
		}
		return out
	case interface{ Unwrap() error }:
		return classifiedLeaves(e.Unwrap())
	default:
		return nil
	}
}

func formatClassified(ce *ClassifiedError) string {
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(ce.Message())
	keys := make([]string, 0, len(ce.Context()))
	for k := range ce.Context() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n  %s: %v", k, ce.Context()[k])
	}
	if ce.Hint() != "" {
		b.WriteString("\nHint: ")
		b.WriteString(ce.Hint())
	}
	return b.String()
}

// HandleError prints err and exits with the matching code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	if a.verbose || GetSeverity(err) == SeverityFatal {
		a.logError(err)
	}
	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	a.exit(a.ExitCodeFor(err))
}

func (a *CLIErrorAdapter) logError(err error) {
	ce, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}
	attrs := []slog.Attr{slog.String("category", string(ce.Category()))}
	if ce.Code() != CodeNone {
		attrs = append(attrs, slog.String("code", string(ce.Code())))
	}
	if ce.Cause() != nil {
		attrs = append(attrs, slog.String("cause", ce.Cause().Error()))
	}
	a.logger.LogAttrs(context.Background(), levelFor(ce.Severity()), ce.Message(), attrs...)
}

func levelFor(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
