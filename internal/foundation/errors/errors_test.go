package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "config.yml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if !err.IsFatal() {
			t.Error("expected fatal severity")
		}
		file, ok := err.Context().GetString("file")
		if !ok || file != "config.yml" {
			t.Errorf("expected context file=config.yml, got %v", file)
		}
	})

	t.Run("Wrapped detection", func(t *testing.T) {
		inner := InvalidSlug("index", "index.md")
		wrapped := fmt.Errorf("render blog: %w", inner)

		if !HasCode(wrapped, CodeInvalidSlug) {
			t.Error("expected wrapped error to carry invalid_slug code")
		}
		if !HasCategory(wrapped, CategoryValidation) {
			t.Error("expected validation category")
		}
		if !errors.Is(wrapped, InvalidSlug("other", "other.md")) {
			t.Error("expected errors.Is to match on code")
		}
	})

	t.Run("Cause is unwrapped", func(t *testing.T) {
		cause := errors.New("no such file")
		err := ContentNotFound("content/a.md", cause)
		if !errors.Is(err, cause) {
			t.Error("expected cause in chain")
		}
	})

	t.Run("WithContext copies", func(t *testing.T) {
		base := ThemeNotFound("neon")
		extra := base.WithContext("cwd", "/tmp")
		if _, ok := base.Context().Get("cwd"); ok {
			t.Error("WithContext mutated the original")
		}
		if v, _ := extra.Context().GetString("theme"); v != "neon" {
			t.Errorf("expected theme context to survive, got %q", v)
		}
	})

	t.Run("Unclassified defaults", func(t *testing.T) {
		err := errors.New("plain")
		if GetCategory(err) != CategoryInternal {
			t.Error("expected internal category for plain errors")
		}
		if GetSeverity(err) != SeverityError {
			t.Error("expected error severity for plain errors")
		}
	})
}

func TestErrorContext_Merge(t *testing.T) {
	a := ErrorContext{"a": 1, "b": 1}
	b := ErrorContext{"b": 2}
	m := a.Merge(b)
	if m["a"] != 1 || m["b"] != 2 {
		t.Errorf("unexpected merge result %v", m)
	}
	if a["b"] != 1 {
		t.Error("merge mutated receiver")
	}
}
