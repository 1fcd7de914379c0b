// Package errors provides the classified error primitives used across ezcv.
//
// Every failure the build pipeline can surface carries a Code (ConfigNotFound,
// ThemeNotFound, InvalidSlug, ...) on top of a broad ErrorCategory, a severity
// and a retry hint. The CLI adapter turns these into exit codes and messages.
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryTheme, "theme not found").
//		WithCode(errors.CodeThemeNotFound).
//		WithContext("theme", name).
//		Fatal().
//		Build()
package errors
