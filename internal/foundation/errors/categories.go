package errors

import "maps"

// ErrorCategory represents the broad category of an error for classification and routing.
type ErrorCategory string

const (
	// User-facing input errors.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// Site assembly errors.
	CategoryTheme    ErrorCategory = "theme"
	CategoryContent  ErrorCategory = "content"
	CategoryTemplate ErrorCategory = "template"
	CategoryBuild    ErrorCategory = "build"

	// External systems.
	CategoryNetwork    ErrorCategory = "network"
	CategoryGit        ErrorCategory = "git"
	CategoryFileSystem ErrorCategory = "filesystem"

	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// Code identifies a specific, documented failure mode.
type Code string

const (
	CodeNone                      Code = ""
	CodeConfigNotFound            Code = "config_not_found"
	CodeThemeNotFound             Code = "theme_not_found"
	CodeThemeDirectoryMissing     Code = "theme_directory_missing"
	CodeInvalidTheme              Code = "invalid_theme"
	CodeContentNotFound           Code = "content_not_found"
	CodeMissingRequiredConfig     Code = "missing_required_config"
	CodeTemplateNotFound          Code = "template_not_found"
	CodeUndefinedTemplateVariable Code = "undefined_template_variable"
	CodeUndefinedContentField     Code = "undefined_content_field"
	CodeInvalidSlug               Code = "invalid_slug"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the build
	SeverityError   ErrorSeverity = "error"   // Fails the current operation
	SeverityWarning ErrorSeverity = "warning" // Build continues without the artifact
	SeverityInfo    ErrorSeverity = "info"
)

// RetryStrategy indicates how an error should be handled in retry scenarios.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"
	RetryBackoff    RetryStrategy = "backoff"
	RetryUserAction RetryStrategy = "user"
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c[key]
	return v, ok
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	if v, ok := c.Get(key); ok {
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	return "", false
}

// Merge combines two contexts, with other taking precedence.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	out := make(ErrorContext, len(c)+len(other))
	maps.Copy(out, c)
	maps.Copy(out, other)
	return out
}
