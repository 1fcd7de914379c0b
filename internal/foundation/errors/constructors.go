package errors

import "fmt"

// Convenience functions for the documented site build failures

// Config errors

func ConfigNotFound(path string) *ClassifiedError {
	return ConfigError("configuration file not found").
		WithCode(CodeConfigNotFound).
		WithContext("path", path).
		WithHint("run `ezcv init` to create a config.yml, or pass --config").
		Build()
}

// MissingRequiredConfig reports a theme-declared key absent from config.yml.
func MissingRequiredConfig(key, typ, description string) *ClassifiedError {
	return ConfigError(fmt.Sprintf("required configuration value %q is missing", key)).
		WithCode(CodeMissingRequiredConfig).
		WithContext("key", key).
		WithContext("type", typ).
		WithContext("description", description).
		WithHint(fmt.Sprintf("add `%s: <%s>` to config.yml (%s)", key, typ, description)).
		Build()
}

// UndefinedTemplateVariable is raised when a template references a value that
// the site context does not define.
func UndefinedTemplateVariable(template string, cause error) *ClassifiedError {
	return WrapError(cause, CategoryConfig, "a required configuration value is missing").
		WithCode(CodeUndefinedTemplateVariable).
		Fatal().
		UserAction().
		WithContext("template", template).
		WithHint("check the theme documentation for the keys it expects in config.yml").
		Build()
}

// UndefinedContentField is raised when a template indexes an item's front
// matter directly and the item lacks that field.
func UndefinedContentField(template, field string, cause error) *ClassifiedError {
	return WrapError(cause, CategoryContent, "a content item has no such front matter field").
		WithCode(CodeUndefinedContentField).
		UserAction().
		WithContext("template", template).
		WithContext("field", field).
		WithHint(fmt.Sprintf("add `%s` to every item's front matter, or use `.Meta.Get %q` in the template for optional fields", field, field)).
		Build()
}

// Theme errors

func ThemeNotFound(name string) *ClassifiedError {
	return ThemeError("theme does not exist").
		WithCode(CodeThemeNotFound).
		WithContext("theme", name).
		WithHint("use `ezcv theme --list` to see available themes").
		Build()
}

func ThemeDirectoryMissing(path string) *ClassifiedError {
	return ThemeError("theme directory does not exist").
		WithCode(CodeThemeDirectoryMissing).
		WithContext("path", path).
		Build()
}

func InvalidTheme(path, reason string) *ClassifiedError {
	return ThemeError("invalid theme").
		WithCode(CodeInvalidTheme).
		WithContext("path", path).
		WithContext("reason", reason).
		Build()
}

func TemplateNotFound(name string) *ClassifiedError {
	return TemplateError("template not found").
		WithCode(CodeTemplateNotFound).
		Warning().
		WithContext("template", name).
		Build()
}

// Content errors

func ContentNotFound(path string, cause error) *ClassifiedError {
	return WrapError(cause, CategoryContent, "content file not found").
		WithCode(CodeContentNotFound).
		Fatal().
		WithContext("path", path).
		Build()
}

// InvalidSlug reports a blog post whose output name would overwrite a reserved page.
func InvalidSlug(slug, source string) *ClassifiedError {
	return ValidationError(fmt.Sprintf("blog post title %q is reserved", slug)).
		WithCode(CodeInvalidSlug).
		WithContext("slug", slug).
		WithContext("source", source).
		WithHint("change the post title so it does not collide with the site's index page").
		Build()
}
