package theme

import (
	"fmt"
	"strings"

	"github.com/Descent098/ezcv/internal/content"
)

// FieldType is the inferred type of a content field.
type FieldType string

const (
	FieldDatetime FieldType = "datetime"
	FieldInt      FieldType = "int"
	FieldBool     FieldType = "bool"
	FieldString   FieldType = "str"
)

// InferFieldType guesses a field's type from one sample value.
func InferFieldType(v string) FieldType {
	switch {
	case len(v) == 10 && v[4] == '-' && v[7] == '-':
		return FieldDatetime
	case isDigits(v):
		return FieldInt
	case strings.EqualFold(v, "true") || strings.EqualFold(v, "false"):
		return FieldBool
	default:
		return FieldString
	}
}

// InferFields infers a type for every key of one sample item. Only the one
// sample is consulted; other files in the section may disagree.
func InferFields(meta content.Metadata) map[string]FieldType {
	out := make(map[string]FieldType, len(meta))
	for k, v := range meta {
		out[k] = InferFieldType(fmt.Sprint(v))
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
