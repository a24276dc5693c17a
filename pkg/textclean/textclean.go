// Package textclean strips markup from user supplied free text before it is stored.
package textclean

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Plain removes every HTML element, decodes entities and collapses whitespace.
func Plain(value string) string {
	cleaned := html.UnescapeString(strict.Sanitize(value))
	return strings.Join(strings.Fields(cleaned), " ")
}

// OptionalPlain applies Plain to a non-nil value and maps an empty result to nil.
func OptionalPlain(value *string) *string {
	if value == nil {
		return nil
	}
	cleaned := Plain(*value)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}
