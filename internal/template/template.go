// Package template materializes prompt text by substituting named
// placeholders, spelled {{name}}, with row values.
package template

import (
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// Render replaces every literal occurrence of {{key}} in tmpl with the
// key's value, for each key in row. Placeholders whose key is absent from
// row are left verbatim; row keys the template never references are ignored.
//
// Keys are matched as literal text of the full {{...}} token. A key like
// "a.b" matches only the placeholder {{a.b}}; key names are never
// interpreted as patterns, whatever characters they contain.
func Render(tmpl string, row map[string]string) string {
	out := tmpl
	for key, val := range row {
		out = strings.ReplaceAll(out, "{{"+key+"}}", val)
	}
	return out
}

// Variables returns the distinct placeholder names referenced by tmpl, in
// order of first appearance.
func Variables(tmpl string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(tmpl, -1)
	seen := make(map[string]bool)
	var names []string
	for _, m := range matches {
		if len(m) > 1 && !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
