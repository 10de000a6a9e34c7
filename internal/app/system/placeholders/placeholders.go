// Package placeholders implements the textual token substitution used by
// content templates. Tokens appear in template bodies as {name} or {{name}}
// and are replaced literally; no expression evaluation happens, and tokens
// with no supplied value are left untouched.
package placeholders

import (
	"regexp"
	"sort"
	"strings"
)

// Substitute replaces every {name} and {{name}} token in body with the
// corresponding value. Replacement is a plain string substitution:
// values are inserted verbatim, and the double-brace form is handled first
// so "{{name}}" never degrades into "{substituted}". Empty values count
// as not supplied, so their tokens stay visible in the output.
func Substitute(body string, values map[string]string) string {
	// Longer names first so "{event_title}" is not clobbered by "{event}".
	names := make([]string, 0, len(values))
	for name, v := range values {
		if v == "" {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return body
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	pairs := make([]string, 0, len(values)*4)
	for _, name := range names {
		v := values[name]
		pairs = append(pairs,
			"{{"+name+"}}", v,
			"{"+name+"}", v,
		)
	}
	return strings.NewReplacer(pairs...).Replace(body)
}

var tokenRE = regexp.MustCompile(`\{\{?\s*([A-Za-z0-9_]+)\s*\}?\}`)

// Tokens returns the distinct token names referenced in body, in order of
// first appearance. Used to pre-populate the variable list when an author
// saves a template without declaring variables.
func Tokens(body string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, m := range tokenRE.FindAllStringSubmatch(body, -1) {
		name := m[1]
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// Unresolved reports whether body still contains any {token} or {{token}}
// after substitution. Lets callers warn the author about leftover braces.
func Unresolved(body string) bool {
	return tokenRE.MatchString(body)
}
