// Package feedback classifies raw Lean diagnostics into short actionable
// recommendation strings that are fed back into the next translation
// attempt.
package feedback

import (
	"regexp"
	"strings"

	"github.com/valpere/dovid/internal/sanitizer"
)

// GenericItem is returned when no diagnostic line matches any pattern; the
// parser never returns an empty list.
const GenericItem = "No actionable feedback detected; simplify the proof or try a different tactic."

// quotedIdentRe captures the identifier a diagnostic quotes, e.g.
// "unknown identifier 'add_succ'".
var quotedIdentRe = regexp.MustCompile("['`‘]([A-Za-z_][\\w.]*)['`’]")

type pattern struct {
	match    string
	template func(line, ident string) string
}

// patterns is the ordered phrase table. For each diagnostic line the first
// matching pattern wins and emits one recommendation.
var patterns = []pattern{
	{"unknown identifier", func(line, ident string) string {
		if ident != "" {
			return "Define or import the missing identifier '" + ident + "'"
		}
		return "Define or import the missing identifier mentioned: " + line
	}},
	{"unknown constant", func(line, ident string) string {
		if ident != "" {
			return "Define or import the missing identifier '" + ident + "'"
		}
		return "Define or import the missing identifier mentioned: " + line
	}},
	{"type mismatch", func(line, _ string) string {
		return "Check and correct the type mismatch: " + line
	}},
	{"invalid argument", func(line, _ string) string {
		return "Review the arguments of the function application: " + line
	}},
	{"missing argument", func(line, _ string) string {
		return "Supply the missing argument: " + line
	}},
	{"no such assumption", func(line, _ string) string {
		return "Add the missing hypothesis: " + line
	}},
	{"missing assumption", func(line, _ string) string {
		return "Add the missing hypothesis: " + line
	}},
	{"syntax error", func(line, _ string) string {
		return "Fix the syntax error: " + line
	}},
	{"unexpected token", func(line, _ string) string {
		return "Fix the unexpected token: " + line
	}},
	{"function expected", func(line, _ string) string {
		return "The term is applied like a function but is not one: " + line
	}},
	{"declaration uses '" + sanitizer.Sentinel + "'", func(_, _ string) string {
		return "Replace the '" + sanitizer.Sentinel + "' placeholder with a complete tactic proof"
	}},
	{"failed to synthesize", func(line, _ string) string {
		return "Instance resolution failed; add the required import or typeclass instance: " + line
	}},
	{"unknown package", func(line, _ string) string {
		return "Import refers to a missing module: " + line
	}},
	{"unknown module", func(line, _ string) string {
		return "Import refers to a missing module: " + line
	}},
}

// Parse line-scans raw diagnostic text and returns ordered, deduplicated
// recommendations. A secondary pass appends one targeted import/lemma hint
// per missing identifier. Unparseable input yields exactly one generic item.
func Parse(raw string) []string {
	var items []string
	seen := make(map[string]bool)
	add := func(item string) {
		if item != "" && !seen[item] {
			seen[item] = true
			items = append(items, item)
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		for _, p := range patterns {
			if strings.Contains(lower, p.match) {
				ident := ""
				if m := quotedIdentRe.FindStringSubmatch(line); m != nil {
					ident = m[1]
				}
				add(p.template(line, ident))
				break
			}
		}
	}

	for _, hint := range identifierHints(items) {
		add(hint)
	}

	if len(items) == 0 {
		items = append(items, GenericItem)
	}
	return items
}
