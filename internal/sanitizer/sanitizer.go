// Package sanitizer conservatively normalizes draft Lean proofs and infers
// the minimal Mathlib import set a proof artifact needs.
//
// Sanitization never invents proof steps and never deletes the
// incomplete-proof sentinel; when a transformation would do either, the
// input is returned unchanged.
package sanitizer

import (
	"regexp"
	"strings"
)

// Sentinel is the Lean token meaning "proof omitted". A proof containing it
// is an unverifiable placeholder.
const Sentinel = "sorry"

var sentinelRe = regexp.MustCompile(`\b` + Sentinel + `\b`)

// ContainsSentinel reports whether text contains the incomplete-proof
// sentinel as a whole word.
func ContainsSentinel(text string) bool {
	return sentinelRe.MatchString(text)
}

// knownTactics are the Lean tactic keywords this tool recognizes, in the
// order ExtractTactics reports them.
var knownTactics = []string{
	"trivial", "simp", "rfl", "assumption", "exact", "apply", "intro",
	"cases", "rcases", "by_cases", "obtain", "use", "rw", "ring",
	"norm_num", "omega", "decide", "linarith", "nlinarith", "constructor",
	"exfalso", "contradiction", "induction", "calc", "have", "show",
}

var tacticRes = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(knownTactics))
	for _, t := range knownTactics {
		m[t] = regexp.MustCompile(`\b` + t + `\b`)
	}
	return m
}()

// ExtractTactics returns the recognized tactic keywords present in proof,
// deduplicated, in canonical order.
func ExtractTactics(proof string) []string {
	var found []string
	for _, t := range knownTactics {
		if tacticRes[t].MatchString(proof) {
			found = append(found, t)
		}
	}
	return found
}

// HasTacticKeyword reports whether text contains at least one recognized
// tactic keyword.
func HasTacticKeyword(text string) bool {
	for _, t := range knownTactics {
		if tacticRes[t].MatchString(text) {
			return true
		}
	}
	return false
}

// delimiterTable unifies delimiter characters that models emit
// inconsistently: CJK angle brackets for Lean's anonymous constructor, and
// typographic quotes.
var delimiterTable = [][2]string{
	{"〈", "⟨"},
	{"〉", "⟩"},
	{"⟮", "("},
	{"⟯", ")"},
	{"“", "\""},
	{"”", "\""},
}

// tokenTable rewrites known tokenization artifacts into canonical Lean 4
// identifier form.
var tokenTable = [][2]string{
	{"nat.", "Nat."},
	{"int.", "Int."},
	{"even (", "Even ("},
	{"odd (", "Odd ("},
	{"|- ", "⊢ "},
	{"<->", "↔"},
}

// casesWithRe matches the Lean 3 destructuring form "cases h with k hk",
// which Lean 4 spells "obtain ⟨k, hk⟩ := h".
var casesWithRe = regexp.MustCompile(`cases\s+(\w+)\s+with\s+(\w+)\s+(\w+)`)

// Sanitize normalizes a draft proof against its formal statement. The
// result is idempotent: Sanitize(Sanitize(p, s), s) == Sanitize(p, s).
func Sanitize(proof, statement string) string {
	original := proof
	code := strings.TrimSpace(proof)
	if code == "" {
		return original
	}

	for _, pair := range delimiterTable {
		code = strings.ReplaceAll(code, pair[0], pair[1])
	}
	for _, pair := range tokenTable {
		code = strings.ReplaceAll(code, pair[0], pair[1])
	}
	code = casesWithRe.ReplaceAllString(code, "obtain ⟨$2, $3⟩ := $1")
	code = ensureByPrefix(code, statement)
	code = normalizeIndent(code)

	// A transformation must never silently delete the placeholder marker.
	if ContainsSentinel(original) && !ContainsSentinel(code) {
		return original
	}
	return code
}

// ensureByPrefix prepends the tactic-block keyword when the proof contains
// tactic content but no leading "by", unless the statement itself already
// ends with one.
func ensureByPrefix(code, statement string) string {
	// "by" as a word, not the prefix of a tactic name like by_cases.
	if code == "by" || strings.HasPrefix(code, "by ") ||
		strings.HasPrefix(code, "by\n") || strings.HasPrefix(code, "by\t") {
		return code
	}
	if strings.HasSuffix(strings.TrimSpace(statement), "by") {
		return code
	}
	if !HasTacticKeyword(code) {
		return code
	}
	return "by\n  " + code
}

// normalizeIndent gives every proof step after the "by" line a two-space
// indent, which Lean's whitespace-sensitive parser requires.
func normalizeIndent(code string) string {
	lines := strings.Split(code, "\n")
	if len(lines) < 2 {
		return code
	}
	fixed := []string{lines[0]}
	for _, line := range lines[1:] {
		if trimmed := strings.TrimSpace(line); trimmed != "" && !strings.HasPrefix(line, "  ") {
			line = "  " + trimmed
		}
		fixed = append(fixed, line)
	}
	return strings.Join(fixed, "\n")
}
