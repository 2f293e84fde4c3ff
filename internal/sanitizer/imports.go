package sanitizer

import (
	"regexp"
)

// BaselineImport is always included so the artifact parses even when no
// domain keyword matches.
const BaselineImport = "Mathlib.Tactic"

type importRule struct {
	match  *regexp.Regexp
	module string
}

// importRules map recognized domain vocabulary to the Mathlib module that
// provides it. Order matters: rules are checked first to last and the
// result preserves first-seen order.
var importRules = []importRule{
	{regexp.MustCompile(`\bEven\b|\bOdd\b|\bparity\b`), "Mathlib.Algebra.Ring.Parity"},
	{regexp.MustCompile(`ℕ|\bNat\.|\bnatural\b`), "Mathlib.Data.Nat.Basic"},
	{regexp.MustCompile(`\bring\b|\bCommRing\b|\bmul_comm\b`), "Mathlib.Tactic.Ring"},
	{regexp.MustCompile(`\bnorm_num\b`), "Mathlib.Tactic.NormNum"},
	{regexp.MustCompile(`\bomega\b|\blinarith\b`), "Mathlib.Tactic.Linarith"},
	{regexp.MustCompile(`¬|∀|∃|↔|\bProp\b`), "Mathlib.Logic.Basic"},
	{regexp.MustCompile(`\bTuring\b|\bNP\b|\bcomplexity\b|polynomial.time`), "Mathlib.Computability.TuringMachine"},
}

// explicitImportRe captures module names from import lines the model wrote
// itself; those take precedence at the front of the inferred list.
var explicitImportRe = regexp.MustCompile(`(?m)^\s*import\s+([\w.]+)`)

// InferImports scans the statement and proof for recognized domain
// vocabulary and returns the minimal ordered set of import lines. Explicitly
// written imports come first, then keyword matches in rule order, then the
// baseline import. Duplicates are suppressed, first occurrence wins.
func InferImports(statement, proof string) []string {
	text := statement + "\n" + proof

	var modules []string
	seen := make(map[string]bool)
	add := func(module string) {
		if module != "" && !seen[module] {
			seen[module] = true
			modules = append(modules, module)
		}
	}

	for _, m := range explicitImportRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, rule := range importRules {
		if rule.match.MatchString(text) {
			add(rule.module)
		}
	}
	add(BaselineImport)

	lines := make([]string, len(modules))
	for i, module := range modules {
		lines[i] = "import " + module
	}
	return lines
}
