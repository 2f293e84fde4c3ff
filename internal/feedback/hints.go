package feedback

import "strings"

// Classification labels for verification failures, recorded in the tactic
// learning store.
const (
	FailUnknownIdentifier = "unknown_identifier"
	FailTypeMismatch      = "type_mismatch"
	FailTacticFailed      = "tactic_failed"
	FailAssumption        = "assumption_failed"
	FailApply             = "apply_failed"
	FailOther             = "other"
)

// Classify reduces raw diagnostics to one coarse failure category.
func Classify(raw string) string {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "unknown identifier"), strings.Contains(lower, "unknown constant"):
		return FailUnknownIdentifier
	case strings.Contains(lower, "type mismatch"):
		return FailTypeMismatch
	case strings.Contains(lower, "assumption"):
		return FailAssumption
	case strings.Contains(lower, "apply"):
		return FailApply
	case strings.Contains(lower, "tactic"):
		return FailTacticFailed
	default:
		return FailOther
	}
}

// knownLemmaHints maps frequently-missed Mathlib names to an import or usage
// hint appended after the primary recommendations.
var knownLemmaHints = map[string]string{
	"add_succ":    "Nat.add_succ is available after `import Mathlib.Data.Nat.Basic`; qualify the name as Nat.add_succ.",
	"succ_add":    "Nat.succ_add is available after `import Mathlib.Data.Nat.Basic`; qualify the name as Nat.succ_add.",
	"Even.add":    "Even.add needs `import Mathlib.Algebra.Ring.Parity`.",
	"Odd.add":     "Odd.add_even and related lemmas need `import Mathlib.Algebra.Ring.Parity`.",
	"Even":        "The Even predicate needs `import Mathlib.Algebra.Ring.Parity`.",
	"Odd":         "The Odd predicate needs `import Mathlib.Algebra.Ring.Parity`.",
	"norm_num":    "The norm_num tactic needs `import Mathlib.Tactic.NormNum` or the umbrella Mathlib.Tactic.",
	"ring":        "The ring tactic needs `import Mathlib.Tactic.Ring` or the umbrella Mathlib.Tactic.",
	"omega":       "The omega tactic needs `import Mathlib.Tactic` in current Mathlib.",
	"linarith":    "The linarith tactic needs `import Mathlib.Tactic.Linarith`.",
	"mul_comm":    "mul_comm is in core Mathlib algebra; `import Mathlib.Tactic` suffices.",
	"two_mul":     "two_mul is available after `import Mathlib.Algebra.Group.Basic`.",
}

// identifierHints scans the primary recommendations for missing-identifier
// items and produces one secondary hint per identifier.
func identifierHints(items []string) []string {
	var hints []string
	for _, item := range items {
		if !strings.Contains(item, "missing identifier '") {
			continue
		}
		start := strings.Index(item, "'")
		if start < 0 {
			continue
		}
		rest := item[start+1:]
		end := strings.Index(rest, "'")
		if end < 0 {
			continue
		}
		ident := rest[:end]
		if hint, ok := knownLemmaHints[ident]; ok {
			hints = append(hints, hint)
			continue
		}
		// Try the last dotted component too: 'Nat.add_succ' -> add_succ.
		if dot := strings.LastIndex(ident, "."); dot >= 0 {
			if hint, ok := knownLemmaHints[ident[dot+1:]]; ok {
				hints = append(hints, hint)
				continue
			}
		}
		hints = append(hints, "Identifier '"+ident+"' is not in scope; provide a minimal import or use an alternative lemma.")
	}
	return hints
}
