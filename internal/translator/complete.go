package translator

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/valpere/dovid/internal/generator"
	"github.com/valpere/dovid/internal/postprocess"
	"github.com/valpere/dovid/internal/sanitizer"
)

// inductionShapeRe recognizes statements whose proofs are usually built by
// induction on a natural number, which benefit from a worked-example
// scaffold in the re-prompt.
var inductionShapeRe = regexp.MustCompile(`∀\s*\w+\s*:\s*ℕ|Nat\.succ|\binduction\b|every natural|all natural numbers`)

const inductionScaffold = `Worked example of an induction proof:
theorem sum_first_n (n : ℕ) : 2 * (Finset.range (n+1)).sum id = n * (n+1) := by
  induction n with
  | zero => simp
  | succ k ih =>
    rw [Finset.sum_range_succ]
    ring_nf
    omega
Structure your proof the same way: a base case and a successor case.`

// CompleteProof asks the backend for one improved, complete proof when the
// draft is a placeholder or judged trivial. Prior attempts and accumulated
// feedback are supplied as context, together with optional knowledge-store
// hints; an induction scaffold is added when the statement is
// induction-shaped. In fallback mode the draft is returned unchanged.
func (t *Translator) CompleteProof(ctx context.Context, stmt FormalStatement, draft string, priorAttempts, feedback, hints []string) (string, error) {
	if t.gen == nil {
		return draft, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, `The following Lean 4 proof attempt is incomplete or too weak:

%s
%s

Write a COMPLETE proof with no %q. Start with "by". Output ONLY the proof.`,
		stmt.Declaration, draft, sanitizer.Sentinel)

	if len(priorAttempts) > 0 {
		b.WriteString("\n\nEarlier attempts that failed:\n")
		for i, p := range priorAttempts {
			fmt.Fprintf(&b, "Attempt %d:\n%s\n", i+1, p)
		}
	}
	if len(feedback) > 0 {
		b.WriteString("\nErrors to fix:\n" + strings.Join(feedback, "\n") + "\n")
	}
	if len(hints) > 0 {
		b.WriteString("\nRelevant facts and strategies:\n- " + strings.Join(hints, "\n- ") + "\n")
	}
	if inductionShapeRe.MatchString(stmt.Declaration) || inductionShapeRe.MatchString(draft) {
		b.WriteString("\n" + inductionScaffold)
	}

	raw, err := t.gen.Generate(ctx, b.String(), 250)
	if err != nil {
		if generator.IsQuotaError(err) {
			return "", err
		}
		return draft, nil
	}

	proof := isolateProof(postprocess.Clean(raw))
	if proof == "" {
		return draft, nil
	}
	return proof, nil
}
