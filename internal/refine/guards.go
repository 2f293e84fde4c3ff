package refine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/valpere/dovid/internal/quality"
	"github.com/valpere/dovid/internal/sanitizer"
	"github.com/valpere/dovid/internal/translator"
)

// guardCompleteness is the first pre-verification guard: when the draft
// proof is a placeholder or only a throwaway tactic, it requests one
// "complete proof" re-prompt, giving the backend the prior attempts, the
// accumulated feedback, and any curated domain hints. In fallback mode the
// draft passes through unchanged. Only quota errors propagate.
func (o *Orchestrator) guardCompleteness(ctx context.Context, sess *Session, stmt translator.FormalStatement, proof string) (string, error) {
	if o.translator.FallbackMode() {
		return proof, nil
	}
	if !sanitizer.ContainsSentinel(proof) && !quality.TrivialOnly(proof) {
		return proof, nil
	}

	var prior []string
	for _, a := range sess.Attempts {
		prior = append(prior, a.Proof)
	}
	var hints []string
	if o.knowledge != nil {
		hints = o.knowledge.Hints(sess.Statement.Domain)
	}

	slog.Debug("requesting complete proof re-prompt", "session", sess.ID,
		"theorem", stmt.Name, "hints", len(hints))
	improved, err := o.translator.CompleteProof(ctx, stmt, proof, prior, sess.Feedback, hints)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(improved) == "" {
		return proof, nil
	}
	return improved, nil
}

// structurallySound is the second guard, a cheap sanity check run before
// invoking the prover: the statement must have a theorem name and a goal
// separator, and the proof must not carry the incomplete-proof sentinel.
// It returns the failure reason in recommendation form so the reason can
// double as a feedback item.
func structurallySound(stmt translator.FormalStatement, proof string) (string, bool) {
	if stmt.Name == "" {
		return "Give the theorem a valid identifier name", false
	}
	if !strings.Contains(stmt.Declaration, ":") {
		return "The declaration has no goal clause; state the goal after a colon", false
	}
	if sanitizer.ContainsSentinel(proof) {
		return fmt.Sprintf("Replace the %q placeholder with a complete tactic proof", sanitizer.Sentinel), false
	}
	if strings.TrimSpace(proof) == "" {
		return "Provide a non-empty tactic proof", false
	}
	return "", true
}
