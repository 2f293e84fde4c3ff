package refine

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valpere/dovid/internal"
	"github.com/valpere/dovid/internal/generator"
	"github.com/valpere/dovid/internal/knowledge"
	"github.com/valpere/dovid/internal/learning"
	"github.com/valpere/dovid/internal/prover"
	"github.com/valpere/dovid/internal/sanitizer"
	"github.com/valpere/dovid/internal/translator"
)

const testDecl = "theorem even_sum (a b : ℤ) (ha : Even a) (hb : Even b) : Even (a + b) := by sorry"

const testProof = "by\n  obtain ⟨k, rfl⟩ := ha\n  obtain ⟨l, rfl⟩ := hb\n  use k + l\n  ring"

// stubTranslator returns a fixed result (or error) and records the feedback
// it was called with.
type stubTranslator struct {
	result        *translator.Result
	err           error
	fallback      bool
	completeProof string

	calls         int
	completeCalls int
	seenFeedback  [][]string
	seenHints     []string
}

func (s *stubTranslator) Translate(ctx context.Context, stmt internal.InformalStatement, feedback []string) (*translator.Result, error) {
	s.calls++
	s.seenFeedback = append(s.seenFeedback, append([]string(nil), feedback...))
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubTranslator) CompleteProof(ctx context.Context, stmt translator.FormalStatement, draft string, prior, feedback, hints []string) (string, error) {
	s.completeCalls++
	s.seenHints = hints
	if s.completeProof != "" {
		return s.completeProof, nil
	}
	return draft, nil
}

func (s *stubTranslator) FallbackMode() bool { return s.fallback }

// stubVerifier replays canned verdicts and records the proofs it saw.
type stubVerifier struct {
	results []*prover.ValidationResult
	calls   int
	proofs  []string
}

func (v *stubVerifier) Verify(ctx context.Context, statement, proof string, imports []string) (*prover.ValidationResult, error) {
	v.calls++
	v.proofs = append(v.proofs, proof)
	idx := v.calls - 1
	if idx >= len(v.results) {
		idx = len(v.results) - 1
	}
	return v.results[idx], nil
}

func parityResult() *translator.Result {
	return &translator.Result{
		Statement: translator.FormalStatement{Name: "even_sum", Declaration: testDecl},
		Proof:     testProof,
	}
}

func newLearning(t *testing.T) *learning.Store {
	t.Helper()
	st, err := learning.Load(filepath.Join(t.TempDir(), "learning.json"))
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func TestRun_SucceedsOnFirstAttempt(t *testing.T) {
	tr := &stubTranslator{result: parityResult(), fallback: true}
	ver := &stubVerifier{results: []*prover.ValidationResult{{Success: true}}}
	orch := New(tr, ver, newLearning(t), knowledge.Builtin(), Config{})

	sess, err := orch.Run(context.Background(), internal.InformalStatement{
		Text: "The sum of two even numbers is even", Domain: "parity",
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if sess.State != StateSucceeded {
		t.Errorf("state = %v, want %v", sess.State, StateSucceeded)
	}
	if len(sess.Attempts) != 1 {
		t.Errorf("attempts = %d, want 1", len(sess.Attempts))
	}
	if sess.Quality == nil {
		t.Fatal("expected quality score on success")
	}
	if sess.Quality.Score <= 0.5 {
		t.Errorf("quality = %v, want > 0.5 for a witness-construction proof", sess.Quality.Score)
	}
}

func TestRun_AtMostMaxAttemptsAndTerminal(t *testing.T) {
	tr := &stubTranslator{result: parityResult(), fallback: true}
	ver := &stubVerifier{results: []*prover.ValidationResult{
		{RawError: "error: unknown identifier 'add_succ'"},
	}}
	orch := New(tr, ver, newLearning(t), nil, Config{})

	sess, err := orch.Run(context.Background(), internal.InformalStatement{Text: "claim"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if sess.State != StateExhaustedAttempts {
		t.Errorf("state = %v, want %v", sess.State, StateExhaustedAttempts)
	}
	if !sess.State.Terminal() {
		t.Error("session must end in a terminal state")
	}
	if len(sess.Attempts) > MaxAttempts {
		t.Errorf("attempts = %d, want at most %d", len(sess.Attempts), MaxAttempts)
	}
	if ver.calls != MaxAttempts {
		t.Errorf("verifier called %d times, want %d", ver.calls, MaxAttempts)
	}
	if sess.Final == nil || sess.Final.Success {
		t.Errorf("final result = %+v, want the last failing verdict", sess.Final)
	}
}

func TestRun_QuotaErrorAbortsImmediately(t *testing.T) {
	tr := &stubTranslator{err: errors.New("429: rate limit exceeded")}
	ver := &stubVerifier{results: []*prover.ValidationResult{{Success: true}}}
	orch := New(tr, ver, newLearning(t), nil, Config{})

	sess, err := orch.Run(context.Background(), internal.InformalStatement{Text: "claim"})

	if sess.State != StateAborted {
		t.Errorf("state = %v, want %v", sess.State, StateAborted)
	}
	if tr.calls != 1 {
		t.Errorf("translator called %d times, want 1 (quota errors are never retried)", tr.calls)
	}
	if ver.calls != 0 {
		t.Errorf("verifier called %d times, want 0", ver.calls)
	}
	if err == nil || !generator.IsQuotaError(err) {
		t.Errorf("error = %v, want a quota error distinguishable from exhaustion", err)
	}
}

func TestRun_NonQuotaTranslationErrorIsAbsorbed(t *testing.T) {
	tr := &stubTranslator{err: errors.New("connection refused")}
	ver := &stubVerifier{results: []*prover.ValidationResult{{Success: true}}}
	orch := New(tr, ver, newLearning(t), nil, Config{})

	sess, err := orch.Run(context.Background(), internal.InformalStatement{Text: "claim"})
	if err != nil {
		t.Fatalf("ordinary translation failure must not surface: %v", err)
	}
	if sess.State != StateExhaustedAttempts {
		t.Errorf("state = %v, want %v", sess.State, StateExhaustedAttempts)
	}
	if tr.calls != MaxAttempts {
		t.Errorf("translator called %d times, want %d", tr.calls, MaxAttempts)
	}
}

func TestRun_FeedbackAccumulatesDeduplicated(t *testing.T) {
	tr := &stubTranslator{result: parityResult(), fallback: true}
	ver := &stubVerifier{results: []*prover.ValidationResult{
		{RawError: "error: type mismatch at application"},
	}}
	orch := New(tr, ver, newLearning(t), nil, Config{})

	sess, err := orch.Run(context.Background(), internal.InformalStatement{Text: "claim"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// The same diagnostic on every attempt must yield one feedback item.
	count := 0
	for _, item := range sess.Feedback {
		if strings.Contains(item, "type mismatch") {
			count++
		}
	}
	if count != 1 {
		t.Errorf("feedback = %v, want the repeated diagnostic deduplicated", sess.Feedback)
	}

	// Later attempts see the feedback from earlier ones.
	if len(tr.seenFeedback) < 2 {
		t.Fatalf("translator calls = %d, want retries", len(tr.seenFeedback))
	}
	if len(tr.seenFeedback[0]) != 0 {
		t.Errorf("first attempt saw feedback %v, want none", tr.seenFeedback[0])
	}
	if len(tr.seenFeedback[1]) == 0 {
		t.Error("second attempt saw no feedback")
	}
}

func TestRun_SentinelDraftGetsLadderTactic(t *testing.T) {
	res := parityResult()
	res.Proof = "by sorry"
	tr := &stubTranslator{result: res, fallback: true}
	ver := &stubVerifier{results: []*prover.ValidationResult{{Success: true}}}
	orch := New(tr, ver, newLearning(t), nil, Config{})

	sess, err := orch.Run(context.Background(), internal.InformalStatement{Text: "claim"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if sess.State != StateSucceeded {
		t.Fatalf("state = %v, want success", sess.State)
	}
	if len(ver.proofs) == 0 || sanitizer.ContainsSentinel(ver.proofs[0]) {
		t.Errorf("prover saw %q, placeholder must never reach verification", ver.proofs)
	}
	if !strings.HasPrefix(ver.proofs[0], "by ") {
		t.Errorf("prover saw %q, want a ladder tactic proof", ver.proofs[0])
	}
}

func TestRun_CompleteProofRepromptWithHints(t *testing.T) {
	res := parityResult()
	res.Proof = "by sorry"
	tr := &stubTranslator{result: res, completeProof: testProof}
	ver := &stubVerifier{results: []*prover.ValidationResult{{Success: true}}}
	orch := New(tr, ver, newLearning(t), knowledge.Builtin(), Config{})

	sess, err := orch.Run(context.Background(), internal.InformalStatement{
		Text: "The sum of two even numbers is even", Domain: "parity",
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if tr.completeCalls != 1 {
		t.Errorf("CompleteProof called %d times, want 1", tr.completeCalls)
	}
	if len(tr.seenHints) == 0 {
		t.Error("re-prompt got no knowledge hints for a known domain")
	}
	if sess.State != StateSucceeded {
		t.Errorf("state = %v, want success with the improved proof", sess.State)
	}
	if ver.proofs[0] != testProof {
		t.Errorf("prover saw %q, want the re-prompted proof", ver.proofs[0])
	}
}

func TestRun_LearningEventsRecorded(t *testing.T) {
	learn := newLearning(t)
	tr := &stubTranslator{result: parityResult(), fallback: true}
	ver := &stubVerifier{results: []*prover.ValidationResult{{Success: true}}}
	orch := New(tr, ver, learn, nil, Config{})

	if _, err := orch.Run(context.Background(), internal.InformalStatement{Text: "claim"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	byName := make(map[string]learning.TacticStat)
	for _, s := range learn.Stats() {
		byName[s.Name] = s
	}
	if byName["ring"].SuccessCount != 1 {
		t.Errorf("ring stat = %+v, want recorded success", byName["ring"])
	}
}

func TestRun_FallbackPipelineEndToEnd(t *testing.T) {
	// Real translator in deterministic fallback mode, real prover with a
	// missing checker binary: the parity claim must verify heuristically
	// and score as a meaningful proof.
	orch := New(
		translator.New(nil),
		prover.New("definitely-not-a-lean-binary", t.TempDir()),
		newLearning(t),
		knowledge.Builtin(),
		Config{},
	)

	sess, err := orch.Run(context.Background(), internal.InformalStatement{
		Text: "The sum of two even numbers is even", Domain: "parity",
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if sess.State != StateSucceeded {
		t.Fatalf("state = %v, want success (final: %+v)", sess.State, sess.Final)
	}
	if !sess.Final.Heuristic {
		t.Error("verdict should be marked heuristic when the checker is missing")
	}
	if sess.Quality == nil || sess.Quality.Score <= 0.5 || !sess.Quality.IsMeaningful {
		t.Errorf("quality = %+v, want meaningful (> 0.5)", sess.Quality)
	}
	if sub := sess.Quality.Substance; sub != "proof_construction" && sub != "algebraic_manipulation" {
		t.Errorf("substance = %v, want construction or algebraic", sub)
	}
}

func TestRun_TheoremNamesUniquePerSession(t *testing.T) {
	tr := &stubTranslator{result: parityResult(), fallback: true}
	ver := &stubVerifier{results: []*prover.ValidationResult{{RawError: "error: type mismatch"}}}
	orch := New(tr, ver, newLearning(t), nil, Config{})

	sess, err := orch.Run(context.Background(), internal.InformalStatement{Text: "claim"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	seen := make(map[string]bool)
	for _, a := range sess.Attempts {
		if seen[a.Statement.Name] {
			t.Errorf("duplicate theorem name %q across attempts", a.Statement.Name)
		}
		seen[a.Statement.Name] = true
	}
}
