// Package refine drives the bounded translate → sanitize → verify →
// feedback loop for one informal statement.
//
// A session makes at most MaxAttempts proof attempts and always terminates
// in Succeeded, ExhaustedAttempts, or Aborted. Verification failures are
// absorbed into the loop; only a quota or rate-limit failure from the
// generator backend aborts the session, because retrying cannot fix it.
package refine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/valpere/dovid/internal"
	"github.com/valpere/dovid/internal/feedback"
	"github.com/valpere/dovid/internal/generator"
	"github.com/valpere/dovid/internal/knowledge"
	"github.com/valpere/dovid/internal/learning"
	"github.com/valpere/dovid/internal/prover"
	"github.com/valpere/dovid/internal/quality"
	"github.com/valpere/dovid/internal/sanitizer"
	"github.com/valpere/dovid/internal/translator"
)

// MaxAttempts caps the proof attempts in one session.
const MaxAttempts = 3

// State is the orchestrator state for one session.
type State string

const (
	StateTranslating       State = "translating"
	StateVerifying         State = "verifying"
	StateFeedback          State = "feedback"
	StateSucceeded         State = "succeeded"
	StateExhaustedAttempts State = "exhausted_attempts"
	StateAborted           State = "aborted"
)

// Terminal reports whether no further transition can occur.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateExhaustedAttempts || s == StateAborted
}

// Attempt is one proof attempt with its provenance and verdict.
type Attempt struct {
	Number    int                        `json:"number"`
	Statement translator.FormalStatement `json:"statement"`
	Proof     string                     `json:"proof"`
	Imports   []string                   `json:"imports"`
	// Feedback holds the recommendation set this attempt was generated
	// under, i.e. the session feedback before the attempt ran.
	Feedback []string                 `json:"feedback,omitempty"`
	Result   *prover.ValidationResult `json:"result,omitempty"`
}

// Session is the full record of one refinement cycle.
type Session struct {
	ID        string                     `json:"id"`
	Statement internal.InformalStatement `json:"statement"`
	State     State                      `json:"state"`
	Attempts  []Attempt                  `json:"attempts"`
	// Feedback accumulates deduplicated recommendations across attempts,
	// insertion order preserved.
	Feedback []string                 `json:"feedback,omitempty"`
	Final    *prover.ValidationResult `json:"final,omitempty"`
	// Quality is set only when the session succeeded.
	Quality *quality.Score `json:"quality,omitempty"`

	seenFeedback map[string]bool
}

func (s *Session) addFeedback(items []string) {
	for _, item := range items {
		if item == "" || s.seenFeedback[item] {
			continue
		}
		s.seenFeedback[item] = true
		s.Feedback = append(s.Feedback, item)
	}
}

// Translator is the slice of translator.Translator the orchestrator needs;
// tests substitute stubs.
type Translator interface {
	Translate(ctx context.Context, stmt internal.InformalStatement, feedback []string) (*translator.Result, error)
	CompleteProof(ctx context.Context, stmt translator.FormalStatement, draft string, priorAttempts, feedback, hints []string) (string, error)
	FallbackMode() bool
}

// Verifier runs one proof artifact through the checker.
type Verifier interface {
	Verify(ctx context.Context, statement, proof string, imports []string) (*prover.ValidationResult, error)
}

// defaultLadder is the curated order of cheap closing tactics tried when an
// attempt produced no usable proof body. Learned statistics reorder it.
var defaultLadder = []string{"trivial", "simp", "rfl", "assumption", "norm_num", "ring", "omega", "decide"}

// Orchestrator runs refinement sessions.
type Orchestrator struct {
	translator  Translator
	verifier    Verifier
	learning    *learning.Store
	knowledge   *knowledge.Store
	maxAttempts int
}

// Config adjusts orchestrator behavior. Zero values select the defaults.
type Config struct {
	MaxAttempts int
}

// New creates an Orchestrator. learn and know may be nil: without a
// learning store the fallback ladder keeps its curated order, and without
// curated knowledge the re-prompt omits hints.
func New(tr Translator, ver Verifier, learn *learning.Store, know *knowledge.Store, cfg Config) *Orchestrator {
	max := cfg.MaxAttempts
	if max <= 0 {
		max = MaxAttempts
	}
	return &Orchestrator{
		translator:  tr,
		verifier:    ver,
		learning:    learn,
		knowledge:   know,
		maxAttempts: max,
	}
}

// Run executes one refinement session to a terminal state. The returned
// session is always non-nil. The error is non-nil only for a quota abort
// (errors.Is(err, generator.ErrQuotaExceeded)), which callers must handle
// distinctly from ordinary exhaustion: it means the whole batch should
// stop, not just this statement.
func (o *Orchestrator) Run(ctx context.Context, stmt internal.InformalStatement) (*Session, error) {
	sess := &Session{
		ID:           uuid.New().String(),
		Statement:    stmt,
		State:        StateTranslating,
		seenFeedback: make(map[string]bool),
	}

	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		sess.State = StateTranslating
		slog.Info("attempt starting", "session", sess.ID, "attempt", attempt, "feedback_items", len(sess.Feedback))

		res, err := o.translator.Translate(ctx, stmt, sess.Feedback)
		if err != nil {
			if generator.IsQuotaError(err) {
				return o.abort(sess, err)
			}
			// Non-quota translation errors count as a failed attempt.
			slog.Warn("translation failed", "session", sess.ID, "attempt", attempt, "error", err)
			sess.addFeedback([]string{feedback.GenericItem})
			continue
		}
		if res == nil || strings.TrimSpace(res.Statement.Declaration) == "" {
			slog.Warn("translator produced no usable statement", "session", sess.ID, "attempt", attempt)
			sess.addFeedback([]string{feedback.GenericItem})
			continue
		}

		statement := res.Statement
		statement.Name = o.uniqueName(sess, statement.Name)
		proof := sanitizer.Sanitize(res.Proof, statement.Declaration)

		proof, err = o.guardCompleteness(ctx, sess, statement, proof)
		if err != nil {
			return o.abort(sess, err)
		}
		proof = sanitizer.Sanitize(proof, statement.Declaration)

		if proof == "" || sanitizer.ContainsSentinel(proof) {
			proof = o.ladderProof(attempt)
		}

		att := Attempt{
			Number:    attempt,
			Statement: statement,
			Proof:     proof,
			Imports:   sanitizer.InferImports(statement.Declaration, proof),
			Feedback:  append([]string(nil), sess.Feedback...),
		}

		if reason, ok := structurallySound(statement, proof); !ok {
			// Not worth a verification round; treat as a failed attempt.
			slog.Warn("structural check failed", "session", sess.ID, "attempt", attempt, "reason", reason)
			att.Result = &prover.ValidationResult{RawError: "structural check failed: " + reason}
			sess.Attempts = append(sess.Attempts, att)
			sess.Final = att.Result
			sess.State = StateFeedback
			sess.addFeedback([]string{reason})
			continue
		}

		sess.State = StateVerifying
		result, err := o.verifier.Verify(ctx, statement.Declaration, proof, att.Imports)
		if err != nil {
			sess.State = StateAborted
			return sess, fmt.Errorf("verification infrastructure failed: %w", err)
		}
		att.Result = result
		sess.Attempts = append(sess.Attempts, att)
		sess.Final = result

		tactics := sanitizer.ExtractTactics(proof)
		if result.Success {
			sess.State = StateSucceeded
			o.learn(func() { o.learning.RecordSuccess(tactics) })
			score := quality.Assess(proof, statement.Declaration, stmt.Domain)
			sess.Quality = &score
			slog.Info("session succeeded", "session", sess.ID, "attempt", attempt,
				"heuristic", result.Heuristic, "quality", score.Score)
			return sess, nil
		}

		sess.State = StateFeedback
		items := feedback.Parse(result.RawError + "\n" + result.RawOutput)
		sess.addFeedback(items)
		o.learn(func() {
			o.learning.RecordFailure(tactics, feedback.Classify(result.RawError))
		})
		slog.Info("attempt rejected", "session", sess.ID, "attempt", attempt,
			"class", feedback.Classify(result.RawError), "new_feedback", len(items))
	}

	sess.State = StateExhaustedAttempts
	slog.Info("attempts exhausted", "session", sess.ID, "attempts", len(sess.Attempts))
	return sess, nil
}

func (o *Orchestrator) abort(sess *Session, err error) (*Session, error) {
	sess.State = StateAborted
	slog.Error("session aborted on quota error", "session", sess.ID, "error", err)
	return sess, fmt.Errorf("refinement aborted: %w", err)
}

// learn runs a learning-store mutation and persists it; a failed save is
// logged, never fatal, since statistics only bias tactic order.
func (o *Orchestrator) learn(mutate func()) {
	if o.learning == nil {
		return
	}
	mutate()
	if err := o.learning.Save(); err != nil {
		slog.Warn("failed to save learning store", "error", err)
	}
}

// ladderProof picks the fallback closing tactic for this attempt from the
// ladder, reordered by learned success statistics when available.
func (o *Orchestrator) ladderProof(attempt int) string {
	ladder := defaultLadder
	if o.learning != nil {
		ladder = o.learning.RankTactics(defaultLadder)
	}
	idx := attempt - 1
	if idx >= len(ladder) {
		idx = len(ladder) - 1
	}
	return "by " + ladder[idx]
}

// uniqueName suffixes a theorem name already used by an earlier attempt in
// this session, so artifacts never collide.
func (o *Orchestrator) uniqueName(sess *Session, name string) string {
	if name == "" {
		name = "generated_theorem"
	}
	used := make(map[string]bool, len(sess.Attempts))
	for _, a := range sess.Attempts {
		used[a.Statement.Name] = true
	}
	if !used[name] {
		return name
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d", name, i)
		if !used[candidate] {
			return candidate
		}
	}
}
