// Package translator converts informal mathematical statements into Lean 4
// theorem declarations with draft tactic proofs.
//
// With a generator backend configured it runs a three-prompt pipeline
// (concept extraction, theorem declaration, proof attempt); without one it
// falls back to a deterministic table of canned theorems so the rest of the
// pipeline can run and be tested offline.
package translator

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/valpere/dovid/internal"
	"github.com/valpere/dovid/internal/generator"
	"github.com/valpere/dovid/internal/postprocess"
	"github.com/valpere/dovid/internal/sanitizer"
)

// FormalStatement is a machine-checkable theorem declaration: a derived
// name plus the full declaration text (signature, hypotheses, goal).
type FormalStatement struct {
	Name        string `json:"name"`
	Declaration string `json:"declaration"`
}

// Result is one translation of an informal statement. Either field may be
// empty when no backend produced usable output and no fallback matched.
type Result struct {
	Statement FormalStatement `json:"statement"`
	Proof     string          `json:"proof"`
	Notes     string          `json:"notes,omitempty"`
}

// Translator drafts formal statements and proofs. A nil generator selects
// deterministic fallback mode.
type Translator struct {
	gen generator.Generator
}

// New creates a Translator. Pass nil to run in deterministic fallback mode.
func New(gen generator.Generator) *Translator {
	return &Translator{gen: gen}
}

// FallbackMode reports whether the translator has no generator backend.
func (t *Translator) FallbackMode() bool {
	return t.gen == nil
}

var theoremNameRe = regexp.MustCompile(`theorem\s+(\w+)`)

// Translate converts an informal statement into a formal declaration and a
// draft proof. Prior feedback items are appended to the proof prompt as
// errors to fix. Quota errors from the backend are returned as-is; any
// other backend failure degrades to the deterministic fallback table.
func (t *Translator) Translate(ctx context.Context, stmt internal.InformalStatement, feedback []string) (*Result, error) {
	if t.gen == nil {
		return fallbackTranslate(stmt), nil
	}

	notes, err := t.gen.Generate(ctx, extractPrompt(stmt.Text), 200)
	if err != nil {
		if generator.IsQuotaError(err) {
			return nil, err
		}
		slog.Warn("concept extraction failed, continuing without notes", "error", err)
		notes = ""
	}

	rawDecl, err := t.gen.Generate(ctx, declarationPrompt(stmt.Text), 150)
	if err != nil {
		if generator.IsQuotaError(err) {
			return nil, err
		}
		slog.Warn("declaration generation failed, using fallback table", "error", err)
		return fallbackTranslate(stmt), nil
	}

	decl := isolateDeclaration(postprocess.Clean(rawDecl))
	if !hasGoalSeparator(decl) {
		decl = synthesizeDeclaration(stmt.Text)
	}

	rawProof, err := t.gen.Generate(ctx, proofPrompt(decl, feedback), 200)
	if err != nil {
		if generator.IsQuotaError(err) {
			return nil, err
		}
		slog.Warn("proof generation failed, using placeholder", "error", err)
		rawProof = "by " + sanitizer.Sentinel
	}
	proof := isolateProof(postprocess.Clean(rawProof))
	if proof == "" {
		proof = "by " + sanitizer.Sentinel
	}

	return &Result{
		Statement: FormalStatement{
			Name:        theoremName(decl),
			Declaration: decl,
		},
		Proof: proof,
		Notes: strings.TrimSpace(postprocess.Clean(notes)),
	}, nil
}

// hasGoalSeparator reports whether the declaration has an identifiable goal
// clause. Without one the declaration is untranslatable as-is and a
// canonical signature is synthesized instead.
func hasGoalSeparator(decl string) bool {
	return strings.Contains(decl, ":") && strings.Contains(decl, "theorem ")
}

func theoremName(decl string) string {
	if m := theoremNameRe.FindStringSubmatch(decl); m != nil {
		return m[1]
	}
	return "generated_theorem"
}

// isolateDeclaration extracts the theorem declaration from surrounding
// prose: everything from the first "theorem " up to the end of the
// declaration (":= by sorry", a bare ":=", or end of that line block).
func isolateDeclaration(text string) string {
	lines := strings.Split(text, "\n")
	var kept []string
	found := false
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "theorem ") {
			found = true
		}
		if found {
			kept = append(kept, line)
			trimmed := strings.TrimSpace(line)
			if strings.Contains(trimmed, ":= by "+sanitizer.Sentinel) || strings.HasSuffix(trimmed, ":=") {
				break
			}
		}
	}
	if !found {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// isolateProof keeps only tactic lines, dropping explanation text the model
// wrapped around them. Once the tactic block has started, a blank line or a
// prose sentence ends it; indentation inside the block is preserved.
func isolateProof(text string) string {
	lines := strings.Split(text, "\n")
	var kept []string
	foundBy := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case foundBy:
			if trimmed == "" || looksLikeProse(trimmed) ||
				(!sanitizer.HasTacticKeyword(trimmed) && strings.HasSuffix(trimmed, ".")) {
				return strings.TrimSpace(strings.Join(kept, "\n"))
			}
			kept = append(kept, strings.TrimRight(line, " \t"))
		case trimmed == "by" || strings.HasPrefix(trimmed, "by ") || strings.HasPrefix(trimmed, "by\t"):
			foundBy = true
			kept = append(kept, trimmed)
		case trimmed != "" && sanitizer.HasTacticKeyword(trimmed) && !looksLikeProse(trimmed):
			kept = append(kept, trimmed)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

var proseMarkers = []string{"your proof", "example", "proof structure", "requirements", "explanation", "note that"}

func looksLikeProse(line string) bool {
	lower := strings.ToLower(line)
	for _, marker := range proseMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func extractPrompt(statement string) string {
	return fmt.Sprintf(`Given the following mathematical statement in English:
%s

List the key mathematical concepts, variables, and hypotheses needed. Be concise and focus on Mathlib terminology.

Example response format:
- Variables: natural numbers a, b
- Hypotheses: Even a, Even b
- Goal: Even (a + b)
- Required imports: Mathlib.Algebra.Ring.Parity`, statement)
}

func declarationPrompt(statement string) string {
	return fmt.Sprintf(`Convert this English mathematical statement to a valid Lean 4 theorem declaration.

Statement: %q

Requirements:
- Output ONLY the theorem line (no imports, no explanations)
- Use Mathlib types (ℕ, ℤ, Even, Odd)
- Include all necessary variables and hypotheses
- End with ":= by sorry"
- Make the theorem name a descriptive, valid identifier

Example:
theorem sum_even_is_even (a b : ℕ) (ha : Even a) (hb : Even b) : Even (a + b) := by sorry

Your theorem (one line only):`, statement)
}

func proofPrompt(declaration string, feedback []string) string {
	prompt := fmt.Sprintf(`Write a complete Lean 4 proof for this theorem:

%s

Requirements:
- Start with "by"
- Use standard tactics: obtain, use, rw, ring, simp, intro, apply, exact
- For Even n: means ∃ k, n = 2 * k (use obtain ⟨k, hk⟩ := ha)
- For Odd n: means ∃ k, n = 2 * k + 1
- Output ONLY the proof (no explanations)
- If unsure, end with %q

Example proof structure:
by
  obtain ⟨k, hk⟩ := ha
  obtain ⟨l, hl⟩ := hb
  use k + l
  rw [hk, hl]
  ring

Your proof:`, declaration, sanitizer.Sentinel)

	if len(feedback) > 0 {
		prompt += "\n\nPrevious Lean errors to fix:\n" + strings.Join(feedback, "\n")
	}
	return prompt
}
