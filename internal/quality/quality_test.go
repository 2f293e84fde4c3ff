package quality

import "testing"

const parityStatement = "theorem even_sum (a b : ℤ) (ha : Even a) (hb : Even b) : Even (a + b)"

const parityProof = `by
  obtain ⟨k, rfl⟩ := ha
  obtain ⟨l, rfl⟩ := hb
  use k + l
  ring`

func TestAssess_SentinelAlwaysZero(t *testing.T) {
	tests := []struct {
		name  string
		proof string
	}{
		{"bare sentinel", "by sorry"},
		{"sentinel after real tactics", "by\n  obtain ⟨k, rfl⟩ := ha\n  ring\n  sorry"},
		{"empty proof", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assess(tt.proof, parityStatement, "parity")
			if got.Score != 0 {
				t.Errorf("score = %v, want 0", got.Score)
			}
			if got.Substance != SubstancePlaceholder {
				t.Errorf("substance = %v, want %v", got.Substance, SubstancePlaceholder)
			}
			if !got.IsPlaceholder || got.IsMeaningful {
				t.Errorf("flags = {placeholder: %v, meaningful: %v}, want {true, false}", got.IsPlaceholder, got.IsMeaningful)
			}
		})
	}
}

func TestAssess_WitnessConstructionIsMeaningful(t *testing.T) {
	got := Assess(parityProof, parityStatement, "parity")
	if got.Score <= 0.5 {
		t.Errorf("score = %v, want > 0.5", got.Score)
	}
	if !got.IsMeaningful {
		t.Error("expected IsMeaningful for a witness-construction proof")
	}
	if got.Substance != SubstanceConstruction && got.Substance != SubstanceAlgebraic {
		t.Errorf("substance = %v, want construction or algebraic", got.Substance)
	}
}

func TestAssess_TrivialOnComplexityDomainPenalized(t *testing.T) {
	got := Assess("by trivial", "theorem p_neq_np : P ≠ NP", "complexity")
	if got.Score >= 0.3 {
		t.Errorf("score = %v, want < 0.3 under the complexity penalty", got.Score)
	}
	if !got.IsPlaceholder {
		t.Error("a trivial proof of a complexity claim should be flagged as placeholder-grade")
	}
}

func TestAssess_TrivialPlausibleForTrivialGoal(t *testing.T) {
	got := Assess("by trivial", "theorem t : True", "")
	if got.Score < 0.3 {
		t.Errorf("score = %v, want >= 0.3 when the goal is a tautology", got.Score)
	}
	if got.Substance != SubstanceTrivialProof {
		t.Errorf("substance = %v, want %v", got.Substance, SubstanceTrivialProof)
	}
}

func TestAssess_CaseSplitIsLogicalReasoning(t *testing.T) {
	proof := "by\n  by_cases h : n = 0\n  · simp [h]\n  · omega"
	got := Assess(proof, "theorem t (n : ℕ) : n = 0 ∨ n > 0", "")
	if got.Substance != SubstanceLogical {
		t.Errorf("substance = %v, want %v", got.Substance, SubstanceLogical)
	}
	if !got.IsMeaningful {
		t.Errorf("score = %v, want meaningful for case analysis", got.Score)
	}
}

func TestAssess_ScoreClamped(t *testing.T) {
	// Long proof with every bonus category stays within [0, 1].
	proof := `by
  intro n
  by_cases h : Even n
  · obtain ⟨k, rfl⟩ := h
    use k
    ring
  · rw [Nat.not_even_iff] at h
    norm_num
    omega`
	got := Assess(proof, parityStatement, "parity")
	if got.Score > 1 || got.Score < 0 {
		t.Errorf("score = %v, want within [0, 1]", got.Score)
	}
}

func TestTrivialOnly(t *testing.T) {
	tests := []struct {
		proof string
		want  bool
	}{
		{"by trivial", true},
		{"by simp", true},
		{"by rfl", true},
		{"by ring", false},
		{parityProof, false},
	}
	for _, tt := range tests {
		if got := TrivialOnly(tt.proof); got != tt.want {
			t.Errorf("TrivialOnly(%q) = %v, want %v", tt.proof, got, tt.want)
		}
	}
}
