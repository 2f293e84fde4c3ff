// Package quality scores synthesized proofs for mathematical substance so
// that a vacuous one-tactic proof is never reported as a strong result.
package quality

import (
	"regexp"
	"strings"

	"github.com/valpere/dovid/internal/sanitizer"
)

// Substance categorizes what kind of reasoning a proof exhibits.
type Substance string

const (
	SubstancePlaceholder   Substance = "placeholder"
	SubstanceLogical       Substance = "logical_reasoning"
	SubstanceConstruction  Substance = "proof_construction"
	SubstanceAlgebraic     Substance = "algebraic_manipulation"
	SubstanceComputational Substance = "computational_verification"
	SubstanceTrivialProof  Substance = "trivial_proof"
	SubstanceMinimal       Substance = "minimal_reasoning"
)

// Score is the quality verdict for one verified proof.
type Score struct {
	Score         float64
	IsMeaningful  bool
	IsPlaceholder bool
	Substance     Substance
	Explanation   string
}

var (
	trivialOnlyRe  = regexp.MustCompile(`^\s*by\s+(trivial|rfl|simp)\s*$`)
	byCasesRe      = regexp.MustCompile(`\bby_cases\b`)
	obtainUseRe    = regexp.MustCompile(`\b(obtain|use|exists|refine)\b`)
	ringRe         = regexp.MustCompile(`\b(ring|ring_nf)\b`)
	normNumRe      = regexp.MustCompile(`\bnorm_num\b`)
	meaningfulRe   = regexp.MustCompile(`\b(intro|cases|rcases|induction|apply|exact|rw|calc|have|constructor|omega|linarith)\b`)
	trivialGoalRe  = regexp.MustCompile(`:\s*True\b|1\s*\+\s*1\s*=\s*2|0\s*\+|=\s*rfl`)
	complexityHint = regexp.MustCompile(`(?i)p\s*[=≠]\s*np|complexity|polynomial.time|satisfiab`)
)

// TrivialOnly reports whether the proof body is a single throwaway tactic.
func TrivialOnly(proof string) bool {
	return trivialOnlyRe.MatchString(strings.TrimSpace(proof))
}

// Assess scores a proof against its statement. The domain string biases the
// weighting: complexity-theory claims are penalized for trivial proofs since
// those are vacuous there, while arithmetic domains reward computation.
func Assess(proof, statement, domain string) Score {
	proof = strings.TrimSpace(proof)

	if proof == "" || sanitizer.ContainsSentinel(proof) {
		return Score{
			Score:         0,
			IsMeaningful:  false,
			IsPlaceholder: true,
			Substance:     SubstancePlaceholder,
			Explanation:   "Proof contains the '" + sanitizer.Sentinel + "' placeholder; nothing was actually proven.",
		}
	}

	trivialGoal := trivialGoalRe.MatchString(statement)
	trivial := TrivialOnly(proof)

	var score float64
	switch {
	case trivial && trivialGoal:
		score = 0.4
	case trivial:
		score = 0.2
	default:
		score = 0.3
	}

	meaningful := meaningfulRe.FindAllString(proof, -1)
	bonus := 0.15 * float64(len(uniqueStrings(meaningful)))
	if bonus > 0.6 {
		bonus = 0.6
	}
	score += bonus

	hasRing := ringRe.MatchString(proof)
	hasNormNum := normNumRe.MatchString(proof)
	hasByCases := byCasesRe.MatchString(proof)
	hasConstruction := obtainUseRe.MatchString(proof)

	if hasRing {
		score += 0.2
	}
	if hasNormNum {
		score += 0.2
	}
	if hasByCases {
		score += 0.3
	}
	if hasConstruction {
		score += 0.25
	}

	lines := nonEmptyLines(proof)
	if lines > 3 {
		score += 0.1
	}
	if lines > 6 {
		score += 0.1
	}

	isComplexity := strings.EqualFold(domain, "complexity") ||
		complexityHint.MatchString(domain) || complexityHint.MatchString(statement)
	if isComplexity {
		if trivial {
			score -= 0.3
			if score < 0.1 {
				score = 0.1
			}
		}
		if hasByCases {
			score += 0.2
		}
	}
	if strings.EqualFold(domain, "parity") || strings.EqualFold(domain, "arithmetic") {
		if hasNormNum {
			score += 0.1
		}
	}

	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}

	substance := classifySubstance(hasByCases, hasConstruction, hasRing, hasNormNum, trivial)

	return Score{
		Score:         score,
		IsMeaningful:  score > 0.5,
		IsPlaceholder: score < 0.3,
		Substance:     substance,
		Explanation:   explain(substance, score, isComplexity, trivial),
	}
}

func classifySubstance(byCases, construction, ring, normNum, trivial bool) Substance {
	switch {
	case byCases:
		return SubstanceLogical
	case construction:
		return SubstanceConstruction
	case ring:
		return SubstanceAlgebraic
	case normNum:
		return SubstanceComputational
	case trivial:
		return SubstanceTrivialProof
	default:
		return SubstanceMinimal
	}
}

func explain(s Substance, score float64, complexityDomain, trivial bool) string {
	switch s {
	case SubstanceLogical:
		return "Proof performs genuine case analysis."
	case SubstanceConstruction:
		return "Proof constructs an explicit witness for the goal."
	case SubstanceAlgebraic:
		return "Proof closes the goal by algebraic normalization."
	case SubstanceComputational:
		return "Proof verifies the goal by numeric computation."
	case SubstanceTrivialProof:
		if complexityDomain {
			return "A one-tactic proof carries no weight on a complexity-theory claim."
		}
		if score >= 0.3 {
			return "Trivial tactic, appropriate for a trivial goal."
		}
		return "Trivial tactic on a non-trivial goal; the result is weak evidence at best."
	default:
		if trivial {
			return "Proof is a single tactic with no visible reasoning structure."
		}
		return "Proof succeeds but shows minimal reasoning structure."
	}
}

func uniqueStrings(ss []string) []string {
	seen := make(map[string]bool, len(ss))
	var out []string
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func nonEmptyLines(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
