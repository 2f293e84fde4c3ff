// Package knowledge is a read-only lookup of curated domain facts and
// proof-strategy hints. The orchestrator consumes hints when re-prompting
// for a complete proof; the knowledge command shows them to the user.
//
// Built-in entries cover the parity and complexity domains; an optional
// JSON overlay file can add or replace domains. Absence of the overlay is
// not an error.
package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Entry holds a domain's curated facts and proof strategies.
type Entry struct {
	Domain     string   `json:"domain"`
	Facts      []string `json:"facts"`
	Strategies []string `json:"strategies"`
}

// Store is an immutable domain → Entry lookup.
type Store struct {
	entries map[string]Entry
}

var builtinEntries = []Entry{
	{
		Domain: "parity",
		Facts: []string{
			"Even n means ∃ k, n = 2 * k; Odd n means ∃ k, n = 2 * k + 1.",
			"The sum of two even numbers is even; the sum of two odd numbers is even.",
			"The product of any number with an even number is even.",
			"Mathlib.Algebra.Ring.Parity provides Even, Odd and their lemmas.",
		},
		Strategies: []string{
			"Destructure parity hypotheses with obtain ⟨k, hk⟩ := h, give an explicit witness with use, then close with ring.",
			"For concrete numerals, decide or norm_num settles parity goals directly.",
		},
	},
	{
		Domain: "arithmetic",
		Facts: []string{
			"Natural-number addition and multiplication are commutative and associative.",
			"Nat.add_succ and Nat.succ_add unfold successor addition.",
		},
		Strategies: []string{
			"Goals over ℕ with +, *, ≤ often close with omega or linarith.",
			"Equational goals in commutative (semi)rings close with ring.",
			"Statements quantified over all naturals usually need induction n with a base case and a successor case.",
		},
	},
	{
		Domain: "complexity",
		Facts: []string{
			"P is the class of problems decidable in polynomial time by a deterministic Turing machine.",
			"NP is the class of problems whose solutions are verifiable in polynomial time.",
			"SAT and 3-SAT are NP-complete; a polynomial algorithm for either gives P = NP.",
			"Baker-Gill-Solovay shows relativization cannot resolve P vs NP; Razborov-Rudich bars natural proofs.",
			"Whether P = NP is open; neither direction has a proof.",
		},
		Strategies: []string{
			"Separation claims need an explicit reduction or a diagonalization argument, not a one-tactic proof.",
			"Case-split on machine acceptance before reasoning about running time bounds.",
		},
	},
}

// Builtin returns a store holding only the built-in domain entries.
func Builtin() *Store {
	s := &Store{entries: make(map[string]Entry, len(builtinEntries))}
	for _, e := range builtinEntries {
		s.entries[strings.ToLower(e.Domain)] = e
	}
	return s
}

// Load returns the built-in store overlaid with entries from the JSON file
// at path. A missing file degrades to the built-in store; a present but
// unreadable file is an error so a typo'd path is not silently ignored.
func Load(path string) (*Store, error) {
	s := Builtin()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading knowledge overlay: %w", err)
	}
	var overlay []Entry
	if err := json.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parsing knowledge overlay %s: %w", path, err)
	}
	for _, e := range overlay {
		if e.Domain != "" {
			s.entries[strings.ToLower(e.Domain)] = e
		}
	}
	return s, nil
}

// Lookup returns the entry for a domain, case-insensitively.
func (s *Store) Lookup(domain string) (Entry, bool) {
	e, ok := s.entries[strings.ToLower(domain)]
	return e, ok
}

// Hints returns the facts and strategies for a domain as one flat list for
// prompt building. An unknown or empty domain yields nil, so the re-prompt
// degrades gracefully when no curated knowledge exists.
func (s *Store) Hints(domain string) []string {
	e, ok := s.Lookup(domain)
	if !ok {
		return nil
	}
	hints := make([]string, 0, len(e.Facts)+len(e.Strategies))
	hints = append(hints, e.Facts...)
	hints = append(hints, e.Strategies...)
	return hints
}

// Domains lists the known domains, sorted.
func (s *Store) Domains() []string {
	out := make([]string, 0, len(s.entries))
	for d := range s.entries {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
