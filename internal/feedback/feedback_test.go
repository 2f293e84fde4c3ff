package feedback

import (
	"strings"
	"testing"
)

func TestParse_UnknownIdentifier(t *testing.T) {
	raw := "artifact.lean:4:2: error: unknown identifier 'add_succ'"
	items := Parse(raw)

	if len(items) < 2 {
		t.Fatalf("expected primary item plus targeted hint, got %v", items)
	}
	if !strings.Contains(items[0], "add_succ") {
		t.Errorf("primary item does not name the identifier: %q", items[0])
	}
	// The targeted-hint pass knows add_succ and names a supporting import.
	found := false
	for _, item := range items[1:] {
		if strings.Contains(item, "Mathlib.Data.Nat.Basic") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a hint naming Mathlib.Data.Nat.Basic, got %v", items)
	}
}

func TestParse_UnknownIdentifierUncurated(t *testing.T) {
	raw := "error: unknown identifier 'frobnicate_lemma'"
	items := Parse(raw)

	found := false
	for _, item := range items {
		if strings.Contains(item, "frobnicate_lemma") && strings.Contains(item, "minimal import") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected generic import-or-alternative hint for uncurated identifier, got %v", items)
	}
}

func TestParse_NeverEmpty(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty input", ""},
		{"whitespace only", "  \n\t\n"},
		{"unrecognized chatter", "elaborating module...\ndone in 1.2s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Parse(tt.raw)
			if len(items) != 1 || items[0] != GenericItem {
				t.Errorf("Parse(%q) = %v, want exactly one generic item", tt.raw, items)
			}
		})
	}
}

func TestParse_PatternTable(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"type mismatch", "error: type mismatch at application", "type mismatch"},
		{"syntax error", "artifact.lean:2:1: syntax error", "syntax error"},
		{"unexpected token", "error: unexpected token ':='; expected term", "unexpected token"},
		{"sorry declaration", "warning: declaration uses 'sorry'", "placeholder"},
		{"instance synthesis", "error: failed to synthesize Decidable p", "Instance resolution"},
		{"missing module", "error: unknown module prefix 'Mathlib.Missing'", "missing module"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Parse(tt.raw)
			found := false
			for _, item := range items {
				if strings.Contains(item, tt.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("Parse(%q) = %v, want an item containing %q", tt.raw, items, tt.want)
			}
		})
	}
}

func TestParse_DeduplicatesAcrossLines(t *testing.T) {
	raw := "error: type mismatch at foo\nerror: type mismatch at foo"
	items := Parse(raw)
	if len(items) != 1 {
		t.Errorf("expected duplicate lines collapsed, got %v", items)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"unknown identifier 'x'", FailUnknownIdentifier},
		{"unknown constant 'Nat.foo'", FailUnknownIdentifier},
		{"type mismatch in application", FailTypeMismatch},
		{"no such assumption h", FailAssumption},
		{"apply failed to unify", FailApply},
		{"tactic 'ring' failed", FailTacticFailed},
		{"something else entirely", FailOther},
		{"", FailOther},
	}
	for _, tt := range tests {
		if got := Classify(tt.raw); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
