package prover

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const statement = "theorem even_sum (a b : ℤ) (ha : Even a) (hb : Even b) : Even (a + b) := by sorry"

const proof = "by\n  obtain ⟨k, rfl⟩ := ha\n  obtain ⟨l, rfl⟩ := hb\n  use k + l\n  ring"

func TestBuildArtifact_SubstitutesSentinel(t *testing.T) {
	artifact := BuildArtifact(statement, proof, []string{"import Mathlib.Tactic"})

	if strings.Contains(artifact, "sorry") {
		t.Errorf("artifact still contains the placeholder:\n%s", artifact)
	}
	if !strings.Contains(artifact, "use k + l") {
		t.Errorf("artifact missing the substituted proof:\n%s", artifact)
	}
	if !strings.HasPrefix(artifact, "import Mathlib.Tactic\n") {
		t.Errorf("artifact missing import block:\n%s", artifact)
	}
	if !strings.Contains(artifact, artifactMarker) {
		t.Errorf("artifact missing marker comment:\n%s", artifact)
	}
}

func TestBuildArtifact_StatementWithoutSentinel(t *testing.T) {
	artifact := BuildArtifact("theorem t : 1 + 1 = 2 :=", "by norm_num", nil)
	if !strings.Contains(artifact, "theorem t : 1 + 1 = 2 := by norm_num") {
		t.Errorf("proof not appended to bare declaration:\n%s", artifact)
	}
}

func TestBuildArtifact_EmptyProof(t *testing.T) {
	artifact := BuildArtifact(statement, "", nil)
	if !strings.Contains(artifact, "sorry") {
		t.Errorf("empty proof must leave the statement untouched:\n%s", artifact)
	}
}

func TestVerify_MissingBinaryFallsBackToHeuristic(t *testing.T) {
	v := New("definitely-not-a-lean-binary", t.TempDir())

	result, err := v.Verify(context.Background(), statement, proof, nil)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !result.Heuristic {
		t.Error("expected heuristic verdict when the binary is missing")
	}
	if !result.Success {
		t.Errorf("heuristic should pass a proof with recognized tactics, got %+v", result)
	}
}

func TestVerify_HeuristicRejectsSentinel(t *testing.T) {
	v := New("definitely-not-a-lean-binary", t.TempDir())

	result, err := v.Verify(context.Background(), statement, "by sorry", nil)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if result.Success {
		t.Error("heuristic must fail a proof containing the placeholder")
	}
	if !result.Heuristic {
		t.Error("expected heuristic verdict")
	}
}

func TestVerify_ZeroExitIsSuccess(t *testing.T) {
	// Any executable that exits 0 stands in for the checker.
	v := New("true", t.TempDir())

	result, err := v.Verify(context.Background(), "theorem t : True := by sorry", "by trivial", nil)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !result.Success {
		t.Errorf("zero exit must map to success, got %+v", result)
	}
	if result.Heuristic {
		t.Error("a real invocation must not be marked heuristic")
	}
}

func TestVerify_NonzeroExitIsFailure(t *testing.T) {
	v := New("false", t.TempDir())

	result, err := v.Verify(context.Background(), "theorem t : True := by sorry", "by trivial", nil)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if result.Success {
		t.Errorf("nonzero exit must map to failure, got %+v", result)
	}
	if result.RawError == "" {
		t.Error("expected RawError populated on failure")
	}
}

func TestVerify_RemovesArtifact(t *testing.T) {
	dir := t.TempDir()
	v := New("true", dir)

	if _, err := v.Verify(context.Background(), "theorem t : True := by sorry", "by trivial", nil); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".lean") {
			t.Errorf("artifact %s not cleaned up", e.Name())
		}
	}
}

func TestFindLakeRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	if got := findLakeRoot(nested); got != "" {
		t.Errorf("findLakeRoot without a lakefile = %q, want empty", got)
	}

	if err := os.WriteFile(filepath.Join(root, "lakefile.toml"), []byte("name = \"demo\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := findLakeRoot(nested); got != root {
		t.Errorf("findLakeRoot = %q, want %q", got, root)
	}
}

func TestBasicProofValidation_NoTactics(t *testing.T) {
	result := basicProofValidation("theorem t : True", "qed")
	if result.Success {
		t.Error("text without recognized tactics must not pass")
	}
}
