package learning

import (
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileIsEmptyStore(t *testing.T) {
	st, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if len(st.Stats()) != 0 {
		t.Errorf("expected empty store, got %v", st.Stats())
	}
}

func TestStore_SaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "learning.json")

	st, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	st.RecordSuccess([]string{"ring", "use"})
	st.RecordFailure([]string{"simp"}, "type_mismatch")
	if err := st.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	stats := reloaded.Stats()
	byName := make(map[string]TacticStat, len(stats))
	for _, s := range stats {
		byName[s.Name] = s
	}
	if got := byName["ring"]; got.SuccessCount != 1 || got.FailureCount != 0 {
		t.Errorf("ring stat = %+v, want 1 success", got)
	}
	if got := byName["simp"]; got.FailureCount != 1 {
		t.Errorf("simp stat = %+v, want 1 failure", got)
	}
}

func TestStore_RankTactics(t *testing.T) {
	st, err := Load(filepath.Join(t.TempDir(), "learning.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	st.RecordSuccess([]string{"ring"})
	st.RecordSuccess([]string{"ring"})
	st.RecordFailure([]string{"trivial"}, "other")

	ladder := []string{"trivial", "simp", "rfl", "ring"}
	ranked := st.RankTactics(ladder)

	if ranked[0] != "ring" {
		t.Errorf("ranked = %v, want ring first (highest success ratio)", ranked)
	}
	// Tactics tied at ratio zero keep their curated relative order.
	trivialIdx, simpIdx, rflIdx := indexOf(ranked, "trivial"), indexOf(ranked, "simp"), indexOf(ranked, "rfl")
	if trivialIdx > simpIdx || simpIdx > rflIdx {
		t.Errorf("ranked = %v, want curated order among ties", ranked)
	}
	if len(ranked) != len(ladder) {
		t.Errorf("ranking changed ladder size: %v", ranked)
	}
}

func TestStore_RecordPatternsDeduplicated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "learning.json")
	st, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	st.RecordFailure(nil, "type_mismatch")
	st.RecordFailure(nil, "type_mismatch")
	if err := st.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(reloaded.failure) != 1 {
		t.Errorf("failure patterns = %v, want deduplicated single entry", reloaded.failure)
	}
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
