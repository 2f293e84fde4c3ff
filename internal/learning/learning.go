// Package learning tracks per-tactic success statistics across sessions so
// that later fallback attempts try what worked before first.
package learning

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// TacticStat accumulates verification outcomes for one tactic name.
type TacticStat struct {
	Name         string `json:"name"`
	SuccessCount int    `json:"successCount"`
	FailureCount int    `json:"failureCount"`
}

// Ratio is the observed success rate; tactics never tried score 0.
func (s TacticStat) Ratio() float64 {
	total := s.SuccessCount + s.FailureCount
	if total == 0 {
		return 0
	}
	return float64(s.SuccessCount) / float64(total)
}

type document struct {
	LearnedTactics     []TacticStat `json:"learnedTactics"`
	SuccessfulPatterns []string     `json:"successfulPatterns"`
	FailurePatterns    []string     `json:"failurePatterns"`
}

// Store holds the learned statistics and knows how to persist them.
type Store struct {
	path    string
	tactics map[string]*TacticStat
	success []string
	failure []string
}

// Load reads the statistics file at path. A missing file yields an empty
// store; a corrupt one is an error so stats are never silently discarded.
func Load(path string) (*Store, error) {
	st := &Store{path: path, tactics: make(map[string]*TacticStat)}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading learning store: %w", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing learning store %s: %w", path, err)
	}
	for i := range doc.LearnedTactics {
		t := doc.LearnedTactics[i]
		st.tactics[t.Name] = &t
	}
	st.success = doc.SuccessfulPatterns
	st.failure = doc.FailurePatterns
	return st, nil
}

// Save writes the statistics atomically via a temp file rename.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}
	doc := document{
		LearnedTactics:     s.Stats(),
		SuccessfulPatterns: s.success,
		FailurePatterns:    s.failure,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding learning store: %w", err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".learning-*.json")
	if err != nil {
		return fmt.Errorf("creating temp learning file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing learning store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing learning store: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing learning store: %w", err)
	}
	return nil
}

func (s *Store) stat(name string) *TacticStat {
	t, ok := s.tactics[name]
	if !ok {
		t = &TacticStat{Name: name}
		s.tactics[name] = t
	}
	return t
}

// RecordSuccess increments the success count for each tactic used in a
// verified proof.
func (s *Store) RecordSuccess(tactics []string) {
	for _, name := range tactics {
		s.stat(name).SuccessCount++
	}
	if len(tactics) > 0 {
		s.success = appendUnique(s.success, strings.Join(tactics, " "))
	}
}

// RecordFailure increments failure counts and remembers the failure class.
func (s *Store) RecordFailure(tactics []string, pattern string) {
	for _, name := range tactics {
		s.stat(name).FailureCount++
	}
	if pattern != "" {
		s.failure = appendUnique(s.failure, pattern)
	}
}

// RankTactics reorders the fallback ladder by observed success ratio, ties
// broken by the original ladder position so untried tactics keep their
// curated order.
func (s *Store) RankTactics(fallback []string) []string {
	ranked := make([]string, len(fallback))
	copy(ranked, fallback)
	pos := make(map[string]int, len(fallback))
	for i, name := range fallback {
		pos[name] = i
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		ri, rj := s.ratio(ranked[i]), s.ratio(ranked[j])
		if ri != rj {
			return ri > rj
		}
		return pos[ranked[i]] < pos[ranked[j]]
	})
	return ranked
}

func (s *Store) ratio(name string) float64 {
	if t, ok := s.tactics[name]; ok {
		return t.Ratio()
	}
	return 0
}

// Stats returns all tracked tactics sorted by success ratio, then name.
func (s *Store) Stats() []TacticStat {
	out := make([]TacticStat, 0, len(s.tactics))
	for _, t := range s.tactics {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ratio() != out[j].Ratio() {
			return out[i].Ratio() > out[j].Ratio()
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func appendUnique(list []string, item string) []string {
	for _, existing := range list {
		if existing == item {
			return list
		}
	}
	return append(list, item)
}
