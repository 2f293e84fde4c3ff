/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/dovid/internal"
	"github.com/valpere/dovid/internal/detector"
	"github.com/valpere/dovid/internal/knowledge"
	"github.com/valpere/dovid/internal/learning"
	"github.com/valpere/dovid/internal/prover"
	"github.com/valpere/dovid/internal/refine"
	"github.com/valpere/dovid/internal/store"
	"github.com/valpere/dovid/internal/translator"
)

var (
	proveStatement string
	proveInput     string
	proveDomain    string
	generatorName  string

	leanPath     string
	proveWorkDir string

	proveDBPath   string
	noArchive     bool
	learningPath  string
	knowledgePath string
	maxAttempts   int
)

var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "Run one refinement session for an informal claim",
	Long: `Translate an informal mathematical claim into a Lean 4 theorem,
attempt a proof, and refine failed attempts from the prover's diagnostics.

The session makes at most three attempts and terminates on the first
verified proof. Without a generator backend (--generator none) the
translator runs in deterministic fallback mode, which recognizes a small
set of parity and complexity claims.

Examples:
  dovid prove -s "The sum of two even numbers is even" -d parity
  dovid prove -i claim.txt --generator ollama`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.TrimSpace(proveStatement)
		if text == "" && proveInput != "" {
			data, err := os.ReadFile(proveInput)
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}
			text = strings.TrimSpace(string(data))
		}
		if text == "" {
			return fmt.Errorf("no statement given; use --statement or --input")
		}

		ctx := context.Background()

		if !detector.New().IsEnglish(text) {
			fmt.Fprintf(os.Stderr, "Warning: statement does not look English; fallback tables and feedback matching are English-keyed\n")
		}

		gen, err := buildGenerator(generatorName)
		if err != nil {
			return err
		}
		if gen != nil {
			if err := gen.IsAvailable(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Backend %s unavailable (%v), using deterministic fallback\n", gen.Name(), err)
				gen = nil
			}
		}
		tr := translator.New(gen)
		if tr.FallbackMode() {
			fmt.Fprintf(os.Stderr, "Running in deterministic fallback mode\n")
		}

		if err := os.MkdirAll(filepath.Dir(learningPath), 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		learn, err := learning.Load(learningPath)
		if err != nil {
			return err
		}
		know, err := knowledge.Load(knowledgePath)
		if err != nil {
			return err
		}

		orch := refine.New(tr, prover.New(leanPath, proveWorkDir), learn, know, refine.Config{
			MaxAttempts: maxAttempts,
		})

		sess, runErr := orch.Run(ctx, internal.InformalStatement{Text: text, Domain: proveDomain})

		if !noArchive && sess != nil {
			if err := archiveSession(ctx, sess); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to archive session: %v\n", err)
			}
		}

		if sess != nil {
			printSession(sess)
		}
		return runErr
	},
}

func printSession(sess *refine.Session) {
	fmt.Printf("Session %s: %s after %d attempt(s)\n", sess.ID, sess.State, len(sess.Attempts))

	if sess.State != refine.StateSucceeded {
		if sess.Final != nil && sess.Final.RawError != "" {
			fmt.Printf("Last error:\n%s\n", sess.Final.RawError)
		}
		if len(sess.Feedback) > 0 {
			fmt.Println("Accumulated feedback:")
			for _, item := range sess.Feedback {
				fmt.Printf("  - %s\n", item)
			}
		}
		return
	}

	last := sess.Attempts[len(sess.Attempts)-1]
	fmt.Printf("\n%s\n", prover.BuildArtifact(last.Statement.Declaration, last.Proof, last.Imports))
	if sess.Final.Heuristic {
		fmt.Println("NOTE: verdict came from heuristic validation (lean not found); it is NOT authoritative.")
	}
	if q := sess.Quality; q != nil {
		fmt.Printf("Quality: %.2f (%s, meaningful=%v)\n", q.Score, q.Substance, q.IsMeaningful)
		fmt.Printf("  %s\n", q.Explanation)
	}
}

func archiveSession(ctx context.Context, sess *refine.Session) error {
	if err := os.MkdirAll(filepath.Dir(proveDBPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := store.New(proveDBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	rec := store.SessionRecord{
		ID:        sess.ID,
		Statement: sess.Statement.Text,
		Domain:    sess.Statement.Domain,
		State:     string(sess.State),
		Attempts:  len(sess.Attempts),
		Success:   sess.State == refine.StateSucceeded,
		Heuristic: sess.Final != nil && sess.Final.Heuristic,
		CreatedAt: time.Now(),
	}
	if q := sess.Quality; q != nil {
		rec.QualityScore = sql.NullFloat64{Float64: q.Score, Valid: true}
		rec.Substance = string(q.Substance)
	}
	if err := db.SaveSession(ctx, rec); err != nil {
		return err
	}
	for _, a := range sess.Attempts {
		att := store.AttemptRecord{
			SessionID:     sess.ID,
			AttemptNumber: a.Number,
			TheoremName:   a.Statement.Name,
			Declaration:   a.Statement.Declaration,
			Proof:         a.Proof,
		}
		if a.Result != nil {
			att.Success = a.Result.Success
			att.RawError = a.Result.RawError
		}
		if err := db.SaveAttempt(ctx, att); err != nil {
			return err
		}
	}
	return db.SaveFeedback(ctx, sess.ID, sess.Feedback)
}

func init() {
	rootCmd.AddCommand(proveCmd)

	proveCmd.Flags().StringVarP(&proveStatement, "statement", "s", "", "Informal statement to prove")
	proveCmd.Flags().StringVarP(&proveInput, "input", "i", "", "File holding the informal statement")
	proveCmd.Flags().StringVarP(&proveDomain, "domain", "d", "", "Problem domain tag (parity, arithmetic, complexity)")
	proveCmd.Flags().StringVarP(&generatorName, "generator", "g", "none", "Generator backend: openai, ollama, gemini, none")

	proveCmd.Flags().StringVar(&leanPath, "lean", "lean", "Lean binary path")
	proveCmd.Flags().StringVar(&proveWorkDir, "workdir", "", "Working directory for verification artifacts (lake project detection starts here)")
	proveCmd.Flags().IntVar(&maxAttempts, "max-attempts", refine.MaxAttempts, "Proof attempts per session")

	proveCmd.Flags().StringVar(&proveDBPath, "db", "./data/dovid.db", "Session archive database path")
	proveCmd.Flags().BoolVar(&noArchive, "no-archive", false, "Do not archive the session")
	proveCmd.Flags().StringVar(&learningPath, "learning", "./data/learning.json", "Learned tactic statistics path")
	proveCmd.Flags().StringVar(&knowledgePath, "knowledge", "", "Knowledge overlay JSON path (optional)")

	proveCmd.Flags().String("openai-key", "", "OpenAI API key")
	proveCmd.Flags().String("openai-model", "", "OpenAI model")
	proveCmd.Flags().String("ollama-url", "", "Ollama base URL")
	proveCmd.Flags().String("ollama-model", "", "Ollama model")
	proveCmd.Flags().String("gemini-key", "", "Gemini API key")
	proveCmd.Flags().String("gemini-model", "", "Gemini model")

	viper.BindPFlag("openai.api-key", proveCmd.Flags().Lookup("openai-key"))
	viper.BindPFlag("openai.model", proveCmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("ollama.url", proveCmd.Flags().Lookup("ollama-url"))
	viper.BindPFlag("ollama.model", proveCmd.Flags().Lookup("ollama-model"))
	viper.BindPFlag("gemini.api-key", proveCmd.Flags().Lookup("gemini-key"))
	viper.BindPFlag("gemini.model", proveCmd.Flags().Lookup("gemini-model"))
}
