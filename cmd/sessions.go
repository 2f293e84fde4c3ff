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
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/dovid/internal/store"
)

var sessionsDBPath string

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage the session archive",
	Long:  `List, inspect, and clear the SQLite archive of refinement sessions.`,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived refinement sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(sessionsDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		sessions, err := db.ListSessions(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		if len(sessions) == 0 {
			fmt.Println("No archived sessions.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDOMAIN\tSTATE\tATTEMPTS\tQUALITY\tCREATED\tSTATEMENT")
		for _, s := range sessions {
			snippet := s.Statement
			if len(snippet) > 40 {
				snippet = snippet[:37] + "..."
			}
			quality := "-"
			if s.QualityScore.Valid {
				quality = fmt.Sprintf("%.2f", s.QualityScore.Float64)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
				s.ID, s.Domain, s.State, s.Attempts, quality,
				s.CreatedAt.Format("2006-01-02 15:04"), snippet)
		}
		return w.Flush()
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show the attempts of one session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(sessionsDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		attempts, err := db.GetAttempts(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load attempts: %w", err)
		}
		if len(attempts) == 0 {
			fmt.Println("No attempts found for that session.")
			return nil
		}

		for _, a := range attempts {
			fmt.Printf("--- attempt %d: %s (success=%v)\n", a.AttemptNumber, a.TheoremName, a.Success)
			fmt.Println(a.Declaration)
			fmt.Println(a.Proof)
			if a.RawError != "" {
				fmt.Printf("error: %s\n", a.RawError)
			}
		}
		return nil
	},
}

var sessionsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show session archive statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(sessionsDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		fmt.Printf("Total sessions:  %d\n", stats.TotalSessions)
		fmt.Printf("Succeeded:       %d\n", stats.Succeeded)
		fmt.Printf("Exhausted:       %d\n", stats.Exhausted)
		fmt.Printf("Aborted:         %d\n", stats.Aborted)
		fmt.Printf("Total attempts:  %d\n", stats.TotalAttempts)
		fmt.Printf("Mean quality:    %.2f\n", stats.MeanQuality)
		return nil
	},
}

var sessionsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all archived sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(sessionsDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		n, err := db.ClearSessions(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear sessions: %w", err)
		}
		fmt.Printf("Cleared %d sessions from the archive.\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)

	sessionsCmd.PersistentFlags().StringVar(&sessionsDBPath, "db", "./data/dovid.db", "Session archive database path")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsStatsCmd)
	sessionsCmd.AddCommand(sessionsClearCmd)
}
