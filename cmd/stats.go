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
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/dovid/internal/learning"
)

var statsLearningPath string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learned tactic statistics",
	Long:  `List tactics ordered by observed success ratio across all sessions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := learning.Load(statsLearningPath)
		if err != nil {
			return err
		}

		stats := st.Stats()
		if len(stats) == 0 {
			fmt.Println("No learned statistics yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TACTIC\tSUCCESS\tFAILURE\tRATIO")
		for _, t := range stats {
			fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\n", t.Name, t.SuccessCount, t.FailureCount, t.Ratio())
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVar(&statsLearningPath, "learning", "./data/learning.json", "Learned tactic statistics path")
}
