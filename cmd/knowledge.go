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
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/dovid/internal/knowledge"
)

var knowledgeOverlay string

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge [domain]",
	Short: "Show curated domain facts and proof strategies",
	Long: `Show the curated facts and proof-strategy hints for a domain.
These hints are supplied to the generator when a draft proof needs a
"complete proof" re-prompt. Without an argument, known domains are listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := knowledge.Load(knowledgeOverlay)
		if err != nil {
			return err
		}

		if len(args) == 0 {
			fmt.Println("Known domains:", strings.Join(st.Domains(), ", "))
			return nil
		}

		entry, ok := st.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown domain: %s (known: %s)", args[0], strings.Join(st.Domains(), ", "))
		}

		fmt.Printf("Domain: %s\n\nFacts:\n", entry.Domain)
		for _, f := range entry.Facts {
			fmt.Printf("  - %s\n", f)
		}
		fmt.Println("\nStrategies:")
		for _, s := range entry.Strategies {
			fmt.Printf("  - %s\n", s)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(knowledgeCmd)

	knowledgeCmd.Flags().StringVar(&knowledgeOverlay, "file", "", "Knowledge overlay JSON path (optional)")
}
