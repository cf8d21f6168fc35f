package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diffscope/diffscope/internal/extract"
	"github.com/diffscope/diffscope/internal/grammar"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Dump the structural model of one file",
	Long: `Extract parses a single file and prints its structural model as
JSON. A debugging aid for inspecting what the analyzer sees.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		g := grammar.Select(path, content)
		if g == grammar.Unknown {
			return fmt.Errorf("no structural grammar for %s", path)
		}

		mdl, err := extract.Model(path, content, g)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(mdl)
	},
}
