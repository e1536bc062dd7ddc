// ABOUTME: CLI command to convert the legacy CSV knowledge base to JSON
// ABOUTME: Runs the same validation the bot uses; fails on any bad record
package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"legalbot/internal/knowledge"
)

// NewMigrateCmd creates the migrate command.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate <csv-path> <json-path>",
		Short: "Convert a legacy CSV knowledge base into canonical JSON",
		Long: `Convert a legacy CSV knowledge base into the canonical JSON format.

Blank ids are auto-assigned, law references are split into normalized
lists, and URLs in the source column become structured sources. The
output passes the same validation the bot applies at startup.

Example:
  kbctl migrate data/knowledge.csv data/knowledge.json`,
		Args: cobra.ExactArgs(2),
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	csvPath, jsonPath := args[0], args[1]

	base, err := knowledge.Load(csvPath)
	if err != nil {
		return fmt.Errorf("loading legacy knowledge base: %w", err)
	}

	records := base.Records()
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", jsonPath, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d records to %s\n", len(records), jsonPath)
	return nil
}
