// ABOUTME: Root command for the kbctl operator CLI
// ABOUTME: Assembles migrate, analyze, and version subcommands
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kbctl",
		Short: "Operator tools for the LegalBot knowledge base and logs",
		Long: `kbctl maintains the LegalBot knowledge base and inspects its logs.

Subcommands convert the legacy CSV knowledge base into the canonical
JSON format and compute statistics over the interaction log.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}
