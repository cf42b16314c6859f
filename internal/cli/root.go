package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "crm",
	Short: "Track personal relationships and interaction history",
	Long:  "Personal CRM logs calls, messages, and meetings against contacts and tells you who is overdue for a check-in. Single Go binary backed by SQLite.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(contactsCmd)
	rootCmd.AddCommand(overdueCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(statsCmd)
}
