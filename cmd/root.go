package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scorecard",
	Short: "Student scorecard with an AI improvement plan",
	Long:  "Scorecard shows a student's assessment results and a three-step improvement plan generated by an LLM, with a built-in fallback plan when the model is unavailable.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (default ./scorecard.yaml if present)")
	rootCmd.PersistentFlags().String("db", "", "SQLite database file or postgres:// URL (overrides SCORECARD_DB env var)")
	rootCmd.PersistentFlags().String("snapshot", "", "Assessment JSON file (default: built-in demo student)")
	rootCmd.Flags().String("log-file", "", "Write dashboard logs to this file")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
