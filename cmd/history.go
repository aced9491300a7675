package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/scorecard/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded improvement plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		fallbackOnly, _ := cmd.Flags().GetBool("fallback")
		verbose, _ := cmd.Flags().GetBool("verbose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryPlanEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query plan events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No plans recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-16s  %-14s  %-9s  %-15s  %s\n",
			"ID", "Timestamp", "Student", "Focus", "Source", "Reason", "Ms")
		fmt.Fprintln(out, strings.Repeat("─", 96))

		for _, e := range events {
			if fallbackOnly && e.Source != "fallback" {
				continue
			}
			reason := e.Reason
			if reason == "" {
				reason = "-"
			}
			fmt.Fprintf(out, "%-5d  %-19s  %-16s  %-14s  %-9s  %-15s  %d\n",
				e.ID,
				e.Timestamp.Local().Format(stamp),
				truncate(e.StudentName, 16),
				truncate(e.FocusSubject, 14),
				e.Source,
				reason,
				e.LatencyMs,
			)
			if verbose {
				fmt.Fprintf(out, "       request: %s\n", e.RequestID)
				for i, step := range e.Steps {
					fmt.Fprintf(out, "       %d. %s\n", i+1, step)
				}
				if e.ErrorMessage != "" {
					fmt.Fprintf(out, "       error: %s\n", e.ErrorMessage)
				}
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of plans to show")
	historyCmd.Flags().Bool("fallback", false, "Only show plans that used the built-in fallback")
	historyCmd.Flags().BoolP("verbose", "v", false, "Show request IDs, plan steps and provider errors")
}
