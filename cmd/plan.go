package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

type planOutput struct {
	Student      string   `json:"student"`
	FocusSubject string   `json:"focusSubject,omitempty"`
	Plan         []string `json:"plan"`
	Source       string   `json:"source"`
	Reason       string   `json:"reason,omitempty"`
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate and print an improvement plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		snap, err := loadSnapshot(cmd)
		if err != nil {
			return err
		}

		d, err := buildDeps(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		res := d.planner.GeneratePlan(cmd.Context(), snap)
		out := cmd.OutOrStdout()

		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(planOutput{
				Student:      snap.StudentName,
				FocusSubject: res.FocusSubject,
				Plan:         res.Steps,
				Source:       string(res.Outcome.Source),
				Reason:       string(res.Outcome.Reason),
			})
		}

		fmt.Fprintf(out, "Improvement plan for %s", snap.StudentName)
		if res.FocusSubject != "" {
			fmt.Fprintf(out, " (focus: %s)", res.FocusSubject)
		}
		fmt.Fprintln(out)
		for i, step := range res.Steps {
			fmt.Fprintf(out, "  %d. %s\n", i+1, step)
		}
		if res.Outcome.FellBack() {
			fmt.Fprintf(out, "\n(built-in plan: %s)\n", res.Outcome.Reason)
		}
		return nil
	},
}

func init() {
	planCmd.Flags().Bool("json", false, "Print the plan as JSON")
}
