package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/scorecard/internal/llm"
	"github.com/abhisek/scorecard/internal/store"
)

const stamp = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		failedOnly, _ := cmd.Flags().GetBool("failed")
		since, _ := cmd.Flags().GetDuration("since")
		requestID, _ := cmd.Flags().GetString("request")

		opts := store.QueryOpts{Limit: limit, RequestID: requestID}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		shown := events[:0]
		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			if failedOnly && e.Success {
				continue
			}
			shown = append(shown, e)
		}
		printLLMEvents(cmd.OutOrStdout(), shown)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}
		printLLMEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		repo := s.EventRepo()
		byPurpose, err := repo.LLMUsageByPurpose(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		byModel, err := repo.LLMUsageByModel(cmd.Context())
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(byPurpose) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}
		printPurposeUsage(out, byPurpose)
		if len(byModel) > 0 {
			fmt.Fprintln(out)
			printModelCost(out, byModel)
		}
		return nil
	},
}

func rule(w io.Writer, n int) {
	fmt.Fprintln(w, strings.Repeat("─", n))
}

func printLLMEvents(w io.Writer, events []store.LLMEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No LLM events found.")
		return
	}

	const row = "%-5v  %-19s  %-16s  %-13s  %-24s  %-6v  %-6v  %-7v  %s\n"
	fmt.Fprintf(w, row, "ID", "Timestamp", "Purpose", "Provider", "Model", "In", "Out", "Ms", "OK")
	rule(w, 112)
	for _, e := range events {
		ok := "✓"
		if !e.Success {
			ok = "✗"
		}
		fmt.Fprintf(w, row,
			e.ID,
			e.Timestamp.Local().Format(stamp),
			truncate(e.Purpose, 16),
			e.Provider,
			truncate(e.Model, 24),
			e.InputTokens,
			e.OutputTokens,
			e.LatencyMs,
			ok,
		)
	}
}

func printLLMEvent(w io.Writer, e *store.LLMEvent) {
	field := func(name string, v any) { fmt.Fprintf(w, "%-10s %v\n", name+":", v) }

	field("ID", e.ID)
	field("Time", e.Timestamp.Local().Format(stamp))
	if e.RequestID != "" {
		field("Request", e.RequestID)
	}
	field("Provider", e.Provider)
	field("Model", e.Model)
	field("Purpose", e.Purpose)
	field("Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens))
	field("Latency", fmt.Sprintf("%dms", e.LatencyMs))
	field("Success", e.Success)
	if e.ErrorMessage != "" {
		field("Error", e.ErrorMessage)
	}

	for _, section := range []struct{ title, body string }{
		{"REQUEST", e.RequestBody},
		{"RESPONSE", e.ResponseBody},
	} {
		fmt.Fprintln(w)
		rule(w, 60)
		fmt.Fprintln(w, section.title)
		rule(w, 60)
		fmt.Fprintln(w, prettyBody(section.body))
	}
}

func printPurposeUsage(w io.Writer, usage []store.PurposeUsage) {
	const row = "%-16s  %6v  %10v  %10v  %10v  %8v\n"
	fmt.Fprintln(w, "Usage by Purpose")
	rule(w, 72)
	fmt.Fprintf(w, row, "Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
	rule(w, 72)

	var calls, in, out int
	for _, u := range usage {
		fmt.Fprintf(w, row, u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	rule(w, 72)
	fmt.Fprintf(w, row, "TOTAL", calls, in, out, in+out, "")
}

func printModelCost(w io.Writer, usage []store.ModelUsage) {
	const row = "%-32s  %6v  %10v  %10v  %10s\n"
	fmt.Fprintln(w, "Estimated Cost (USD)")
	rule(w, 72)
	fmt.Fprintf(w, row, "Model", "Calls", "Input", "Output", "Cost")
	rule(w, 72)

	var total float64
	var unpriced []string
	for _, u := range usage {
		cost := "?"
		if p := llm.LookupCost(u.Model); p != nil {
			c := p.Cost(u.InputTokens, u.OutputTokens)
			total += c
			cost = formatCost(c)
		} else {
			unpriced = append(unpriced, u.Model)
		}
		fmt.Fprintf(w, row, truncate(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, cost)
	}

	rule(w, 72)
	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, row, label, "", "", "", formatCost(total))
	if len(unpriced) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unpriced, ", "))
	}
}

// prettyBody indents JSON bodies and returns anything else unchanged.
func prettyBody(body string) string {
	if body == "" {
		return "(not captured)"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(body), "", "  "); err != nil {
		return body
	}
	return buf.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. improvement-plan)")
	llmListCmd.Flags().Bool("failed", false, "Only show failed requests")
	llmListCmd.Flags().Duration("since", 0, "Only show requests newer than this (e.g. 24h)")
	llmListCmd.Flags().String("request", "", "Only show calls made for this plan request ID")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
