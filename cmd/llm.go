package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lezen/internal/llm"
	"github.com/abhisek/lezen/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the LLM request log",
	Long: `Inspect the LLM request log. The log is written only when db.path is
set and holds request metadata: provider, model, tokens, latency and errors.`,
}

// openRequestLog builds a runtime for a log inspection command.
func openRequestLog(cmd *cobra.Command) (*runtime, *store.EventRepo, error) {
	rt, err := newRuntime(cmd, nil)
	if err != nil {
		return nil, nil, err
	}
	st, err := rt.requireStore()
	if err != nil {
		rt.Close()
		return nil, nil, err
	}
	return rt, st.EventRepo(), nil
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		rt, repo, err := openRequestLog(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		events, err := repo.QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(w, "No LLM requests recorded.")
			return nil
		}

		fmt.Fprintf(w, "%-5s  %-19s  %-12s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Fprintln(w, strings.Repeat("─", 98))

		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			fmt.Fprintf(w, "%-5d  %-19s  %-12s  %-28s  %-6d  %-6d  %-7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format(timeLayout),
				truncate(e.Purpose, 12),
				truncate(e.Model, 28),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one LLM request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		rt, repo, err := openRequestLog(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		e, err := repo.GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "ID:        %d\n", e.ID)
		fmt.Fprintf(w, "Time:      %s\n", e.Timestamp.Local().Format(timeLayout))
		fmt.Fprintf(w, "Provider:  %s\n", e.Provider)
		fmt.Fprintf(w, "Model:     %s\n", e.Model)
		fmt.Fprintf(w, "Purpose:   %s\n", e.Purpose)
		fmt.Fprintf(w, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
		if cost := llm.LookupCost(e.Model); cost != nil {
			fmt.Fprintf(w, "Cost:      %s\n", formatCost(cost.Cost(e.InputTokens, e.OutputTokens)))
		}
		fmt.Fprintf(w, "Latency:   %dms\n", e.LatencyMs)
		fmt.Fprintf(w, "Success:   %v\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Fprintf(w, "Error:     %s\n", e.ErrorMessage)
		}
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, repo, err := openRequestLog(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		stats, err := repo.LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(stats) == 0 {
			fmt.Fprintln(w, "No LLM usage recorded yet.")
			return nil
		}

		rule := strings.Repeat("─", 80)
		fmt.Fprintln(w, "Usage by Purpose")
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "%-16s  %6s  %6s  %10s  %10s  %10s  %8s\n",
			"Purpose", "Calls", "Failed", "Input", "Output", "Total", "Avg Ms")
		fmt.Fprintln(w, rule)

		var totalCalls, totalFailed, totalIn, totalOut int
		for _, st := range stats {
			fmt.Fprintf(w, "%-16s  %6d  %6d  %10d  %10d  %10d  %8d\n",
				truncate(st.Purpose, 16), st.Calls, st.Failures, st.InputTokens, st.OutputTokens,
				st.InputTokens+st.OutputTokens, st.AvgLatencyMs)
			totalCalls += st.Calls
			totalFailed += st.Failures
			totalIn += st.InputTokens
			totalOut += st.OutputTokens
		}

		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "%-16s  %6d  %6d  %10d  %10d  %10d\n",
			"TOTAL", totalCalls, totalFailed, totalIn, totalOut, totalIn+totalOut)

		modelUsage, err := repo.LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(modelUsage) == 0 {
			return nil
		}

		fmt.Fprintln(w)
		fmt.Fprintln(w, "Estimated Cost (USD)")
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
		fmt.Fprintln(w, rule)

		var totalCost float64
		var unknown []string
		for _, mu := range modelUsage {
			cost := llm.LookupCost(mu.Model)
			if cost == nil {
				unknown = append(unknown, mu.Model)
				fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n",
					truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, "?")
				continue
			}
			c := cost.Cost(mu.InputTokens, mu.OutputTokens)
			totalCost += c
			fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n",
				truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, formatCost(c))
		}

		fmt.Fprintln(w, rule)
		label := "TOTAL"
		if len(unknown) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(totalCost))
		if len(unknown) > 0 {
			fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
		}
		return nil
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. reading-gen)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
