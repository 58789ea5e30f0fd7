package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/zhitui/zhitui/internal/llm"
	"github.com/zhitui/zhitui/internal/store"
	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the model-call ledger (problem generation)",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recent model calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		events, err := s.EventRepo().QueryLLMEvents(ctx, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("The ledger is empty: no model calls recorded.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-14s  %-28s  %6s  %7s  %7s  %s\n",
			"id", "when", "purpose", "model", "tok-in", "tok-out", "took", "ok")
		fmt.Println(strings.Repeat("─", 100))

		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			ok := "yes"
			if !e.Success {
				ok = "NO"
			}
			fmt.Printf("%-5d  %-19s  %-14s  %-28s  %6d  %7d  %5dms  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
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
	Short: "Dump one model call, request and response bodies included",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		e, err := s.EventRepo().GetLLMEvent(ctx, id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("no model call with id %d", id)
		}

		fmt.Printf("id        %d\n", e.ID)
		fmt.Printf("when      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("provider  %s\n", e.Provider)
		fmt.Printf("model     %s\n", e.Model)
		fmt.Printf("purpose   %s\n", e.Purpose)
		fmt.Printf("tokens    %d in, %d out\n", e.InputTokens, e.OutputTokens)
		fmt.Printf("took      %dms\n", e.LatencyMs)
		fmt.Printf("ok        %v\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Printf("error     %s\n", e.ErrorMessage)
		}

		printBody("request", e.RequestBody)
		printBody("response", e.ResponseBody)
		return nil
	},
}

func printBody(label, body string) {
	fmt.Println()
	fmt.Printf("%s %s\n", strings.Repeat("─", 8), label)
	if body == "" {
		fmt.Println("(body not captured)")
		return
	}
	fmt.Println(body)
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Sum up token spend and estimated cost across the ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		stats, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		if len(stats) == 0 {
			fmt.Println("The ledger is empty: nothing to sum up.")
			return nil
		}

		rule := strings.Repeat("─", 72)

		fmt.Println("Token spend by purpose")
		fmt.Println(rule)
		fmt.Printf("%-16s  %6s  %10s  %10s  %10s  %8s\n",
			"purpose", "calls", "tok-in", "tok-out", "tok-all", "avg ms")
		fmt.Println(rule)

		var totalCalls, totalIn, totalOut int
		for _, u := range stats {
			fmt.Printf("%-16s  %6d  %10d  %10d  %10d  %8d\n",
				u.Purpose, u.Calls, u.InputTokens, u.OutputTokens,
				u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
			totalCalls += u.Calls
			totalIn += u.InputTokens
			totalOut += u.OutputTokens
		}

		fmt.Println(rule)
		fmt.Printf("%-16s  %6d  %10d  %10d  %10d\n",
			"all", totalCalls, totalIn, totalOut, totalIn+totalOut)

		modelUsage, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(modelUsage) == 0 {
			return nil
		}

		fmt.Println()
		fmt.Println("Estimated spend by model (USD)")
		fmt.Println(rule)
		fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n",
			"model", "calls", "tok-in", "tok-out", "spend")
		fmt.Println(rule)

		var totalCost float64
		var unpriced []string
		for _, mu := range modelUsage {
			rate, ok := llm.PriceFor(mu.Model)
			if !ok {
				unpriced = append(unpriced, mu.Model)
				fmt.Printf("%-32s  %6d  %10d  %10d  %10s\n",
					truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, "?")
				continue
			}
			c := rate.Cost(mu.InputTokens, mu.OutputTokens)
			totalCost += c
			fmt.Printf("%-32s  %6d  %10d  %10d  %9s\n",
				truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, formatCost(c))
		}

		fmt.Println(rule)
		label := "all"
		if len(unpriced) > 0 {
			label = "all (priced models only)"
		}
		fmt.Printf("%-32s  %6s  %10s  %10s  %9s\n",
			label, "", "", "", formatCost(totalCost))

		if len(unpriced) > 0 {
			fmt.Printf("\nNo price table entry for: %s\n", strings.Join(unpriced, ", "))
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
	llmListCmd.Flags().IntP("limit", "n", 20, "How many calls to show, newest first")
	llmListCmd.Flags().StringP("purpose", "p", "", "Keep only calls with this purpose (problem-gen, bank-gen)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
