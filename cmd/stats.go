package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhitui/zhitui/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show mastery estimates and attempt totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		user := resolveUser(cmd)

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
		recs, err := s.MasteryRepo().All(ctx, user)
		if err != nil {
			return fmt.Errorf("load mastery: %w", err)
		}

		if len(recs) == 0 {
			fmt.Printf("No practice recorded for %q yet.\n", user)
			return nil
		}

		// Weakest tags first, the order drills serve them in.
		sort.Slice(recs, func(i, j int) bool {
			if recs[i].PMastery != recs[j].PMastery {
				return recs[i].PMastery < recs[j].PMastery
			}
			return recs[i].Tag < recs[j].Tag
		})

		fmt.Println("Mastery by Tag")
		fmt.Println(strings.Repeat("─", 58))
		fmt.Printf("%-14s  %9s  %8s  %s\n", "Tag", "P(known)", "Attempts", "Updated")
		fmt.Println(strings.Repeat("─", 58))
		for _, r := range recs {
			fmt.Printf("%-14s  %9.3f  %8d  %s\n",
				r.Tag, r.PMastery, r.Attempts,
				r.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}

		stats, err := s.AttemptRepo().Stats(ctx, user)
		if err != nil {
			return fmt.Errorf("load attempt stats: %w", err)
		}

		fmt.Println()
		fmt.Printf("Attempts: %d total, %d correct, %d incorrect, %d ungradable\n",
			stats.Total, stats.Correct, stats.Incorrect, stats.Ungradable)
		fmt.Printf("Problems tried: %d, current streak: %d\n",
			stats.DistinctProblems, stats.Streak)
		return nil
	},
}
