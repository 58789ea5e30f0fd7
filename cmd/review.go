package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhitui/zhitui/internal/catalog"
	"github.com/zhitui/zhitui/internal/store"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "List problems you last answered wrong",
	Long: "Lists every problem whose most recent graded attempt was incorrect. " +
		"Answering one correctly in a drill removes it from this list.",
	RunE: func(cmd *cobra.Command, args []string) error {
		banksDir, _ := cmd.Flags().GetString("banks")
		limit, _ := cmd.Flags().GetInt("limit")
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
		ids, err := s.AttemptRepo().WrongProblemIDs(ctx, user)
		if err != nil {
			return fmt.Errorf("load review list: %w", err)
		}
		if len(ids) == 0 {
			fmt.Println("Nothing to review.")
			return nil
		}
		if limit > 0 && len(ids) > limit {
			ids = ids[:limit]
		}

		// Banks are optional here: without them the ids still identify
		// the problems.
		cat, err := catalog.LoadDir(banksDir)
		if err != nil {
			cat = nil
		}

		fmt.Printf("%d to revisit:\n", len(ids))
		for i, id := range ids {
			line := id
			if cat != nil {
				if p, err := cat.Get(id); err == nil {
					line = fmt.Sprintf("[%s] %s", strings.Join(p.KnowledgeTags, " "),
						clip(p.QuestionText, 60))
				}
			}
			fmt.Printf("%3d. %s\n", i+1, line)
		}
		return nil
	},
}

func init() {
	reviewCmd.Flags().IntP("limit", "n", 0, "Show at most this many (0 = all)")
}

// clip shortens s to max runes, marking the cut. Safe on CJK text.
func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
