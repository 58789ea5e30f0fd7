package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zhitui/zhitui/internal/store"
)

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Start a fresh round, keeping mastery",
	Long: "Begins a new practice round: the anti-repeat window forgets " +
		"earlier attempts so familiar problems can come back. Mastery " +
		"estimates and the review list carry over.",
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

		if err := s.UserStateRepo().StartRound(context.Background(), user); err != nil {
			return fmt.Errorf("start round: %w", err)
		}
		fmt.Println("New round started.")
		return nil
	},
}
