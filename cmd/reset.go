package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhitui/zhitui/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe mastery estimates and start from scratch",
	Long: "Clears every mastery estimate for the learner. The attempt log " +
		"is kept for the record but no longer drives selection or review.",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		user := resolveUser(cmd)

		if !yes && !confirm(fmt.Sprintf("This wipes all mastery for %q. Continue?", user)) {
			fmt.Println("Aborted.")
			return nil
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

		if err := s.UserStateRepo().Reset(context.Background(), user); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		fmt.Println("Mastery cleared.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	in := bufio.NewScanner(os.Stdin)
	if !in.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(in.Text())) {
	case "y", "yes":
		return true
	}
	return false
}
