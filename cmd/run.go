package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zhitui/zhitui/internal/app"
	"github.com/zhitui/zhitui/internal/catalog"
	"github.com/zhitui/zhitui/internal/store"
)

// runApp wires the store, banks and grading pipeline together and
// hands them to the full-screen UI. Interrupt handling belongs to
// Bubble Tea once the program starts.
func runApp(cmd *cobra.Command) error {
	user := resolveUser(cmd)

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	banksDir, _ := cmd.Flags().GetString("banks")
	cat, err := catalog.LoadDir(banksDir)
	if err != nil {
		return fmt.Errorf("load banks: %w", err)
	}
	if cat.Len() == 0 {
		return fmt.Errorf("no problems found under %s", banksDir)
	}

	ctrl, err := newController(cat, st)
	if err != nil {
		return err
	}

	return app.Run(app.Options{
		Controller: ctrl,
		Mastery:    st.MasteryRepo(),
		Attempts:   st.AttemptRepo(),
		Catalog:    cat,
		User:       user,
	})
}
