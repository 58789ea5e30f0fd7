package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhitui/zhitui/internal/author"
	"github.com/zhitui/zhitui/internal/catalog"
	"github.com/zhitui/zhitui/internal/llm"
	"github.com/zhitui/zhitui/internal/store"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Validate and grow problem banks",
}

var bankLintCmd = &cobra.Command{
	Use:   "lint <path>",
	Short: "Validate a bank file or a directory of banks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		info, err := os.Stat(path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			cat, err := catalog.LoadDir(path)
			if err != nil {
				return err
			}
			fmt.Printf("OK: %d problems, tags: %s\n", cat.Len(), strings.Join(cat.Tags(), " "))
			return nil
		}

		bank, err := catalog.LoadBank(path)
		if err != nil {
			return err
		}
		fmt.Printf("OK: %s (%s), %d problems\n", bank.Name, bank.Subject, len(bank.Problems))
		return nil
	},
}

var bankGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Author new problems with an LLM and append them to a bank",
	Long: "Asks the configured LLM for new problems, grades each reference " +
		"answer with the same judge drills use, and appends only the ones " +
		"that survive validation. The target bank is created if missing.",
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		chapter, _ := cmd.Flags().GetString("chapter")
		tagList, _ := cmd.Flags().GetString("tags")
		difficulty, _ := cmd.Flags().GetFloat64("difficulty")
		count, _ := cmd.Flags().GetInt("count")
		outPath, _ := cmd.Flags().GetString("out")

		tags := splitTags(tagList)
		if subject == "" || len(tags) == 0 {
			return fmt.Errorf("--subject and --tags are required")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		client, err := llm.NewClientFromEnv(ctx, s.EventRepo())
		if err != nil {
			return fmt.Errorf("configure LLM provider: %w", err)
		}

		bank, err := loadOrCreateBank(outPath, subject)
		if err != nil {
			return err
		}

		existing := make([]string, 0, len(bank.Problems))
		for _, p := range bank.Problems {
			existing = append(existing, p.QuestionText)
		}

		fmt.Printf("Asking %s for %d problems on %s...\n", client.Model(), count, strings.Join(tags, " "))
		problems, err := author.New(client, author.DefaultConfig()).Generate(ctx, author.Request{
			Subject:    subject,
			Chapter:    chapter,
			Tags:       tags,
			Difficulty: difficulty,
			Count:      count,
			Existing:   existing,
		})
		if err != nil {
			return fmt.Errorf("generate problems: %w", err)
		}

		bank.Problems = append(bank.Problems, problems...)
		if err := writeBank(outPath, bank); err != nil {
			return err
		}

		fmt.Printf("Added %d problems to %s:\n", len(problems), outPath)
		for _, p := range problems {
			fmt.Printf("  [%s] %s\n", strings.Join(p.KnowledgeTags, " "), clip(p.QuestionText, 60))
		}
		return nil
	},
}

func init() {
	bankGenCmd.Flags().String("subject", "", "Subject the problems belong to")
	bankGenCmd.Flags().String("chapter", "", "Chapter within the subject")
	bankGenCmd.Flags().String("tags", "", "Comma-separated knowledge tags to target")
	bankGenCmd.Flags().Float64("difficulty", 0.4, "Target difficulty in [0,1]")
	bankGenCmd.Flags().IntP("count", "n", 5, "How many problems to request")
	bankGenCmd.Flags().String("out", filepath.Join(defaultBanksDir, "generated.json"),
		"Bank file to append to")

	bankCmd.AddCommand(bankLintCmd)
	bankCmd.AddCommand(bankGenCmd)
}

// loadOrCreateBank opens the target bank, or returns an empty one with
// a fresh manifest when the file does not exist yet.
func loadOrCreateBank(path, subject string) (*catalog.Bank, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &catalog.Bank{
				Name:          subject + " 生成题库",
				Subject:       subject,
				FormatVersion: "v1.0.0",
			}, nil
		}
		return nil, err
	}

	bank, err := catalog.LoadBank(path)
	if err != nil {
		return nil, fmt.Errorf("load existing bank: %w", err)
	}
	if bank.Subject != subject {
		return nil, fmt.Errorf("bank %s holds subject %q, not %q", path, bank.Subject, subject)
	}
	return bank, nil
}

func writeBank(path string, bank *catalog.Bank) error {
	// Problems carrying the bank's own subject inherit it on load, so
	// drop the redundant field before writing.
	for i := range bank.Problems {
		if bank.Problems[i].Subject == bank.Subject {
			bank.Problems[i].Subject = ""
		}
	}

	raw, err := json.MarshalIndent(bank, "", "  ")
	if err != nil {
		return fmt.Errorf("encode bank: %w", err)
	}
	raw = append(raw, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create bank dir: %w", err)
		}
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write bank: %w", err)
	}
	return nil
}

func splitTags(csv string) []string {
	var tags []string
	for _, t := range strings.Split(csv, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
