package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhitui/zhitui/internal/catalog"
	"github.com/zhitui/zhitui/internal/judge"
	"github.com/zhitui/zhitui/internal/selector"
	"github.com/zhitui/zhitui/internal/session"
	"github.com/zhitui/zhitui/internal/store"
)

const defaultBanksDir = "banks"

var drillCmd = &cobra.Command{
	Use:   "drill",
	Short: "Practice problems picked for your weakest tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		banksDir, _ := cmd.Flags().GetString("banks")
		limit, _ := cmd.Flags().GetInt("count")
		return runDrill(cmd, banksDir, limit)
	},
}

func init() {
	drillCmd.Flags().IntP("count", "n", 0, "Stop after this many answers (0 = until quit)")
}

// runDrill is the interactive loop: pick a problem, read an answer from
// stdin, grade it, show the mastery movement, repeat. Ctrl+C or q ends
// the session with a summary. A submission already in flight when the
// interrupt arrives still commits; the loop stops at the next prompt.
func runDrill(cmd *cobra.Command, banksDir string, limit int) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

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

	fmt.Printf("%d problems across %d tags. Type your answer, or q to quit.\n",
		cat.Len(), len(cat.Tags()))

	in := bufio.NewScanner(os.Stdin)
	var answered, correct int
loop:
	for limit == 0 || answered < limit {
		p, err := ctrl.NextProblem(ctx, user)
		if err != nil {
			if errors.Is(err, selector.ErrNoEligible) {
				fmt.Println("\nNothing eligible to practice right now.")
				break
			}
			if errors.Is(err, context.Canceled) {
				break
			}
			return err
		}

		fmt.Println()
		printProblem(p)
		fmt.Print("> ")

		if !in.Scan() {
			break
		}
		answer := strings.TrimSpace(in.Text())
		switch strings.ToLower(answer) {
		case "q", "quit", "exit":
			break loop
		case "":
			continue
		}

		res, err := ctrl.Submit(ctx, user, p.ID, answer)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			return err
		}

		answered++
		if res.Verdict.Correct() {
			correct++
		}
		printResult(p, res)
	}
	if err := in.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	if answered > 0 {
		fmt.Printf("\nSession: %d answered, %d correct.\n", answered, correct)
	}
	return nil
}

func printProblem(p catalog.Problem) {
	fmt.Printf("[%s] difficulty %.1f\n", strings.Join(p.KnowledgeTags, " "), p.Difficulty)
	fmt.Println(p.QuestionText)
	if p.Type == catalog.TypeMultipleChoice {
		for i, opt := range p.Options {
			fmt.Printf("  %d) %s\n", i+1, opt)
		}
	}
}

func printResult(p catalog.Problem, res *session.Result) {
	switch res.Verdict.Outcome {
	case judge.OutcomeCorrect:
		fmt.Println("✓ correct")
	case judge.OutcomeIncorrect:
		fmt.Printf("✗ incorrect, answer: %s\n", referenceAnswer(p))
	default:
		fmt.Printf("? could not grade that answer (%s), mastery unchanged\n", res.Verdict.Diagnostic)
	}
	for _, tr := range res.Transitions {
		fmt.Printf("  %-8s %.3f → %.3f\n", tr.Tag, tr.Before, tr.After)
	}
}

// referenceAnswer renders the expected answer the way the learner would
// have typed it.
func referenceAnswer(p catalog.Problem) string {
	if p.Type == catalog.TypeMultipleChoice {
		return fmt.Sprintf("%d) %s", p.CorrectOption+1, p.Options[p.CorrectOption])
	}
	return p.Answer
}
