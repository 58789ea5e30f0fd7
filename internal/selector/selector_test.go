package selector

import (
	"errors"
	"testing"

	"github.com/zhitui/zhitui/internal/catalog"
)

func prob(id string, difficulty float64, tags ...string) catalog.Problem {
	return catalog.Problem{
		ID:            id,
		Type:          catalog.TypeFillIn,
		KnowledgeTags: tags,
		Difficulty:    difficulty,
		QuestionText:  "q",
		Answer:        "1",
		AnswerType:    catalog.AnswerNumeric,
	}
}

func newTestSelector() *Selector {
	cfg := DefaultConfig()
	cfg.Seed = 1
	return New(cfg)
}

func TestNextPrefersWeakestTag(t *testing.T) {
	problems := []catalog.Problem{
		prob("lim-1", 0.4, "极限"),
		prob("lim-2", 0.5, "极限"),
		prob("der-1", 0.4, "导数"),
	}
	mastery := map[string]TagMastery{
		"极限": {PMastery: 0.2, Attempts: 3},
		"导数": {PMastery: 0.8, Attempts: 3},
	}

	s := newTestSelector()
	got, err := s.Next(problems, mastery, nil)
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if got.KnowledgeTags[0] != "极限" {
		t.Errorf("Next() = %s (tags %v), want a 极限 problem", got.ID, got.KnowledgeTags)
	}
}

func TestNextTieBrokenByFewerAttempts(t *testing.T) {
	problems := []catalog.Problem{
		prob("lim-1", 0.5, "极限"),
		prob("der-1", 0.5, "导数"),
	}
	mastery := map[string]TagMastery{
		"极限": {PMastery: 0.5, Attempts: 5},
		"导数": {PMastery: 0.5, Attempts: 1},
	}

	s := newTestSelector()
	got, err := s.Next(problems, mastery, nil)
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if got.ID != "der-1" {
		t.Errorf("Next() = %s, want der-1 (fewer attempts)", got.ID)
	}
}

func TestNextFullTieBrokenByTagName(t *testing.T) {
	problems := []catalog.Problem{
		prob("lim-1", 0.5, "极限"),
		prob("der-1", 0.5, "导数"),
	}
	mastery := map[string]TagMastery{
		"极限": {PMastery: 0.5, Attempts: 2},
		"导数": {PMastery: 0.5, Attempts: 2},
	}

	s := newTestSelector()
	got, err := s.Next(problems, mastery, nil)
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	// 导数 sorts before 极限.
	if got.ID != "der-1" {
		t.Errorf("Next() = %s, want der-1", got.ID)
	}
}

func TestNextHonorsAntiRepeatWindow(t *testing.T) {
	problems := []catalog.Problem{
		prob("p1", 0.5, "极限"),
		prob("p2", 0.5, "极限"),
	}

	s := newTestSelector()
	got, err := s.Next(problems, nil, []string{"p1"})
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if got.ID != "p2" {
		t.Errorf("Next() = %s, want p2 (p1 in window)", got.ID)
	}
}

func TestNextFallsToNextTagWhenPoolExhausted(t *testing.T) {
	problems := []catalog.Problem{
		prob("lim-1", 0.3, "极限"),
		prob("der-1", 0.3, "导数"),
	}
	mastery := map[string]TagMastery{
		"极限": {PMastery: 0.1},
		"导数": {PMastery: 0.9},
	}

	// The only 极限 problem sits in the window, so the much stronger
	// 导数 tag still supplies the pick before any window relaxation.
	s := newTestSelector()
	got, err := s.Next(problems, mastery, []string{"lim-1"})
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if got.ID != "der-1" {
		t.Errorf("Next() = %s, want der-1", got.ID)
	}
}

func TestNextRelaxesWindowWhenEverythingRecent(t *testing.T) {
	problems := []catalog.Problem{
		prob("p1", 0.5, "极限"),
		prob("p2", 0.5, "极限"),
		prob("p3", 0.5, "极限"),
	}

	// All three were just attempted; relaxation drops the oldest
	// exclusions, so the most recent attempt stays excluded.
	s := newTestSelector()
	got, err := s.Next(problems, nil, []string{"p3", "p2", "p1"})
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if got.ID == "p3" {
		t.Errorf("Next() = p3, the most recent attempt")
	}
}

func TestNextSingleProblemAlwaysEligible(t *testing.T) {
	problems := []catalog.Problem{prob("p1", 0.5, "极限")}

	s := newTestSelector()
	got, err := s.Next(problems, nil, []string{"p1"})
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if got.ID != "p1" {
		t.Errorf("Next() = %s, want p1", got.ID)
	}
}

func TestNextTargetsDifficulty(t *testing.T) {
	problems := []catalog.Problem{
		prob("easy", 0.3, "极限"),
		prob("mid", 0.6, "极限"),
		prob("hard", 0.95, "极限"),
	}
	mastery := map[string]TagMastery{"极限": {PMastery: 0.5}}

	// Target is 0.5 + 0.15 = 0.65; the 0.6 problem is closest.
	s := newTestSelector()
	got, err := s.Next(problems, mastery, nil)
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if got.ID != "mid" {
		t.Errorf("Next() = %s, want mid", got.ID)
	}
}

func TestNextClampsTargetDifficulty(t *testing.T) {
	problems := []catalog.Problem{
		prob("easy", 0.5, "极限"),
		prob("hard", 0.9, "极限"),
	}
	mastery := map[string]TagMastery{"极限": {PMastery: 0.95}}

	// 0.95 + 0.15 clamps to 1.0; the hardest problem is closest.
	s := newTestSelector()
	got, err := s.Next(problems, mastery, nil)
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if got.ID != "hard" {
		t.Errorf("Next() = %s, want hard", got.ID)
	}
}

func TestNextUnseenTagUsesDefaultPrior(t *testing.T) {
	problems := []catalog.Problem{
		prob("lim-1", 0.5, "极限"),
		prob("der-1", 0.5, "导数"),
	}
	// 导数 was never practiced, so it sits at the 0.3 prior, weaker
	// than the practiced 极限.
	mastery := map[string]TagMastery{"极限": {PMastery: 0.6, Attempts: 4}}

	s := newTestSelector()
	got, err := s.Next(problems, mastery, nil)
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if got.ID != "der-1" {
		t.Errorf("Next() = %s, want der-1", got.ID)
	}
}

func TestNextDeterministicWithSeed(t *testing.T) {
	problems := []catalog.Problem{
		prob("a", 0.5, "极限"),
		prob("b", 0.5, "极限"),
		prob("c", 0.5, "极限"),
	}

	pickSequence := func() []string {
		cfg := DefaultConfig()
		cfg.Seed = 42
		s := New(cfg)
		var ids []string
		for i := 0; i < 10; i++ {
			got, err := s.Next(problems, nil, nil)
			if err != nil {
				t.Fatalf("Next() error: %v", err)
			}
			ids = append(ids, got.ID)
		}
		return ids
	}

	first := pickSequence()
	second := pickSequence()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("pick %d differs: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestNextEmptyCatalog(t *testing.T) {
	s := newTestSelector()
	_, err := s.Next(nil, nil, nil)
	if !errors.Is(err, ErrNoEligible) {
		t.Errorf("Next() error = %v, want ErrNoEligible", err)
	}
}

func TestNextZeroWindowAllowsRepeat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window = 0
	cfg.Seed = 1
	s := New(cfg)

	problems := []catalog.Problem{
		prob("p1", 0.5, "极限"),
		prob("p2", 0.9, "极限"),
	}
	got, err := s.Next(problems, nil, []string{"p1"})
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	// Target 0.3 + 0.15 = 0.45: p1 wins despite being just attempted.
	if got.ID != "p1" {
		t.Errorf("Next() = %s, want p1", got.ID)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("ZHITUI_SELECTOR_WINDOW", "4")
	t.Setenv("ZHITUI_SELECTOR_DEFAULT_PRIOR", "0.5")
	t.Setenv("ZHITUI_SELECTOR_SEED", "7")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv() error: %v", err)
	}
	if cfg.Window != 4 || cfg.DefaultPrior != 0.5 || cfg.Seed != 7 {
		t.Errorf("config = %+v, want window 4, prior 0.5, seed 7", cfg)
	}
	if cfg.DifficultyDelta != DefaultConfig().DifficultyDelta {
		t.Errorf("unset variable changed the default delta: %v", cfg.DifficultyDelta)
	}
}

func TestConfigFromEnvMalformed(t *testing.T) {
	t.Setenv("ZHITUI_SELECTOR_WINDOW", "many")

	if _, err := ConfigFromEnv(); err == nil {
		t.Fatal("expected error for non-integer window")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("defaults failed validation: %v", err)
	}
	bad := []Config{
		{Window: -1, DifficultyDelta: 0.15, DefaultPrior: 0.3},
		{Window: 10, DifficultyDelta: 0.15, DefaultPrior: 1.5},
		{Window: 10, DifficultyDelta: 2, DefaultPrior: 0.3},
	}
	for i, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Errorf("case %d passed validation: %+v", i, cfg)
		}
	}
}
