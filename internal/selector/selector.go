// Package selector picks the next practice problem. Selection favors
// the weakest knowledge tag, avoids recently attempted problems, and
// targets a difficulty slightly above the learner's estimated comfort.
package selector

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/zhitui/zhitui/internal/catalog"
)

// ErrNoEligible is returned when no problem can be selected at all.
var ErrNoEligible = errors.New("selector: no eligible problem")

// TagMastery is the selector's view of one tag's estimate.
type TagMastery struct {
	PMastery float64
	Attempts int
}

// Config tunes selection.
type Config struct {
	// Window is how many recent attempts a problem must stay out of
	// before it can repeat. Zero disables the anti-repeat window.
	Window int

	// DifficultyDelta is added to the tag's mastery to form the target
	// difficulty, stretching the learner slightly past comfort.
	DifficultyDelta float64

	// DefaultPrior stands in for tags the learner has never practiced.
	DefaultPrior float64

	// Seed fixes the tie-break randomness. Zero seeds from the clock.
	Seed int64
}

// DefaultConfig returns the selection defaults.
func DefaultConfig() Config {
	return Config{
		Window:          10,
		DifficultyDelta: 0.15,
		DefaultPrior:    0.3,
	}
}

// ConfigFromEnv reads the ZHITUI_SELECTOR_* variables over the defaults.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if v := os.Getenv("ZHITUI_SELECTOR_WINDOW"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("ZHITUI_SELECTOR_WINDOW=%q: not an integer", v)
		}
		cfg.Window = n
	}
	if v := os.Getenv("ZHITUI_SELECTOR_DIFFICULTY_DELTA"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("ZHITUI_SELECTOR_DIFFICULTY_DELTA=%q: not a number", v)
		}
		cfg.DifficultyDelta = f
	}
	if v := os.Getenv("ZHITUI_SELECTOR_DEFAULT_PRIOR"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("ZHITUI_SELECTOR_DEFAULT_PRIOR=%q: not a number", v)
		}
		cfg.DefaultPrior = f
	}
	if v := os.Getenv("ZHITUI_SELECTOR_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("ZHITUI_SELECTOR_SEED=%q: not an integer", v)
		}
		cfg.Seed = n
	}
	return cfg, nil
}

// Validate checks the tunables against their meaningful ranges.
func (c Config) Validate() error {
	if c.Window < 0 {
		return fmt.Errorf("window %d is negative", c.Window)
	}
	if c.DefaultPrior < 0 || c.DefaultPrior > 1 {
		return fmt.Errorf("default prior %v outside [0,1]", c.DefaultPrior)
	}
	if c.DifficultyDelta < -1 || c.DifficultyDelta > 1 {
		return fmt.Errorf("difficulty delta %v outside [-1,1]", c.DifficultyDelta)
	}
	return nil
}

// Selector holds the config and the seeded tie-break source. Safe for
// concurrent use.
type Selector struct {
	cfg Config

	mu  sync.Mutex
	rng *rand.Rand
}

// New builds a selector. With Config.Seed set, repeated runs over the
// same state pick the same problems.
func New(cfg Config) *Selector {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Selector{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

type tagRank struct {
	tag      string
	priority float64
	mastery  float64
	attempts int
}

// Next selects a problem. mastery maps tags to their current estimates;
// tags absent from the map use the default prior. recent lists the
// problem ids of the latest attempts, newest first.
//
// Tags are ranked by priority 1-p_mastery, ties broken by fewer
// attempts and then tag name. The highest-ranked tag with a candidate
// outside the anti-repeat window supplies the pool; within the pool the
// problem closest to the target difficulty wins, with seeded random
// choice among exact ties. When every pool is empty the window shrinks,
// oldest exclusions first, until a candidate appears.
func (s *Selector) Next(problems []catalog.Problem, mastery map[string]TagMastery, recent []string) (catalog.Problem, error) {
	if len(problems) == 0 {
		return catalog.Problem{}, ErrNoEligible
	}

	byTag := make(map[string][]int)
	for i, p := range problems {
		for _, tag := range p.KnowledgeTags {
			byTag[tag] = append(byTag[tag], i)
		}
	}

	ranks := make([]tagRank, 0, len(byTag))
	for tag := range byTag {
		m, seen := mastery[tag]
		if !seen {
			m = TagMastery{PMastery: s.cfg.DefaultPrior}
		}
		ranks = append(ranks, tagRank{
			tag:      tag,
			priority: 1 - m.PMastery,
			mastery:  m.PMastery,
			attempts: m.Attempts,
		})
	}
	sort.Slice(ranks, func(i, j int) bool {
		a, b := ranks[i], ranks[j]
		if a.priority != b.priority {
			return a.priority > b.priority
		}
		if a.attempts != b.attempts {
			return a.attempts < b.attempts
		}
		return a.tag < b.tag
	})

	window := s.cfg.Window
	if window > len(recent) {
		window = len(recent)
	}

	for {
		exclude := make(map[string]bool, window)
		for _, id := range recent[:window] {
			exclude[id] = true
		}

		for _, rank := range ranks {
			var candidates []int
			for _, i := range byTag[rank.tag] {
				if !exclude[problems[i].ID] {
					candidates = append(candidates, i)
				}
			}
			if len(candidates) == 0 {
				continue
			}
			return problems[s.pick(problems, candidates, rank.mastery)], nil
		}

		if window == 0 {
			break
		}
		// Relax by dropping the oldest exclusions first.
		window /= 2
	}
	return catalog.Problem{}, ErrNoEligible
}

// pick returns the candidate closest to the target difficulty for the
// given mastery, choosing at seeded random among exact ties.
func (s *Selector) pick(problems []catalog.Problem, candidates []int, mastery float64) int {
	target := clamp(mastery+s.cfg.DifficultyDelta, 0, 1)

	best := []int{candidates[0]}
	bestDist := dist(problems[candidates[0]].Difficulty, target)
	for _, i := range candidates[1:] {
		d := dist(problems[i].Difficulty, target)
		switch {
		case d < bestDist:
			best = best[:1]
			best[0] = i
			bestDist = d
		case d == bestDist:
			best = append(best, i)
		}
	}
	if len(best) == 1 {
		return best[0]
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return best[s.rng.Intn(len(best))]
}

func dist(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
