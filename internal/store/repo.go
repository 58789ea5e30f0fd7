package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// MasteryRecord is the stored estimate for one (user, tag) pair.
type MasteryRecord struct {
	UserID    string
	Tag       string
	PMastery  float64
	Attempts  int
	UpdatedAt time.Time
}

// TagTransition records how one attempt moved one tag's estimate.
type TagTransition struct {
	Tag    string  `json:"tag"`
	Before float64 `json:"before"`
	After  float64 `json:"after"`
}

// AttemptRecord is one graded submission in the append-only log.
// Transitions is empty for ungradable attempts.
type AttemptRecord struct {
	ID          string
	Seq         int64
	UserID      string
	ProblemID   string
	Submission  string
	Verdict     string
	Transitions []TagTransition
	CreatedAt   time.Time
}

// AttemptStats aggregates a user's attempt log since their last reset.
type AttemptStats struct {
	Total            int
	Correct          int
	Incorrect        int
	Ungradable       int
	DistinctProblems int
	// Streak counts consecutive gradable-correct attempts ending at
	// the most recent gradable attempt.
	Streak int
}

// UserCursors are the sequence watermarks that scope queries to the
// current round and the current life of the mastery state. Attempts at
// or below ResetSeq predate the last full reset; attempts at or below
// RoundSeq predate the current practice round.
type UserCursors struct {
	ResetSeq int64
	RoundSeq int64
}

// Active returns the cursor that bounds the current round.
func (c UserCursors) Active() int64 {
	if c.RoundSeq > c.ResetSeq {
		return c.RoundSeq
	}
	return c.ResetSeq
}

// MasteryRepo reads stored mastery estimates. Writes go through
// Store.CommitAttempt so they stay transactional with the attempt log.
type MasteryRepo interface {
	// Get returns the record for (user, tag). seen is false when the
	// tag has never been updated for this user.
	Get(ctx context.Context, userID, tag string) (rec MasteryRecord, seen bool, err error)

	// All returns every mastery record for the user, ordered by tag.
	All(ctx context.Context, userID string) ([]MasteryRecord, error)
}

// AttemptRepo reads the append-only attempt log.
type AttemptRepo interface {
	// RecentProblemIDs returns the problem ids of the user's most
	// recent attempts in the current round, newest first, deduplicated.
	RecentProblemIDs(ctx context.Context, userID string, n int) ([]string, error)

	// WrongProblemIDs returns problems whose latest gradable attempt
	// since the last reset was incorrect, newest first.
	WrongProblemIDs(ctx context.Context, userID string) ([]string, error)

	// History returns the user's attempts since the last reset,
	// newest first.
	History(ctx context.Context, userID string, opts QueryOpts) ([]AttemptRecord, error)

	// Stats aggregates the user's attempts since the last reset.
	Stats(ctx context.Context, userID string) (*AttemptStats, error)
}

// UserStateRepo manages per-user cursors and resets.
type UserStateRepo interface {
	// Cursors returns the user's sequence watermarks, zero when the
	// user has no state yet.
	Cursors(ctx context.Context, userID string) (UserCursors, error)

	// StartRound begins a new practice round: the anti-repeat window
	// forgets earlier attempts, mastery estimates are kept.
	StartRound(ctx context.Context, userID string) error

	// Reset wipes the user's mastery estimates and moves the reset
	// cursor past every existing attempt. The attempt log itself is
	// append-only and survives.
	Reset(ctx context.Context, userID string) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID           int
	Sequence     int64
	Timestamp    time.Time
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// PurposeUsage aggregates LLM usage for one purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events filtered by opts, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]*LLMEvent, error)

	// GetLLMEvent returns one event by id, or nil if absent.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates calls and tokens per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates calls and tokens per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
