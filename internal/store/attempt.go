package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// CommitAttempt appends one attempt and applies its mastery updates in
// a single transaction: either the attempt row and every tag's new
// estimate land together, or nothing does.
//
// For each tag, update receives the stored record (zero value with
// seen=false when the tag is unseen) and returns the replacement; only
// PMastery and Attempts of the returned record are stored. A nil update
// commits the attempt alone, which is how ungradable submissions are
// recorded. The update callback may amend att (Transitions in
// particular); the attempt row is written after the whole update pass.
// The attempt's Seq and CreatedAt are assigned here.
func (s *Store) CommitAttempt(ctx context.Context, att *AttemptRecord, tags []string,
	update func(tag string, cur MasteryRecord, seen bool) MasteryRecord) error {

	if att.ID == "" {
		return fmt.Errorf("commit attempt: empty id")
	}
	if att.UserID == "" {
		return fmt.Errorf("commit attempt: empty user id")
	}

	lock := s.locks.acquire(att.UserID)
	defer lock.Unlock()

	seq, err := s.seq.Next(ctx)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin attempt txn: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	if update != nil {
		for _, tag := range tags {
			cur, seen, err := getMastery(ctx, tx, att.UserID, tag)
			if err != nil {
				return err
			}
			next := update(tag, cur, seen)
			_, err = tx.ExecContext(ctx,
				`INSERT INTO mastery (user_id, tag, p_mastery, attempts, updated_at)
				 VALUES (?, ?, ?, ?, ?)
				 ON CONFLICT (user_id, tag) DO UPDATE SET
					p_mastery = excluded.p_mastery,
					attempts = excluded.attempts,
					updated_at = excluded.updated_at`,
				att.UserID, tag, next.PMastery, next.Attempts, now.Unix())
			if err != nil {
				return fmt.Errorf("upsert mastery %s/%s: %w", att.UserID, tag, err)
			}
		}
	}

	att.Seq = seq
	att.CreatedAt = now

	transitions := att.Transitions
	if transitions == nil {
		transitions = []TagTransition{}
	}
	transJSON, err := json.Marshal(transitions)
	if err != nil {
		return fmt.Errorf("encode transitions: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO attempts (id, seq, user_id, problem_id, submission, verdict, transitions, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		att.ID, att.Seq, att.UserID, att.ProblemID, att.Submission, att.Verdict,
		string(transJSON), now.Unix())
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit attempt txn: %w", err)
	}
	return nil
}

// attemptRepo implements AttemptRepo with raw SQL.
type attemptRepo struct {
	db *sql.DB
}

func (r *attemptRepo) RecentProblemIDs(ctx context.Context, userID string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	cur, err := getCursors(ctx, r.db, userID)
	if err != nil {
		return nil, err
	}

	// Window over the last n attempts of the current round, not the
	// last n distinct problems.
	rows, err := r.db.QueryContext(ctx,
		`SELECT problem_id FROM attempts
		 WHERE user_id = ? AND seq > ?
		 ORDER BY seq DESC LIMIT ?`, userID, cur.Active(), n)
	if err != nil {
		return nil, fmt.Errorf("query recent attempts: %w", err)
	}
	defer rows.Close()

	var ids []string
	seen := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan recent attempt: %w", err)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent attempts: %w", err)
	}
	return ids, nil
}

func (r *attemptRepo) WrongProblemIDs(ctx context.Context, userID string) ([]string, error) {
	cur, err := getCursors(ctx, r.db, userID)
	if err != nil {
		return nil, err
	}

	// A problem counts as wrong while its latest gradable attempt
	// since the last reset is incorrect; answering it correctly later
	// clears it.
	rows, err := r.db.QueryContext(ctx,
		`SELECT problem_id FROM (
			SELECT problem_id, verdict, seq,
			       ROW_NUMBER() OVER (PARTITION BY problem_id ORDER BY seq DESC) AS rn
			FROM attempts
			WHERE user_id = ? AND seq > ? AND verdict IN ('correct', 'incorrect')
		 ) WHERE rn = 1 AND verdict = 'incorrect'
		 ORDER BY seq DESC`, userID, cur.ResetSeq)
	if err != nil {
		return nil, fmt.Errorf("query wrong problems: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan wrong problem: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wrong problems: %w", err)
	}
	return ids, nil
}

func (r *attemptRepo) History(ctx context.Context, userID string, opts QueryOpts) ([]AttemptRecord, error) {
	cur, err := getCursors(ctx, r.db, userID)
	if err != nil {
		return nil, err
	}

	q := `SELECT id, seq, user_id, problem_id, submission, verdict, transitions, created_at
	      FROM attempts WHERE user_id = ? AND seq > ?`
	args := []any{userID, cur.ResetSeq}

	if opts.After > 0 {
		q += ` AND seq > ?`
		args = append(args, opts.After)
	}
	if opts.Before > 0 {
		q += ` AND seq < ?`
		args = append(args, opts.Before)
	}
	if !opts.From.IsZero() {
		q += ` AND created_at >= ?`
		args = append(args, opts.From.Unix())
	}
	if !opts.To.IsZero() {
		q += ` AND created_at <= ?`
		args = append(args, opts.To.Unix())
	}
	q += ` ORDER BY seq DESC`
	if opts.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var recs []AttemptRecord
	for rows.Next() {
		rec, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return recs, nil
}

func (r *attemptRepo) Stats(ctx context.Context, userID string) (*AttemptStats, error) {
	cur, err := getCursors(ctx, r.db, userID)
	if err != nil {
		return nil, err
	}

	stats := &AttemptStats{}
	rows, err := r.db.QueryContext(ctx,
		`SELECT verdict, COUNT(*) FROM attempts
		 WHERE user_id = ? AND seq > ? GROUP BY verdict`, userID, cur.ResetSeq)
	if err != nil {
		return nil, fmt.Errorf("query attempt counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var verdict string
		var count int
		if err := rows.Scan(&verdict, &count); err != nil {
			return nil, fmt.Errorf("scan attempt count: %w", err)
		}
		stats.Total += count
		switch verdict {
		case "correct":
			stats.Correct = count
		case "incorrect":
			stats.Incorrect = count
		case "ungradable":
			stats.Ungradable = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempt counts: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT problem_id) FROM attempts
		 WHERE user_id = ? AND seq > ?`, userID, cur.ResetSeq).
		Scan(&stats.DistinctProblems)
	if err != nil {
		return nil, fmt.Errorf("count distinct problems: %w", err)
	}

	streak, err := r.currentStreak(ctx, userID, cur.ResetSeq)
	if err != nil {
		return nil, err
	}
	stats.Streak = streak
	return stats, nil
}

func (r *attemptRepo) currentStreak(ctx context.Context, userID string, afterSeq int64) (int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT verdict FROM attempts
		 WHERE user_id = ? AND seq > ? AND verdict IN ('correct', 'incorrect')
		 ORDER BY seq DESC`, userID, afterSeq)
	if err != nil {
		return 0, fmt.Errorf("query streak: %w", err)
	}
	defer rows.Close()

	streak := 0
	for rows.Next() {
		var verdict string
		if err := rows.Scan(&verdict); err != nil {
			return 0, fmt.Errorf("scan streak: %w", err)
		}
		if verdict != "correct" {
			break
		}
		streak++
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate streak: %w", err)
	}
	return streak, nil
}

func scanAttempt(rows *sql.Rows) (AttemptRecord, error) {
	var rec AttemptRecord
	var transJSON string
	var created int64
	err := rows.Scan(&rec.ID, &rec.Seq, &rec.UserID, &rec.ProblemID,
		&rec.Submission, &rec.Verdict, &transJSON, &created)
	if err != nil {
		return AttemptRecord{}, fmt.Errorf("scan attempt: %w", err)
	}
	if err := json.Unmarshal([]byte(transJSON), &rec.Transitions); err != nil {
		return AttemptRecord{}, fmt.Errorf("decode transitions for attempt %s: %w", rec.ID, err)
	}
	rec.CreatedAt = time.Unix(created, 0).UTC()
	return rec, nil
}
