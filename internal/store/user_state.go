package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// userStateRepo implements UserStateRepo with raw SQL.
type userStateRepo struct {
	db    *sql.DB
	locks *userLocks
}

func (r *userStateRepo) Cursors(ctx context.Context, userID string) (UserCursors, error) {
	return getCursors(ctx, r.db, userID)
}

// StartRound moves the round cursor past every existing attempt. The
// anti-repeat window starts empty; mastery estimates carry over.
func (r *userStateRepo) StartRound(ctx context.Context, userID string) error {
	lock := r.locks.acquire(userID)
	defer lock.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin round txn: %w", err)
	}
	defer tx.Rollback()

	last, err := currentSequence(ctx, tx)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_state (user_id, reset_seq, round_seq) VALUES (?, 0, ?)
		 ON CONFLICT (user_id) DO UPDATE SET round_seq = excluded.round_seq`,
		userID, last)
	if err != nil {
		return fmt.Errorf("set round cursor: %w", err)
	}
	return tx.Commit()
}

// Reset wipes the user's mastery rows and moves both cursors past every
// existing attempt. Attempts are never deleted.
func (r *userStateRepo) Reset(ctx context.Context, userID string) error {
	lock := r.locks.acquire(userID)
	defer lock.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset txn: %w", err)
	}
	defer tx.Rollback()

	last, err := currentSequence(ctx, tx)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM mastery WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete mastery: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_state (user_id, reset_seq, round_seq) VALUES (?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
			reset_seq = excluded.reset_seq,
			round_seq = excluded.round_seq`,
		userID, last, last)
	if err != nil {
		return fmt.Errorf("set reset cursor: %w", err)
	}
	return tx.Commit()
}

// getCursors works against either the pool or an open transaction.
func getCursors(ctx context.Context, q queryer, userID string) (UserCursors, error) {
	var cur UserCursors
	err := q.QueryRowContext(ctx,
		`SELECT reset_seq, round_seq FROM user_state WHERE user_id = ?`, userID).
		Scan(&cur.ResetSeq, &cur.RoundSeq)
	if errors.Is(err, sql.ErrNoRows) {
		return UserCursors{}, nil
	}
	if err != nil {
		return UserCursors{}, fmt.Errorf("get cursors for %s: %w", userID, err)
	}
	return cur, nil
}
