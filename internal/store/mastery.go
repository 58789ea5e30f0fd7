package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// masteryRepo implements MasteryRepo with raw SQL.
type masteryRepo struct {
	db *sql.DB
}

func (r *masteryRepo) Get(ctx context.Context, userID, tag string) (MasteryRecord, bool, error) {
	return getMastery(ctx, r.db, userID, tag)
}

func (r *masteryRepo) All(ctx context.Context, userID string) ([]MasteryRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, tag, p_mastery, attempts, updated_at
		 FROM mastery WHERE user_id = ? ORDER BY tag`, userID)
	if err != nil {
		return nil, fmt.Errorf("query mastery: %w", err)
	}
	defer rows.Close()

	var recs []MasteryRecord
	for rows.Next() {
		var rec MasteryRecord
		var updated int64
		if err := rows.Scan(&rec.UserID, &rec.Tag, &rec.PMastery, &rec.Attempts, &updated); err != nil {
			return nil, fmt.Errorf("scan mastery: %w", err)
		}
		rec.UpdatedAt = time.Unix(updated, 0).UTC()
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mastery: %w", err)
	}
	return recs, nil
}

// getMastery works against either the pool or an open transaction.
func getMastery(ctx context.Context, q queryer, userID, tag string) (MasteryRecord, bool, error) {
	var rec MasteryRecord
	var updated int64
	err := q.QueryRowContext(ctx,
		`SELECT user_id, tag, p_mastery, attempts, updated_at
		 FROM mastery WHERE user_id = ? AND tag = ?`, userID, tag).
		Scan(&rec.UserID, &rec.Tag, &rec.PMastery, &rec.Attempts, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return MasteryRecord{}, false, nil
	}
	if err != nil {
		return MasteryRecord{}, false, fmt.Errorf("get mastery %s/%s: %w", userID, tag, err)
	}
	rec.UpdatedAt = time.Unix(updated, 0).UTC()
	return rec, true, nil
}
