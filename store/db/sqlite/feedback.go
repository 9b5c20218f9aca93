package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/tastefeed/store"
)

// UpsertFeedback inserts or revises a feedback event, keyed by
// (user_id, item_id).
func (d *DB) UpsertFeedback(ctx context.Context, upsert *store.UpsertFeedback) (*store.FeedbackEvent, error) {
	stmt := `
		INSERT INTO feedback (user_id, item_id, liked, created_ts, updated_ts)
		VALUES (` + placeholders(5) + `)
		ON CONFLICT (user_id, item_id)
		DO UPDATE SET
			liked = EXCLUDED.liked,
			updated_ts = EXCLUDED.updated_ts
	`

	now := time.Now().Unix()
	if _, err := d.db.ExecContext(ctx, stmt,
		upsert.UserID,
		upsert.ItemID,
		upsert.Liked,
		now,
		now,
	); err != nil {
		return nil, errors.Wrap(err, "failed to upsert feedback")
	}

	return &store.FeedbackEvent{
		UserID:    upsert.UserID,
		ItemID:    upsert.ItemID,
		Liked:     upsert.Liked,
		CreatedTs: now,
		UpdatedTs: now,
	}, nil
}

// ListFeedback lists feedback events matching the find condition.
func (d *DB) ListFeedback(ctx context.Context, find *store.FindFeedback) ([]*store.FeedbackEvent, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.UserID != nil {
		where, args = append(where, "user_id = ?"), append(args, *find.UserID)
	}
	if find.ItemID != nil {
		where, args = append(where, "item_id = ?"), append(args, *find.ItemID)
	}
	if find.Liked != nil {
		where, args = append(where, "liked = ?"), append(args, *find.Liked)
	}

	query := `
		SELECT user_id, item_id, liked, created_ts, updated_ts
		FROM feedback
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY updated_ts DESC
	`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list feedback")
	}
	defer rows.Close()

	list := []*store.FeedbackEvent{}
	for rows.Next() {
		var event store.FeedbackEvent
		if err := rows.Scan(
			&event.UserID,
			&event.ItemID,
			&event.Liked,
			&event.CreatedTs,
			&event.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan feedback")
		}
		list = append(list, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// ListSwipedItemIDs returns the ids of items the user has swiped on.
func (d *DB) ListSwipedItemIDs(ctx context.Context, userID int32) ([]int32, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT item_id FROM feedback WHERE user_id = ?`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list swiped item ids")
	}
	defer rows.Close()

	ids := []int32{}
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed to scan item id")
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

// CountFeedback counts all feedback events.
func (d *DB) CountFeedback(ctx context.Context) (int64, error) {
	var count int64
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count feedback")
	}
	return count, nil
}
