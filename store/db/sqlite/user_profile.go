package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/tastefeed/store"
)

// GetUserProfile gets a user's taste profile. Returns (nil, nil) when the
// user has no profile yet.
func (d *DB) GetUserProfile(ctx context.Context, userID int32) (*store.UserProfile, error) {
	query := `
		SELECT user_id, embedding, total_likes, total_dislikes, updated_ts
		FROM user_profile
		WHERE user_id = ?
	`

	var p store.UserProfile
	var embeddingRaw sql.NullString
	err := d.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		&embeddingRaw,
		&p.TotalLikes,
		&p.TotalDislikes,
		&p.UpdatedTs,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user profile")
	}

	if embeddingRaw.Valid {
		p.Embedding = store.ParseVector(embeddingRaw.String)
	}
	return &p, nil
}

// UpsertUserProfile inserts or updates a user's taste profile, keyed by user
// id.
func (d *DB) UpsertUserProfile(ctx context.Context, upsert *store.UpsertUserProfile) (*store.UserProfile, error) {
	stmt := `
		INSERT INTO user_profile (user_id, embedding, total_likes, total_dislikes, updated_ts)
		VALUES (` + placeholders(5) + `)
		ON CONFLICT (user_id)
		DO UPDATE SET
			embedding = EXCLUDED.embedding,
			total_likes = EXCLUDED.total_likes,
			total_dislikes = EXCLUDED.total_dislikes,
			updated_ts = EXCLUDED.updated_ts
	`

	now := time.Now().Unix()
	var embedding any
	if len(upsert.Embedding) > 0 {
		embedding = store.MarshalVector(upsert.Embedding)
	}

	if _, err := d.db.ExecContext(ctx, stmt,
		upsert.UserID,
		embedding,
		upsert.TotalLikes,
		upsert.TotalDislikes,
		now,
	); err != nil {
		return nil, errors.Wrap(err, "failed to upsert user profile")
	}

	return &store.UserProfile{
		UserID:        upsert.UserID,
		Embedding:     upsert.Embedding,
		TotalLikes:    upsert.TotalLikes,
		TotalDislikes: upsert.TotalDislikes,
		UpdatedTs:     now,
	}, nil
}
