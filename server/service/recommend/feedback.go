package recommend

import (
	"context"
	"log/slog"

	engerrors "github.com/hrygo/tastefeed/server/internal/errors"
	"github.com/hrygo/tastefeed/store"
)

// RegisterFeedback validates and persists a swipe, then refreshes the user's
// taste profile as a best-effort second phase.
//
// The call succeeds once the feedback event is durable. A profile-update
// failure is reported in the result but never fails the request: the raw
// event remains the source of truth and a later recompute can repair the
// profile.
func (e *Engine) RegisterFeedback(ctx context.Context, userID, itemID int32, liked bool) (*FeedbackResult, error) {
	if userID <= 0 {
		return nil, engerrors.InvalidArgument("user id must be positive")
	}
	if itemID <= 0 {
		return nil, engerrors.InvalidArgument("item id must be positive")
	}

	if _, err := e.store.UpsertFeedback(ctx, &store.UpsertFeedback{
		UserID: userID,
		ItemID: itemID,
		Liked:  liked,
	}); err != nil {
		return nil, engerrors.StoreUnavailable("failed to record feedback", err)
	}

	result := &FeedbackResult{EventRecorded: true}

	// The swipe is durable, so the item is seen regardless of what happens
	// to the profile update.
	e.seen.MarkSeen(userID, itemID)

	updated, err := e.ApplyFeedback(ctx, userID, itemID, liked)
	if err != nil {
		slog.Warn("profile update failed after feedback write",
			"user_id", userID,
			"item_id", itemID,
			"error", err)
		result.ProfileError = err
		return result, nil
	}

	result.ProfileRefreshed = true
	result.Profile = updated
	return result, nil
}

// ApplyFeedback folds one feedback event into the user's taste vector.
//
// Cold start initializes the vector from the item embedding directly; steady
// state applies the EMA blend. The read-modify-write is serialized per user
// so concurrent events cannot drop a counter increment.
func (e *Engine) ApplyFeedback(ctx context.Context, userID, itemID int32, liked bool) (*store.UserProfile, error) {
	embedding, err := e.store.GetItemEmbedding(ctx, itemID)
	if err != nil {
		return nil, engerrors.StoreUnavailable("failed to fetch item embedding", err)
	}
	if len(embedding) == 0 {
		return nil, engerrors.EmbeddingUnavailable("item has no usable embedding")
	}
	if len(embedding) != e.dim {
		return nil, engerrors.DimensionMismatch(e.dim, len(embedding))
	}

	direction := 1.0
	if !liked {
		direction = -1.0
	}

	mu := e.locks.forUser(userID)
	mu.Lock()
	defer mu.Unlock()

	current, err := e.store.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, engerrors.StoreUnavailable("failed to fetch user profile", err)
	}

	upsert := &store.UpsertUserProfile{UserID: userID}
	if current == nil || len(current.Embedding) == 0 {
		// First swipe for this user: bootstrap the vector from this item.
		upsert.Embedding = scale(embedding, direction)
		if liked {
			upsert.TotalLikes = 1
		} else {
			upsert.TotalDislikes = 1
		}
	} else {
		if len(current.Embedding) != e.dim {
			return nil, engerrors.DimensionMismatch(e.dim, len(current.Embedding))
		}
		upsert.Embedding = blend(current.Embedding, embedding, e.alpha, direction)
		upsert.TotalLikes = current.TotalLikes
		upsert.TotalDislikes = current.TotalDislikes
		if liked {
			upsert.TotalLikes++
		} else {
			upsert.TotalDislikes++
		}
	}

	updated, err := e.store.UpsertUserProfile(ctx, upsert)
	if err != nil {
		return nil, engerrors.StoreUnavailable("failed to persist user profile", err)
	}

	slog.Debug("user profile updated",
		"user_id", userID,
		"item_id", itemID,
		"liked", liked,
		"total_likes", updated.TotalLikes,
		"total_dislikes", updated.TotalDislikes)

	return updated, nil
}
