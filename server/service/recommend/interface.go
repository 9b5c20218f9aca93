// Package recommend implements the swipe personalization engine: it folds
// feedback events into per-user taste vectors and ranks unseen catalog items
// by cosine similarity to pick the next item to show.
package recommend

import (
	"context"

	"github.com/hrygo/tastefeed/store"
)

// Store is the persistence capability the engine depends on. It is satisfied
// by *store.Store and by test doubles.
type Store interface {
	// GetItemEmbedding returns nil when the item is absent or its vector is
	// malformed.
	GetItemEmbedding(ctx context.Context, itemID int32) ([]float32, error)

	// GetUserProfile returns (nil, nil) when the user has no profile yet.
	GetUserProfile(ctx context.Context, userID int32) (*store.UserProfile, error)
	UpsertUserProfile(ctx context.Context, upsert *store.UpsertUserProfile) (*store.UserProfile, error)

	ListCandidateItems(ctx context.Context, excludeIDs []int32, limit int) ([]*store.Item, error)

	UpsertFeedback(ctx context.Context, upsert *store.UpsertFeedback) (*store.FeedbackEvent, error)
	ListSwipedItemIDs(ctx context.Context, userID int32) ([]int32, error)
}

// FeedbackResult reports the two phases of feedback registration separately.
// EventRecorded is the durable, client-visible outcome; ProfileRefreshed is
// advisory and may be false with ProfileError set while the call as a whole
// still succeeds.
type FeedbackResult struct {
	EventRecorded    bool
	ProfileRefreshed bool
	Profile          *store.UserProfile
	ProfileError     error
}
