package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// Migrate creates the schema if it does not exist yet.
	Migrate(ctx context.Context) error

	// Item model related methods.
	CreateItem(ctx context.Context, create *Item) (*Item, error)
	ListItems(ctx context.Context, find *FindItem) ([]*Item, error)
	DeleteItem(ctx context.Context, id int32) error
	CountItems(ctx context.Context) (int64, error)

	// UpdateItemEmbedding updates the embedding vector for an item.
	UpdateItemEmbedding(ctx context.Context, id int32, embedding []float32) error

	// ListCandidateItems fetches up to limit items whose ids are not in
	// excludeIDs, in stable catalog order.
	ListCandidateItems(ctx context.Context, excludeIDs []int32, limit int) ([]*Item, error)

	// FindItemsWithoutEmbedding finds items that have no stored embedding yet.
	FindItemsWithoutEmbedding(ctx context.Context, limit int) ([]*Item, error)

	// UserProfile model related methods.
	// GetUserProfile returns (nil, nil) when the user has no profile yet.
	GetUserProfile(ctx context.Context, userID int32) (*UserProfile, error)
	UpsertUserProfile(ctx context.Context, upsert *UpsertUserProfile) (*UserProfile, error)

	// FeedbackEvent model related methods.
	UpsertFeedback(ctx context.Context, upsert *UpsertFeedback) (*FeedbackEvent, error)
	ListFeedback(ctx context.Context, find *FindFeedback) ([]*FeedbackEvent, error)
	ListSwipedItemIDs(ctx context.Context, userID int32) ([]int32, error)
	CountFeedback(ctx context.Context) (int64, error)
}
