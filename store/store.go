package store

import (
	"context"
	"fmt"
	"time"

	"github.com/hrygo/tastefeed/internal/profile"
	"github.com/hrygo/tastefeed/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// Cache settings
	cacheConfig cache.Config

	// Caches
	userProfileCache *cache.Cache // cache for user taste profiles
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	// Default cache settings
	cacheConfig := cache.Config{
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        1000,
		OnEviction:      nil,
	}

	store := &Store{
		driver:           driver,
		profile:          profile,
		cacheConfig:      cacheConfig,
		userProfileCache: cache.New(cacheConfig),
	}

	return store
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) Close() error {
	// Stop all cache cleanup goroutines
	s.userProfileCache.Close()

	return s.driver.Close()
}

func (s *Store) CreateItem(ctx context.Context, create *Item) (*Item, error) {
	return s.driver.CreateItem(ctx, create)
}

func (s *Store) ListItems(ctx context.Context, find *FindItem) ([]*Item, error) {
	return s.driver.ListItems(ctx, find)
}

// GetItem gets a single item by id. Returns (nil, nil) when absent.
func (s *Store) GetItem(ctx context.Context, id int32) (*Item, error) {
	list, err := s.driver.ListItems(ctx, &FindItem{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) DeleteItem(ctx context.Context, id int32) error {
	return s.driver.DeleteItem(ctx, id)
}

func (s *Store) CountItems(ctx context.Context) (int64, error) {
	return s.driver.CountItems(ctx)
}

func (s *Store) UpdateItemEmbedding(ctx context.Context, id int32, embedding []float32) error {
	return s.driver.UpdateItemEmbedding(ctx, id, embedding)
}

// GetItemEmbedding returns the stored embedding for an item, or nil when the
// item is absent or its vector could not be parsed. A malformed vector is
// treated as missing, never as a zero vector.
func (s *Store) GetItemEmbedding(ctx context.Context, id int32) ([]float32, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return item.Embedding, nil
}

func (s *Store) ListCandidateItems(ctx context.Context, excludeIDs []int32, limit int) ([]*Item, error) {
	return s.driver.ListCandidateItems(ctx, excludeIDs, limit)
}

func (s *Store) FindItemsWithoutEmbedding(ctx context.Context, limit int) ([]*Item, error) {
	return s.driver.FindItemsWithoutEmbedding(ctx, limit)
}

// GetUserProfile returns the user's taste profile, or (nil, nil) when the
// user has no profile yet (cold start).
func (s *Store) GetUserProfile(ctx context.Context, userID int32) (*UserProfile, error) {
	key := userProfileCacheKey(userID)
	if v, ok := s.userProfileCache.Get(ctx, key); ok {
		if p, ok := v.(*UserProfile); ok {
			return p, nil
		}
	}

	p, err := s.driver.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p != nil {
		s.userProfileCache.Set(ctx, key, p)
	}
	return p, nil
}

func (s *Store) UpsertUserProfile(ctx context.Context, upsert *UpsertUserProfile) (*UserProfile, error) {
	p, err := s.driver.UpsertUserProfile(ctx, upsert)
	if err != nil {
		return nil, err
	}
	s.userProfileCache.Set(ctx, userProfileCacheKey(upsert.UserID), p)
	return p, nil
}

func (s *Store) UpsertFeedback(ctx context.Context, upsert *UpsertFeedback) (*FeedbackEvent, error) {
	return s.driver.UpsertFeedback(ctx, upsert)
}

func (s *Store) ListFeedback(ctx context.Context, find *FindFeedback) ([]*FeedbackEvent, error) {
	return s.driver.ListFeedback(ctx, find)
}

func (s *Store) ListSwipedItemIDs(ctx context.Context, userID int32) ([]int32, error) {
	return s.driver.ListSwipedItemIDs(ctx, userID)
}

func (s *Store) CountFeedback(ctx context.Context) (int64, error) {
	return s.driver.CountFeedback(ctx)
}

func userProfileCacheKey(userID int32) string {
	return fmt.Sprintf("user_profile:%d", userID)
}
