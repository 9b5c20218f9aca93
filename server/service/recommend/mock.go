package recommend

import (
	"context"
	"sort"
	"sync"

	"github.com/hrygo/tastefeed/store"
)

// MemoryStore is an in-memory Store implementation for tests and demos.
type MemoryStore struct {
	mu       sync.Mutex
	items    map[int32]*store.Item
	profiles map[int32]*store.UserProfile
	feedback map[[2]int32]*store.FeedbackEvent

	// Optional fault injection.
	FeedbackErr error
	ProfileErr  error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:    make(map[int32]*store.Item),
		profiles: make(map[int32]*store.UserProfile),
		feedback: make(map[[2]int32]*store.FeedbackEvent),
	}
}

// AddItem seeds an item.
func (m *MemoryStore) AddItem(item *store.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
}

// FeedbackCount returns the number of stored feedback rows.
func (m *MemoryStore) FeedbackCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.feedback)
}

// Feedback returns the stored event for a (user, item) pair, or nil.
func (m *MemoryStore) Feedback(userID, itemID int32) *store.FeedbackEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.feedback[[2]int32{userID, itemID}]
}

func (m *MemoryStore) GetItemEmbedding(_ context.Context, itemID int32) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[itemID]
	if !ok {
		return nil, nil
	}
	return item.Embedding, nil
}

func (m *MemoryStore) GetUserProfile(_ context.Context, userID int32) (*store.UserProfile, error) {
	if m.ProfileErr != nil {
		return nil, m.ProfileErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (m *MemoryStore) UpsertUserProfile(_ context.Context, upsert *store.UpsertUserProfile) (*store.UserProfile, error) {
	if m.ProfileErr != nil {
		return nil, m.ProfileErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &store.UserProfile{
		UserID:        upsert.UserID,
		Embedding:     upsert.Embedding,
		TotalLikes:    upsert.TotalLikes,
		TotalDislikes: upsert.TotalDislikes,
	}
	m.profiles[upsert.UserID] = p
	copied := *p
	return &copied, nil
}

func (m *MemoryStore) ListCandidateItems(_ context.Context, excludeIDs []int32, limit int) ([]*store.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	excluded := make(map[int32]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}

	ids := make([]int32, 0, len(m.items))
	for id := range m.items {
		if _, ok := excluded[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	list := []*store.Item{}
	for _, id := range ids {
		if len(list) >= limit {
			break
		}
		list = append(list, m.items[id])
	}
	return list, nil
}

func (m *MemoryStore) UpsertFeedback(_ context.Context, upsert *store.UpsertFeedback) (*store.FeedbackEvent, error) {
	if m.FeedbackErr != nil {
		return nil, m.FeedbackErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	event := &store.FeedbackEvent{
		UserID: upsert.UserID,
		ItemID: upsert.ItemID,
		Liked:  upsert.Liked,
	}
	m.feedback[[2]int32{upsert.UserID, upsert.ItemID}] = event
	return event, nil
}

func (m *MemoryStore) ListSwipedItemIDs(_ context.Context, userID int32) ([]int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := []int32{}
	for key := range m.feedback {
		if key[0] == userID {
			ids = append(ids, key[1])
		}
	}
	return ids, nil
}
