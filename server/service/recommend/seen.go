package recommend

import (
	"context"
	"sync"
)

// SeenTracker tracks which items a user has already been shown or swiped on.
//
// Durable truth is the feedback table: any item the user has swiped is seen
// forever. On top of that, a per-user in-process session set covers items
// dispatched by NextBest that have not been swiped yet, so a repeated call
// within one session cannot re-serve them. The session set is a shadow only
// and is rebuilt from feedback after a restart.
type SeenTracker struct {
	store Store

	mu       sync.RWMutex
	sessions map[int32]map[int32]struct{}
}

// NewSeenTracker creates a tracker backed by the given store.
func NewSeenTracker(store Store) *SeenTracker {
	return &SeenTracker{
		store:    store,
		sessions: make(map[int32]map[int32]struct{}),
	}
}

// MarkSeen records that an item was presented to the user in this session.
func (t *SeenTracker) MarkSeen(userID, itemID int32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.sessions[userID]
	if !ok {
		set = make(map[int32]struct{})
		t.sessions[userID] = set
	}
	set[itemID] = struct{}{}
}

// IsSeen reports whether the user has been shown or has swiped the item.
func (t *SeenTracker) IsSeen(ctx context.Context, userID, itemID int32) (bool, error) {
	t.mu.RLock()
	_, inSession := t.sessions[userID][itemID]
	t.mu.RUnlock()
	if inSession {
		return true, nil
	}

	swiped, err := t.store.ListSwipedItemIDs(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, id := range swiped {
		if id == itemID {
			return true, nil
		}
	}
	return false, nil
}

// ExcludedIDs returns the union of the user's swiped item ids and the ids
// already dispatched this session.
func (t *SeenTracker) ExcludedIDs(ctx context.Context, userID int32) ([]int32, error) {
	swiped, err := t.store.ListSwipedItemIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	t.mu.RLock()
	session := t.sessions[userID]
	merged := make(map[int32]struct{}, len(swiped)+len(session))
	for _, id := range swiped {
		merged[id] = struct{}{}
	}
	for id := range session {
		merged[id] = struct{}{}
	}
	t.mu.RUnlock()

	ids := make([]int32, 0, len(merged))
	for id := range merged {
		ids = append(ids, id)
	}
	return ids, nil
}
