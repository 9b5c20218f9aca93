package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/tastefeed/store"
)

func TestSeenTrackerIsKeyedPerUser(t *testing.T) {
	tracker := NewSeenTracker(NewMemoryStore())

	tracker.MarkSeen(1, 100)

	seen, err := tracker.IsSeen(context.Background(), 1, 100)
	require.NoError(t, err)
	assert.True(t, seen)

	// A different user's view is unaffected.
	seen, err = tracker.IsSeen(context.Background(), 2, 100)
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestSeenTrackerIncludesDurableFeedback(t *testing.T) {
	ms := NewMemoryStore()
	tracker := NewSeenTracker(ms)

	_, err := ms.UpsertFeedback(context.Background(), &store.UpsertFeedback{
		UserID: 1,
		ItemID: 100,
		Liked:  true,
	})
	require.NoError(t, err)

	// Never marked in this session, but the swipe record makes it seen.
	seen, err := tracker.IsSeen(context.Background(), 1, 100)
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestSeenTrackerExcludedIDsMergesBothSources(t *testing.T) {
	ms := NewMemoryStore()
	tracker := NewSeenTracker(ms)

	_, err := ms.UpsertFeedback(context.Background(), &store.UpsertFeedback{
		UserID: 1,
		ItemID: 100,
	})
	require.NoError(t, err)
	tracker.MarkSeen(1, 200)
	tracker.MarkSeen(1, 100) // overlap must not duplicate

	ids, err := tracker.ExcludedIDs(context.Background(), 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int32{100, 200}, ids)
}
