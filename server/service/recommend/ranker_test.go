package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	engerrors "github.com/hrygo/tastefeed/server/internal/errors"
	"github.com/hrygo/tastefeed/store"
)

func seedProfile(t *testing.T, ms *MemoryStore, userID int32, vec []float32) {
	t.Helper()
	_, err := ms.UpsertUserProfile(context.Background(), &store.UpsertUserProfile{
		UserID:    userID,
		Embedding: vec,
	})
	require.NoError(t, err)
}

func TestNextBestPicksArgMax(t *testing.T) {
	ms := NewMemoryStore()
	ms.AddItem(&store.Item{ID: 1, Name: "A", Embedding: []float32{1, 0}})
	ms.AddItem(&store.Item{ID: 2, Name: "B", Embedding: []float32{0, 1}})
	ms.AddItem(&store.Item{ID: 3, Name: "C", Embedding: []float32{-1, 0}})
	engine := newTestEngine(ms)
	seedProfile(t, ms, 7, []float32{1, 0})

	item, err := engine.NextBest(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "A", item.Name)
}

func TestNextBestNeverRepeats(t *testing.T) {
	ms := NewMemoryStore()
	ms.AddItem(&store.Item{ID: 1, Embedding: []float32{1, 0}})
	ms.AddItem(&store.Item{ID: 2, Embedding: []float32{0.9, 0.1}})
	ms.AddItem(&store.Item{ID: 3, Embedding: []float32{0, 1}})
	engine := newTestEngine(ms)
	seedProfile(t, ms, 7, []float32{1, 0})

	served := map[int32]bool{}
	for i := 0; i < 3; i++ {
		item, err := engine.NextBest(context.Background(), 7)
		require.NoError(t, err)
		require.NotNil(t, item)
		assert.False(t, served[item.ID], "item %d served twice", item.ID)
		served[item.ID] = true
	}

	// Pool exhausted.
	item, err := engine.NextBest(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestNextBestExcludesSwipedItems(t *testing.T) {
	ms := NewMemoryStore()
	ms.AddItem(&store.Item{ID: 1, Embedding: []float32{1, 0}})
	ms.AddItem(&store.Item{ID: 2, Embedding: []float32{0, 1}})
	engine := newTestEngine(ms)
	seedProfile(t, ms, 7, []float32{1, 0})

	// Swiping item 1 makes it durably seen even though NextBest never served it.
	_, err := engine.RegisterFeedback(context.Background(), 7, 1, true)
	require.NoError(t, err)

	item, err := engine.NextBest(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, int32(2), item.ID)
}

func TestNextBestEmptyPool(t *testing.T) {
	engine := newTestEngine(NewMemoryStore())
	seedProfile(t, engine.store.(*MemoryStore), 7, []float32{1, 0})

	item, err := engine.NextBest(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestNextBestSkipsDimensionMismatch(t *testing.T) {
	ms := NewMemoryStore()
	// Dimension-3 vector would dominate lexically but must be excluded when D=2.
	ms.AddItem(&store.Item{ID: 1, Embedding: []float32{5, 5, 5}})
	ms.AddItem(&store.Item{ID: 2, Embedding: []float32{0, 1}})
	engine := newTestEngine(ms)
	seedProfile(t, ms, 7, []float32{1, 0})

	item, err := engine.NextBest(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, int32(2), item.ID)
}

func TestNextBestSkipsMissingEmbedding(t *testing.T) {
	ms := NewMemoryStore()
	ms.AddItem(&store.Item{ID: 1}) // no embedding
	ms.AddItem(&store.Item{ID: 2, Embedding: []float32{0, 1}})
	engine := newTestEngine(ms)
	seedProfile(t, ms, 7, []float32{1, 0})

	item, err := engine.NextBest(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, int32(2), item.ID)

	// The skipped item was not marked seen: once item 2 is consumed nothing
	// scoreable remains and the result is the no-recommendation state.
	item, err = engine.NextBest(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, item)

	seen, err := engine.Seen().IsSeen(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestNextBestColdStartReturnsAnyUnseen(t *testing.T) {
	ms := NewMemoryStore()
	ms.AddItem(&store.Item{ID: 1, Embedding: []float32{1, 0}})
	ms.AddItem(&store.Item{ID: 2, Embedding: []float32{0, 1}})
	engine := newTestEngine(ms)

	item, err := engine.NextBest(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, item)

	// The served item is session-seen and not re-served.
	second, err := engine.NextBest(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.NotEqual(t, item.ID, second.ID)
}

func TestNextBestNegativeSimilarityStillWins(t *testing.T) {
	ms := NewMemoryStore()
	// The only valid candidate points away from the profile; it must still be
	// selected rather than filtered by a score floor.
	ms.AddItem(&store.Item{ID: 1, Embedding: []float32{-1, 0}})
	engine := newTestEngine(ms)
	seedProfile(t, ms, 7, []float32{1, 0})

	item, err := engine.NextBest(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, int32(1), item.ID)
}

func TestNextBestValidation(t *testing.T) {
	engine := newTestEngine(NewMemoryStore())

	_, err := engine.NextBest(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, engerrors.IsCode(err, engerrors.ErrCodeInvalidArgument))
}
