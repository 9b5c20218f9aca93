package recommend

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/tastefeed/internal/profile"
	engerrors "github.com/hrygo/tastefeed/server/internal/errors"
	"github.com/hrygo/tastefeed/store"
)

func newTestEngine(s Store) *Engine {
	return NewEngine(s, &profile.Profile{
		EmbeddingDim:  2,
		LearningRate:  0.1,
		CandidatePool: 500,
	})
}

func TestRegisterFeedbackColdStartLike(t *testing.T) {
	ms := NewMemoryStore()
	ms.AddItem(&store.Item{ID: 1, Name: "shirt", Embedding: []float32{0.5, -0.25}})
	engine := newTestEngine(ms)

	result, err := engine.RegisterFeedback(context.Background(), 7, 1, true)
	require.NoError(t, err)
	require.True(t, result.EventRecorded)
	require.True(t, result.ProfileRefreshed)

	// First liked swipe bootstraps the vector to exactly the item embedding.
	assert.Equal(t, []float32{0.5, -0.25}, result.Profile.Embedding)
	assert.Equal(t, int32(1), result.Profile.TotalLikes)
	assert.Equal(t, int32(0), result.Profile.TotalDislikes)
}

func TestRegisterFeedbackColdStartDislike(t *testing.T) {
	ms := NewMemoryStore()
	ms.AddItem(&store.Item{ID: 1, Embedding: []float32{0.5, -0.25}})
	engine := newTestEngine(ms)

	result, err := engine.RegisterFeedback(context.Background(), 7, 1, false)
	require.NoError(t, err)
	require.True(t, result.ProfileRefreshed)

	assert.Equal(t, []float32{-0.5, 0.25}, result.Profile.Embedding)
	assert.Equal(t, int32(0), result.Profile.TotalLikes)
	assert.Equal(t, int32(1), result.Profile.TotalDislikes)
}

func TestApplyFeedbackEMA(t *testing.T) {
	ms := NewMemoryStore()
	ms.AddItem(&store.Item{ID: 1, Embedding: []float32{0, 1}})
	engine := newTestEngine(ms)

	_, err := ms.UpsertUserProfile(context.Background(), &store.UpsertUserProfile{
		UserID:     7,
		Embedding:  []float32{1, 0},
		TotalLikes: 3,
	})
	require.NoError(t, err)

	// Like: new = 0.9*[1,0] + 0.1*[0,1]
	updated, err := engine.ApplyFeedback(context.Background(), 7, 1, true)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, updated.Embedding[0], 1e-6)
	assert.InDelta(t, 0.1, updated.Embedding[1], 1e-6)
	assert.Equal(t, int32(4), updated.TotalLikes)
	assert.Equal(t, int32(0), updated.TotalDislikes)

	// Dislike: new = 0.9*prev - 0.1*[0,1]
	updated, err = engine.ApplyFeedback(context.Background(), 7, 1, false)
	require.NoError(t, err)
	assert.InDelta(t, 0.81, updated.Embedding[0], 1e-6)
	assert.InDelta(t, 0.9*0.1-0.1, updated.Embedding[1], 1e-6)
	assert.Equal(t, int32(4), updated.TotalLikes)
	assert.Equal(t, int32(1), updated.TotalDislikes)
}

func TestRegisterFeedbackReswipeKeepsSingleRow(t *testing.T) {
	ms := NewMemoryStore()
	ms.AddItem(&store.Item{ID: 1, Embedding: []float32{1, 0}})
	engine := newTestEngine(ms)

	_, err := engine.RegisterFeedback(context.Background(), 7, 1, true)
	require.NoError(t, err)
	_, err = engine.RegisterFeedback(context.Background(), 7, 1, false)
	require.NoError(t, err)

	assert.Equal(t, 1, ms.FeedbackCount())
	event := ms.Feedback(7, 1)
	require.NotNil(t, event)
	assert.False(t, event.Liked)
}

func TestRegisterFeedbackMissingEmbeddingIsNonFatal(t *testing.T) {
	ms := NewMemoryStore()
	engine := newTestEngine(ms)

	// Item 99 does not exist; the event must still be recorded.
	result, err := engine.RegisterFeedback(context.Background(), 7, 99, true)
	require.NoError(t, err)
	assert.True(t, result.EventRecorded)
	assert.False(t, result.ProfileRefreshed)
	require.Error(t, result.ProfileError)
	assert.True(t, engerrors.IsCode(result.ProfileError, engerrors.ErrCodeEmbeddingUnavailable))
	assert.Equal(t, 1, ms.FeedbackCount())
}

func TestRegisterFeedbackDimensionMismatchIsNonFatal(t *testing.T) {
	ms := NewMemoryStore()
	ms.AddItem(&store.Item{ID: 1, Embedding: []float32{1, 2, 3}})
	engine := newTestEngine(ms)

	result, err := engine.RegisterFeedback(context.Background(), 7, 1, true)
	require.NoError(t, err)
	assert.True(t, result.EventRecorded)
	assert.False(t, result.ProfileRefreshed)
	assert.True(t, engerrors.IsCode(result.ProfileError, engerrors.ErrCodeDimensionMismatch))
}

func TestRegisterFeedbackValidation(t *testing.T) {
	engine := newTestEngine(NewMemoryStore())

	_, err := engine.RegisterFeedback(context.Background(), 0, 1, true)
	require.Error(t, err)
	assert.True(t, engerrors.IsCode(err, engerrors.ErrCodeInvalidArgument))

	_, err = engine.RegisterFeedback(context.Background(), 7, -1, true)
	require.Error(t, err)
	assert.True(t, engerrors.IsCode(err, engerrors.ErrCodeInvalidArgument))
}

func TestRegisterFeedbackStoreFailureSurfaces(t *testing.T) {
	ms := NewMemoryStore()
	ms.FeedbackErr = assert.AnError
	engine := newTestEngine(ms)

	_, err := engine.RegisterFeedback(context.Background(), 7, 1, true)
	require.Error(t, err)
	assert.True(t, engerrors.IsCode(err, engerrors.ErrCodeStoreUnavailable))
}

func TestApplyFeedbackConcurrentCountersNotLost(t *testing.T) {
	ms := NewMemoryStore()
	ms.AddItem(&store.Item{ID: 1, Embedding: []float32{1, 0}})
	engine := newTestEngine(ms)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.ApplyFeedback(context.Background(), 7, 1, true)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p, err := ms.GetUserProfile(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, p)
	// The classic read-modify-write hazard: without per-user serialization
	// some increments would be overwritten.
	assert.Equal(t, int32(n), p.TotalLikes)
}
