package embedding

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hrygo/tastefeed/server/ai"
	"github.com/hrygo/tastefeed/store"
)

type fakeProvider struct{}

func (fakeProvider) Embedding(_ context.Context, _ string) ([]float32, error) {
	return []float32{0.5, 0.5}, nil
}

type fakeStore struct {
	mu         sync.Mutex
	pending    []*store.Item
	embeddings map[int32][]float32
}

func (f *fakeStore) UpdateItemEmbedding(_ context.Context, id int32, embedding []float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.embeddings[id] = embedding

	// The item now has a vector; drop it from the pending set.
	remaining := f.pending[:0]
	for _, item := range f.pending {
		if item.ID != id {
			remaining = append(remaining, item)
		}
	}
	f.pending = remaining
	return nil
}

func (f *fakeStore) FindItemsWithoutEmbedding(_ context.Context, _ int) ([]*store.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*store.Item{}, f.pending...), nil
}

func TestRunOnceBackfillsPendingItems(t *testing.T) {
	st := &fakeStore{
		pending: []*store.Item{
			{ID: 1, Name: "a"},
			{ID: 2, Name: "b"},
		},
		embeddings: make(map[int32][]float32),
	}
	runner := NewRunner(st, ai.NewEmbedder(fakeProvider{}, st))

	runner.RunOnce(context.Background())

	assert.Len(t, st.embeddings, 2)
	assert.Empty(t, st.pending)
}

func TestRunOnceNoPendingItemsIsNoop(t *testing.T) {
	st := &fakeStore{embeddings: make(map[int32][]float32)}
	runner := NewRunner(st, ai.NewEmbedder(fakeProvider{}, st))

	runner.RunOnce(context.Background())

	assert.Empty(t, st.embeddings)
}
