package ai

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/tastefeed/store"
)

type fakeEmbeddingService struct {
	vector []float32
	err    error
	calls  int
	mu     sync.Mutex
}

func (f *fakeEmbeddingService) Embedding(_ context.Context, _ string) ([]float32, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.vector, f.err
}

type fakeItemStore struct {
	mu         sync.Mutex
	embeddings map[int32][]float32
	pending    []*store.Item
}

func newFakeItemStore() *fakeItemStore {
	return &fakeItemStore{embeddings: make(map[int32][]float32)}
}

func (f *fakeItemStore) UpdateItemEmbedding(_ context.Context, id int32, embedding []float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.embeddings[id] = embedding
	return nil
}

func (f *fakeItemStore) FindItemsWithoutEmbedding(_ context.Context, _ int) ([]*store.Item, error) {
	return f.pending, nil
}

func TestBuildItemText(t *testing.T) {
	tests := []struct {
		name     string
		item     *store.Item
		expected string
	}{
		{
			name: "all fields",
			item: &store.Item{
				Name:        "Lumen Linen Shirt",
				Category:    "apparel",
				Description: "Breathable linen",
				Tags:        []string{"summer", "linen"},
				ExternalID:  "sku-1",
			},
			expected: "Name: Lumen Linen Shirt\nCategory: apparel\nDescription: Breathable linen\nTags: summer, linen\nExternal ID: sku-1",
		},
		{
			name:     "name only",
			item:     &store.Item{Name: "Aero Knit Sneakers"},
			expected: "Name: Aero Knit Sneakers",
		},
		{
			name:     "empty tags filtered",
			item:     &store.Item{Name: "X", Tags: []string{"", ""}},
			expected: "Name: X",
		},
		{
			name:     "empty item",
			item:     &store.Item{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildItemText(tt.item))
		})
	}
}

func TestEmbedItem(t *testing.T) {
	svc := &fakeEmbeddingService{vector: []float32{0.1, 0.2}}
	st := newFakeItemStore()
	embedder := NewEmbedder(svc, st)

	err := embedder.EmbedItem(context.Background(), &store.Item{ID: 5, Name: "shirt"})
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, st.embeddings[5])
}

func TestEmbedItemRejectsEmptyText(t *testing.T) {
	embedder := NewEmbedder(&fakeEmbeddingService{}, newFakeItemStore())

	err := embedder.EmbedItem(context.Background(), &store.Item{ID: 5})
	require.Error(t, err)
}

func TestEmbedItemBatch(t *testing.T) {
	svc := &fakeEmbeddingService{vector: []float32{0.1}}
	st := newFakeItemStore()
	embedder := NewEmbedder(svc, st)

	items := []*store.Item{
		{ID: 1, Name: "a"},
		{ID: 2, Name: "b"},
		{ID: 3, Name: "c"},
	}

	var failures int
	for err := range embedder.EmbedItemBatch(context.Background(), items) {
		if err != nil {
			failures++
		}
	}
	assert.Zero(t, failures)
	assert.Len(t, st.embeddings, 3)
	assert.Equal(t, 3, svc.calls)
}
