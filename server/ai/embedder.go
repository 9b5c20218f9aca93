package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/hrygo/tastefeed/store"
)

// EmbeddingService is the capability the embedder and runner depend on.
type EmbeddingService interface {
	Embedding(ctx context.Context, text string) ([]float32, error)
}

// ItemStore is the slice of the store the embedder writes through.
type ItemStore interface {
	UpdateItemEmbedding(ctx context.Context, id int32, embedding []float32) error
	FindItemsWithoutEmbedding(ctx context.Context, limit int) ([]*store.Item, error)
}

// Embedder handles embedding generation and storage for catalog items.
type Embedder struct {
	provider EmbeddingService
	store    ItemStore
}

// NewEmbedder creates a new embedder.
func NewEmbedder(provider EmbeddingService, store ItemStore) *Embedder {
	return &Embedder{
		provider: provider,
		store:    store,
	}
}

// BuildItemText concatenates item fields into a single prompt string for the
// embedding model.
func BuildItemText(item *store.Item) string {
	parts := []string{}

	if item.Name != "" {
		parts = append(parts, "Name: "+item.Name)
	}
	if item.Category != "" {
		parts = append(parts, "Category: "+item.Category)
	}
	if item.Description != "" {
		parts = append(parts, "Description: "+item.Description)
	}
	tags := []string{}
	for _, tag := range item.Tags {
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(tags, ", "))
	}
	if item.ExternalID != "" {
		parts = append(parts, "External ID: "+item.ExternalID)
	}

	return strings.Join(parts, "\n")
}

// EmbedItem generates and stores the embedding for a single item.
func (e *Embedder) EmbedItem(ctx context.Context, item *store.Item) error {
	if item == nil {
		return fmt.Errorf("item is nil")
	}
	text := BuildItemText(item)
	if text == "" {
		return fmt.Errorf("item %d has no embeddable text", item.ID)
	}

	embedding, err := e.provider.Embedding(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to embed item %d: %w", item.ID, err)
	}

	if err := e.store.UpdateItemEmbedding(ctx, item.ID, embedding); err != nil {
		return fmt.Errorf("failed to store item embedding: %w", err)
	}

	slog.Debug("item embedded successfully",
		"item_id", item.ID,
		"embedding_dim", len(embedding))

	return nil
}

// EmbedItemBatch generates and stores embeddings for multiple items
// concurrently. Concurrency is limited to avoid overwhelming the API.
func (e *Embedder) EmbedItemBatch(ctx context.Context, items []*store.Item) <-chan error {
	results := make(chan error, len(items))

	sem := semaphore.NewWeighted(3)
	var wg sync.WaitGroup

	for _, item := range items {
		if err := sem.Acquire(ctx, 1); err != nil {
			results <- err
			break
		}
		wg.Add(1)
		go func(it *store.Item) {
			defer wg.Done()
			defer sem.Release(1)
			results <- e.EmbedItem(ctx, it)
		}(item)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}
