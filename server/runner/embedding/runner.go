// Package embedding runs the background job that backfills vectors for
// catalog items ingested without one.
package embedding

import (
	"context"
	"log/slog"
	"time"

	"github.com/hrygo/tastefeed/server/ai"
)

type Runner struct {
	embedder  *ai.Embedder
	store     ai.ItemStore
	interval  time.Duration
	batchSize int
}

// NewRunner creates an item embedding runner.
func NewRunner(store ai.ItemStore, embedder *ai.Embedder) *Runner {
	return &Runner{
		embedder:  embedder,
		store:     store,
		interval:  2 * time.Minute,
		batchSize: 8,
	}
}

// Run starts the background task.
func (r *Runner) Run(ctx context.Context) {
	// Process once on startup
	r.processPendingItems(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.processPendingItems(ctx)
		case <-ctx.Done():
			slog.Info("embedding runner stopped")
			return
		}
	}
}

// RunOnce processes pending items once (for manual trigger).
func (r *Runner) RunOnce(ctx context.Context) {
	r.processPendingItems(ctx)
}

func (r *Runner) processPendingItems(ctx context.Context) {
	items, err := r.store.FindItemsWithoutEmbedding(ctx, r.batchSize*20)
	if err != nil {
		slog.Error("failed to find items without embedding", "error", err)
		return
	}

	if len(items) == 0 {
		return
	}

	slog.Info("processing items for embedding", "count", len(items))

	for i := 0; i < len(items); i += r.batchSize {
		select {
		case <-ctx.Done():
			slog.Info("embedding processing cancelled", "processed", i, "total", len(items))
			return
		default:
		}

		end := i + r.batchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[i:end]

		var failed int
		for err := range r.embedder.EmbedItemBatch(ctx, batch) {
			if err != nil {
				failed++
				slog.Warn("failed to embed item", "error", err)
			}
		}
		slog.Info("batch processed", "count", len(batch), "failed", failed)
	}
}
