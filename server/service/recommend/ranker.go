package recommend

import (
	"context"
	"log/slog"

	engerrors "github.com/hrygo/tastefeed/server/internal/errors"
	"github.com/hrygo/tastefeed/store"
)

// NextBest selects the single best unseen item for the user and marks it
// seen before returning, so a repeated call never serves the same item.
//
// A nil item with a nil error means no recommendation is available, a normal
// terminal state. The whole fetch, score, pick, mark sequence holds the
// user's lock so concurrent calls cannot double-dispatch one item.
func (e *Engine) NextBest(ctx context.Context, userID int32) (*store.Item, error) {
	if userID <= 0 {
		return nil, engerrors.InvalidArgument("user id must be positive")
	}

	mu := e.locks.forUser(userID)
	mu.Lock()
	defer mu.Unlock()

	profile, err := e.store.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, engerrors.StoreUnavailable("failed to fetch user profile", err)
	}

	excluded, err := e.seen.ExcludedIDs(ctx, userID)
	if err != nil {
		return nil, engerrors.StoreUnavailable("failed to resolve seen items", err)
	}

	candidates, err := e.store.ListCandidateItems(ctx, excluded, e.poolLimit)
	if err != nil {
		return nil, engerrors.StoreUnavailable("failed to fetch candidate items", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	// Cold start: without a profile vector there is nothing to score, return
	// the first unseen candidate.
	if profile == nil || len(profile.Embedding) == 0 {
		chosen := candidates[0]
		e.seen.MarkSeen(userID, chosen.ID)
		slog.Debug("cold-start recommendation",
			"user_id", userID,
			"item_id", chosen.ID)
		return chosen, nil
	}

	var best *store.Item
	var bestScore float64
	for _, item := range candidates {
		// Candidates with missing or mismatched embeddings are skipped
		// entirely, not scored as 0, and are not marked seen.
		if len(item.Embedding) == 0 || len(item.Embedding) != e.dim {
			continue
		}
		score := CosineSimilarity(profile.Embedding, item.Embedding)
		// Strictly-greater keeps the first encountered on ties, a
		// deterministic catalog-order tie-break.
		if best == nil || score > bestScore {
			best = item
			bestScore = score
		}
	}

	if best == nil {
		return nil, nil
	}

	e.seen.MarkSeen(userID, best.ID)
	slog.Debug("recommendation selected",
		"user_id", userID,
		"item_id", best.ID,
		"score", bestScore,
		"candidates", len(candidates))

	return best, nil
}
