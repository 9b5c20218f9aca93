package recommend

import (
	"sync"

	"github.com/hrygo/tastefeed/internal/profile"
)

// Engine is the recommendation engine. It is safe for concurrent use; the
// contention unit is the user id and all read-modify-write sequences on a
// user's state hold that user's lock.
type Engine struct {
	store Store
	seen  *SeenTracker

	alpha     float64 // EMA learning rate, in (0,1)
	dim       int     // embedding dimension D
	poolLimit int     // candidate pool cap per recommendation request

	locks lockTable
}

// NewEngine creates a new engine with tunables from the profile.
func NewEngine(store Store, profile *profile.Profile) *Engine {
	return &Engine{
		store:     store,
		seen:      NewSeenTracker(store),
		alpha:     profile.LearningRate,
		dim:       profile.EmbeddingDim,
		poolLimit: profile.CandidatePool,
	}
}

// Seen exposes the engine's seen tracker.
func (e *Engine) Seen() *SeenTracker {
	return e.seen
}

// lockTable hands out one mutex per user id.
type lockTable struct {
	mu    sync.Mutex
	locks map[int32]*sync.Mutex
}

func (t *lockTable) forUser(userID int32) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.locks == nil {
		t.locks = make(map[int32]*sync.Mutex)
	}
	l, ok := t.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[userID] = l
	}
	return l
}
