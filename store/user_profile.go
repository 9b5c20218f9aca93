package store

// UserProfile represents a user's taste vector together with swipe counters.
// It lives in the same embedding space as item embeddings and is mutated only
// by the recommendation engine's feedback path.
type UserProfile struct {
	UserID        int32
	Embedding     []float32
	TotalLikes    int32
	TotalDislikes int32
	UpdatedTs     int64
}

// UpsertUserProfile specifies the data for upserting a user profile.
// The upsert is keyed by user id.
type UpsertUserProfile struct {
	UserID        int32
	Embedding     []float32
	TotalLikes    int32
	TotalDislikes int32
}
