package store

// FeedbackEvent represents a single swipe, keyed by (user id, item id).
// A later swipe on the same pair revises the earlier one instead of
// accumulating duplicate history. The feedback table doubles as the durable
// seen-set: any item with a recorded event for a user counts as seen.
type FeedbackEvent struct {
	UserID    int32
	ItemID    int32
	Liked     bool
	CreatedTs int64
	UpdatedTs int64
}

// UpsertFeedback specifies the data for upserting a feedback event.
type UpsertFeedback struct {
	UserID int32
	ItemID int32
	Liked  bool
}

// FindFeedback is the find condition for feedback events.
type FindFeedback struct {
	UserID *int32
	ItemID *int32
	Liked  *bool
}
