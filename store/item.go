package store

// Item represents a catalog item that can be recommended.
// Items are created by the ingestion side; the recommendation engine only
// reads them.
type Item struct {
	ID          int32
	UID         string
	Name        string
	Description string
	Category    string
	Price       float64
	Currency    string
	ImageURL    string
	ExternalID  string
	Tags        []string
	Embedding   []float32 // fixed-length vector, same space as user profiles
	CreatedTs   int64
	UpdatedTs   int64
}

// FindItem is the find condition for items.
type FindItem struct {
	ID       *int32
	UID      *string
	Category *string
	Limit    *int
}
