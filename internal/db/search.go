package db

// TextQuery is the input for FT.SEARCH.
type TextQuery struct {
	IndexName string
	// Query is a ready-to-send query string; the driver does not escape it.
	Query string
	Limit int
	// WithScores returns the relevance score of each hit.
	WithScores bool
	// SortBy orders by a SORTABLE attribute instead of relevance.
	SortBy   string
	SortDesc bool
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key   string
	Score float64
}
