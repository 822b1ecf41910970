package models

// Item is a shaped search/discover card: the compact, UI-ready
// projection of an upstream record. Poster is nil when upstream has no
// usable image (empty or the literal "N/A" sentinel).
type Item struct {
	Title  string  `json:"title"`
	Year   string  `json:"year"`
	Type   string  `json:"type"`
	ID     string  `json:"id"`
	Poster *string `json:"poster"`
}

// SearchResult is one shaped page of search results with pagination.
type SearchResult struct {
	Query string `json:"query"`
	Items []Item `json:"items"`
	Page  int    `json:"page"`
	Pages int    `json:"pages"`
	Total int    `json:"total"`
}

// Spotlight is the single featured item for the home page hero.
type Spotlight struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Year   string  `json:"year"`
	Type   string  `json:"type"`
	Poster *string `json:"poster"`
	Genre  string  `json:"genre"`
	Plot   string  `json:"plot"`
}

// MinTitle is the compact lookup-by-id shape used by the watchlist
// page. OK distinguishes "found" from "unavailable"; an unavailable
// record still carries the requested ID.
type MinTitle struct {
	OK     bool    `json:"ok"`
	ID     string  `json:"id"`
	Title  string  `json:"title,omitempty"`
	Year   string  `json:"year,omitempty"`
	Poster *string `json:"poster"`
	Type   string  `json:"type,omitempty"`
	Genre  string  `json:"genre,omitempty"`
}
