package model

// APIResponse is the common JSON envelope for mutation endpoints.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// FavoritesPage is the JSON envelope for the favorites listing endpoint.
// Page, Total and TotalPages are the server-reported values; clients must
// treat them as authoritative over any locally derived guess.
type FavoritesPage struct {
	Success    bool    `json:"success"`
	Tracks     []Track `json:"tracks"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
	Error      string  `json:"error,omitempty"`
}

// ArtistsResponse is the JSON envelope for the favorites artist listing.
type ArtistsResponse struct {
	Success bool     `json:"success"`
	Artists []string `json:"artists"`
	Error   string   `json:"error,omitempty"`
}
