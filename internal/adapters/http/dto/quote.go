package dto

import (
	"time"

	"github.com/jsamuelsen/quotedeck/internal/domain"
)

// QuoteResponse is the wire representation of a quote.
type QuoteResponse struct {
	Text   string `json:"text"`
	Author string `json:"author"`

	// Source names where the quote came from: "fetch", "cache" or "dataset".
	Source string `json:"source,omitempty"`
}

// NewQuoteResponse converts a domain quote into its wire form.
func NewQuoteResponse(q *domain.Quote, source string) *QuoteResponse {
	return &QuoteResponse{
		Text:   q.Text,
		Author: q.Author,
		Source: source,
	}
}

// FavoriteResponse is the wire representation of a saved favorite.
type FavoriteResponse struct {
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	AddedAt time.Time `json:"addedAt"`
}

// NewFavoriteResponse converts a domain favorite into its wire form.
func NewFavoriteResponse(f domain.Favorite) FavoriteResponse {
	return FavoriteResponse{
		Text:    f.Text,
		Author:  f.Author,
		AddedAt: f.AddedAt,
	}
}

// SaveFavoriteRequest is the request body for saving a favorite.
type SaveFavoriteRequest struct {
	Text   string `json:"text" validate:"required,notempty"`
	Author string `json:"author"`
}

// RemoveFavoriteRequest is the request body for removing a favorite.
// Favorites are identified by their text, the same identity the
// deduplication logic uses.
type RemoveFavoriteRequest struct {
	Text string `json:"text" validate:"required,notempty"`
}

// CacheStatsResponse reports the state of the persistent quote cache.
type CacheStatsResponse struct {
	Entries    int `json:"entries"`
	MaxEntries int `json:"maxEntries"`
}
