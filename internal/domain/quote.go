// Package domain contains the core business entities and rules for quote
// acquisition. It has no dependencies on transport, storage, or any other
// adapter concern.
package domain

import (
	"strings"
	"time"
)

// UnknownAuthor is the sentinel attribution used when a quote arrives with a
// missing or placeholder author.
const UnknownAuthor = "Unknown"

// placeholderAuthors are attributions that upstream providers substitute when
// the real author is unknown. They are treated as absent.
var placeholderAuthors = map[string]struct{}{
	"zenquotes.io": {},
	"zenquotes":    {},
	"type.fit":     {},
	"unknown":      {},
	"anonymous":    {},
}

// Quote is a single attributed quotation.
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// NewQuote builds a Quote from raw provider fields, trimming whitespace and
// normalizing the attribution.
func NewQuote(text, author string) Quote {
	return Quote{
		Text:   strings.TrimSpace(text),
		Author: NormalizeAuthor(author),
	}
}

// Valid reports whether the quote carries any text. Attribution is never
// required; NormalizeAuthor guarantees a non-empty author.
func (q Quote) Valid() bool {
	return q.Text != ""
}

// SameText reports whether two quotes are duplicates. Identity is decided by
// text alone: the same words under a different attribution are still the same
// quote.
func (q Quote) SameText(other Quote) bool {
	return q.Text == other.Text
}

// NormalizeAuthor maps empty and placeholder attributions to UnknownAuthor.
// Any other attribution passes through with surrounding whitespace removed.
func NormalizeAuthor(author string) string {
	author = strings.TrimSpace(author)
	if author == "" {
		return UnknownAuthor
	}
	if _, placeholder := placeholderAuthors[strings.ToLower(author)]; placeholder {
		return UnknownAuthor
	}
	return author
}

// Favorite is a quote the user chose to keep, with the moment it was saved.
type Favorite struct {
	Quote
	AddedAt time.Time `json:"added_at"`
}
