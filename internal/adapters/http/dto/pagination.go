package dto

// DefaultLimit is the default number of items per page.
const DefaultLimit = 20

// MaxLimit is the maximum allowed items per page.
const MaxLimit = 100

// PaginationRequest represents offset pagination parameters from the query string.
type PaginationRequest struct {
	// Offset is the number of items to skip.
	Offset int `form:"offset" validate:"omitempty,gte=0"`

	// Limit is the maximum number of items to return (1-100, default 20).
	Limit int `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GetOffset returns the offset with negatives clamped to zero.
func (p *PaginationRequest) GetOffset() int {
	if p.Offset < 0 {
		return 0
	}

	return p.Offset
}

// GetLimit returns the limit with defaults applied.
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}

	if p.Limit > MaxLimit {
		return MaxLimit
	}

	return p.Limit
}

// PaginatedResponse is a generic paginated response structure.
type PaginatedResponse[T any] struct {
	// Items is the array of items for this page.
	Items []T `json:"items"`

	// Total is the total number of items across all pages.
	Total int `json:"total"`

	// Offset echoes the offset this page was fetched with.
	Offset int `json:"offset"`

	// Limit echoes the limit this page was fetched with.
	Limit int `json:"limit"`

	// HasMore indicates whether there are more items after this page.
	HasMore bool `json:"hasMore"`
}

// NewPaginatedResponse creates a paginated response from one page of items
// and the total count.
func NewPaginatedResponse[T any](items []T, total, offset, limit int) *PaginatedResponse[T] {
	if items == nil {
		items = []T{}
	}

	return &PaginatedResponse[T]{
		Items:   items,
		Total:   total,
		Offset:  offset,
		Limit:   limit,
		HasMore: offset+len(items) < total,
	}
}
