package models

import "github.com/google/uuid"

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ListOptions are the caller-controlled knobs of every list read model.
// Page and Limit are validated by the HTTP layer before reaching a repository.
type ListOptions struct {
	Page     int
	Limit    int
	SortBy   string
	SortType string
	Query    string
	UserID   *uuid.UUID
}

// Offset returns how many rows precede the requested page.
func (o ListOptions) Offset() int {
	if o.Page < 1 || o.Limit < 1 {
		return 0
	}
	return (o.Page - 1) * o.Limit
}

// Descending reports whether the caller asked for a descending sort.
// Anything other than "asc" is descending, matching the public API contract.
func (o ListOptions) Descending() bool {
	return o.SortType != "asc"
}

// Page is one page of a list read model.
type Page[T any] struct {
	Items []T   `json:"items"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// NewPage builds a page and guarantees Items is never nil so it renders as [].
func NewPage[T any](items []T, opts ListOptions, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Page: opts.Page, Limit: opts.Limit, Total: total}
}
