package store

import "fmt"

// DefaultLimit is the page size used when a request does not name one.
const DefaultLimit = 100

// Window describes the slice of an ordered result set a caller wants:
// skip Offset rows, return at most Limit rows.
type Window struct {
	Offset int
	Limit  int
}

// DefaultWindow returns the window used when a request carries no
// pagination parameters.
func DefaultWindow() Window {
	return Window{Offset: 0, Limit: DefaultLimit}
}

// Validate rejects windows that cannot describe a slice: a negative
// offset or a non-positive limit. Invalid windows are an error, not
// something to silently clamp. No upper bound on the limit is imposed
// here; transports cap page sizes before the window reaches the store.
func (w Window) Validate() error {
	if w.Offset < 0 {
		return ErrInvalidInput.WithMessage(fmt.Sprintf("offset must not be negative, got %d", w.Offset))
	}
	if w.Limit <= 0 {
		return ErrInvalidInput.WithMessage(fmt.Sprintf("limit must be positive, got %d", w.Limit))
	}
	return nil
}

// Page is one window of an ordered result set plus the total number of
// rows matching the same predicate. Total and Items are read under a
// single transaction, so they are consistent with each other; they can
// still go stale the moment the transaction ends. An offset at or past
// Total yields an empty Items with the real Total.
type Page[T any] struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Items  []T `json:"items"`
}

// NewPage builds a Page echoing the window that produced it. A nil
// items slice is normalized to an empty one so it serializes as [].
func NewPage[T any](total int, w Window, items []T) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Total:  total,
		Offset: w.Offset,
		Limit:  w.Limit,
		Items:  items,
	}
}
