// Package page provides the pagination primitives shared by the book
// and loan stores.
package page

import "math"

const (
	// DefaultSize is used when a request does not specify a page size.
	DefaultSize = 20
	// MaxSize caps the page size a client may request.
	MaxSize = 100
)

// Request identifies one page of a result set. Number is zero-based.
type Request struct {
	Number int
	Size   int
}

// Normalize clamps the request to valid bounds.
func (r Request) Normalize() Request {
	if r.Number < 0 {
		r.Number = 0
	}
	if r.Size <= 0 {
		r.Size = DefaultSize
	}
	if r.Size > MaxSize {
		r.Size = MaxSize
	}
	// Keep Offset within int range.
	if r.Number > math.MaxInt/r.Size {
		r.Number = math.MaxInt / r.Size
	}
	return r
}

// Offset returns the row offset at which the page starts.
func (r Request) Offset() int {
	return r.Number * r.Size
}

// Page is one page of results plus the paging metadata the API returns.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
}

// New builds the page envelope for the given request. Content is never
// nil so the JSON encoding is always an array.
func New[T any](content []T, req Request, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	return Page[T]{Content: content, Number: req.Number, Size: req.Size, TotalElements: total}
}
