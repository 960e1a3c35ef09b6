// Package book defines the book domain model and the rules that govern
// the catalogue.
package book

import (
	"context"
	"errors"
	"strings"

	"libraryapi/pkg/page"
)

// Book represents a catalogued title.
type Book struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

var (
	// ErrNotFound indicates the requested book does not exist.
	ErrNotFound = errors.New("book not found")

	// ErrDuplicateISBN indicates a book with the same ISBN is already
	// registered.
	ErrDuplicateISBN = errors.New("isbn already registered")

	// ErrMissingID indicates an update or delete of a book that was
	// never persisted. Handlers prevent this by always loading the
	// entity first.
	ErrMissingID = errors.New("book has no id")
)

// Filter selects books by example: blank fields are ignored, non-blank
// fields match case-insensitively as substrings.
type Filter struct {
	Title  string
	Author string
	ISBN   string
}

// Condition is one (column, value) predicate derived from a Filter.
type Condition struct {
	Field string
	Value string
}

// Matches reports whether s satisfies the condition.
func (c Condition) Matches(s string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(c.Value))
}

// Conditions expands the filter into predicates for its non-blank
// fields. Stores combine them as a conjunction.
func (f Filter) Conditions() []Condition {
	var conds []Condition
	if f.Title != "" {
		conds = append(conds, Condition{Field: "title", Value: f.Title})
	}
	if f.Author != "" {
		conds = append(conds, Condition{Field: "author", Value: f.Author})
	}
	if f.ISBN != "" {
		conds = append(conds, Condition{Field: "isbn", Value: f.ISBN})
	}
	return conds
}

// Matches reports whether b satisfies every condition of the filter.
func (f Filter) Matches(b Book) bool {
	for _, c := range f.Conditions() {
		var v string
		switch c.Field {
		case "title":
			v = b.Title
		case "author":
			v = b.Author
		case "isbn":
			v = b.ISBN
		}
		if !c.Matches(v) {
			return false
		}
	}
	return true
}

// Repository defines behavior for persisting books.
type Repository interface {
	Create(ctx context.Context, b Book) (Book, error)
	Get(ctx context.Context, id int64) (Book, error)
	GetByISBN(ctx context.Context, isbn string) (Book, error)
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
	Update(ctx context.Context, b Book) (Book, error)
	Delete(ctx context.Context, id int64) error
	Find(ctx context.Context, f Filter, req page.Request) (page.Page[Book], error)
}
