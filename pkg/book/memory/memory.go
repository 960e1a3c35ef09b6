// Package memory implements an in-memory book repository.
package memory

import (
	"context"
	"sort"
	"sync"

	"libraryapi/pkg/book"
	"libraryapi/pkg/page"
)

// Repository provides an in-memory implementation of book.Repository.
type Repository struct {
	mu     sync.RWMutex
	nextID int64
	books  map[int64]book.Book
}

// New creates a new in-memory repository.
func New() *Repository {
	return &Repository{nextID: 1, books: make(map[int64]book.Book)}
}

// Create stores the book and assigns its id.
func (r *Repository) Create(ctx context.Context, b book.Book) (book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = r.nextID
	r.nextID++
	r.books[b.ID] = b
	return b, nil
}

// Get retrieves a book by id.
func (r *Repository) Get(ctx context.Context, id int64) (book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.books[id]
	if !ok {
		return book.Book{}, book.ErrNotFound
	}
	return b, nil
}

// GetByISBN retrieves a book by ISBN.
func (r *Repository) GetByISBN(ctx context.Context, isbn string) (book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.books {
		if b.ISBN == isbn {
			return b, nil
		}
	}
	return book.Book{}, book.ErrNotFound
}

// ExistsByISBN reports whether a book with the ISBN is stored.
func (r *Repository) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.books {
		if b.ISBN == isbn {
			return true, nil
		}
	}
	return false, nil
}

// Update replaces an existing book.
func (r *Repository) Update(ctx context.Context, b book.Book) (book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[b.ID]; !ok {
		return book.Book{}, book.ErrNotFound
	}
	r.books[b.ID] = b
	return b, nil
}

// Delete removes a book by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return book.ErrNotFound
	}
	delete(r.books, id)
	return nil
}

// Find returns the requested page of books matching the filter,
// ordered by id.
func (r *Repository) Find(ctx context.Context, f book.Filter, req page.Request) (page.Page[book.Book], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []book.Book
	for _, b := range r.books {
		if f.Matches(b) {
			matched = append(matched, b)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := req.Offset()
	if start < 0 {
		start = 0
	}
	if start > len(matched) {
		start = len(matched)
	}
	end := start + req.Size
	if end > len(matched) {
		end = len(matched)
	}
	return page.New(matched[start:end], req, total), nil
}
