// Package memory implements an in-memory loan repository.
package memory

import (
	"context"
	"sort"
	"sync"

	"libraryapi/pkg/loan"
	"libraryapi/pkg/page"
)

// Repository provides an in-memory implementation of loan.Repository.
type Repository struct {
	mu     sync.RWMutex
	nextID int64
	loans  map[int64]loan.Loan
}

// New creates a new in-memory repository.
func New() *Repository {
	return &Repository{nextID: 1, loans: make(map[int64]loan.Loan)}
}

// Create stores the loan and assigns its id.
func (r *Repository) Create(ctx context.Context, l loan.Loan) (loan.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.ID = r.nextID
	r.nextID++
	r.loans[l.ID] = l
	return l, nil
}

// Get retrieves a loan by id.
func (r *Repository) Get(ctx context.Context, id int64) (loan.Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.loans[id]
	if !ok {
		return loan.Loan{}, loan.ErrNotFound
	}
	return l, nil
}

// Update replaces an existing loan.
func (r *Repository) Update(ctx context.Context, l loan.Loan) (loan.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.loans[l.ID]; !ok {
		return loan.Loan{}, loan.ErrNotFound
	}
	r.loans[l.ID] = l
	return l, nil
}

// ExistsOpenByBook reports whether the book has a loan that was not
// returned yet.
func (r *Repository) ExistsOpenByBook(ctx context.Context, bookID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.loans {
		if l.Book.ID == bookID && !l.Returned {
			return true, nil
		}
	}
	return false, nil
}

// Find returns the requested page of loans matching the filter,
// ordered by id.
func (r *Repository) Find(ctx context.Context, f loan.Filter, req page.Request) (page.Page[loan.Loan], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []loan.Loan
	for _, l := range r.loans {
		if f.Matches(l) {
			matched = append(matched, l)
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
