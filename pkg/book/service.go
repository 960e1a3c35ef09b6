package book

import (
	"context"
	"fmt"

	"libraryapi/pkg/page"
)

// Service enforces the business rules around books.
type Service struct {
	repo Repository
}

// NewService creates a book service on top of the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Save persists a new book, enforcing ISBN uniqueness. The check and
// the insert are separate statements; the store's unique index backs
// them up under concurrent requests.
func (s *Service) Save(ctx context.Context, b Book) (Book, error) {
	exists, err := s.repo.ExistsByISBN(ctx, b.ISBN)
	if err != nil {
		return Book{}, fmt.Errorf("check isbn: %w", err)
	}
	if exists {
		return Book{}, ErrDuplicateISBN
	}
	return s.repo.Create(ctx, b)
}

// FindByID returns the book with the given id, or ErrNotFound.
func (s *Service) FindByID(ctx context.Context, id int64) (Book, error) {
	return s.repo.Get(ctx, id)
}

// FindByISBN returns the book with the given ISBN, or ErrNotFound.
func (s *Service) FindByISBN(ctx context.Context, isbn string) (Book, error) {
	return s.repo.GetByISBN(ctx, isbn)
}

// Delete removes a stored book. Deleting a book that was never
// persisted is a programming error.
func (s *Service) Delete(ctx context.Context, b Book) error {
	if b.ID == 0 {
		return ErrMissingID
	}
	return s.repo.Delete(ctx, b.ID)
}

// Update persists title and author changes for an already stored book
// and returns the stored result.
func (s *Service) Update(ctx context.Context, b Book) (Book, error) {
	if b.ID == 0 {
		return Book{}, ErrMissingID
	}
	return s.repo.Update(ctx, b)
}

// FindByFilters returns the requested page of books matching the
// by-example filter.
func (s *Service) FindByFilters(ctx context.Context, f Filter, req page.Request) (page.Page[Book], error) {
	return s.repo.Find(ctx, f, req.Normalize())
}
