package loan

import (
	"context"
	"fmt"

	"libraryapi/pkg/page"
)

// Service enforces the business rules around loans.
type Service struct {
	repo Repository
}

// NewService creates a loan service on top of the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Save persists a new loan unless the book already has an open one.
// As with book creation, check and insert are separate statements and
// the store's partial unique index covers the concurrent case.
func (s *Service) Save(ctx context.Context, l Loan) (Loan, error) {
	open, err := s.repo.ExistsOpenByBook(ctx, l.Book.ID)
	if err != nil {
		return Loan{}, fmt.Errorf("check open loan: %w", err)
	}
	if open {
		return Loan{}, ErrBookAlreadyBorrowed
	}
	return s.repo.Create(ctx, l)
}

// FindByID returns the loan with the given id, or ErrNotFound.
func (s *Service) FindByID(ctx context.Context, id int64) (Loan, error) {
	return s.repo.Get(ctx, id)
}

// Update persists the loan as given. The only mutation the API exposes
// is flipping Returned.
func (s *Service) Update(ctx context.Context, l Loan) (Loan, error) {
	return s.repo.Update(ctx, l)
}

// Find returns the requested page of loans matching the ISBN-or-customer
// filter.
func (s *Service) Find(ctx context.Context, f Filter, req page.Request) (page.Page[Loan], error) {
	return s.repo.Find(ctx, f, req.Normalize())
}
