// Package loan defines the loan domain model and the rules that govern
// lending books out.
package loan

import (
	"context"
	"errors"
	"time"

	"libraryapi/pkg/book"
	"libraryapi/pkg/page"
)

// Loan records a book lent to a customer. Only the book's id is
// persisted alongside the loan; reads populate the full book. A loan
// starts open (Returned false) and ends returned; there is no way back.
type Loan struct {
	ID       int64     `json:"id"`
	Customer string    `json:"customer"`
	LoanDate time.Time `json:"loanDate"`
	Returned bool      `json:"returned"`
	Book     book.Book `json:"book"`
}

var (
	// ErrNotFound indicates the requested loan does not exist.
	ErrNotFound = errors.New("loan not found")

	// ErrBookAlreadyBorrowed indicates the book already has an open
	// loan.
	ErrBookAlreadyBorrowed = errors.New("book already borrowed")
)

// Filter selects loans whose book's ISBN equals ISBN or whose customer
// equals Customer. Both predicates always apply, so an all-blank
// filter matches nothing.
type Filter struct {
	ISBN     string
	Customer string
}

// Matches reports whether l satisfies the filter's OR condition.
func (f Filter) Matches(l Loan) bool {
	return l.Book.ISBN == f.ISBN || l.Customer == f.Customer
}

// Repository defines behavior for persisting loans.
type Repository interface {
	Create(ctx context.Context, l Loan) (Loan, error)
	Get(ctx context.Context, id int64) (Loan, error)
	Update(ctx context.Context, l Loan) (Loan, error)
	ExistsOpenByBook(ctx context.Context, bookID int64) (bool, error)
	Find(ctx context.Context, f Filter, req page.Request) (page.Page[Loan], error)
}
