// Package postgres implements the loan repository on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/lib/pq"

	"libraryapi/pkg/loan"
	"libraryapi/pkg/page"
)

var dialect = goqu.Dialect("postgres")

// loanColumns selects the loan row joined with its book, in the order
// scanLoan expects.
var loanColumns = []any{
	goqu.I("l.id"), goqu.I("l.customer"), goqu.I("l.loan_date"), goqu.I("l.returned"),
	goqu.I("b.id"), goqu.I("b.title"), goqu.I("b.author"), goqu.I("b.isbn"),
}

// Repository persists loans in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func joined() *goqu.SelectDataset {
	return dialect.From(goqu.T("loans").As("l")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("l.book_id").Eq(goqu.I("b.id"))))
}

// Create inserts a new loan and returns it with its assigned id. The
// partial unique index on open loans maps to ErrBookAlreadyBorrowed
// when two requests race for the same book.
func (r *Repository) Create(ctx context.Context, l loan.Loan) (loan.Loan, error) {
	query, args, err := dialect.Insert("loans").
		Rows(goqu.Record{
			"book_id":   l.Book.ID,
			"customer":  l.Customer,
			"loan_date": l.LoanDate,
			"returned":  l.Returned,
		}).
		Returning("id").
		Prepared(true).ToSQL()
	if err != nil {
		return loan.Loan{}, fmt.Errorf("build insert: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&l.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return loan.Loan{}, loan.ErrBookAlreadyBorrowed
		}
		return loan.Loan{}, fmt.Errorf("insert loan: %w", err)
	}
	return l, nil
}

// Get retrieves a loan by id, with its book populated.
func (r *Repository) Get(ctx context.Context, id int64) (loan.Loan, error) {
	query, args, err := joined().
		Select(loanColumns...).
		Where(goqu.I("l.id").Eq(id)).
		Prepared(true).ToSQL()
	if err != nil {
		return loan.Loan{}, fmt.Errorf("build select: %w", err)
	}
	l, err := scanLoan(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return loan.Loan{}, loan.ErrNotFound
	}
	if err != nil {
		return loan.Loan{}, fmt.Errorf("select loan: %w", err)
	}
	return l, nil
}

// Update persists customer and returned for the loan's id and returns
// the stored row.
func (r *Repository) Update(ctx context.Context, l loan.Loan) (loan.Loan, error) {
	query, args, err := dialect.Update("loans").
		Set(goqu.Record{"customer": l.Customer, "returned": l.Returned}).
		Where(goqu.Ex{"id": l.ID}).
		Prepared(true).ToSQL()
	if err != nil {
		return loan.Loan{}, fmt.Errorf("build update: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return loan.Loan{}, fmt.Errorf("update loan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return loan.Loan{}, loan.ErrNotFound
	}
	return r.Get(ctx, l.ID)
}

// ExistsOpenByBook reports whether the book has a loan that was not
// returned yet.
func (r *Repository) ExistsOpenByBook(ctx context.Context, bookID int64) (bool, error) {
	query, args, err := dialect.From("loans").
		Select(goqu.COUNT("id")).
		Where(goqu.Ex{"book_id": bookID, "returned": false}).
		Prepared(true).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build count: %w", err)
	}
	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("count open loans: %w", err)
	}
	return n > 0, nil
}

// Find returns the requested page of loans whose book ISBN equals the
// filter's ISBN or whose customer equals the filter's customer.
func (r *Repository) Find(ctx context.Context, f loan.Filter, req page.Request) (page.Page[loan.Loan], error) {
	where := goqu.Or(
		goqu.I("b.isbn").Eq(f.ISBN),
		goqu.I("l.customer").Eq(f.Customer),
	)

	countQuery, countArgs, err := joined().
		Select(goqu.COUNT(goqu.I("l.id"))).
		Where(where).
		Prepared(true).ToSQL()
	if err != nil {
		return page.Page[loan.Loan]{}, fmt.Errorf("build count: %w", err)
	}
	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return page.Page[loan.Loan]{}, fmt.Errorf("count loans: %w", err)
	}

	query, args, err := joined().
		Select(loanColumns...).
		Where(where).
		Order(goqu.I("l.id").Asc()).
		Limit(uint(req.Size)).
		Offset(uint(req.Offset())).
		Prepared(true).ToSQL()
	if err != nil {
		return page.Page[loan.Loan]{}, fmt.Errorf("build select: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return page.Page[loan.Loan]{}, fmt.Errorf("select loans: %w", err)
	}
	defer rows.Close()

	var loans []loan.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return page.Page[loan.Loan]{}, fmt.Errorf("scan loan: %w", err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return page.Page[loan.Loan]{}, fmt.Errorf("iterate loans: %w", err)
	}
	return page.New(loans, req, total), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner) (loan.Loan, error) {
	var l loan.Loan
	err := row.Scan(
		&l.ID, &l.Customer, &l.LoanDate, &l.Returned,
		&l.Book.ID, &l.Book.Title, &l.Book.Author, &l.Book.ISBN,
	)
	return l, err
}
