// Package postgres implements the book repository on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/lib/pq"

	"libraryapi/pkg/book"
	"libraryapi/pkg/page"
)

const tableBooks = "books"

var dialect = goqu.Dialect("postgres")

// Repository persists books in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new book and returns it with its assigned id. A
// unique-index violation on the ISBN column maps to ErrDuplicateISBN:
// the index is the backstop for concurrent saves of the same ISBN.
func (r *Repository) Create(ctx context.Context, b book.Book) (book.Book, error) {
	query, args, err := dialect.Insert(tableBooks).
		Rows(goqu.Record{"title": b.Title, "author": b.Author, "isbn": b.ISBN}).
		Returning("id").
		Prepared(true).ToSQL()
	if err != nil {
		return book.Book{}, fmt.Errorf("build insert: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&b.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return book.Book{}, book.ErrDuplicateISBN
		}
		return book.Book{}, fmt.Errorf("insert book: %w", err)
	}
	return b, nil
}

// Get retrieves a book by id.
func (r *Repository) Get(ctx context.Context, id int64) (book.Book, error) {
	return r.getWhere(ctx, goqu.Ex{"id": id})
}

// GetByISBN retrieves a book by ISBN.
func (r *Repository) GetByISBN(ctx context.Context, isbn string) (book.Book, error) {
	return r.getWhere(ctx, goqu.Ex{"isbn": isbn})
}

func (r *Repository) getWhere(ctx context.Context, where goqu.Ex) (book.Book, error) {
	query, args, err := dialect.From(tableBooks).
		Select("id", "title", "author", "isbn").
		Where(where).
		Prepared(true).ToSQL()
	if err != nil {
		return book.Book{}, fmt.Errorf("build select: %w", err)
	}
	var b book.Book
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&b.ID, &b.Title, &b.Author, &b.ISBN)
	if errors.Is(err, sql.ErrNoRows) {
		return book.Book{}, book.ErrNotFound
	}
	if err != nil {
		return book.Book{}, fmt.Errorf("select book: %w", err)
	}
	return b, nil
}

// ExistsByISBN reports whether a book with the ISBN is stored.
func (r *Repository) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	query, args, err := dialect.From(tableBooks).
		Select(goqu.COUNT("id")).
		Where(goqu.Ex{"isbn": isbn}).
		Prepared(true).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build count: %w", err)
	}
	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("count isbn: %w", err)
	}
	return n > 0, nil
}

// Update persists title and author for the book's id and returns the
// stored row.
func (r *Repository) Update(ctx context.Context, b book.Book) (book.Book, error) {
	query, args, err := dialect.Update(tableBooks).
		Set(goqu.Record{"title": b.Title, "author": b.Author}).
		Where(goqu.Ex{"id": b.ID}).
		Prepared(true).ToSQL()
	if err != nil {
		return book.Book{}, fmt.Errorf("build update: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return book.Book{}, fmt.Errorf("update book: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return book.Book{}, book.ErrNotFound
	}
	return r.Get(ctx, b.ID)
}

// Delete removes a book by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	query, args, err := dialect.Delete(tableBooks).
		Where(goqu.Ex{"id": id}).
		Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return book.ErrNotFound
	}
	return nil
}

// Find returns the requested page of books matching the by-example
// filter. Each non-blank filter field becomes a case-insensitive
// substring predicate; the conditions are combined with AND.
func (r *Repository) Find(ctx context.Context, f book.Filter, req page.Request) (page.Page[book.Book], error) {
	conds := make([]goqu.Expression, 0, 3)
	for _, c := range f.Conditions() {
		conds = append(conds, goqu.I(c.Field).ILike("%"+c.Value+"%"))
	}
	base := dialect.From(tableBooks).Where(conds...)

	countQuery, countArgs, err := base.Select(goqu.COUNT("id")).Prepared(true).ToSQL()
	if err != nil {
		return page.Page[book.Book]{}, fmt.Errorf("build count: %w", err)
	}
	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return page.Page[book.Book]{}, fmt.Errorf("count books: %w", err)
	}

	query, args, err := base.
		Select("id", "title", "author", "isbn").
		Order(goqu.I("id").Asc()).
		Limit(uint(req.Size)).
		Offset(uint(req.Offset())).
		Prepared(true).ToSQL()
	if err != nil {
		return page.Page[book.Book]{}, fmt.Errorf("build select: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return page.Page[book.Book]{}, fmt.Errorf("select books: %w", err)
	}
	defer rows.Close()

	var books []book.Book
	for rows.Next() {
		var b book.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN); err != nil {
			return page.Page[book.Book]{}, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return page.Page[book.Book]{}, fmt.Errorf("iterate books: %w", err)
	}
	return page.New(books, req, total), nil
}
