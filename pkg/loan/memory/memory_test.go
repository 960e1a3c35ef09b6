package memory

import (
	"context"
	"testing"
	"time"

	"libraryapi/pkg/book"
	"libraryapi/pkg/loan"
	"libraryapi/pkg/page"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := New()
	b := book.Book{ID: 1, Title: "As Aventuras", Author: "Artur", ISBN: "001"}

	l, err := repo.Create(ctx, loan.Loan{Book: b, Customer: "Fulano", LoanDate: time.Now()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if l.ID == 0 {
		t.Fatal("expected assigned id")
	}

	open, err := repo.ExistsOpenByBook(ctx, b.ID)
	if err != nil || !open {
		t.Fatalf("exists open: %v open=%v", err, open)
	}

	l.Returned = true
	if _, err := repo.Update(ctx, l); err != nil {
		t.Fatalf("update: %v", err)
	}
	open, err = repo.ExistsOpenByBook(ctx, b.ID)
	if err != nil || open {
		t.Fatalf("expected no open loan after return: %v open=%v", err, open)
	}

	got, err := repo.Get(ctx, l.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Returned {
		t.Fatal("expected returned loan")
	}

	result, err := repo.Find(ctx, loan.Filter{ISBN: "001"}, page.Request{Size: 10})
	if err != nil || len(result.Content) != 1 {
		t.Fatalf("find: %v len=%d", err, len(result.Content))
	}
}

func TestFindNegativeOffset(t *testing.T) {
	ctx := context.Background()
	repo := New()
	b := book.Book{ID: 1, Title: "T", Author: "A", ISBN: "001"}
	if _, err := repo.Create(ctx, loan.Loan{Book: b, Customer: "Fulano", LoanDate: time.Now()}); err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := repo.Find(ctx, loan.Filter{ISBN: "001"}, page.Request{Number: -1, Size: 20})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(result.Content) != 1 {
		t.Fatalf("expected clamped first page, got %d", len(result.Content))
	}
	if result.TotalElements != 1 {
		t.Fatalf("expected total 1, got %d", result.TotalElements)
	}
}

func TestRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := New()

	if _, err := repo.Get(ctx, 99); err != loan.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.Update(ctx, loan.Loan{ID: 99}); err != loan.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
