package memory

import (
	"context"
	"testing"

	"libraryapi/pkg/book"
	"libraryapi/pkg/page"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := New()

	b, err := repo.Create(ctx, book.Book{Title: "As Aventuras", Author: "Artur", ISBN: "001"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.ID == 0 {
		t.Fatal("expected assigned id")
	}

	got, err := repo.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "As Aventuras" {
		t.Fatalf("expected As Aventuras, got %s", got.Title)
	}

	if _, err := repo.GetByISBN(ctx, "001"); err != nil {
		t.Fatalf("get by isbn: %v", err)
	}
	exists, err := repo.ExistsByISBN(ctx, "001")
	if err != nil || !exists {
		t.Fatalf("exists by isbn: %v exists=%v", err, exists)
	}

	b.Title = "Mais Aventuras"
	if _, err := repo.Update(ctx, b); err != nil {
		t.Fatalf("update: %v", err)
	}

	result, err := repo.Find(ctx, book.Filter{}, page.Request{Size: 10})
	if err != nil || len(result.Content) != 1 {
		t.Fatalf("find: %v len=%d", err, len(result.Content))
	}

	if err := repo.Delete(ctx, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, b.ID); err == nil {
		t.Fatal("expected error after delete")
	}
}

func TestFindNegativeOffset(t *testing.T) {
	ctx := context.Background()
	repo := New()
	if _, err := repo.Create(ctx, book.Book{Title: "T", Author: "A", ISBN: "1"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// A request whose offset went negative, as an overflowed page
	// number produces, must not panic the slice bounds.
	result, err := repo.Find(ctx, book.Filter{}, page.Request{Number: -1, Size: 20})
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

	if _, err := repo.Get(ctx, 99); err != book.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.Update(ctx, book.Book{ID: 99}); err != book.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, 99); err != book.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
