package main

import (
	"encoding/json"
	"net/http"

	"libraryapi/pkg/book"
	"libraryapi/pkg/otel"
)

// bookRequest is the wire form of a book create request.
type bookRequest struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author" validate:"required"`
	ISBN   string `json:"isbn" validate:"required"`
}

// bookUpdateRequest carries the mutable book fields.
type bookUpdateRequest struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author" validate:"required"`
}

func toBook(req bookRequest) book.Book {
	return book.Book{Title: req.Title, Author: req.Author, ISBN: req.ISBN}
}

// createBook registers a new book.
// @Summary Create book
// @Accept json
// @Produce json
// @Param book body bookRequest true "Book"
// @Success 201 {object} book.Book
// @Failure 400 {object} apiErrors
// @Router /api/books [post]
func (a *api) createBook(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createBook")
	defer span.End()

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, r, errBadRequestBody)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		a.writeError(w, r, err)
		return
	}
	created, err := a.books.Save(ctx, toBook(req))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, created)
}

// getBook retrieves a book by id.
// @Summary Get book
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} book.Book
// @Router /api/books/{id} [get]
func (a *api) getBook(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getBook")
	defer span.End()

	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	b, err := a.books.FindByID(ctx, id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, b)
}

// updateBook changes a book's title and author.
// @Summary Update book
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Param book body bookUpdateRequest true "Book"
// @Success 200 {object} book.Book
// @Router /api/books/{id} [put]
func (a *api) updateBook(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateBook")
	defer span.End()

	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	existing, err := a.books.FindByID(ctx, id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	var req bookUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, r, errBadRequestBody)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		a.writeError(w, r, err)
		return
	}

	existing.Title = req.Title
	existing.Author = req.Author
	updated, err := a.books.Update(ctx, existing)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, updated)
}

// deleteBook removes a book.
// @Summary Delete book
// @Param id path int true "Book ID"
// @Success 204
// @Router /api/books/{id} [delete]
func (a *api) deleteBook(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "deleteBook")
	defer span.End()

	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	existing, err := a.books.FindByID(ctx, id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.books.Delete(ctx, existing); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// findBooks lists books filtered by example.
// @Summary Find books
// @Produce json
// @Param title query string false "Title substring"
// @Param author query string false "Author substring"
// @Param isbn query string false "ISBN substring"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} page.Page[book.Book]
// @Router /api/books [get]
func (a *api) findBooks(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "findBooks")
	defer span.End()

	q := r.URL.Query()
	f := book.Filter{Title: q.Get("title"), Author: q.Get("author"), ISBN: q.Get("isbn")}
	result, err := a.books.FindByFilters(ctx, f, pageRequest(q))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, result)
}
