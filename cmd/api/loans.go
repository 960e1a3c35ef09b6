package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"libraryapi/pkg/book"
	"libraryapi/pkg/loan"
	"libraryapi/pkg/otel"
	"libraryapi/pkg/page"
)

// loanRequest is the wire form of a loan create request.
type loanRequest struct {
	ISBN     string `json:"isbn" validate:"required"`
	Customer string `json:"customer" validate:"required"`
}

// returnedLoanRequest carries the returned flag for a loan update.
type returnedLoanRequest struct {
	Returned bool `json:"returned"`
}

// loanDTO is the list wire form of a loan: id, customer and the loaned
// book, without loan date and returned flag.
type loanDTO struct {
	ID       int64     `json:"id"`
	Customer string    `json:"customer"`
	Book     book.Book `json:"book"`
}

func toLoanDTO(l loan.Loan) loanDTO {
	return loanDTO{ID: l.ID, Customer: l.Customer, Book: l.Book}
}

// createLoan lends a book out. The response body is the created loan
// id as plain text.
// @Summary Create loan
// @Accept json
// @Produce plain
// @Param loan body loanRequest true "Loan"
// @Success 201 {integer} int64
// @Failure 400 {object} apiErrors
// @Router /api/loans [post]
func (a *api) createLoan(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createLoan")
	defer span.End()

	var req loanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, r, errBadRequestBody)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		a.writeError(w, r, err)
		return
	}

	b, err := a.books.FindByISBN(ctx, req.ISBN)
	if errors.Is(err, book.ErrNotFound) {
		a.writeError(w, r, errBookNotFoundForISBN)
		return
	}
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	created, err := a.loans.Save(ctx, loan.Loan{
		Book:     b,
		Customer: req.Customer,
		LoanDate: time.Now(),
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	fmt.Fprintf(w, "%d", created.ID)
}

// updateLoan flips a loan's returned flag.
// @Summary Update loan
// @Accept json
// @Produce json
// @Param id path int true "Loan ID"
// @Param loan body returnedLoanRequest true "Returned"
// @Success 200 {object} loan.Loan
// @Router /api/loans/{id} [patch]
func (a *api) updateLoan(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateLoan")
	defer span.End()

	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	found, err := a.loans.FindByID(ctx, id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	var req returnedLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, r, errBadRequestBody)
		return
	}

	found.Returned = req.Returned
	updated, err := a.loans.Update(ctx, found)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, updated)
}

// findLoans lists loans matching the ISBN or the customer.
// @Summary Find loans
// @Produce json
// @Param isbn query string false "Book ISBN"
// @Param customer query string false "Customer name"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} page.Page[loanDTO]
// @Router /api/loans [get]
func (a *api) findLoans(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "findLoans")
	defer span.End()

	q := r.URL.Query()
	f := loan.Filter{ISBN: q.Get("isbn"), Customer: q.Get("customer")}
	result, err := a.loans.Find(ctx, f, pageRequest(q))
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	dtos := make([]loanDTO, 0, len(result.Content))
	for _, l := range result.Content {
		dtos = append(dtos, toLoanDTO(l))
	}
	a.writeJSON(w, http.StatusOK, page.Page[loanDTO]{
		Content:       dtos,
		Number:        result.Number,
		Size:          result.Size,
		TotalElements: result.TotalElements,
	})
}
