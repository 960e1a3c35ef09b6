package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"libraryapi/pkg/book"
	"libraryapi/pkg/loan"
)

// apiErrors is the wire shape of every 400-level error body.
type apiErrors struct {
	Errors []string `json:"errors"`
}

// errBookNotFoundForISBN is the business failure for loan creation
// against an unknown ISBN. It is raised by the loan handler, not the
// services.
var errBookNotFoundForISBN = errors.New("book not found for passed isbn")

// errBadRequestBody covers undecodable request bodies.
var errBadRequestBody = errors.New("invalid request body")

func (a *api) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Error("encode response", zap.Error(err))
	}
}

// writeError is the single place where errors become HTTP responses.
// Business-rule violations map to 400 with one message, validation
// failures to 400 with one message per field, not-found to a standard
// 404 body, everything else to 500.
func (a *api) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, book.ErrDuplicateISBN):
		a.writeJSON(w, http.StatusBadRequest, apiErrors{Errors: []string{"ISBN already registered."}})
	case errors.Is(err, errBookNotFoundForISBN):
		a.writeJSON(w, http.StatusBadRequest, apiErrors{Errors: []string{"Book not found for passed isbn"}})
	case errors.Is(err, loan.ErrBookAlreadyBorrowed):
		a.writeJSON(w, http.StatusBadRequest, apiErrors{Errors: []string{"Book already borrowed"}})
	case errors.Is(err, errBadRequestBody):
		a.writeJSON(w, http.StatusBadRequest, apiErrors{Errors: []string{errBadRequestBody.Error()}})
	case errors.Is(err, book.ErrNotFound), errors.Is(err, loan.ErrNotFound):
		http.NotFound(w, r)
	default:
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fieldMessage(fe))
			}
			a.writeJSON(w, http.StatusBadRequest, apiErrors{Errors: msgs})
			return
		}
		a.log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestID(r.Context())),
			zap.Error(err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " must not be empty"
	default:
		return field + " is invalid"
	}
}
