package main

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"libraryapi/pkg/book"
	"libraryapi/pkg/loan"
	"libraryapi/pkg/otel"
	"libraryapi/pkg/page"
)

// api holds the handler dependencies.
type api struct {
	books    *book.Service
	loans    *loan.Service
	log      *zap.Logger
	tracer   trace.Tracer
	validate *validator.Validate
}

func newAPI(books *book.Service, loans *loan.Service, log *zap.Logger, tracer trace.Tracer) *api {
	return &api{books: books, loans: loans, log: log, tracer: tracer, validate: validator.New()}
}

func (a *api) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(a.requestIDMiddleware, a.traceMiddleware, a.logMiddleware)

	books := r.PathPrefix("/api/books").Subrouter()
	books.HandleFunc("", a.createBook).Methods(http.MethodPost)
	books.HandleFunc("", a.findBooks).Methods(http.MethodGet)
	books.HandleFunc("/{id:[0-9]+}", a.getBook).Methods(http.MethodGet)
	books.HandleFunc("/{id:[0-9]+}", a.updateBook).Methods(http.MethodPut)
	books.HandleFunc("/{id:[0-9]+}", a.deleteBook).Methods(http.MethodDelete)

	loans := r.PathPrefix("/api/loans").Subrouter()
	loans.HandleFunc("", a.createLoan).Methods(http.MethodPost)
	loans.HandleFunc("", a.findLoans).Methods(http.MethodGet)
	loans.HandleFunc("/{id:[0-9]+}", a.updateLoan).Methods(http.MethodPatch)

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	return r
}

type ctxKey int

const requestIDKey ctxKey = 1

func requestID(ctx context.Context) string {
	rid, _ := ctx.Value(requestIDKey).(string)
	return rid
}

// requestIDMiddleware assigns each request an id, honoring one supplied
// by the client.
func (a *api) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-Id")
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", rid)
		ctx := context.WithValue(r.Context(), requestIDKey, rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *api) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.InjectTracing(r.Context(), a.tracer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (a *api) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		a.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", requestID(r.Context())),
			zap.String("trace_id", otel.GetTraceID(r.Context())),
		)
	})
}

// pageRequest parses page and size query parameters. Invalid or
// out-of-range values fall back to the defaults.
func pageRequest(q url.Values) page.Request {
	number, err := strconv.Atoi(q.Get("page"))
	if err != nil {
		number = 0
	}
	size, err := strconv.Atoi(q.Get("size"))
	if err != nil {
		size = 0
	}
	return page.Request{Number: number, Size: size}.Normalize()
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}
