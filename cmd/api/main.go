package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"libraryapi/pkg/book"
	bookpg "libraryapi/pkg/book/postgres"
	"libraryapi/pkg/config"
	"libraryapi/pkg/loan"
	loanpg "libraryapi/pkg/loan/postgres"
	"libraryapi/pkg/logger"
	"libraryapi/pkg/otel"
)

// schema is applied at startup. The unique index on isbn and the
// partial unique index on open loans back up the check-then-insert in
// the services under concurrent requests.
const schema = `
CREATE TABLE IF NOT EXISTS books (
    id     BIGSERIAL PRIMARY KEY,
    title  TEXT NOT NULL,
    author TEXT NOT NULL,
    isbn   TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS loans (
    id        BIGSERIAL PRIMARY KEY,
    book_id   BIGINT NOT NULL REFERENCES books(id),
    customer  TEXT NOT NULL,
    loan_date DATE NOT NULL,
    returned  BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE UNIQUE INDEX IF NOT EXISTS loans_one_open_per_book
    ON loans (book_id) WHERE NOT returned;
`

// @title Library API
// @version 1.0
// @description API for managing books and loans
// @host localhost:8080
// @BasePath /
func main() {
	log, err := logger.New("libraryapi")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", zap.Error(err))
		os.Exit(1)
	}

	tp, shutdown, err := otel.InitTracing(log, otel.Config{
		ServiceName: "libraryapi",
		Host:        cfg.OtelHost,
		Probability: cfg.TraceProbability,
	})
	if err != nil {
		log.Error("init tracing", zap.Error(err))
		os.Exit(1)
	}
	defer shutdown(context.Background())

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", zap.Error(err))
		os.Exit(1)
	}
	if _, err := db.Exec(schema); err != nil {
		log.Error("create schema", zap.Error(err))
		os.Exit(1)
	}

	a := newAPI(
		book.NewService(bookpg.New(db)),
		loan.NewService(loanpg.New(db)),
		log,
		tp.Tracer("libraryapi"),
	)

	log.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, a.routes()); err != nil {
		log.Error("server closed", zap.Error(err))
	}
}
