// Package http exposes the JSON API: ledger operations, the summary
// aggregates, and the two gateway-backed endpoints for advice and
// receipt extraction.
package http

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"paisa/internal/advisor"
	"paisa/internal/auth"
	"paisa/internal/core"
	"paisa/internal/receipt"
	"paisa/internal/services"
)

type Server struct {
	http.Server

	expenses *services.ExpenseService
	advisor  *advisor.Requester
	receipts *receipt.Processor
	verifier *auth.Verifier
	archive  ArchiveReader
	limiter  *rateLimiter

	defaultBudget core.Money
	windowDays    int

	shutdownOnce sync.Once
}

// Options carries the collaborators and summary defaults for a server.
type Options struct {
	Expenses *services.ExpenseService
	Advisor  *advisor.Requester
	Receipts *receipt.Processor
	// Verifier may be nil; advice persistence is then always skipped.
	Verifier *auth.Verifier
	// Archive may be nil when durable storage is not configured; the
	// archive and analyses endpoints then answer 503.
	Archive  ArchiveReader

	DefaultBudget core.Money
	WindowDays    int
}

// NewServer configures routes and middleware, returning a ready-to-run
// server bound to addr.
func NewServer(addr string, opts Options) *Server {
	s := &Server{
		expenses:      opts.Expenses,
		advisor:       opts.Advisor,
		receipts:      opts.Receipts,
		verifier:      opts.Verifier,
		archive:       opts.Archive,
		limiter:       newRateLimiter(),
		defaultBudget: opts.DefaultBudget,
		windowDays:    opts.WindowDays,
	}
	if s.windowDays <= 0 {
		s.windowDays = 15
	}

	r := chi.NewRouter()
	r.Use(corsMiddleware)
	r.Use(requestLogger)
	r.Use(securityHeaders)
	r.Use(s.rateLimit)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Post("/expenses", s.handleCreateExpense)
		r.Get("/expenses", s.handleListExpenses)
		r.Get("/summary", s.handleSummary)
		r.Post("/advice", s.handleAdvice)
		r.Get("/advice", s.handleLatestAdvice)
		r.Post("/receipt", s.handleReceipt)
		r.Get("/analyses", s.handleListAnalyses)
		r.Get("/archive", s.handleListArchive)
	})

	s.Server = http.Server{Addr: addr, Handler: r}
	return s
}

// Shutdown stops the limiter's cleanup goroutine and drains the HTTP
// server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
