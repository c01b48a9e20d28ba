package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/simonvc/homeledger/internal/portfolio"
	"github.com/simonvc/homeledger/internal/quotes"
	"github.com/simonvc/homeledger/internal/store"
)

type Options struct {
	Addr        string
	JWTSecret   []byte
	CORSOrigins []string
	Logger      zerolog.Logger
}

type Server struct {
	store     *store.Store
	quotes    quotes.Store
	portfolio *portfolio.Service
	secret    []byte
	log       zerolog.Logger
	router    chi.Router
	addr      string
}

// New wires the API routes. qs may be a caching wrapper around st.
func New(st *store.Store, qs quotes.Store, opts Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		store:     st,
		quotes:    qs,
		portfolio: portfolio.NewService(st, qs),
		secret:    opts.JWTSecret,
		log:       opts.Logger,
		router:    r,
		addr:      opts.Addr,
	}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r.Use(middleware.Recoverer)
	r.Use(hlog.NewHandler(s.log))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authenticate)

		// Accounts
		r.Post("/accounts", s.createAccount)
		r.Get("/accounts", s.listAccounts)
		r.Get("/accounts/{id}", s.getAccount)
		r.Patch("/accounts/{id}", s.renameAccount)
		r.Get("/accounts/{id}/entries", s.listAccountEntries)

		// Transactions
		r.Post("/transactions", s.createTransaction)
		r.Get("/transactions", s.listTransactions)
		r.Get("/transactions/descriptions", s.transactionDescriptions)
		r.Get("/transactions/{id}", s.getTransaction)
		r.Put("/transactions/{id}", s.replaceTransaction)
		r.Delete("/transactions/{id}", s.deleteTransaction)

		// Investments
		r.Post("/investments", s.createInvestment)
		r.Get("/investments", s.listInvestments)
		r.Get("/investments/summary", s.investmentSummary)
		r.Delete("/investments/{id}", s.deleteInvestment)

		// Quotes
		r.Post("/quotes", s.appendQuote)
		r.Get("/quotes/{ticker}/latest", s.latestQuote)

		// Reports
		r.Get("/reports/net-worth", s.netWorth)
		r.Get("/reports/income-expense", s.incomeExpense)
		r.Get("/reports/categories", s.categoryTotals)
		r.Get("/reports/dashboard", s.dashboard)
		r.Get("/reports/trial-balance", s.trialBalance)
		r.Get("/reports/check", s.verifyBalances)
	})

	return s
}

func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.addr).Msg("homeledger server listening")
	return http.ListenAndServe(s.addr, s.router)
}

func (s *Server) Serve(ln net.Listener) error {
	s.log.Info().Stringer("addr", ln.Addr()).Msg("homeledger server listening")
	return http.Serve(ln, s.router)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.addr).Msg("homeledger server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
