package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"financas/internal/cache"
	"financas/internal/middleware/ratelimit"
	"financas/internal/middleware/security"
	"financas/internal/middleware/trace"
	"financas/internal/services"
)

// Server wires the JSON API. Dashboard views are cached per owner and
// month; every write for an owner drops that owner's cached months.
type Server struct {
	http.Server

	planner      *services.MonthPlanner
	transactions *services.TransactionService
	tags         *services.TagService
	goals        *services.GoalService
	investments  *services.InvestmentService

	dashCache *cache.LRU[services.MonthView]
	limiter   *ratelimit.Limiter

	// ready reports whether dependencies (the database) are reachable.
	ready func(ctx context.Context) error

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

type Options struct {
	Addr              string
	Planner           *services.MonthPlanner
	Transactions      *services.TransactionService
	Tags              *services.TagService
	Goals             *services.GoalService
	Investments       *services.InvestmentService
	Ready             func(ctx context.Context) error
	DashboardCacheTTL time.Duration
	RequestsPerMinute int
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	ttl := opts.DashboardCacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	s := &Server{
		planner:      opts.Planner,
		transactions: opts.Transactions,
		tags:         opts.Tags,
		goals:        opts.Goals,
		investments:  opts.Investments,
		ready:        opts.Ready,
		dashCache:    cache.NewLRU[services.MonthView](200, ttl),
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RequestsPerMinute,
		}),
		stopCacheCleanup: make(chan struct{}),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/dashboard", s.withOwner(s.handleDashboard))

	mux.HandleFunc("GET /api/receitas", s.withOwner(s.handleListIncomes))
	mux.HandleFunc("POST /api/receitas", s.withOwner(s.handleCreateIncome))
	mux.HandleFunc("PUT /api/receitas/{id}", s.withOwner(s.handleUpdateIncome))
	mux.HandleFunc("DELETE /api/receitas/{id}", s.withOwner(s.handleDeleteIncome))

	mux.HandleFunc("GET /api/despesas", s.withOwner(s.handleListExpenses))
	mux.HandleFunc("GET /api/despesas/parcelamentos", s.withOwner(s.handleListInstallments))
	mux.HandleFunc("POST /api/despesas", s.withOwner(s.handleCreateExpense))
	mux.HandleFunc("PUT /api/despesas/{id}", s.withOwner(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/despesas/{id}", s.withOwner(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/tags", s.withOwner(s.handleListTags))
	mux.HandleFunc("POST /api/tags", s.withOwner(s.handleCreateTag))
	mux.HandleFunc("DELETE /api/tags/{id}", s.withOwner(s.handleDeleteTag))

	mux.HandleFunc("GET /api/meta-saldo", s.withOwner(s.handleGoalStatus))
	mux.HandleFunc("PUT /api/meta-saldo", s.withOwner(s.handleSaveGoal))

	mux.HandleFunc("GET /api/investimentos", s.withOwner(s.handleListInvestments))
	mux.HandleFunc("POST /api/investimentos", s.withOwner(s.handleCreateInvestment))
	mux.HandleFunc("DELETE /api/investimentos/{id}", s.withOwner(s.handleDeleteInvestment))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(clientIP)
	limited := s.limiter.Middleware(limitKey, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		writeError(w, "rate limit exceeded", http.StatusTooManyRequests)
	})

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           tracer.Middleware(headers.Middleware(limitMutations(limited, mux))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.startCacheCleanup()

	return s
}

// limitMutations applies the rate limiter to writes only. Reads are
// served from caches and month-bounded queries, so they stay unmetered.
func limitMutations(limit func(http.Handler) http.Handler, next http.Handler) http.Handler {
	limited := limit(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			limited.ServeHTTP(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// withOwner rejects requests without an owner header before they reach
// the handlers.
func (s *Server) withOwner(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ownerID(r) == "" {
			writeError(w, "missing "+ownerHeader+" header", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			writeError(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.dashCache.CleanExpired()
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops the cleanup goroutines and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func dashboardCacheKey(owner string, year, month int) string {
	return fmt.Sprintf("%s|%d|%d", owner, year, month)
}

func (s *Server) invalidateDashboards(owner string) {
	s.dashCache.InvalidatePrefix(owner + "|")
}
