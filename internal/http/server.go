package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

// Options tunes the server's request-level behaviour. Zero values fall
// back to the defaults below.
type Options struct {
	RateLimitPerMinute int
	CacheTTL           time.Duration
}

const (
	defaultRateLimit = 60
	defaultCacheTTL  = 30 * time.Second
)

// Server is the JSON API over the finance services. Summary and budget
// reads are cached per user; any write for that user drops the cached
// entries.
type Server struct {
	http.Server

	transactions *services.TransactionService
	budgets      *services.BudgetService
	profiles     *services.ProfileService

	rateLimiter  *rateLimiter
	summaryCache *cache.LRUCache[services.Summary]
	budgetCache  *cache.LRUCache[[]core.Category]
	cacheManager *cache.Manager

	logger       *log.Logger
	shutdownOnce sync.Once
}

// NewServer configures routes and caches, returning a ready-to-run server.
func NewServer(addr string, txs *services.TransactionService, budgets *services.BudgetService, profiles *services.ProfileService, opts Options) *Server {
	if opts.RateLimitPerMinute <= 0 {
		opts.RateLimitPerMinute = defaultRateLimit
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		transactions: txs,
		budgets:      budgets,
		profiles:     profiles,
		rateLimiter:  newRateLimiter(opts.RateLimitPerMinute),
		summaryCache: cache.NewLRUCache[services.Summary](500, opts.CacheTTL),
		budgetCache:  cache.NewLRUCache[[]core.Category](500, opts.CacheTTL),
		cacheManager: cache.NewManager(),
		logger:       log.NewComponent(log.ComponentHTTP),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.budgetCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/transactions", s.with(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.with(s.handleCreateTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.with(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.with(s.handleDeleteTransaction))
	mux.HandleFunc("DELETE /api/transactions", s.with(s.handleClearTransactions))
	mux.HandleFunc("GET /api/transactions/recent", s.with(s.handleRecentTransactions))
	mux.HandleFunc("GET /api/summary", s.with(s.handleSummary))

	mux.HandleFunc("GET /api/budgets", s.with(s.handleListBudgets))
	mux.HandleFunc("POST /api/budgets", s.with(s.handleAddBudget))
	mux.HandleFunc("DELETE /api/budgets/{id}", s.with(s.handleDeleteBudget))
	mux.HandleFunc("POST /api/budgets/preview", s.with(s.handlePreviewSplit))
	mux.HandleFunc("PUT /api/budgets/split", s.with(s.handleSaveSplit))
	mux.HandleFunc("POST /api/budgets/reset", s.with(s.handleResetSplit))

	mux.HandleFunc("GET /api/profile", s.with(s.handleGetProfile))
	mux.HandleFunc("PUT /api/profile", s.with(s.handleUpdateProfile))

	mux.HandleFunc("GET /api/export", s.with(s.handleExport))

	return s
}

// with wraps a handler with rate limiting, request tracing and request
// logging. Mutating methods are rate limited per client IP.
func (s *Server) with(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ip := clientIP(r)

		requestID := generateRequestID()
		logger := s.logger.With(log.FieldRequestID, requestID)
		ctx := context.WithValue(r.Context(), log.LoggerContextKey, logger)
		r = r.WithContext(ctx)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(ip) {
			logger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, ip,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Request-ID", requestID)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		log.LogHTTPEnd(ctx, logger, r, rw.statusCode, time.Since(start).Milliseconds(), ip)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// invalidate drops the user's cached reads after any write.
func (s *Server) invalidate(userID string) {
	s.summaryCache.Delete(userID)
	s.budgetCache.Delete(userID)
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
