package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/text/language"

	"spendwise/internal/cache"
	"spendwise/internal/core"
	"spendwise/internal/export"
	applog "spendwise/internal/log"
	"spendwise/internal/middleware/ratelimit"
	"spendwise/internal/middleware/security"
	"spendwise/internal/middleware/trace"
	"spendwise/internal/services"
)

// Dependencies are the collaborators the API needs.
type Dependencies struct {
	Ledger    *services.LedgerService
	Reports   *services.ReportService
	Formatter *export.Formatter
	// Ready reports whether the backing store is reachable. Nil means always ready.
	Ready  func(context.Context) error
	Logger *applog.Logger

	RateLimitPerMinute int
	TrustedProxies     []string
	ReportCacheTTL     time.Duration
	ReportCacheSize    int
}

type cachedResponse struct {
	contentType string
	body        []byte
}

type Server struct {
	http.Server
	ledger    *services.LedgerService
	reports   *services.ReportService
	formatter *export.Formatter
	ready     func(context.Context) error
	logger    *applog.Logger

	trustedProxies []string
	rateLimiter    *ratelimit.Limiter
	reportCache    *cache.LRUCache[cachedResponse]
	cacheManager   *cache.Manager
	shutdownOnce   sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	formatter := deps.Formatter
	if formatter == nil {
		formatter = export.NewFormatter("₹", language.English)
	}
	size := deps.ReportCacheSize
	if size <= 0 {
		size = 64
	}

	s := &Server{
		ledger:         deps.Ledger,
		reports:        deps.Reports,
		formatter:      formatter,
		ready:          deps.Ready,
		logger:         logger.WithComponent(applog.ComponentHTTP),
		trustedProxies: deps.TrustedProxies,
		rateLimiter:    ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: deps.RateLimitPerMinute}),
		reportCache:    cache.NewLRUCache[cachedResponse](size, deps.ReportCacheTTL),
	}
	s.cacheManager = cache.NewManager(logger)
	s.cacheManager.Register(s.reportCache)
	s.cacheManager.StartCleanup(time.Minute)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	detector := security.NewDetector()
	for _, cidr := range s.trustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			s.logger.Warn("Ignoring trusted proxy", applog.FieldError, err)
		}
	}
	tracer := trace.NewMiddleware(s.logger, detector.ExtractClientIP)
	headers := security.NewHeadersMiddleware(security.APIHeadersConfig())
	limit := s.rateLimiter.Middleware(detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(),
			"Rate limit exceeded",
			applog.FieldClientIP, detector.ExtractClientIP(r),
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path)
		TooManyRequestsError().Write(w)
	})

	r := mux.NewRouter()
	r.Use(tracer.Middleware, detector.Middleware, headers.Middleware, limit)

	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/categories", s.handleCategories).Methods(http.MethodGet)

	api.HandleFunc("/transactions", s.handleListTransactions).Methods(http.MethodGet)
	api.HandleFunc("/transactions", s.handleCreateTransaction).Methods(http.MethodPost)
	api.HandleFunc("/transactions.csv", s.handleTransactionsCSV).Methods(http.MethodGet)

	api.HandleFunc("/budget", s.handleListBudgets).Methods(http.MethodGet)
	api.HandleFunc("/budget", s.handleSetBudget).Methods(http.MethodPost)

	api.HandleFunc("/reports/monthly", s.handleMonthlyReport).Methods(http.MethodGet)
	api.HandleFunc("/reports/monthly.csv", s.handleMonthlyCSV).Methods(http.MethodGet)
	api.HandleFunc("/reports/categories", s.handleCategoryReport).Methods(http.MethodGet)
	api.HandleFunc("/reports/categories.csv", s.handleCategoryCSV).Methods(http.MethodGet)
	api.HandleFunc("/reports/summary", s.handleSummaryReport).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("not found").Write(w)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusMethodNotAllowed, "method not allowed").Write(w)
	})
	return r
}

// Shutdown stops background routines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// tagAll marks reports that aggregate across months.
const tagAll = "all"

func monthTag(m core.MonthKey) string { return "month:" + m.String() }

// invalidateMonth drops cached reports that a write to month can change.
func (s *Server) invalidateMonth(m core.MonthKey) {
	n := s.reportCache.InvalidateTag(monthTag(m)) + s.reportCache.InvalidateTag(tagAll)
	if n > 0 {
		s.logger.Debug("Invalidated cached reports", applog.FieldCount, n, applog.FieldMonth, m.String())
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", applog.FieldError, err.Error())
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
