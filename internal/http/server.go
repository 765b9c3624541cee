package http

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"ledger/internal/core"
	"ledger/internal/export"
	"ledger/internal/ledger"
	applog "ledger/internal/log"
	"ledger/internal/middleware/ratelimit"
	"ledger/internal/middleware/security"
	"ledger/internal/middleware/trace"
)

// Ledger is what the handlers need from the transaction service.
type Ledger interface {
	List(ctx context.Context) ([]core.Transaction, error)
	Create(ctx context.Context, in core.TransactionInput) (core.Transaction, error)
	Update(ctx context.Context, id int64, in core.TransactionInput) (*core.Transaction, error)
	Delete(ctx context.Context, id int64) error
	View(ctx context.Context, f ledger.Filter, page int) (ledger.View, error)
	Workbook(ctx context.Context, f ledger.Filter) (export.Workbook, error)
	PublishWorkbook(ctx context.Context, f ledger.Filter) (string, error)
}

type Config struct {
	Addr               string
	AdminToken         string
	RateLimitPerMinute int
	TrustedProxies     []string
}

type (
	// ReadinessCheck reports whether a dependency can serve traffic.
	ReadinessCheck func(ctx context.Context) error

	// Gauge samples a value for /metrics.
	Gauge struct {
		Name  string
		Help  string
		Value func() int64
	}
)

type Server struct {
	http.Server

	ledger     Ledger
	adminToken string
	logger     *applog.Logger
	events     *applog.StructuredLogger
	activity   http.Handler
	checks     map[string]ReadinessCheck
	gauges     []Gauge

	detector *security.Detector
	limiter  *ratelimit.Limiter
	tracer   *trace.Middleware

	startedAt    time.Time
	shutdownOnce sync.Once
}

type ServerOption func(*Server)

func WithLogger(l *applog.Logger) ServerOption {
	return func(s *Server) { s.logger = l }
}

// WithActivityFeed mounts the websocket handler at /ws/activity.
func WithActivityFeed(h http.Handler) ServerOption {
	return func(s *Server) { s.activity = h }
}

func WithReadinessCheck(name string, check ReadinessCheck) ServerOption {
	return func(s *Server) { s.checks[name] = check }
}

func WithGauge(g Gauge) ServerOption {
	return func(s *Server) { s.gauges = append(s.gauges, g) }
}

// NewServer wires routes and middleware. Every route is served both at the
// root and under /api.
func NewServer(cfg Config, l Ledger, opts ...ServerOption) (*Server, error) {
	detector, err := security.NewDetector(cfg.TrustedProxies...)
	if err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	s := &Server{
		ledger:     l,
		adminToken: cfg.AdminToken,
		checks:     make(map[string]ReadinessCheck),
		detector:   detector,
		startedAt:  time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = applog.New(applog.DefaultConfig())
	}
	s.logger = s.logger.WithComponent(applog.ComponentHTTP)
	s.events = applog.NewStructuredLogger(s.logger)
	s.limiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMinute})
	s.tracer = trace.NewMiddleware(s.logger, detector.ClientIP)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	for _, prefix := range []string{"", "/api"} {
		mux.HandleFunc("GET "+prefix+"/transactions", s.handleListTransactions)
		mux.HandleFunc("POST "+prefix+"/transactions", s.requireAdmin(s.handleCreateTransaction))
		mux.HandleFunc("PUT "+prefix+"/transactions/{id}", s.requireAdmin(s.handleUpdateTransaction))
		mux.HandleFunc("DELETE "+prefix+"/transactions/{id}", s.requireAdmin(s.handleDeleteTransaction))
		mux.HandleFunc("GET "+prefix+"/transactions/view", s.handleView)
		mux.HandleFunc("GET "+prefix+"/transactions/export", s.handleExportWorkbook)
		mux.HandleFunc("POST "+prefix+"/transactions/export", s.requireAdmin(s.handlePublishWorkbook))
		if s.activity != nil {
			mux.Handle("GET "+prefix+"/ws/activity", s.activity)
		}
	}

	var handler http.Handler = mux
	handler = s.limiter.Middleware(detector.ClientIP, func(w http.ResponseWriter, r *http.Request) {
		s.logger.WarnContext(r.Context(), "Rate limit exceeded",
			applog.FieldClientIP, detector.ClientIP(r), applog.FieldMethod, r.Method, applog.FieldPath, r.URL.Path)
		writeError(w, r, http.StatusTooManyRequests, msgRateLimited)
	})(handler)
	handler = s.flagSuspicious(handler)
	handler = applog.Middleware(s.logger, trace.RequestIDFrom)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// requireAdmin enforces the bearer token on mutating routes when one is
// configured. Without a token the API is open.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.adminToken == "" {
			next(w, r)
			return
		}
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), []byte(s.adminToken)) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="ledger"`)
			writeError(w, r, http.StatusUnauthorized, msgUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) flagSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.IsSuspicious(r) {
			applog.FromContext(r.Context()).WithComponent(applog.ComponentSecurity).WarnContext(r.Context(), "Suspicious request",
				applog.FieldClientIP, s.detector.ClientIP(r),
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path,
				applog.FieldUserAgent, r.Header.Get("User-Agent"))
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the background goroutines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
