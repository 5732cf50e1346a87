// Package http exposes the JSON API: transactions, dashboard and report
// views, recurring definitions and the budget setting.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"pitaka/internal/services"
	"pitaka/internal/store"
)

type Server struct {
	http.Server
	transactions *services.TransactionService
	recurring    *services.RecurringService
	processor    *services.RecurringProcessor
	settings     store.SettingsStore
	rateLimiter  *rateLimiter
	metrics      *securityMetrics
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, txService *services.TransactionService, recurring *services.RecurringService, processor *services.RecurringProcessor, settings store.SettingsStore) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		transactions: txService,
		recurring:    recurring,
		processor:    processor,
		settings:     settings,
		rateLimiter:  newRateLimiter(),
		metrics:      &securityMetrics{},
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/transactions", s.withSecurityHeaders(s.handleTransactions))
	mux.HandleFunc("/transactions/", s.withSecurityHeaders(s.handleTransactionByID))
	mux.HandleFunc("/dashboard", s.withSecurityHeaders(s.handleDashboard))
	mux.HandleFunc("/reports", s.withSecurityHeaders(s.handleReport))
	mux.HandleFunc("/recurring", s.withSecurityHeaders(s.handleRecurring))
	mux.HandleFunc("/recurring/process", s.withSecurityHeaders(s.handleRecurringProcess))
	mux.HandleFunc("/recurring/", s.withSecurityHeaders(s.handleRecurringByID))
	mux.HandleFunc("/budget", s.withSecurityHeaders(s.handleBudget))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Rate limit writes only; reads are cheap.
		if isWrite(r.Method) && !s.rateLimiter.allow(clientIP, s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
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

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
