package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"kosku/internal/core"
	"kosku/internal/services"
)

// CommandPublisher hands generation work to the background worker.
type CommandPublisher interface {
	PublishGenerateMonth(ctx context.Context, month string) error
}

type Server struct {
	http.Server
	rooms       *services.RoomService
	billing     *services.BillingService
	ledger      *services.LedgerService
	summary     *services.SummaryService
	commands    CommandPublisher
	rateLimiter *rateLimiter
	metrics     *securityMetrics

	// Cached monthly summary rows, keyed by scope ("all" / "active").
	summaryCache *lruCache[[]core.MonthlySummaryRow]

	// Cache cleanup management
	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, rooms *services.RoomService, billing *services.BillingService, ledger *services.LedgerService, summary *services.SummaryService, commands CommandPublisher, summaryTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		rooms:            rooms,
		billing:          billing,
		ledger:           ledger,
		summary:          summary,
		commands:         commands,
		rateLimiter:      newRateLimiter(),
		metrics:          &securityMetrics{},
		summaryCache:     newLRUCache[[]core.MonthlySummaryRow](4, summaryTTL),
		stopCacheCleanup: make(chan struct{}),
	}

	// Start periodic cache cleanup
	go s.startCacheCleanup()

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/rooms", s.withSecurityHeaders(s.handleRooms))
	mux.HandleFunc("/rooms/update", s.withSecurityHeaders(s.handleUpdateRoom))
	mux.HandleFunc("/rooms/delete", s.withSecurityHeaders(s.handleDeleteRoom))
	mux.HandleFunc("/rooms/codes", s.withSecurityHeaders(s.handleRoomCodes))
	mux.HandleFunc("/rooms/occupancy", s.withSecurityHeaders(s.handleOccupancy))

	mux.HandleFunc("/payments", s.withSecurityHeaders(s.handlePayments))
	mux.HandleFunc("/payments/record", s.withSecurityHeaders(s.handleRecordPayment))
	mux.HandleFunc("/payments/generate", s.withSecurityHeaders(s.handleGeneratePayments))

	mux.HandleFunc("/penalties", s.withSecurityHeaders(s.handlePenalties))
	mux.HandleFunc("/penalties/update", s.withSecurityHeaders(s.handleUpdatePenalty))
	mux.HandleFunc("/penalties/paid", s.withSecurityHeaders(s.handleMarkPenaltyPaid))
	mux.HandleFunc("/penalties/delete", s.withSecurityHeaders(s.handleDeletePenalty))

	mux.HandleFunc("/expenses", s.withSecurityHeaders(s.handleExpenses))
	mux.HandleFunc("/expenses/update", s.withSecurityHeaders(s.handleUpdateExpense))
	mux.HandleFunc("/expenses/delete", s.withSecurityHeaders(s.handleDeleteExpense))

	mux.HandleFunc("/summary", s.withSecurityHeaders(s.handleSummary))
	mux.HandleFunc("/summary/export", s.withSecurityHeaders(s.handleExportSummary))

	return s
}

// startCacheCleanup runs periodic cleanup for the summary cache.
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.summaryCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Cache cleanup completed", "summary_entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}

		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}

		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// invalidateSummary drops cached summary rows after any mutation that
// changes money figures or the active-room set.
func (s *Server) invalidateSummary() {
	s.summaryCache.Purge()
}

// withSecurityHeaders adds security headers, rate limiting, and request logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)

		// Generate request ID for tracing
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		if detectSuspiciousRequest(r, s.metrics) {
			slog.WarnContext(ctx, "Suspicious request", "client_ip", clientIP, "method", r.Method, "url", r.URL.String())
		}

		// Rate limit mutating requests only
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP, s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// Capture status code for the completion log line
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

type requestIDKey struct{}

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
