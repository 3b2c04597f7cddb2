package router

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-admin-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-admin-go/internal/employee"
	"github.com/ovaphlow/pitchfork/service-admin-go/internal/result"
	"github.com/ovaphlow/pitchfork/service-admin-go/pkg/utilities"
)

const requestIDHeader = "X-Request-Id"

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// RequestIDMiddleware tags every request with a KSUID, reusing an inbound
// X-Request-Id when the caller sent one.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = utilities.NewKSUID()
				r.Header.Set(requestIDHeader, id)
			}
			w.Header().Set(requestIDHeader, id)
			next.ServeHTTP(w, r)
		})
	}
}

// LoggingMiddleware logs requests at debug level using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"request_id", r.Header.Get(requestIDHeader),
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware sets common HTTP security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			if w.Header().Get("Content-Security-Policy") == "" {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; object-src 'none'; base-uri 'self';")
			}
			// HSTS only over TLS, 30 days
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			// tokens and account data must not be cached by intermediaries
			w.Header().Set("Cache-Control", "no-store")
			next.ServeHTTP(w, r)
		})
	}
}

// Deps are the collaborators the admin routes need.
type Deps struct {
	DB        *sqlx.DB // optional; health pings it when set
	Employees *employee.EmployeeService
	Auth      auth.Config
	Issuer    *auth.Issuer
}

// RegisterRoutes mounts the admin API on an http.ServeMux. Everything under
// /admin/ except login requires a valid admin token.
func RegisterRoutes(logger *zap.SugaredLogger, deps Deps) http.Handler {
	if deps.Issuer == nil {
		deps.Issuer = auth.NewIssuer()
	}
	emp := employee.NewHandler(deps.Employees, deps.Issuer, deps.Auth, logger)

	protected := http.NewServeMux()
	protected.HandleFunc("POST /admin/employee/logout", emp.Logout)
	protected.HandleFunc("POST /admin/employee", emp.Create)
	protected.HandleFunc("GET /admin/employee/page", emp.Page)
	protected.HandleFunc("POST /admin/employee/status/{status}", emp.SetStatus)
	protected.HandleFunc("GET /admin/employee/{id}", emp.Get)
	protected.HandleFunc("PUT /admin/employee", emp.Update)
	protected.HandleFunc("PUT /admin/employee/editPassword", emp.EditPassword)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin-api/health", health(deps.DB))
	mux.HandleFunc("POST /admin/employee/login", emp.Login)
	mux.Handle("/admin/", auth.Middleware(deps.Auth, deps.Issuer, logger)(protected))

	return RequestIDMiddleware()(LoggingMiddleware(logger)(SecurityHeadersMiddleware()(mux)))
}

func health(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				result.Write(w, http.StatusServiceUnavailable, result.Error("database unavailable"))
				return
			}
		}
		result.Write(w, http.StatusOK, result.SuccessWith("ok"))
	}
}
