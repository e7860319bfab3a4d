package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"seaconnector/internal/pkg/logger"
	"seaconnector/internal/pkg/metrics"
)

// statusRecorder envolve o http.ResponseWriter e guarda o status escrito.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

// Write assume 200 quando WriteHeader ainda não foi chamado.
func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// requestInfo é preenchido pelo middleware de autenticação, que roda depois
// deste, para que o log da requisição saiba o usuário.
type requestInfo struct {
	userID string
}

// NewLoggingMiddleware registra cada requisição (method, path, status,
// duration_ms, user_id quando autenticado) e alimenta as métricas HTTP
// usando o padrão de rota do chi como rótulo.
func NewLoggingMiddleware(log logger.Logger, rec metrics.Recorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			info := &requestInfo{}
			r = r.WithContext(context.WithValue(r.Context(), requestInfoKey, info))

			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(sr, r)

			duration := time.Since(start)

			fields := map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      sr.statusCode,
				"duration_ms": float64(duration.Nanoseconds()) / float64(time.Millisecond),
			}
			if info.userID != "" {
				fields["user_id"] = info.userID
			}
			if reqID := chimw.GetReqID(r.Context()); reqID != "" {
				fields["request_id"] = reqID
			}

			switch {
			case sr.statusCode >= 500:
				log.Warn("http_request", fields)
			case sr.statusCode >= 400:
				log.Info("http_request", fields)
			default:
				log.Debug("http_request", fields)
			}

			rec.ObserveHTTPRequest(r.Method, routePattern(r), sr.statusCode, duration)
		})
	}
}

// routePattern devolve o padrão registrado no chi ("/api/profile") para manter
// a cardinalidade das métricas baixa; fora do chi usa "unmatched".
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
