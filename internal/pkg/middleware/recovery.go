package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	apperror "seaconnector/internal/errors"
	"seaconnector/internal/pkg/logger"
)

// NewRecoveryMiddleware transforma um panic no handler em 500 com o corpo
// padronizado, sem derrubar o processo.
func NewRecoveryMiddleware(log logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.With(map[string]interface{}{
						"method": r.Method,
						"path":   r.URL.Path,
						"stack":  string(debug.Stack()),
					}).Error("panic recuperado", fmt.Errorf("%v", rec))
					writeError(w, apperror.NewInternalError("panic", nil))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
