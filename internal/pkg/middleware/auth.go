package middleware

import (
	"context"
	"net/http"
	"strings"

	"seaconnector/internal/domain"
	apperror "seaconnector/internal/errors"
	"seaconnector/internal/pkg/logger"
	"seaconnector/internal/pkg/metrics"
	"seaconnector/internal/pkg/token"
)

// ContextKey é o tipo das chaves que este pacote grava no contexto.
// Um tipo próprio evita colisão com chaves string de outros pacotes.
type ContextKey int

const (
	UserClaimsKey ContextKey = iota
	requestInfoKey
)

// UserClaims representa os dados do usuário extraídos do token JWT,
// que serão anexados ao contexto.
type UserClaims struct {
	UserID string
	Role   domain.UserRole
	Email  string
}

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

const bearerScheme = "bearer"

// NewAuthMiddleware cria o middleware que valida o JWT do header Authorization
// e anexa as claims (UserID, Role e Email) ao contexto da requisição.
// Header ausente ou sem o esquema Bearer: 401. Token que não verifica: 403.
func NewAuthMiddleware(tokenSvc TokenService, log logger.Logger, rec metrics.Recorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				rec.RecordTokenRejected("missing")
				writeError(w, apperror.NewMissingTokenError())
				return
			}

			claims, err := tokenSvc.ValidateToken(tokenString)
			if err != nil {
				rec.RecordTokenRejected("invalid")
				log.Debug("Token rejeitado", map[string]interface{}{
					"path":   r.URL.Path,
					"reason": err.Error(),
				})
				writeError(w, apperror.NewInvalidTokenError(err))
				return
			}

			userClaims := UserClaims{
				UserID: claims.UserID,
				Role:   domain.UserRole(claims.Role),
				Email:  claims.Email,
			}

			if info, ok := r.Context().Value(requestInfoKey).(*requestInfo); ok {
				info.userID = userClaims.UserID
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, userClaims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extrai o token de "Bearer <token>". O esquema não diferencia maiúsculas.
func bearerToken(header string) (string, bool) {
	scheme, value, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// GetUserClaimsFromContext é uma função utilitária para extrair as claims no handler.
func GetUserClaimsFromContext(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(UserClaims)
	return claims, ok
}

// WithUserClaims anexa claims ao contexto sem passar pelo middleware.
func WithUserClaims(ctx context.Context, claims UserClaims) context.Context {
	return context.WithValue(ctx, UserClaimsKey, claims)
}
