package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer identifica os tokens emitidos por este backend.
const Issuer = "SeaConnector-API"

// ErrEmptySecret é retornado quando o serviço é construído sem segredo.
var ErrEmptySecret = errors.New("o segredo de assinatura não pode ser vazio")

// TokenService define o contrato para manipulação de JWTs.
type TokenService interface {
	GenerateToken(userID, userRole, email string) (string, error)
	ValidateToken(tokenString string) (*CustomClaims, error)
}

// CustomClaims define as informações específicas que queremos armazenar no JWT.
// É obrigatório incorporar jwt.RegisteredClaims.
type CustomClaims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Service implementa a interface TokenService.
type Service struct {
	secretKey []byte
	expiry    time.Duration
	now       func() time.Time
}

// Option ajusta o Service na construção.
type Option func(*Service)

// WithClock substitui o relógio usado para emitir e validar tokens.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService cria uma nova instância do serviço Token.
// A expiração precisa ser positiva: tokens sem validade não são emitidos.
func NewService(secretKey string, expiry time.Duration, opts ...Option) (*Service, error) {
	if secretKey == "" {
		return nil, ErrEmptySecret
	}
	if expiry <= 0 {
		return nil, fmt.Errorf("expiração do token deve ser positiva, recebido %s", expiry)
	}

	s := &Service{
		secretKey: []byte(secretKey),
		expiry:    expiry,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GenerateToken cria um novo JWT assinado contendo o ID, a Role e o email do usuário.
func (s *Service) GenerateToken(userID, userRole, email string) (string, error) {
	now := s.now()
	claims := CustomClaims{
		UserID: userID,
		Role:   userRole,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("falha ao assinar o token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken valida o token string e retorna as claims se for válido.
// Falha para assinatura divergente, algoritmo diferente de HS256, emissor
// desconhecido, ausência de exp ou token expirado.
func (s *Service) ValidateToken(tokenString string) (*CustomClaims, error) {
	claims := &CustomClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return s.secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(Issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("token inválido: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("token não é válido")
	}

	if claims.UserID == "" {
		return nil, errors.New("token sem identificador de usuário")
	}

	return claims, nil
}
