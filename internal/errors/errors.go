package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros customizados do SeaConnector.
// Ela permite que o código externo (Handler) acesse a Categoria e a Mensagem do erro.
type AppError interface {
	Error() string         // Implementa a interface error padrão do Go
	Category() string      // Categoria do erro (e.g., "VALIDATION_ERROR", "INVALID_TOKEN")
	HTTPStatus() int       // Código HTTP sugerido para o Handler
	PublicMessage() string // Mensagem segura para devolver ao cliente
	Unwrap() error         // Permite encapsular erros subjacentes (original error)
}

// --- Tipos de Erro Específicos (Erros de Domínio) ---

// ValidationError representa falhas de validação de dados de entrada.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string         { return fmt.Sprintf("Erro de Validação: %s", e.Msg) }
func (e *ValidationError) Category() string      { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int       { return http.StatusBadRequest }
func (e *ValidationError) PublicMessage() string { return e.Msg }
func (e *ValidationError) Unwrap() error         { return nil }

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// DuplicateEmailError indica que o email já está cadastrado.
type DuplicateEmailError struct {
	Email string
}

func (e *DuplicateEmailError) Error() string {
	return fmt.Sprintf("Email duplicado: %s", e.Email)
}
func (e *DuplicateEmailError) Category() string      { return "DUPLICATE_EMAIL" }
func (e *DuplicateEmailError) HTTPStatus() int       { return http.StatusBadRequest }
func (e *DuplicateEmailError) PublicMessage() string { return "O email já está registrado." }
func (e *DuplicateEmailError) Unwrap() error         { return nil }

// NewDuplicateEmailError cria um erro de email já registrado.
func NewDuplicateEmailError(email string) AppError {
	return &DuplicateEmailError{Email: email}
}

// InvalidCredentialsError cobre tanto email inexistente quanto senha errada.
// A resposta é idêntica nos dois casos.
type InvalidCredentialsError struct{}

func (e *InvalidCredentialsError) Error() string         { return "Credenciais inválidas" }
func (e *InvalidCredentialsError) Category() string      { return "INVALID_CREDENTIALS" }
func (e *InvalidCredentialsError) HTTPStatus() int       { return http.StatusUnauthorized }
func (e *InvalidCredentialsError) PublicMessage() string { return "Credenciais inválidas." }
func (e *InvalidCredentialsError) Unwrap() error         { return nil }

// NewInvalidCredentialsError cria o erro uniforme de login.
func NewInvalidCredentialsError() AppError {
	return &InvalidCredentialsError{}
}

// MissingTokenError representa a ausência do header Authorization: Bearer.
type MissingTokenError struct{}

func (e *MissingTokenError) Error() string         { return "Token de autorização ausente" }
func (e *MissingTokenError) Category() string      { return "MISSING_TOKEN" }
func (e *MissingTokenError) HTTPStatus() int       { return http.StatusUnauthorized }
func (e *MissingTokenError) PublicMessage() string { return "Token de autorização ausente." }
func (e *MissingTokenError) Unwrap() error         { return nil }

// NewMissingTokenError cria um erro de token ausente.
func NewMissingTokenError() AppError {
	return &MissingTokenError{}
}

// InvalidTokenError representa qualquer falha de verificação do token
// (assinatura, formato, expiração).
type InvalidTokenError struct {
	Err error
}

func (e *InvalidTokenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Token inválido: %s", e.Err.Error())
	}
	return "Token inválido"
}
func (e *InvalidTokenError) Category() string      { return "INVALID_TOKEN" }
func (e *InvalidTokenError) HTTPStatus() int       { return http.StatusForbidden }
func (e *InvalidTokenError) PublicMessage() string { return "Token inválido ou expirado." }
func (e *InvalidTokenError) Unwrap() error         { return e.Err }

// NewInvalidTokenError cria um erro de token inválido encapsulando a causa.
func NewInvalidTokenError(err error) AppError {
	return &InvalidTokenError{Err: err}
}

// NotFoundError representa a ausência de um recurso solicitado.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string         { return fmt.Sprintf("Recurso não encontrado: %s", e.Msg) }
func (e *NotFoundError) Category() string      { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int       { return http.StatusNotFound }
func (e *NotFoundError) PublicMessage() string { return e.Msg }
func (e *NotFoundError) Unwrap() error         { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// RateLimitError indica que o cliente excedeu o limite de tentativas da janela.
type RateLimitError struct{}

func (e *RateLimitError) Error() string    { return "Limite de requisições excedido" }
func (e *RateLimitError) Category() string { return "RATE_LIMITED" }
func (e *RateLimitError) HTTPStatus() int  { return http.StatusTooManyRequests }
func (e *RateLimitError) PublicMessage() string {
	return "Muitas tentativas. Tente novamente mais tarde."
}
func (e *RateLimitError) Unwrap() error { return nil }

func NewRateLimitError() AppError {
	return &RateLimitError{}
}

// --- Tipos de Erro de Infraestrutura (Encapsulamento) ---

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
// A mensagem detalhada só vai para o log; o cliente recebe uma mensagem genérica.
type InternalError struct {
	Msg string
	Err error // Erro original subjacente (e.g., erro do driver SQL)
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Erro Interno: %s: %s", e.Msg, e.Err.Error())
	}
	return fmt.Sprintf("Erro Interno: %s", e.Msg)
}
func (e *InternalError) Category() string      { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int       { return http.StatusInternalServerError }
func (e *InternalError) PublicMessage() string { return "Ocorreu um erro interno no servidor." }
func (e *InternalError) Unwrap() error         { return e.Err }

// NewInternalError cria um erro de servidor (para falhas de lógica ou código não esperado).
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError é o StoreError: um InternalError específico de falhas no banco.
func NewDBError(msg string, err error) AppError {
	return NewInternalError(msg+" (DB)", err)
}

// --- Helper para o Handler (Tradução Final) ---

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP, a categoria
// e a mensagem pública. Erros encapsulados com %w também são reconhecidos.
func MapToHTTPStatus(err error) (int, string, string) {
	var appErr AppError
	if stderrors.As(err, &appErr) {
		return appErr.HTTPStatus(), appErr.Category(), appErr.PublicMessage()
	}

	// Erro não tipado: tratado como erro interno genérico.
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "Ocorreu um erro inesperado."
}
