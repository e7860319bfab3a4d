package user

import (
	"context"
	"net/http"

	"seaconnector/internal/api/response"
	"seaconnector/internal/domain"
	apperror "seaconnector/internal/errors"
	"seaconnector/internal/pkg/logger"
	"seaconnector/internal/pkg/middleware"
)

// UserService define o contrato para as operações de registro, login e perfil.
type UserService interface {
	Register(ctx context.Context, registration domain.UserRegistration) (domain.UserSummary, error)
	Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResult, error)
	GetProfile(ctx context.Context, userID string) (domain.UserSummary, error)
}

// RegisterResponse é o corpo de sucesso do registro.
type RegisterResponse struct {
	Message string             `json:"message" example:"Usuário registrado com sucesso"`
	User    domain.UserSummary `json:"user"`
}

// LoginResponse é o corpo de sucesso do login.
type LoginResponse struct {
	Message string             `json:"message" example:"Login realizado com sucesso"`
	Token   string             `json:"token"`
	User    domain.UserSummary `json:"user"`
}

// ProfileResponse é o corpo de sucesso do perfil.
type ProfileResponse struct {
	Message string             `json:"message" example:"Perfil do usuário"`
	User    domain.UserSummary `json:"user"`
}

// Handler agrupa todos os métodos de Handler do usuário.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// RegisterUserHandler lida com a requisição POST /api/register.
// @Summary Registra um novo usuário
// @Description Cria um novo usuário com role "user", hasheia a senha e devolve nome e email.
// @Tags users
// @Accept json
// @Produce json
// @Param registration body domain.UserRegistration true "Nome, email e senha"
// @Success 201 {object} RegisterResponse "Usuário criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Campos ausentes ou email já registrado"
// @Failure 429 {object} domain.ErrorResponse "Muitas tentativas"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /api/register [post]
func (h *Handler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var reg domain.UserRegistration
	if err := response.Decode(r, &reg); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	summary, err := h.Service.Register(r.Context(), reg)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	response.JSON(w, h.Logger, http.StatusCreated, RegisterResponse{
		Message: "Usuário registrado com sucesso",
		User:    summary,
	})
}

// LoginUserHandler lida com a requisição POST /api/login.
// @Summary Autentica um usuário e retorna um JWT
// @Description Verifica email e senha. Email desconhecido e senha errada recebem a mesma resposta 401.
// @Tags users
// @Accept json
// @Produce json
// @Param credentials body domain.LoginRequest true "Email e senha"
// @Success 200 {object} LoginResponse "Token JWT e dados públicos do usuário"
// @Failure 400 {object} domain.ErrorResponse "Campos ausentes"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Failure 429 {object} domain.ErrorResponse "Muitas tentativas"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /api/login [post]
func (h *Handler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	result, err := h.Service.Login(r.Context(), req)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	response.JSON(w, h.Logger, http.StatusOK, LoginResponse{
		Message: "Login realizado com sucesso",
		Token:   result.Token,
		User:    result.User,
	})
}

// ProfileHandler lida com a requisição GET /api/profile.
// @Summary Perfil do usuário autenticado
// @Description Busca o usuário identificado pelo token Bearer.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} domain.ErrorResponse "Token ausente"
// @Failure 403 {object} domain.ErrorResponse "Token inválido ou expirado"
// @Failure 404 {object} domain.ErrorResponse "Usuário não encontrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /api/profile [get]
func (h *Handler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, h.Logger, apperror.NewMissingTokenError())
		return
	}

	profile, err := h.Service.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	response.JSON(w, h.Logger, http.StatusOK, ProfileResponse{
		Message: "Perfil do usuário",
		User:    profile,
	})
}
