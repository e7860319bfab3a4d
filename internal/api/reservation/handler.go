package reservation

import (
	"context"
	"net/http"

	"seaconnector/internal/api/response"
	"seaconnector/internal/domain"
	apperror "seaconnector/internal/errors"
	"seaconnector/internal/pkg/logger"
	"seaconnector/internal/pkg/middleware"
)

// ReservationService define o contrato usado pelos handlers de reserva.
type ReservationService interface {
	Create(ctx context.Context, userID string, req domain.ReservationRequest) (domain.Reservation, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Reservation, error)
}

// CreateResponse é o corpo de sucesso da criação.
type CreateResponse struct {
	Message     string             `json:"message" example:"Reserva criada com sucesso"`
	Reservation domain.Reservation `json:"reservation"`
}

// ListResponse é o corpo de sucesso da listagem.
type ListResponse struct {
	Message      string               `json:"message" example:"Reservas do usuário"`
	Reservations []domain.Reservation `json:"reservations"`
}

type Handler struct {
	Service ReservationService
	Logger  logger.Logger
}

func NewHandler(svc ReservationService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CreateReservationHandler lida com POST /api/reservations.
// @Summary Cria uma reserva
// @Description Cria uma reserva com status "pending" para o usuário do token. experience_id aceita string ou número.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reservation body domain.ReservationRequest true "Experiência e data (YYYY-MM-DD)"
// @Success 200 {object} CreateResponse
// @Failure 400 {object} domain.ErrorResponse "Campos ausentes ou data inválida"
// @Failure 401 {object} domain.ErrorResponse "Token ausente"
// @Failure 403 {object} domain.ErrorResponse "Token inválido ou expirado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /api/reservations [post]
func (h *Handler) CreateReservationHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, h.Logger, apperror.NewMissingTokenError())
		return
	}

	var req domain.ReservationRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.Create(r.Context(), claims.UserID, req)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	response.JSON(w, h.Logger, http.StatusOK, CreateResponse{
		Message:     "Reserva criada com sucesso",
		Reservation: created,
	})
}

// ListReservationsHandler lida com GET /api/reservations.
// @Summary Lista as reservas do usuário
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ListResponse
// @Failure 401 {object} domain.ErrorResponse "Token ausente"
// @Failure 403 {object} domain.ErrorResponse "Token inválido ou expirado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /api/reservations [get]
func (h *Handler) ListReservationsHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, h.Logger, apperror.NewMissingTokenError())
		return
	}

	list, err := h.Service.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	response.JSON(w, h.Logger, http.StatusOK, ListResponse{
		Message:      "Reservas do usuário",
		Reservations: list,
	})
}
