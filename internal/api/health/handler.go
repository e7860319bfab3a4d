package health

import (
	"context"
	"net/http"
	"time"

	"seaconnector/internal/api/response"
	"seaconnector/internal/pkg/logger"
)

// Clock é a ida e volta ao banco que comprova a conexão.
type Clock interface {
	Now(ctx context.Context) (time.Time, error)
}

// StatusResponse é o corpo da rota raiz.
type StatusResponse struct {
	Message string    `json:"message" example:"PostgreSQL conectado - SeaConnector Backend"`
	Time    time.Time `json:"time"`
}

type Handler struct {
	DB     Clock
	Logger logger.Logger
}

func NewHandler(db Clock, log logger.Logger) *Handler {
	return &Handler{DB: db, Logger: log}
}

// StatusHandler lida com GET /.
// @Summary Verifica a conexão com o banco
// @Tags health
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router / [get]
func (h *Handler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	now, err := h.DB.Now(r.Context())
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	response.JSON(w, h.Logger, http.StatusOK, StatusResponse{
		Message: "PostgreSQL conectado - SeaConnector Backend",
		Time:    now,
	})
}

// PingHandler responde "pong" sem tocar em dependências.
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}
