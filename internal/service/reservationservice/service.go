package reservationservice

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"seaconnector/internal/domain"
	apperror "seaconnector/internal/errors"
	"seaconnector/internal/pkg/logger"
	"seaconnector/internal/pkg/metrics"
)

// ReservationService cria e lista reservas do usuário autenticado.
type ReservationService struct {
	Repo    domain.ReservationRepository
	logger  logger.Logger
	metrics metrics.Recorder
	now     func() time.Time
}

func NewService(repo domain.ReservationRepository, logger logger.Logger, rec metrics.Recorder) *ReservationService {
	return &ReservationService{
		Repo:    repo,
		logger:  logger,
		metrics: rec,
		now:     time.Now,
	}
}

// Create valida o pedido e grava a reserva com status pending.
func (s *ReservationService) Create(ctx context.Context, userID string, req domain.ReservationRequest) (domain.Reservation, error) {
	if userID == "" {
		return domain.Reservation{}, apperror.NewMissingTokenError()
	}

	experienceID := strings.TrimSpace(string(req.ExperienceID))
	rawDate := strings.TrimSpace(req.ReservationDate)
	if experienceID == "" || rawDate == "" {
		return domain.Reservation{}, apperror.NewValidationError("experience_id e reservation_date são obrigatórios.")
	}

	date, err := domain.ParseReservationDate(rawDate)
	if err != nil {
		return domain.Reservation{}, apperror.NewValidationError("reservation_date deve estar no formato YYYY-MM-DD.")
	}

	reservation := domain.Reservation{
		ID:              uuid.NewString(),
		UserID:          userID,
		ExperienceID:    experienceID,
		ReservationDate: date,
		Status:          domain.StatusPending,
		CreatedAt:       s.now().UTC(),
	}

	saved, err := s.Repo.Save(ctx, reservation)
	if err != nil {
		return domain.Reservation{}, err
	}

	s.metrics.RecordReservationCreated()
	s.logger.Info("Reserva criada.", map[string]interface{}{
		"reservation_id": saved.ID,
		"user_id":        userID,
		"experience_id":  experienceID,
	})

	return saved, nil
}

// ListByUser devolve as reservas do usuário, mais recentes primeiro.
func (s *ReservationService) ListByUser(ctx context.Context, userID string) ([]domain.Reservation, error) {
	if userID == "" {
		return nil, apperror.NewMissingTokenError()
	}
	return s.Repo.FindByUser(ctx, userID)
}
