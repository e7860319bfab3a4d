package reservationrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"seaconnector/internal/domain"
	apperror "seaconnector/internal/errors"
	"seaconnector/internal/pkg/logger"
)

// ReservationRepository implementa domain.ReservationRepository sobre PostgreSQL.
type ReservationRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewReservationRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *ReservationRepository {
	return &ReservationRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Save insere a reserva. Não há checagem de disponibilidade nem de conflito.
func (r *ReservationRepository) Save(ctx context.Context, reservation domain.Reservation) (domain.Reservation, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if reservation.ID == "" {
		reservation.ID = uuid.NewString()
	}
	if reservation.CreatedAt.IsZero() {
		reservation.CreatedAt = time.Now().UTC()
	}

	const insertSQL = `INSERT INTO reservations (id, user_id, experience_id, reservation_date, status, created_at)
                       VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.DB.ExecContext(ctxTimeout, insertSQL,
		reservation.ID,
		reservation.UserID,
		reservation.ExperienceID,
		reservation.ReservationDate,
		reservation.Status,
		reservation.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir reserva no DB.", err)
		return domain.Reservation{}, apperror.NewDBError("failed to insert reservation", err)
	}

	r.logger.Info("Reserva salva.", map[string]interface{}{
		"reservation_id": reservation.ID,
		"user_id":        reservation.UserID,
	})
	return reservation, nil
}

// FindByUser lista as reservas do usuário, mais recentes primeiro.
func (r *ReservationRepository) FindByUser(ctx context.Context, userID string) ([]domain.Reservation, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT id, user_id, experience_id, reservation_date, status, created_at
                   FROM reservations
                   WHERE user_id = $1
                   ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctxTimeout, query, userID)
	if err != nil {
		r.logger.Error("Falha ao listar reservas no DB.", err)
		return nil, apperror.NewDBError("failed to list reservations", err)
	}
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(
			&res.ID,
			&res.UserID,
			&res.ExperienceID,
			&res.ReservationDate,
			&res.Status,
			&res.CreatedAt,
		); err != nil {
			return nil, apperror.NewDBError("failed to scan reservation", err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed iterating reservations", err)
	}

	return reservations, nil
}
