package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// ReservationStatus é o estado de uma reserva.
type ReservationStatus string

// StatusPending é o estado de toda reserva recém-criada.
const StatusPending ReservationStatus = "pending"

// ReservationDateLayout é o formato de data aceito e devolvido pela API.
const ReservationDateLayout = "2006-01-02"

// Reservation representa uma reserva de experiência feita por um usuário.
type Reservation struct {
	ID              string            `json:"id"`
	UserID          string            `json:"user_id"`
	ExperienceID    string            `json:"experience_id"`
	ReservationDate time.Time         `json:"-"`
	Status          ReservationStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
}

// MarshalJSON serializa a data da reserva sem horário.
func (r Reservation) MarshalJSON() ([]byte, error) {
	type alias Reservation
	return json.Marshal(struct {
		alias
		ReservationDate string `json:"reservation_date"`
	}{
		alias:           alias(r),
		ReservationDate: r.ReservationDate.Format(ReservationDateLayout),
	})
}

// ReservationRequest é o payload de criação de reserva.
type ReservationRequest struct {
	ExperienceID    ExperienceRef `json:"experience_id"`
	ReservationDate string        `json:"reservation_date"`
}

// ExperienceRef aceita o identificador da experiência tanto como string
// quanto como número JSON.
type ExperienceRef string

// UnmarshalJSON implementa json.Unmarshaler.
func (e *ExperienceRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*e = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = ExperienceRef(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("experience_id deve ser string ou número: %w", err)
	}
	*e = ExperienceRef(n.String())
	return nil
}

// ParseReservationDate aceita "YYYY-MM-DD" ou RFC 3339 e devolve a data em UTC
// truncada para o dia.
func ParseReservationDate(value string) (time.Time, error) {
	if t, err := time.Parse(ReservationDateLayout, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// ReservationRepository é o contrato da persistência de reservas.
type ReservationRepository interface {
	Save(ctx context.Context, reservation Reservation) (Reservation, error)
	FindByUser(ctx context.Context, userID string) ([]Reservation, error)
}
