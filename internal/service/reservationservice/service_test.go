package reservationservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"seaconnector/internal/domain"
	apperror "seaconnector/internal/errors"
	"seaconnector/internal/pkg/logger"
	"seaconnector/internal/pkg/metrics"
)

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Save(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindByUser(ctx context.Context, userID string) ([]domain.Reservation, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func newService(repo *MockReservationRepository) *ReservationService {
	svc := NewService(repo, logger.NewNopLogger(), metrics.Nop{})
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC) }
	return svc
}

func TestCreate_Success(t *testing.T) {
	repo := new(MockReservationRepository)
	svc := newService(repo)

	var captured domain.Reservation
	repo.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(domain.Reservation)
	}).Return(domain.Reservation{ID: "r-1", Status: domain.StatusPending}, nil)

	res, err := svc.Create(context.Background(), "u-1", domain.ReservationRequest{
		ExperienceID:    "42",
		ReservationDate: "2025-07-14",
	})

	require.NoError(t, err)
	assert.Equal(t, "r-1", res.ID)
	assert.Equal(t, "u-1", captured.UserID)
	assert.Equal(t, "42", captured.ExperienceID)
	assert.Equal(t, domain.StatusPending, captured.Status)
	assert.NotEmpty(t, captured.ID)
	assert.Equal(t, time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC), captured.ReservationDate)
	assert.Equal(t, time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC), captured.CreatedAt)
}

func TestCreate_AcceptsRFC3339Date(t *testing.T) {
	repo := new(MockReservationRepository)
	svc := newService(repo)

	var captured domain.Reservation
	repo.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(domain.Reservation)
	}).Return(domain.Reservation{ID: "r-1"}, nil)

	_, err := svc.Create(context.Background(), "u-1", domain.ReservationRequest{
		ExperienceID:    "exp-7",
		ReservationDate: "2025-07-14T15:04:05Z",
	})

	require.NoError(t, err)
	assert.Equal(t, "2025-07-14", captured.ReservationDate.Format(domain.ReservationDateLayout))
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  domain.ReservationRequest
	}{
		{"sem experiência", domain.ReservationRequest{ReservationDate: "2025-07-14"}},
		{"sem data", domain.ReservationRequest{ExperienceID: "42"}},
		{"data inválida", domain.ReservationRequest{ExperienceID: "42", ReservationDate: "14/07/2025"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockReservationRepository)
			svc := newService(repo)

			_, err := svc.Create(context.Background(), "u-1", tt.req)

			var validation *apperror.ValidationError
			assert.True(t, errors.As(err, &validation))
			repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestCreate_RepositoryError(t *testing.T) {
	repo := new(MockReservationRepository)
	svc := newService(repo)

	repo.On("Save", mock.Anything, mock.Anything).Return(domain.Reservation{}, apperror.NewDBError("insert", errors.New("boom")))

	_, err := svc.Create(context.Background(), "u-1", domain.ReservationRequest{ExperienceID: "42", ReservationDate: "2025-07-14"})

	status, _, _ := apperror.MapToHTTPStatus(err)
	assert.Equal(t, 500, status)
}

func TestListByUser(t *testing.T) {
	repo := new(MockReservationRepository)
	svc := newService(repo)

	expected := []domain.Reservation{{ID: "r-2"}, {ID: "r-1"}}
	repo.On("FindByUser", mock.Anything, "u-1").Return(expected, nil)

	list, err := svc.ListByUser(context.Background(), "u-1")

	require.NoError(t, err)
	assert.Equal(t, expected, list)
	repo.AssertExpectations(t)
}
