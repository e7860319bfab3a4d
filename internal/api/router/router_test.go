package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seaconnector/internal/api/health"
	"seaconnector/internal/api/reservation"
	"seaconnector/internal/api/user"
	"seaconnector/internal/domain"
	apperror "seaconnector/internal/errors"
	"seaconnector/internal/pkg/logger"
	"seaconnector/internal/pkg/metrics"
	"seaconnector/internal/pkg/middleware"
	"seaconnector/internal/pkg/token"
	"seaconnector/internal/service/reservationservice"
	"seaconnector/internal/service/userservice"
)

// memUserRepo guarda usuários em memória com a mesma semântica de erros do repositório real.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func (m *memUserRepo) Save(_ context.Context, u domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return domain.User{}, apperror.NewDuplicateEmailError(u.Email)
		}
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = u
	return u, nil
}

func (m *memUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, apperror.NewNotFoundError("Usuário não encontrado.")
}

func (m *memUserRepo) FindByID(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, apperror.NewNotFoundError("Usuário não encontrado.")
	}
	return u, nil
}

type memReservationRepo struct {
	mu   sync.Mutex
	list []domain.Reservation
}

func (m *memReservationRepo) Save(_ context.Context, r domain.Reservation) (domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = append(m.list, r)
	return r, nil
}

func (m *memReservationRepo) FindByUser(_ context.Context, userID string) ([]domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Reservation, 0)
	for i := len(m.list) - 1; i >= 0; i-- {
		if m.list[i].UserID == userID {
			out = append(out, m.list[i])
		}
	}
	return out, nil
}

type fixedClock struct{}

func (fixedClock) Now(context.Context) (time.Time, error) {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil
}

type testServer struct {
	handler  http.Handler
	tokenSvc *token.Service
}

func newTestServer(t *testing.T, limit int, staticDir string) testServer {
	t.Helper()
	log := logger.NewNopLogger()
	rec := metrics.Nop{}

	tokenSvc, err := token.NewService("segredo-de-teste", time.Hour)
	require.NoError(t, err)

	userSvc, err := userservice.NewService(&memUserRepo{users: map[string]domain.User{}}, tokenSvc, log, rec)
	require.NoError(t, err)
	resSvc := reservationservice.NewService(&memReservationRepo{}, log, rec)

	limiter := middleware.NewLocalLimiter(limit, time.Minute)
	t.Cleanup(limiter.Stop)

	reg := prometheus.NewRegistry()

	h := NewRouter(Deps{
		UserHandler:        user.NewHandler(userSvc, log),
		ReservationHandler: reservation.NewHandler(resSvc, log),
		HealthHandler:      health.NewHandler(fixedClock{}, log),
		TokenService:       tokenSvc,
		AuthLimiter:        limiter,
		RateLimitEvery:     time.Minute,
		Logger:             log,
		Metrics:            metrics.NewCollector(reg),
		MetricsHandler:     metrics.Handler(reg),
		CORSAllowedOrigin:  "*",
		RequestTimeout:     5 * time.Second,
		StaticDir:          staticDir,
	})
	return testServer{handler: h, tokenSvc: tokenSvc}
}

func (s testServer) do(t *testing.T, method, path, body, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func TestScenario_RegisterLoginProfile(t *testing.T) {
	srv := newTestServer(t, 20, "")

	w := srv.do(t, http.MethodPost, "/api/register", `{"name":"Ana","email":"ana@x.com","password":"pw123"}`, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = srv.do(t, http.MethodPost, "/api/login", `{"email":"ana@x.com","password":"pw123"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login user.LoginResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&login))
	require.NotEmpty(t, login.Token)

	claims, err := srv.tokenSvc.ValidateToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, login.User.ID, claims.UserID)

	w = srv.do(t, http.MethodGet, "/api/profile", "", "Bearer "+login.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var profile user.ProfileResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&profile))
	assert.Equal(t, "ana@x.com", profile.User.Email)

	w = srv.do(t, http.MethodGet, "/api/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = srv.do(t, http.MethodGet, "/api/profile", "", "Bearer garbage")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestScenario_DuplicateAndWrongPassword(t *testing.T) {
	srv := newTestServer(t, 20, "")

	body := `{"name":"Ana","email":"ana@x.com","password":"pw123"}`
	require.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/api/register", body, "").Code)

	w := srv.do(t, http.MethodPost, "/api/register", body, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "DUPLICATE_EMAIL")

	wrong := srv.do(t, http.MethodPost, "/api/login", `{"email":"ana@x.com","password":"nope"}`, "")
	unknown := srv.do(t, http.MethodPost, "/api/login", `{"email":"ghost@x.com","password":"pw123"}`, "")
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, wrong.Code, unknown.Code)
	assert.JSONEq(t, wrong.Body.String(), unknown.Body.String())
}

func TestScenario_RegisterRejectsOversizedInput(t *testing.T) {
	srv := newTestServer(t, 20, "")

	long := strings.Repeat("a", 73)
	w := srv.do(t, http.MethodPost, "/api/register", `{"name":"Ana","email":"ana@x.com","password":"`+long+`"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")

	w = srv.do(t, http.MethodPost, "/api/login", `{"email":"ana@x.com","password":"`+long+`"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	huge := `{"name":"` + strings.Repeat("a", 2<<20) + `","email":"ana@x.com","password":"pw"}`
	w = srv.do(t, http.MethodPost, "/api/register", huge, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestScenario_Reservations(t *testing.T) {
	srv := newTestServer(t, 20, "")

	require.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/api/register", `{"name":"Ana","email":"ana@x.com","password":"pw123"}`, "").Code)
	w := srv.do(t, http.MethodPost, "/api/login", `{"email":"ana@x.com","password":"pw123"}`, "")
	var login user.LoginResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&login))
	bearer := "Bearer " + login.Token

	w = srv.do(t, http.MethodPost, "/api/reservations", `{"experience_id":7,"reservation_date":"2025-09-10"}`, bearer)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"pending"`)

	w = srv.do(t, http.MethodPost, "/api/reservations", `{"experience_id":"7"}`, bearer)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodPost, "/api/reservations", `{"experience_id":"7","reservation_date":"2025-09-10"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = srv.do(t, http.MethodGet, "/api/reservations", "", bearer)
	require.Equal(t, http.StatusOK, w.Code)
	var list reservation.ListResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	require.Len(t, list.Reservations, 1)
	assert.Equal(t, login.User.ID, list.Reservations[0].UserID)
}

func TestLoginRateLimited(t *testing.T) {
	srv := newTestServer(t, 2, "")

	for i := 0; i < 2; i++ {
		w := srv.do(t, http.MethodPost, "/api/login", `{"email":"ghost@x.com","password":"pw"}`, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := srv.do(t, http.MethodPost, "/api/login", `{"email":"ghost@x.com","password":"pw"}`, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestPublicRoutes(t *testing.T) {
	srv := newTestServer(t, 20, "")

	w := srv.do(t, http.MethodGet, "/ping", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	w = srv.do(t, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"time"`)

	w = srv.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "seaconnector_http_requests_total")

	w = srv.do(t, http.MethodOptions, "/api/login", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log('sea')"), 0o644))
	require.True(t, StaticDirExists(dir))

	srv := newTestServer(t, 20, dir)

	w := srv.do(t, http.MethodGet, "/app.js", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "console.log")

	w = srv.do(t, http.MethodGet, "/missing.css", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.False(t, StaticDirExists(filepath.Join(dir, "nope")))
}
