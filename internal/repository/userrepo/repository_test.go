package userrepo

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seaconnector/internal/domain"
	apperror "seaconnector/internal/errors"
	"seaconnector/internal/pkg/cache"
	"seaconnector/internal/pkg/logger"
)

var userColumns = []string{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}

// memCache é um cache.Client em memória para os testes de cache-aside.
type memCache struct {
	data   map[string]string
	getErr error
}

func newMemCache() *memCache { return &memCache{data: map[string]string{}} }

func (m *memCache) Get(_ context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return v, nil
}

func (m *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memCache) Incr(context.Context, string, time.Duration) (int64, error) { return 0, nil }
func (m *memCache) Close() error                                               { return nil }

func newRepo(t *testing.T, c cache.Client) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepository(db, c, time.Second, time.Minute, logger.NewNopLogger()), mock
}

func TestSave_Success(t *testing.T) {
	repo, mock := newRepo(t, nil)

	user := domain.User{ID: "u-1", Name: "Ana", Email: "ana@x.com", PasswordHash: "$2a$10$hash", Role: domain.RoleUser}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("u-1", "Ana", "ana@x.com", "$2a$10$hash", "user", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	saved, err := repo.Save(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, "u-1", saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Equal(t, saved.CreatedAt, saved.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_DuplicateEmail(t *testing.T) {
	repo, mock := newRepo(t, nil)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := repo.Save(context.Background(), domain.User{Name: "Ana", Email: "ana@x.com"})

	var dup *apperror.DuplicateEmailError
	assert.True(t, errors.As(err, &dup))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_DuplicateEmailKeepsEmailOutOfLogs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var buf bytes.Buffer
	repo := NewUserRepository(db, nil, time.Second, time.Minute, logger.NewLoggerWithWriter("debug", &buf))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err = repo.Save(context.Background(), domain.User{ID: "u-1", Name: "Ana", Email: "ana@x.com"})
	require.Error(t, err)

	assert.Contains(t, buf.String(), "u-1")
	assert.NotContains(t, buf.String(), "ana@x.com")
}

func TestSave_DBError(t *testing.T) {
	repo, mock := newRepo(t, nil)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.Save(context.Background(), domain.User{Email: "ana@x.com"})

	var internal *apperror.InternalError
	assert.True(t, errors.As(err, &internal))
}

func TestFindByEmail(t *testing.T) {
	now := time.Now().UTC()

	t.Run("encontrado", func(t *testing.T) {
		repo, mock := newRepo(t, nil)
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
			WithArgs("ana@x.com").
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow("u-1", "Ana", "ana@x.com", "$2a$10$hash", "user", now, now))

		user, err := repo.FindByEmail(context.Background(), "ana@x.com")

		require.NoError(t, err)
		assert.Equal(t, "u-1", user.ID)
		assert.Equal(t, "$2a$10$hash", user.PasswordHash)
		assert.Equal(t, domain.RoleUser, user.Role)
	})

	t.Run("não encontrado", func(t *testing.T) {
		repo, mock := newRepo(t, nil)
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
			WithArgs("nobody@x.com").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByEmail(context.Background(), "nobody@x.com")

		var nf *apperror.NotFoundError
		assert.True(t, errors.As(err, &nf))
	})
}

func TestFindByID_CacheAside(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	c := newMemCache()
	repo, mock := newRepo(t, c)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("u-1", "Ana", "ana@x.com", "$2a$10$hash", "user", now, now))

	first, err := repo.FindByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", first.Name)

	cached, ok := c.data["user:u-1"]
	require.True(t, ok)
	assert.NotContains(t, cached, "$2a$10$hash")

	// Segunda chamada vem do cache: nenhuma query nova é esperada.
	second, err := repo.FindByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", second.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_CacheFailureFallsBackToDB(t *testing.T) {
	now := time.Now().UTC()
	c := newMemCache()
	c.getErr = errors.New("redis: connection refused")
	repo, mock := newRepo(t, c)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("u-1", "Ana", "ana@x.com", "hash", "user", now, now))

	user, err := repo.FindByID(context.Background(), "u-1")

	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_CorruptCacheEntry(t *testing.T) {
	now := time.Now().UTC()
	c := newMemCache()
	c.data["user:u-1"] = "{not json"
	repo, mock := newRepo(t, c)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("u-1", "Ana", "ana@x.com", "hash", "user", now, now))

	user, err := repo.FindByID(context.Background(), "u-1")
	require.NoError(t, err)

	var refreshed domain.User
	require.NoError(t, json.Unmarshal([]byte(c.data["user:u-1"]), &refreshed))
	assert.Equal(t, user.ID, refreshed.ID)
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock := newRepo(t, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "ghost")

	status, _, _ := apperror.MapToHTTPStatus(err)
	assert.Equal(t, 404, status)
}
