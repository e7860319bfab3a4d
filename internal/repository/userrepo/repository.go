package userrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"seaconnector/internal/domain"
	apperror "seaconnector/internal/errors"
	"seaconnector/internal/pkg/cache"
	"seaconnector/internal/pkg/database"
	"seaconnector/internal/pkg/logger"
)

const (
	insertUserSQL = `INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
                     VALUES ($1, $2, $3, $4, $5, $6, $7)`

	selectUserColumns = `SELECT id, name, email, password_hash, role, created_at, updated_at FROM users`

	userCacheKey = "user:%s"
)

// UserRepository implementa a interface domain.UserRepository sobre PostgreSQL,
// com cache-aside opcional (Redis) para a busca por ID.
type UserRepository struct {
	DB        *sql.DB
	Cache     cache.Client // nil desativa o cache
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewUserRepository cria uma nova instância do UserRepository, injetando DB e cache.
func NewUserRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *UserRepository {
	return &UserRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// Save insere um novo usuário no banco de dados.
// A violação da unique de email vira DuplicateEmailError, o que resolve no banco
// a corrida entre dois registros simultâneos do mesmo email.
func (r *UserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = user.CreatedAt
	}

	_, err := r.DB.ExecContext(
		ctxTimeout,
		insertUserSQL,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			r.logger.Debug("Email já registrado (unique violation).", map[string]interface{}{"user_id": user.ID})
			return domain.User{}, apperror.NewDuplicateEmailError(user.Email)
		}
		r.logger.Error("Falha ao inserir usuário no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to insert user", err)
	}

	r.logger.Info("Usuário salvo com sucesso no repositório.", map[string]interface{}{"user_id": user.ID})
	return user, nil
}

// FindByEmail busca um usuário pelo endereço de e-mail (já normalizado pelo serviço).
// Esta busca alimenta o login e nunca passa pelo cache, que não guarda o hash.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	row := r.DB.QueryRowContext(ctxTimeout, selectUserColumns+` WHERE email = $1`, email)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Debug("Usuário não encontrado no DB por email.", nil)
			return domain.User{}, apperror.NewNotFoundError("Usuário não encontrado.")
		}
		r.logger.Error("Falha ao buscar usuário por email no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to find user by email", err)
	}

	return user, nil
}

// FindByID busca um usuário pelo ID, utilizando a estratégia Cache-Aside.
// Erros de cache são apenas registrados: o banco continua sendo a fonte da verdade.
func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(userCacheKey, id)

	if r.Cache != nil {
		cached, err := r.Cache.Get(ctxTimeout, key)
		switch {
		case err == nil:
			var user domain.User
			if jsonErr := json.Unmarshal([]byte(cached), &user); jsonErr == nil {
				r.logger.Debug("Cache HIT de usuário.", map[string]interface{}{"user_id": id})
				return user, nil
			}
			r.logger.Warn("Entrada de cache corrompida, consultando o DB.", map[string]interface{}{"key": key})
		case !errors.Is(err, cache.ErrCacheMiss):
			r.logger.Warn("Falha ao ler do cache Redis.", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}

	row := r.DB.QueryRowContext(ctxTimeout, selectUserColumns+` WHERE id = $1`, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, apperror.NewNotFoundError("Usuário não encontrado.")
		}
		r.logger.Error("Falha ao buscar usuário por ID no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to find user by id", err)
	}

	if r.Cache != nil {
		// PasswordHash tem json:"-" e não vai para o cache.
		if data, err := json.Marshal(user); err == nil {
			if err := r.Cache.Set(ctxTimeout, key, data, r.CacheTTL); err != nil {
				r.logger.Warn("Falha ao gravar usuário no cache.", map[string]interface{}{"key": key, "error": err.Error()})
			}
		}
	}

	return user, nil
}

func scanUser(row *sql.Row) (domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}
