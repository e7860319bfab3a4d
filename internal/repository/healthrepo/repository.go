package healthrepo

import (
	"context"
	"database/sql"
	"time"

	apperror "seaconnector/internal/errors"
)

// HealthRepository faz a ida e volta ao banco usada pela rota raiz.
type HealthRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
}

func NewHealthRepository(db *sql.DB, dbTimeout time.Duration) *HealthRepository {
	return &HealthRepository{DB: db, DBTimeout: dbTimeout}
}

// Now devolve o horário do servidor PostgreSQL.
func (r *HealthRepository) Now(ctx context.Context) (time.Time, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var now time.Time
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT NOW()`).Scan(&now); err != nil {
		return time.Time{}, apperror.NewDBError("failed to query database time", err)
	}
	return now, nil
}
