package repository

import (
	"context"
	"errors"
	"fmt"

	"umsshop/pkg/metrics"
	"umsshop/users-service/internal/app/users/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const managersTable = "managers"

// pgUniqueViolation SQLSTATE нарушения уникального индекса
const pgUniqueViolation = "23505"

// Querier общее подмножество pgxpool.Pool и pgx.Tx
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type managerRepository struct {
	db Querier
}

// NewManagerRepository создает репозиторий менеджеров
func NewManagerRepository(db Querier) ManagerRepository {
	return &managerRepository{db: db}
}

// EnsureSchema создает таблицу managers, если ее нет
func EnsureSchema(ctx context.Context, db Querier) error {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS managers (
			id            UUID PRIMARY KEY,
			email         VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			name          VARCHAR(100) NOT NULL,
			role          VARCHAR(32)  NOT NULL,
			created_at    TIMESTAMPTZ  NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create managers table: %w", err)
	}
	return nil
}

func (r *managerRepository) Create(ctx context.Context, m *entity.Manager) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, managersTable)
	defer timer.ObserveDuration()

	query := `
		INSERT INTO managers (id, email, password_hash, name, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query, m.ID, m.Email, m.PasswordHash, m.Name, m.Role, m.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrManagerExists
		}
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create manager: %w", err)
	}

	return nil
}

func (r *managerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Manager, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, managersTable)
	defer timer.ObserveDuration()

	query := `SELECT id, email, password_hash, name, role, created_at FROM managers WHERE id = $1`

	var m entity.Manager
	err := r.db.QueryRow(ctx, query, id).Scan(&m.ID, &m.Email, &m.PasswordHash, &m.Name, &m.Role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrManagerNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get manager: %w", err)
	}

	return &m, nil
}

func (r *managerRepository) List(ctx context.Context) ([]entity.Manager, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, managersTable)
	defer timer.ObserveDuration()

	query := `
		SELECT id, email, password_hash, name, role, created_at
		FROM managers
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to list managers: %w", err)
	}
	defer rows.Close()

	managers := []entity.Manager{}
	for rows.Next() {
		var m entity.Manager
		if err := rows.Scan(&m.ID, &m.Email, &m.PasswordHash, &m.Name, &m.Role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan manager: %w", err)
		}
		managers = append(managers, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating managers: %w", err)
	}

	return managers, nil
}

func (r *managerRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, managersTable)
	defer timer.ObserveDuration()

	result, err := r.db.Exec(ctx, `UPDATE managers SET role = $1 WHERE id = $2`, role, id)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to update manager role: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrManagerNotFound
	}

	return nil
}

func (r *managerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, managersTable)
	defer timer.ObserveDuration()

	result, err := r.db.Exec(ctx, `DELETE FROM managers WHERE id = $1`, id)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpDelete)
		return fmt.Errorf("failed to delete manager: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrManagerNotFound
	}

	return nil
}
