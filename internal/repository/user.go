package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/sisocc/internal/models"
	"github.com/shenikar/sisocc/internal/service"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) service.UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `
	id, nome, email, password_hash, cargo, departamento, telefone, avatar,
	status, permissoes, created_at, ultimo_acesso
`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Nome,
		&user.Email,
		&user.PasswordHash,
		&user.Cargo,
		&user.Departamento,
		&user.Telefone,
		&user.Avatar,
		&user.Status,
		&user.Permissoes,
		&user.CreatedAt,
		&user.UltimoAcesso,
	)
	return user, err
}

// GetByEmail ищет сотрудника по e-mail без учета регистра
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1);`
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", email, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1;`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// TouchLastAccess обновляет время последнего входа
func (r *UserRepository) TouchLastAccess(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE users SET ultimo_acesso = NOW() WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to update last access: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user with id %s: %w", id, models.ErrNotFound)
	}
	return nil
}
