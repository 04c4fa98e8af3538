package postgres

import (
	"context"
	"database/sql"
	"errors"

	"colloquium/internal/domain"
)

type adminRepository struct {
	DB *sql.DB
}

// NewAdminRepository returns a Postgres-backed AdminRepository.
func NewAdminRepository(db *sql.DB) domain.AdminRepository {
	return &adminRepository{DB: db}
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	query := `
		SELECT id, email, name, password_hash, salt, created_at
		FROM admins
		WHERE email = $1
	`
	a := &domain.Admin{}
	err := r.DB.QueryRowContext(ctx, query, email).
		Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Salt, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	query := `
		SELECT id, email, name, password_hash, salt, created_at
		FROM admins
		WHERE id = $1
	`
	a := &domain.Admin{}
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Salt, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}
