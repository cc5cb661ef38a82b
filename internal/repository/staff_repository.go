package repository

import (
	"context"

	"github.com/akademix/examly-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StaffRepository handles proctor/admin account data access.
type StaffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository creates a new StaffRepository.
func NewStaffRepository(pool *pgxpool.Pool) *StaffRepository {
	return &StaffRepository{pool: pool}
}

// GetByEmail retrieves a staff user by email.
func (r *StaffRepository) GetByEmail(ctx context.Context, email string) (*model.StaffUser, error) {
	u := &model.StaffUser{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, role, created_at, updated_at
		 FROM staff_users
		 WHERE email = $1`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetByID retrieves a staff user by ID.
func (r *StaffRepository) GetByID(ctx context.Context, id int) (*model.StaffUser, error) {
	u := &model.StaffUser{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, role, created_at, updated_at
		 FROM staff_users
		 WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a new staff user. Email is unique; conflicts update the
// password hash and role so the create-staff CLI stays idempotent.
func (r *StaffRepository) Create(ctx context.Context, u *model.StaffUser) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO staff_users (name, email, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (email) DO UPDATE
		 SET password_hash = EXCLUDED.password_hash, role = EXCLUDED.role, updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		u.Name, u.Email, u.PasswordHash, u.Role,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}
