package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coursedesk/coursedesk-backend/internal/model"
)

// ErrFacultyNotFound is returned when an email or ID does not resolve.
var ErrFacultyNotFound = errors.New("faculty not found")

// FacultyRepository handles faculty account data access.
type FacultyRepository struct {
	pool *pgxpool.Pool
}

// NewFacultyRepository creates a new FacultyRepository.
func NewFacultyRepository(pool *pgxpool.Pool) *FacultyRepository {
	return &FacultyRepository{pool: pool}
}

// GetByEmail retrieves a faculty account by email.
func (r *FacultyRepository) GetByEmail(ctx context.Context, email string) (*model.Faculty, error) {
	f := &model.Faculty{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at, updated_at
		 FROM faculties WHERE email = $1`, email,
	).Scan(&f.ID, &f.Email, &f.Name, &f.PasswordHash, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFacultyNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// GetByID retrieves a faculty account by ID.
func (r *FacultyRepository) GetByID(ctx context.Context, id int) (*model.Faculty, error) {
	f := &model.Faculty{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at, updated_at
		 FROM faculties WHERE id = $1`, id,
	).Scan(&f.ID, &f.Email, &f.Name, &f.PasswordHash, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFacultyNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Create inserts a new faculty account.
func (r *FacultyRepository) Create(ctx context.Context, f *model.Faculty) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO faculties (email, name, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		f.Email, f.Name, f.PasswordHash,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
}
