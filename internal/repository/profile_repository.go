package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ProfileRepository defines persistence access for user profiles.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.UserProfile) error
	GetByID(ctx context.Context, id string) (*domain.UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error)
	List(ctx context.Context) ([]domain.UserProfile, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) error
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository returns a Postgres-backed implementation.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.UserProfile) error {
	const query = `
        INSERT INTO profiles (email, full_name, role, password_hash)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		profile.Email,
		profile.FullName,
		profile.Role,
		profile.PasswordHash,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return mapStoreErr(err, "profile", nil)
	}
	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.UserProfile, error) {
	const query = `
        SELECT id, email, full_name, role, password_hash, created_at, updated_at
        FROM profiles WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	const query = `
        SELECT id, email, full_name, role, password_hash, created_at, updated_at
        FROM profiles WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *profileRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&profile.ID,
		&profile.Email,
		&profile.FullName,
		&profile.Role,
		&profile.PasswordHash,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, mapStoreErr(err, "profile", nil)
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context) ([]domain.UserProfile, error) {
	const query = `
        SELECT id, email, full_name, role, password_hash, created_at, updated_at
        FROM profiles ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapStoreErr(err, "profiles", nil)
	}
	defer rows.Close()

	var result []domain.UserProfile
	for rows.Next() {
		var profile domain.UserProfile
		if err := rows.Scan(
			&profile.ID,
			&profile.Email,
			&profile.FullName,
			&profile.Role,
			&profile.PasswordHash,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, mapStoreErr(err, "profiles", nil)
		}
		result = append(result, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreErr(err, "profiles", nil)
	}
	return result, nil
}

func (r *profileRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	const query = `
        UPDATE profiles SET role=$1, updated_at=NOW()
        WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, role, id)
	if err != nil {
		return mapStoreErr(err, "profile", map[string]any{"user_id": id})
	}
	if cmd.RowsAffected() == 0 {
		return mapStoreErr(pgx.ErrNoRows, "profile", map[string]any{"user_id": id})
	}
	return nil
}
