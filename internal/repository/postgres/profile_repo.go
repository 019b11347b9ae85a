package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dspetrov/trackdesk/internal/errs"
	"github.com/dspetrov/trackdesk/internal/model"
)

// ProfileRepo implements ProfileRepository using PostgreSQL.
type ProfileRepo struct{ db *DB }

// NewProfileRepo constructs a profile repository.
func NewProfileRepo(db *DB) *ProfileRepo { return &ProfileRepo{db: db} }

// Insert creates the profile row keyed by its identity id.
func (r *ProfileRepo) Insert(ctx context.Context, np model.NewProfile) (model.Profile, error) {
	const q = `
INSERT INTO profiles (id, email, full_name, role)
VALUES ($1, $2, $3, $4)
RETURNING id, email, full_name, avatar_url, role, created_at, updated_at`
	row := r.db.Pool.QueryRow(ctx, q, np.ID, np.Email, np.FullName, np.Role)
	var p model.Profile
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.AvatarURL, &p.Role, &p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err) {
		return model.Profile{}, fmt.Errorf("profile exists: %w", errs.ErrAlreadyExists)
	}
	if isForeignKeyViolation(err) {
		return model.Profile{}, fmt.Errorf("no such identity: %w", errs.ErrValidation)
	}
	if err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

// Get loads a profile by id.
func (r *ProfileRepo) Get(ctx context.Context, id string) (*model.Profile, error) {
	const q = `
SELECT id, email, full_name, avatar_url, role, created_at, updated_at
FROM profiles WHERE id=$1`
	row := r.db.Pool.QueryRow(ctx, q, id)
	var p model.Profile
	if err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.AvatarURL, &p.Role, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
