package repository

import (
	"context"

	"github.com/dspetrov/trackdesk/internal/model"
)

// ProfileRepository provides CRUD access for application profiles.
type ProfileRepository interface {
	// Insert creates the profile row keyed by its identity id.
	Insert(ctx context.Context, np model.NewProfile) (model.Profile, error)
	// Get loads a profile by id.
	Get(ctx context.Context, id string) (*model.Profile, error)
}
