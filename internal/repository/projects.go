package repository

import (
	"context"

	"github.com/dspetrov/trackdesk/internal/model"
)

// ProjectRepository provides enriched access to projects: every read
// attaches the owner's profile summary and the full membership list,
// each membership joined with its member's profile summary.
type ProjectRepository interface {
	// List returns all projects, newest first.
	List(ctx context.Context) ([]model.Project, error)
	// Get returns one project by id.
	Get(ctx context.Context, id string) (model.Project, error)
	// Insert creates a project with status active.
	Insert(ctx context.Context, np model.NewProject) (model.Project, error)
	// Update applies the non-nil patch fields and returns the
	// refreshed enriched row.
	Update(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error)
	// Delete removes the project and, via cascade, its memberships
	// and tickets.
	Delete(ctx context.Context, id string) error
}

// MemberRepository mutates the project membership join table.
type MemberRepository interface {
	// Insert adds a membership and returns it joined with the
	// member's profile summary.
	Insert(ctx context.Context, nm model.NewMember) (model.ProjectMember, error)
	// Delete removes a membership by its own id.
	Delete(ctx context.Context, id string) error
}
