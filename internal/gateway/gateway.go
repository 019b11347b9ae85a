// Package gateway is the remote access boundary of the client core. It
// exposes authentication and record CRUD against the tracker backend's
// three logical collections (projects, project memberships, tickets)
// and carries no business logic of its own.
package gateway

import (
	"context"

	"github.com/dspetrov/trackdesk/internal/model"
)

// Gateway is the narrow request/response contract the stores depend on.
// Every call may fail; failures map onto the sentinels in internal/errs.
type Gateway interface {
	// SignUp creates a remote identity and opens a session for it.
	SignUp(ctx context.Context, email, password string) (model.Identity, error)
	// SignIn authenticates and opens a session.
	SignIn(ctx context.Context, email, password string) (model.Identity, error)
	// SignOut invalidates the current session remotely.
	SignOut(ctx context.Context) error
	// Session returns the current identity, or nil when no session exists.
	Session(ctx context.Context) (*model.Identity, error)
	// OnSessionChange registers a push notification fired on every
	// session transition (nil identity on sign-out). The returned
	// handle unsubscribes and must be invoked on teardown.
	OnSessionChange(fn func(*model.Identity)) (unsubscribe func())

	InsertProfile(ctx context.Context, np model.NewProfile) (model.Profile, error)
	// Profile returns nil, nil when no profile exists for the id.
	Profile(ctx context.Context, id string) (*model.Profile, error)

	ListProjects(ctx context.Context) ([]model.Project, error)
	Project(ctx context.Context, id string) (model.Project, error)
	InsertProject(ctx context.Context, np model.NewProject) (model.Project, error)
	UpdateProject(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error)
	DeleteProject(ctx context.Context, id string) error

	InsertMember(ctx context.Context, nm model.NewMember) (model.ProjectMember, error)
	DeleteMember(ctx context.Context, id string) error

	// ListTickets returns all tickets, scoped to a project when
	// projectID is non-empty. Newest first.
	ListTickets(ctx context.Context, projectID string) ([]model.Ticket, error)
	Ticket(ctx context.Context, id string) (model.Ticket, error)
	InsertTicket(ctx context.Context, nt model.NewTicket) (model.Ticket, error)
	UpdateTicket(ctx context.Context, id string, patch model.TicketPatch) (model.Ticket, error)
	DeleteTicket(ctx context.Context, id string) error
}
