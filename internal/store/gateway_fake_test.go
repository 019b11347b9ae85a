package store

import (
	"context"
	"errors"

	"github.com/dspetrov/trackdesk/internal/gateway"
	"github.com/dspetrov/trackdesk/internal/model"
)

// fakeGateway implements gateway.Gateway with per-method hooks. Unset
// hooks return zero values so tests only wire what they exercise.
type fakeGateway struct {
	signUp        func(ctx context.Context, email, password string) (model.Identity, error)
	signIn        func(ctx context.Context, email, password string) (model.Identity, error)
	signOut       func(ctx context.Context) error
	session       func(ctx context.Context) (*model.Identity, error)
	insertProfile func(ctx context.Context, np model.NewProfile) (model.Profile, error)
	profile       func(ctx context.Context, id string) (*model.Profile, error)
	listProjects  func(ctx context.Context) ([]model.Project, error)
	project       func(ctx context.Context, id string) (model.Project, error)
	insertProject func(ctx context.Context, np model.NewProject) (model.Project, error)
	updateProject func(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error)
	deleteProject func(ctx context.Context, id string) error
	insertMember  func(ctx context.Context, nm model.NewMember) (model.ProjectMember, error)
	deleteMember  func(ctx context.Context, id string) error
	listTickets   func(ctx context.Context, projectID string) ([]model.Ticket, error)
	ticket        func(ctx context.Context, id string) (model.Ticket, error)
	insertTicket  func(ctx context.Context, nt model.NewTicket) (model.Ticket, error)
	updateTicket  func(ctx context.Context, id string, patch model.TicketPatch) (model.Ticket, error)
	deleteTicket  func(ctx context.Context, id string) error
}

var _ gateway.Gateway = (*fakeGateway)(nil)

var errUnexpectedCall = errors.New("unexpected gateway call")

func (f *fakeGateway) SignUp(ctx context.Context, email, password string) (model.Identity, error) {
	if f.signUp == nil {
		return model.Identity{}, errUnexpectedCall
	}
	return f.signUp(ctx, email, password)
}

func (f *fakeGateway) SignIn(ctx context.Context, email, password string) (model.Identity, error) {
	if f.signIn == nil {
		return model.Identity{}, errUnexpectedCall
	}
	return f.signIn(ctx, email, password)
}

func (f *fakeGateway) SignOut(ctx context.Context) error {
	if f.signOut == nil {
		return errUnexpectedCall
	}
	return f.signOut(ctx)
}

func (f *fakeGateway) Session(ctx context.Context) (*model.Identity, error) {
	if f.session == nil {
		return nil, nil
	}
	return f.session(ctx)
}

func (f *fakeGateway) OnSessionChange(func(*model.Identity)) func() { return func() {} }

func (f *fakeGateway) InsertProfile(ctx context.Context, np model.NewProfile) (model.Profile, error) {
	if f.insertProfile == nil {
		return model.Profile{}, errUnexpectedCall
	}
	return f.insertProfile(ctx, np)
}

func (f *fakeGateway) Profile(ctx context.Context, id string) (*model.Profile, error) {
	if f.profile == nil {
		return nil, nil
	}
	return f.profile(ctx, id)
}

func (f *fakeGateway) ListProjects(ctx context.Context) ([]model.Project, error) {
	if f.listProjects == nil {
		return nil, errUnexpectedCall
	}
	return f.listProjects(ctx)
}

func (f *fakeGateway) Project(ctx context.Context, id string) (model.Project, error) {
	if f.project == nil {
		return model.Project{}, errUnexpectedCall
	}
	return f.project(ctx, id)
}

func (f *fakeGateway) InsertProject(ctx context.Context, np model.NewProject) (model.Project, error) {
	if f.insertProject == nil {
		return model.Project{}, errUnexpectedCall
	}
	return f.insertProject(ctx, np)
}

func (f *fakeGateway) UpdateProject(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error) {
	if f.updateProject == nil {
		return model.Project{}, errUnexpectedCall
	}
	return f.updateProject(ctx, id, patch)
}

func (f *fakeGateway) DeleteProject(ctx context.Context, id string) error {
	if f.deleteProject == nil {
		return errUnexpectedCall
	}
	return f.deleteProject(ctx, id)
}

func (f *fakeGateway) InsertMember(ctx context.Context, nm model.NewMember) (model.ProjectMember, error) {
	if f.insertMember == nil {
		return model.ProjectMember{}, errUnexpectedCall
	}
	return f.insertMember(ctx, nm)
}

func (f *fakeGateway) DeleteMember(ctx context.Context, id string) error {
	if f.deleteMember == nil {
		return errUnexpectedCall
	}
	return f.deleteMember(ctx, id)
}

func (f *fakeGateway) ListTickets(ctx context.Context, projectID string) ([]model.Ticket, error) {
	if f.listTickets == nil {
		return nil, errUnexpectedCall
	}
	return f.listTickets(ctx, projectID)
}

func (f *fakeGateway) Ticket(ctx context.Context, id string) (model.Ticket, error) {
	if f.ticket == nil {
		return model.Ticket{}, errUnexpectedCall
	}
	return f.ticket(ctx, id)
}

func (f *fakeGateway) InsertTicket(ctx context.Context, nt model.NewTicket) (model.Ticket, error) {
	if f.insertTicket == nil {
		return model.Ticket{}, errUnexpectedCall
	}
	return f.insertTicket(ctx, nt)
}

func (f *fakeGateway) UpdateTicket(ctx context.Context, id string, patch model.TicketPatch) (model.Ticket, error) {
	if f.updateTicket == nil {
		return model.Ticket{}, errUnexpectedCall
	}
	return f.updateTicket(ctx, id, patch)
}

func (f *fakeGateway) DeleteTicket(ctx context.Context, id string) error {
	if f.deleteTicket == nil {
		return errUnexpectedCall
	}
	return f.deleteTicket(ctx, id)
}
