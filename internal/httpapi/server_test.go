package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dspetrov/trackdesk/internal/errs"
	"github.com/dspetrov/trackdesk/internal/model"
	"github.com/dspetrov/trackdesk/internal/service"
)

var errUnexpectedCall = errors.New("unexpected call")

type fakeAuth struct {
	registerFn func(email, password string) (model.Session, error)
	loginFn    func(email, password, ip string) (model.Session, error)
	identityFn func(token string) (model.Identity, error)
}

var _ service.AuthService = (*fakeAuth)(nil)

func (f *fakeAuth) Register(_ context.Context, email, password string) (model.Session, error) {
	if f.registerFn == nil {
		return model.Session{}, errUnexpectedCall
	}
	return f.registerFn(email, password)
}
func (f *fakeAuth) LoginWithIP(_ context.Context, email, password, ip string) (model.Session, error) {
	if f.loginFn == nil {
		return model.Session{}, errUnexpectedCall
	}
	return f.loginFn(email, password, ip)
}
func (f *fakeAuth) Identity(_ context.Context, token string) (model.Identity, error) {
	if f.identityFn == nil {
		return model.Identity{}, errUnexpectedCall
	}
	return f.identityFn(token)
}

type fakeProfiles struct {
	insertFn func(np model.NewProfile) (model.Profile, error)
	getFn    func(id string) (*model.Profile, error)
}

var _ service.ProfileService = (*fakeProfiles)(nil)

func (f *fakeProfiles) Insert(_ context.Context, np model.NewProfile) (model.Profile, error) {
	return f.insertFn(np)
}
func (f *fakeProfiles) Get(_ context.Context, id string) (*model.Profile, error) { return f.getFn(id) }

type fakeProjects struct {
	listFn         func() ([]model.Project, error)
	getFn          func(id string) (model.Project, error)
	createFn       func(np model.NewProject) (model.Project, error)
	updateFn       func(id string, patch model.ProjectPatch) (model.Project, error)
	deleteFn       func(id string) error
	addMemberFn    func(nm model.NewMember) (model.ProjectMember, error)
	removeMemberFn func(id string) error
}

var _ service.ProjectService = (*fakeProjects)(nil)

func (f *fakeProjects) List(context.Context) ([]model.Project, error) { return f.listFn() }
func (f *fakeProjects) Get(_ context.Context, id string) (model.Project, error) {
	return f.getFn(id)
}
func (f *fakeProjects) Create(_ context.Context, np model.NewProject) (model.Project, error) {
	return f.createFn(np)
}
func (f *fakeProjects) Update(_ context.Context, id string, patch model.ProjectPatch) (model.Project, error) {
	return f.updateFn(id, patch)
}
func (f *fakeProjects) Delete(_ context.Context, id string) error { return f.deleteFn(id) }
func (f *fakeProjects) AddMember(_ context.Context, nm model.NewMember) (model.ProjectMember, error) {
	return f.addMemberFn(nm)
}
func (f *fakeProjects) RemoveMember(_ context.Context, id string) error { return f.removeMemberFn(id) }

type fakeTicketsSvc struct {
	listFn   func(projectID string) ([]model.Ticket, error)
	getFn    func(id string) (model.Ticket, error)
	createFn func(nt model.NewTicket) (model.Ticket, error)
	updateFn func(id string, patch model.TicketPatch) (model.Ticket, error)
	deleteFn func(id string) error
}

var _ service.TicketService = (*fakeTicketsSvc)(nil)

func (f *fakeTicketsSvc) List(_ context.Context, projectID string) ([]model.Ticket, error) {
	return f.listFn(projectID)
}
func (f *fakeTicketsSvc) Get(_ context.Context, id string) (model.Ticket, error) { return f.getFn(id) }
func (f *fakeTicketsSvc) Create(_ context.Context, nt model.NewTicket) (model.Ticket, error) {
	return f.createFn(nt)
}
func (f *fakeTicketsSvc) Update(_ context.Context, id string, patch model.TicketPatch) (model.Ticket, error) {
	return f.updateFn(id, patch)
}
func (f *fakeTicketsSvc) Delete(_ context.Context, id string) error { return f.deleteFn(id) }

// okIdentity authenticates any request carrying "Bearer good".
func okIdentity(token string) (model.Identity, error) {
	if token != "good" {
		return model.Identity{}, errs.ErrUnauthorized
	}
	return model.Identity{ID: "u1", Email: "dev@example.com"}, nil
}

func newTestServer(t *testing.T, auth *fakeAuth, profiles *fakeProfiles, projects *fakeProjects, tickets *fakeTicketsSvc) *httptest.Server {
	t.Helper()
	if auth == nil {
		auth = &fakeAuth{identityFn: okIdentity}
	}
	if profiles == nil {
		profiles = &fakeProfiles{}
	}
	if projects == nil {
		projects = &fakeProjects{}
	}
	if tickets == nil {
		tickets = &fakeTicketsSvc{}
	}
	srv := httptest.NewServer(New(auth, profiles, projects, tickets, zap.NewNop()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func doReq(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestSignUp_ReturnsSession(t *testing.T) {
	auth := &fakeAuth{
		registerFn: func(email, password string) (model.Session, error) {
			return model.Session{
				AccessToken: "tok",
				ExpiresAt:   time.Now().Add(time.Hour),
				Identity:    model.Identity{ID: "u1", Email: email},
			}, nil
		},
	}
	srv := newTestServer(t, auth, nil, nil, nil)

	resp := doReq(t, http.MethodPost, srv.URL+"/api/v1/auth/signup", "", credentials{Email: "dev@example.com", Password: "secret1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sess := decode[model.Session](t, resp)
	require.Equal(t, "tok", sess.AccessToken)
	require.Equal(t, "dev@example.com", sess.Identity.Email)
}

func TestSignUp_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"duplicate", errs.ErrAlreadyExists, http.StatusConflict},
		{"invalid", errs.ErrValidation, http.StatusUnprocessableEntity},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &fakeAuth{
				registerFn: func(string, string) (model.Session, error) { return model.Session{}, tc.err },
			}
			srv := newTestServer(t, auth, nil, nil, nil)
			resp := doReq(t, http.MethodPost, srv.URL+"/api/v1/auth/signup", "", credentials{Email: "a@b.c", Password: "secret1"})
			require.Equal(t, tc.want, resp.StatusCode)
			body := decode[errorBody](t, resp)
			require.NotEmpty(t, body.Error)
		})
	}
}

func TestSignIn_RateLimitedAnd401(t *testing.T) {
	auth := &fakeAuth{
		loginFn: func(email, password, ip string) (model.Session, error) {
			if password == "locked" {
				return model.Session{}, errs.ErrRateLimited
			}
			return model.Session{}, errs.ErrUnauthorized
		},
	}
	srv := newTestServer(t, auth, nil, nil, nil)

	resp := doReq(t, http.MethodPost, srv.URL+"/api/v1/auth/signin", "", credentials{Email: "a@b.c", Password: "locked"})
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	resp = doReq(t, http.MethodPost, srv.URL+"/api/v1/auth/signin", "", credentials{Email: "a@b.c", Password: "wrong"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthPerimeter(t *testing.T) {
	srv := newTestServer(t, nil, nil, &fakeProjects{
		listFn: func() ([]model.Project, error) { return []model.Project{}, nil },
	}, nil)

	// no token
	resp := doReq(t, http.MethodGet, srv.URL+"/api/v1/projects", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// bad token
	resp = doReq(t, http.MethodGet, srv.URL+"/api/v1/projects", "bad", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// good token
	resp = doReq(t, http.MethodGet, srv.URL+"/api/v1/projects", "good", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSession_ReturnsPrincipal(t *testing.T) {
	srv := newTestServer(t, nil, nil, nil, nil)

	resp := doReq(t, http.MethodGet, srv.URL+"/api/v1/auth/session", "good", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ident := decode[model.Identity](t, resp)
	require.Equal(t, "u1", ident.ID)
}

func TestSignOut_NoContent(t *testing.T) {
	srv := newTestServer(t, nil, nil, nil, nil)

	resp := doReq(t, http.MethodPost, srv.URL+"/api/v1/auth/signout", "good", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestProjects_CRUDRoundTrip(t *testing.T) {
	projects := &fakeProjects{
		createFn: func(np model.NewProject) (model.Project, error) {
			return model.Project{ID: "p1", Name: np.Name, OwnerID: np.OwnerID, Status: model.ProjectActive}, nil
		},
		getFn: func(id string) (model.Project, error) {
			if id != "p1" {
				return model.Project{}, errs.ErrNotFound
			}
			return model.Project{ID: "p1", Name: "Alpha"}, nil
		},
		updateFn: func(id string, patch model.ProjectPatch) (model.Project, error) {
			return model.Project{ID: id, Name: *patch.Name}, nil
		},
		deleteFn: func(id string) error { return nil },
	}
	srv := newTestServer(t, nil, nil, projects, nil)

	resp := doReq(t, http.MethodPost, srv.URL+"/api/v1/projects", "good", model.NewProject{Name: "Alpha", OwnerID: "u1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	p := decode[model.Project](t, resp)
	require.Equal(t, "p1", p.ID)

	resp = doReq(t, http.MethodGet, srv.URL+"/api/v1/projects/p1", "good", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doReq(t, http.MethodGet, srv.URL+"/api/v1/projects/nope", "good", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	name := "Renamed"
	resp = doReq(t, http.MethodPatch, srv.URL+"/api/v1/projects/p1", "good", model.ProjectPatch{Name: &name})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	p = decode[model.Project](t, resp)
	require.Equal(t, "Renamed", p.Name)

	resp = doReq(t, http.MethodDelete, srv.URL+"/api/v1/projects/p1", "good", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestMembers_AddRemove(t *testing.T) {
	projects := &fakeProjects{
		addMemberFn: func(nm model.NewMember) (model.ProjectMember, error) {
			if nm.UserID == "dup" {
				return model.ProjectMember{}, errs.ErrAlreadyExists
			}
			return model.ProjectMember{ID: "m1", ProjectID: nm.ProjectID, UserID: nm.UserID, Role: nm.Role}, nil
		},
		removeMemberFn: func(id string) error { return nil },
	}
	srv := newTestServer(t, nil, nil, projects, nil)

	resp := doReq(t, http.MethodPost, srv.URL+"/api/v1/members", "good", model.NewMember{ProjectID: "p1", UserID: "u2", Role: model.MemberRegular})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doReq(t, http.MethodPost, srv.URL+"/api/v1/members", "good", model.NewMember{ProjectID: "p1", UserID: "dup", Role: model.MemberRegular})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doReq(t, http.MethodDelete, srv.URL+"/api/v1/members/m1", "good", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestTickets_ListScopeAndUnassign(t *testing.T) {
	var gotScope string
	var gotPatch model.TicketPatch
	tickets := &fakeTicketsSvc{
		listFn: func(projectID string) ([]model.Ticket, error) {
			gotScope = projectID
			return []model.Ticket{{ID: "t1"}}, nil
		},
		updateFn: func(id string, patch model.TicketPatch) (model.Ticket, error) {
			gotPatch = patch
			return model.Ticket{ID: id}, nil
		},
	}
	srv := newTestServer(t, nil, nil, nil, tickets)

	resp := doReq(t, http.MethodGet, srv.URL+"/api/v1/tickets?project_id=p1", "good", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "p1", gotScope)

	// An explicit null assignee must survive decoding as "unassign",
	// not collapse into an untouched field.
	req, err := http.NewRequest(http.MethodPatch, srv.URL+"/api/v1/tickets/t1", bytes.NewReader([]byte(`{"assignee_id":null}`)))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer good")
	req.Header.Set("Content-Type", "application/json")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)
	require.NotNil(t, gotPatch.AssigneeID)
	require.Nil(t, *gotPatch.AssigneeID)
}

func TestMalformedBody_422(t *testing.T) {
	srv := newTestServer(t, nil, nil, nil, nil)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/auth/signup", bytes.NewReader([]byte(`{"email": 42}`)))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRecover_PanicBecomes500(t *testing.T) {
	projects := &fakeProjects{
		listFn: func() ([]model.Project, error) { panic("boom") },
	}
	srv := newTestServer(t, nil, nil, projects, nil)

	resp := doReq(t, http.MethodGet, srv.URL+"/api/v1/projects", "good", nil)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
