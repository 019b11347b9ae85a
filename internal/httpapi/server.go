// Package httpapi exposes the trackdesk REST API handlers.
package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/dspetrov/trackdesk/internal/model"
	"github.com/dspetrov/trackdesk/internal/service"
)

// Server wires services into HTTP handlers.
type Server struct {
	auth     service.AuthService
	profiles service.ProfileService
	projects service.ProjectService
	tickets  service.TicketService
	log      *zap.Logger
}

// New constructs an HTTP server with injected services.
func New(auth service.AuthService, profiles service.ProfileService, projects service.ProjectService, tickets service.TicketService, log *zap.Logger) *Server {
	return &Server{auth: auth, profiles: profiles, projects: projects, tickets: tickets, log: log}
}

// Handler assembles the route table. Sign-up and sign-in are the only
// routes outside the bearer-auth perimeter.
func (s *Server) Handler() http.Handler {
	authed := Auth(s.auth)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/signup", s.signUp)
	mux.HandleFunc("POST /api/v1/auth/signin", s.signIn)
	mux.Handle("POST /api/v1/auth/signout", authed(http.HandlerFunc(s.signOut)))
	mux.Handle("GET /api/v1/auth/session", authed(http.HandlerFunc(s.session)))

	mux.Handle("POST /api/v1/profiles", authed(http.HandlerFunc(s.insertProfile)))
	mux.Handle("GET /api/v1/profiles/{id}", authed(http.HandlerFunc(s.getProfile)))

	mux.Handle("GET /api/v1/projects", authed(http.HandlerFunc(s.listProjects)))
	mux.Handle("POST /api/v1/projects", authed(http.HandlerFunc(s.createProject)))
	mux.Handle("GET /api/v1/projects/{id}", authed(http.HandlerFunc(s.getProject)))
	mux.Handle("PATCH /api/v1/projects/{id}", authed(http.HandlerFunc(s.updateProject)))
	mux.Handle("DELETE /api/v1/projects/{id}", authed(http.HandlerFunc(s.deleteProject)))

	mux.Handle("POST /api/v1/members", authed(http.HandlerFunc(s.addMember)))
	mux.Handle("DELETE /api/v1/members/{id}", authed(http.HandlerFunc(s.removeMember)))

	mux.Handle("GET /api/v1/tickets", authed(http.HandlerFunc(s.listTickets)))
	mux.Handle("POST /api/v1/tickets", authed(http.HandlerFunc(s.createTicket)))
	mux.Handle("GET /api/v1/tickets/{id}", authed(http.HandlerFunc(s.getTicket)))
	mux.Handle("PATCH /api/v1/tickets/{id}", authed(http.HandlerFunc(s.updateTicket)))
	mux.Handle("DELETE /api/v1/tickets/{id}", authed(http.HandlerFunc(s.deleteTicket)))

	var h http.Handler = mux
	h = Logging(s.log)(h)
	h = Recover(s.log)(h)
	return h
}

// --- auth ---

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) signUp(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := readJSON(r, &creds); err != nil {
		respondErr(w, err)
		return
	}
	sess, err := s.auth.Register(r.Context(), creds.Email, creds.Password)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := readJSON(r, &creds); err != nil {
		respondErr(w, err)
		return
	}
	sess, err := s.auth.LoginWithIP(r.Context(), creds.Email, creds.Password, r.RemoteAddr)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// signOut is stateless: tokens are bearer JWTs, so there is nothing to
// revoke server-side. The client drops its copy.
func (s *Server) signOut(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) {
	ident, ok := IdentityFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	writeJSON(w, http.StatusOK, ident)
}

// --- profiles ---

func (s *Server) insertProfile(w http.ResponseWriter, r *http.Request) {
	var np model.NewProfile
	if err := readJSON(r, &np); err != nil {
		respondErr(w, err)
		return
	}
	p, err := s.profiles.Insert(r.Context(), np)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// --- projects ---

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	ps, err := s.projects.List(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var np model.NewProject
	if err := readJSON(r, &np); err != nil {
		respondErr(w, err)
		return
	}
	p, err := s.projects.Create(r.Context(), np)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.projects.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	var patch model.ProjectPatch
	if err := readJSON(r, &patch); err != nil {
		respondErr(w, err)
		return
	}
	p, err := s.projects.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.projects.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- members ---

func (s *Server) addMember(w http.ResponseWriter, r *http.Request) {
	var nm model.NewMember
	if err := readJSON(r, &nm); err != nil {
		respondErr(w, err)
		return
	}
	m, err := s.projects.AddMember(r.Context(), nm)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) removeMember(w http.ResponseWriter, r *http.Request) {
	if err := s.projects.RemoveMember(r.Context(), r.PathValue("id")); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- tickets ---

func (s *Server) listTickets(w http.ResponseWriter, r *http.Request) {
	ts, err := s.tickets.List(r.Context(), r.URL.Query().Get("project_id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (s *Server) createTicket(w http.ResponseWriter, r *http.Request) {
	var nt model.NewTicket
	if err := readJSON(r, &nt); err != nil {
		respondErr(w, err)
		return
	}
	t, err := s.tickets.Create(r.Context(), nt)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) getTicket(w http.ResponseWriter, r *http.Request) {
	t, err := s.tickets.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) updateTicket(w http.ResponseWriter, r *http.Request) {
	var patch model.TicketPatch
	if err := readJSON(r, &patch); err != nil {
		respondErr(w, err)
		return
	}
	t, err := s.tickets.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) deleteTicket(w http.ResponseWriter, r *http.Request) {
	if err := s.tickets.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
