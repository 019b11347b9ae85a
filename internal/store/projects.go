package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/dspetrov/trackdesk/internal/gateway"
	"github.com/dspetrov/trackdesk/internal/model"
)

// ProjectsState is the projects store's published state. Projects is
// ordered newest first.
type ProjectsState struct {
	Projects       []model.Project
	CurrentProject *model.Project
	Loading        bool
	Error          string
}

// Clone returns a snapshot with a copied collection.
func (s ProjectsState) Clone() ProjectsState {
	out := s
	out.Projects = append([]model.Project(nil), s.Projects...)
	if s.CurrentProject != nil {
		p := *s.CurrentProject
		out.CurrentProject = &p
	}
	return out
}

// ProjectsStore owns the local project collection.
type ProjectsStore struct {
	c   *container[ProjectsState]
	gw  gateway.Gateway
	log *zap.Logger
}

// NewProjectsStore constructs the projects store around a gateway.
func NewProjectsStore(gw gateway.Gateway, log *zap.Logger) *ProjectsStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProjectsStore{c: newContainer(ProjectsState{}), gw: gw, log: log}
}

// State returns the current snapshot.
func (s *ProjectsStore) State() ProjectsState { return s.c.State() }

// Subscribe registers a listener for state changes.
func (s *ProjectsStore) Subscribe(fn func(ProjectsState)) (unsubscribe func()) {
	return s.c.Subscribe(fn)
}

// FetchAll replaces the whole local collection with the backend's
// newest-first listing. No merge.
func (s *ProjectsStore) FetchAll(ctx context.Context) error {
	s.c.set(func(st *ProjectsState) { st.Loading = true })
	projects, err := s.gw.ListProjects(ctx)
	if err != nil {
		s.fail("fetch projects", err)
		return err
	}
	s.c.set(func(st *ProjectsState) {
		st.Projects = projects
		st.Loading = false
		st.Error = ""
	})
	return nil
}

// FetchByID loads one enriched project and makes it current.
func (s *ProjectsStore) FetchByID(ctx context.Context, id string) error {
	s.c.set(func(st *ProjectsState) { st.Loading = true })
	project, err := s.gw.Project(ctx, id)
	if err != nil {
		s.fail("fetch project", err)
		return err
	}
	s.c.set(func(st *ProjectsState) {
		st.CurrentProject = &project
		st.Loading = false
	})
	return nil
}

// Create inserts a project owned by ownerID; on success it is
// prepended (newest-first invariant) and becomes current.
func (s *ProjectsStore) Create(ctx context.Context, name, description, ownerID string) error {
	np := model.NewProject{Name: name, OwnerID: ownerID}
	if description != "" {
		np.Description = &description
	}
	project, err := s.gw.InsertProject(ctx, np)
	if err != nil {
		s.fail("create project", err)
		return err
	}
	s.c.set(func(st *ProjectsState) {
		st.Projects = append([]model.Project{project}, st.Projects...)
		st.CurrentProject = &project
	})
	return nil
}

// Update patches the supplied fields only; the local entry is replaced
// in place, its position unchanged.
func (s *ProjectsStore) Update(ctx context.Context, id string, patch model.ProjectPatch) error {
	project, err := s.gw.UpdateProject(ctx, id, patch)
	if err != nil {
		s.fail("update project", err)
		return err
	}
	s.c.set(func(st *ProjectsState) {
		for i := range st.Projects {
			if st.Projects[i].ID == project.ID {
				st.Projects[i] = project
				break
			}
		}
		if st.CurrentProject != nil && st.CurrentProject.ID == project.ID {
			st.CurrentProject = &project
		}
	})
	return nil
}

// Delete removes the project remotely and locally; a matching current
// project is nulled.
func (s *ProjectsStore) Delete(ctx context.Context, id string) error {
	if err := s.gw.DeleteProject(ctx, id); err != nil {
		s.fail("delete project", err)
		return err
	}
	s.c.set(func(st *ProjectsState) {
		kept := st.Projects[:0:0]
		for _, p := range st.Projects {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		st.Projects = kept
		if st.CurrentProject != nil && st.CurrentProject.ID == id {
			st.CurrentProject = nil
		}
	})
	return nil
}

// AddMember adds a membership remotely. Locally only the current
// project's member list is patched; the projects collection catches up
// on the next fetch.
func (s *ProjectsStore) AddMember(ctx context.Context, projectID, userID string, role model.MemberRole) error {
	member, err := s.gw.InsertMember(ctx, model.NewMember{ProjectID: projectID, UserID: userID, Role: role})
	if err != nil {
		s.fail("add member", err)
		return err
	}
	s.c.set(func(st *ProjectsState) {
		if st.CurrentProject == nil || st.CurrentProject.ID != projectID {
			return
		}
		cur := *st.CurrentProject
		cur.Members = append(append([]model.ProjectMember(nil), cur.Members...), member)
		st.CurrentProject = &cur
	})
	return nil
}

// RemoveMember removes a membership remotely, mirroring AddMember's
// local reconciliation contract.
func (s *ProjectsStore) RemoveMember(ctx context.Context, projectID, memberID string) error {
	if err := s.gw.DeleteMember(ctx, memberID); err != nil {
		s.fail("remove member", err)
		return err
	}
	s.c.set(func(st *ProjectsState) {
		if st.CurrentProject == nil || st.CurrentProject.ID != projectID {
			return
		}
		cur := *st.CurrentProject
		kept := cur.Members[:0:0]
		for _, m := range cur.Members {
			if m.ID != memberID {
				kept = append(kept, m)
			}
		}
		cur.Members = kept
		st.CurrentProject = &cur
	})
	return nil
}

// ClearCurrent nulls the current project.
func (s *ProjectsStore) ClearCurrent() {
	s.c.set(func(st *ProjectsState) { st.CurrentProject = nil })
}

// ClearError clears the error message only.
func (s *ProjectsStore) ClearError() {
	s.c.set(func(st *ProjectsState) { st.Error = "" })
}

func (s *ProjectsStore) fail(op string, err error) {
	s.log.Warn("projects operation failed", zap.String("op", op), zap.Error(err))
	s.c.set(func(st *ProjectsState) {
		st.Loading = false
		st.Error = err.Error()
	})
}
