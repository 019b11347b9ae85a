package service

import (
	"context"
	"fmt"

	"github.com/dspetrov/trackdesk/internal/errs"
	"github.com/dspetrov/trackdesk/internal/model"
	"github.com/dspetrov/trackdesk/internal/repository"
)

// ProfileService validates and stores application profiles.
type ProfileService interface {
	// Insert creates a profile row keyed by its identity id.
	Insert(ctx context.Context, np model.NewProfile) (model.Profile, error)
	// Get loads a profile by id.
	Get(ctx context.Context, id string) (*model.Profile, error)
}

type ProfileServiceImpl struct {
	repo repository.ProfileRepository
}

// NewProfileService constructs ProfileService.
func NewProfileService(repo repository.ProfileRepository) *ProfileServiceImpl {
	return &ProfileServiceImpl{repo: repo}
}

func (s *ProfileServiceImpl) Insert(ctx context.Context, np model.NewProfile) (model.Profile, error) {
	if np.ID == "" || np.Email == "" || np.FullName == "" {
		return model.Profile{}, fmt.Errorf("id, email and full_name are required: %w", errs.ErrValidation)
	}
	if !np.Role.Valid() {
		return model.Profile{}, fmt.Errorf("unknown role %q: %w", np.Role, errs.ErrValidation)
	}
	return s.repo.Insert(ctx, np)
}

func (s *ProfileServiceImpl) Get(ctx context.Context, id string) (*model.Profile, error) {
	if id == "" {
		return nil, fmt.Errorf("empty profile id: %w", errs.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// ProjectService validates project and membership mutations and
// delegates to the repositories.
type ProjectService interface {
	List(ctx context.Context) ([]model.Project, error)
	Get(ctx context.Context, id string) (model.Project, error)
	Create(ctx context.Context, np model.NewProject) (model.Project, error)
	Update(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error)
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, nm model.NewMember) (model.ProjectMember, error)
	RemoveMember(ctx context.Context, memberID string) error
}

type ProjectServiceImpl struct {
	projects repository.ProjectRepository
	members  repository.MemberRepository
}

// NewProjectService constructs ProjectService.
func NewProjectService(projects repository.ProjectRepository, members repository.MemberRepository) *ProjectServiceImpl {
	return &ProjectServiceImpl{projects: projects, members: members}
}

func (s *ProjectServiceImpl) List(ctx context.Context) ([]model.Project, error) {
	return s.projects.List(ctx)
}

func (s *ProjectServiceImpl) Get(ctx context.Context, id string) (model.Project, error) {
	if id == "" {
		return model.Project{}, fmt.Errorf("empty project id: %w", errs.ErrValidation)
	}
	return s.projects.Get(ctx, id)
}

func (s *ProjectServiceImpl) Create(ctx context.Context, np model.NewProject) (model.Project, error) {
	if np.Name == "" {
		return model.Project{}, fmt.Errorf("name is required: %w", errs.ErrValidation)
	}
	if np.OwnerID == "" {
		return model.Project{}, fmt.Errorf("owner_id is required: %w", errs.ErrValidation)
	}
	return s.projects.Insert(ctx, np)
}

func (s *ProjectServiceImpl) Update(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error) {
	if id == "" {
		return model.Project{}, fmt.Errorf("empty project id: %w", errs.ErrValidation)
	}
	if patch.Empty() {
		return model.Project{}, fmt.Errorf("patch touches no fields: %w", errs.ErrValidation)
	}
	if patch.Name != nil && *patch.Name == "" {
		return model.Project{}, fmt.Errorf("name cannot be cleared: %w", errs.ErrValidation)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return model.Project{}, fmt.Errorf("unknown status %q: %w", *patch.Status, errs.ErrValidation)
	}
	return s.projects.Update(ctx, id, patch)
}

func (s *ProjectServiceImpl) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("empty project id: %w", errs.ErrValidation)
	}
	return s.projects.Delete(ctx, id)
}

func (s *ProjectServiceImpl) AddMember(ctx context.Context, nm model.NewMember) (model.ProjectMember, error) {
	if nm.ProjectID == "" || nm.UserID == "" {
		return model.ProjectMember{}, fmt.Errorf("project_id and user_id are required: %w", errs.ErrValidation)
	}
	if !nm.Role.Valid() {
		return model.ProjectMember{}, fmt.Errorf("unknown member role %q: %w", nm.Role, errs.ErrValidation)
	}
	return s.members.Insert(ctx, nm)
}

func (s *ProjectServiceImpl) RemoveMember(ctx context.Context, memberID string) error {
	if memberID == "" {
		return fmt.Errorf("empty member id: %w", errs.ErrValidation)
	}
	return s.members.Delete(ctx, memberID)
}
