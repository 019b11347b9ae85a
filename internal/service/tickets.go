package service

import (
	"context"
	"fmt"

	"github.com/dspetrov/trackdesk/internal/errs"
	"github.com/dspetrov/trackdesk/internal/model"
	"github.com/dspetrov/trackdesk/internal/repository"
)

// TicketService validates ticket mutations and delegates to the repository.
type TicketService interface {
	List(ctx context.Context, projectID string) ([]model.Ticket, error)
	Get(ctx context.Context, id string) (model.Ticket, error)
	Create(ctx context.Context, nt model.NewTicket) (model.Ticket, error)
	Update(ctx context.Context, id string, patch model.TicketPatch) (model.Ticket, error)
	Delete(ctx context.Context, id string) error
}

type TicketServiceImpl struct {
	repo repository.TicketRepository
}

// NewTicketService constructs TicketService.
func NewTicketService(repo repository.TicketRepository) *TicketServiceImpl {
	return &TicketServiceImpl{repo: repo}
}

func (s *TicketServiceImpl) List(ctx context.Context, projectID string) ([]model.Ticket, error) {
	return s.repo.List(ctx, projectID)
}

func (s *TicketServiceImpl) Get(ctx context.Context, id string) (model.Ticket, error) {
	if id == "" {
		return model.Ticket{}, fmt.Errorf("empty ticket id: %w", errs.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *TicketServiceImpl) Create(ctx context.Context, nt model.NewTicket) (model.Ticket, error) {
	if nt.Title == "" {
		return model.Ticket{}, fmt.Errorf("title is required: %w", errs.ErrValidation)
	}
	if nt.ProjectID == "" || nt.ReporterID == "" {
		return model.Ticket{}, fmt.Errorf("project_id and reporter_id are required: %w", errs.ErrValidation)
	}
	if !nt.Priority.Valid() {
		return model.Ticket{}, fmt.Errorf("unknown priority %q: %w", nt.Priority, errs.ErrValidation)
	}
	if !nt.Type.Valid() {
		return model.Ticket{}, fmt.Errorf("unknown type %q: %w", nt.Type, errs.ErrValidation)
	}
	return s.repo.Insert(ctx, nt)
}

func (s *TicketServiceImpl) Update(ctx context.Context, id string, patch model.TicketPatch) (model.Ticket, error) {
	if id == "" {
		return model.Ticket{}, fmt.Errorf("empty ticket id: %w", errs.ErrValidation)
	}
	if patch.Empty() {
		return model.Ticket{}, fmt.Errorf("patch touches no fields: %w", errs.ErrValidation)
	}
	if patch.Title != nil && *patch.Title == "" {
		return model.Ticket{}, fmt.Errorf("title cannot be cleared: %w", errs.ErrValidation)
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return model.Ticket{}, fmt.Errorf("unknown priority %q: %w", *patch.Priority, errs.ErrValidation)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return model.Ticket{}, fmt.Errorf("unknown status %q: %w", *patch.Status, errs.ErrValidation)
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return model.Ticket{}, fmt.Errorf("unknown type %q: %w", *patch.Type, errs.ErrValidation)
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *TicketServiceImpl) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("empty ticket id: %w", errs.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}
