package repository

import (
	"context"

	"github.com/dspetrov/trackdesk/internal/model"
)

// TicketRepository provides enriched access to tickets: every read
// attaches reporter and assignee profile summaries and the parent
// project reference.
type TicketRepository interface {
	// List returns all tickets newest first, scoped to a project when
	// projectID is non-empty.
	List(ctx context.Context, projectID string) ([]model.Ticket, error)
	// Get returns one ticket by id.
	Get(ctx context.Context, id string) (model.Ticket, error)
	// Insert creates a ticket with status open.
	Insert(ctx context.Context, nt model.NewTicket) (model.Ticket, error)
	// Update applies the non-nil patch fields and returns the
	// refreshed enriched row.
	Update(ctx context.Context, id string, patch model.TicketPatch) (model.Ticket, error)
	// Delete removes the ticket.
	Delete(ctx context.Context, id string) error
}
