package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/dspetrov/trackdesk/internal/errs"
	"github.com/dspetrov/trackdesk/internal/model"
)

// TicketRepo implements TicketRepository using PostgreSQL.
type TicketRepo struct{ db *DB }

// NewTicketRepo constructs a ticket repository.
func NewTicketRepo(db *DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketCols = `
SELECT t.id, t.project_id, t.title, t.description, t.priority, t.status, t.type,
       t.reporter_id, t.assignee_id, t.created_at, t.updated_at,
       rep.full_name, rep.email,
       asg.full_name, asg.email,
       p.name
FROM tickets t
JOIN profiles rep ON rep.id = t.reporter_id
LEFT JOIN profiles asg ON asg.id = t.assignee_id
JOIN projects p ON p.id = t.project_id`

// List returns all tickets newest first, scoped to a project when
// projectID is non-empty.
func (r *TicketRepo) List(ctx context.Context, projectID string) ([]model.Ticket, error) {
	q := ticketCols + `
ORDER BY t.created_at DESC`
	args := []any{}
	if projectID != "" {
		q = ticketCols + `
WHERE t.project_id=$1
ORDER BY t.created_at DESC`
		args = append(args, projectID)
	}

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := []model.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// Get returns one enriched ticket by id.
func (r *TicketRepo) Get(ctx context.Context, id string) (model.Ticket, error) {
	row := r.db.Pool.QueryRow(ctx, ticketCols+`
WHERE t.id=$1`, id)
	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Ticket{}, errs.ErrNotFound
		}
		return model.Ticket{}, err
	}
	return t, nil
}

// Insert creates a ticket with status open and returns the enriched row.
func (r *TicketRepo) Insert(ctx context.Context, nt model.NewTicket) (model.Ticket, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return model.Ticket{}, err
	}
	const q = `
INSERT INTO tickets (id, project_id, title, description, priority, type, reporter_id, assignee_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.Pool.Exec(ctx, q,
		id.String(), nt.ProjectID, nt.Title, nt.Description, nt.Priority, nt.Type,
		nt.ReporterID, nt.AssigneeID); err != nil {
		if isForeignKeyViolation(err) {
			return model.Ticket{}, fmt.Errorf("no such project or profile: %w", errs.ErrValidation)
		}
		return model.Ticket{}, err
	}
	return r.Get(ctx, id.String())
}

// Update applies the non-nil patch fields and returns the refreshed row.
func (r *TicketRepo) Update(ctx context.Context, id string, patch model.TicketPatch) (model.Ticket, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Priority != nil {
		add("priority", *patch.Priority)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Type != nil {
		add("type", *patch.Type)
	}
	if patch.AssigneeID != nil {
		// *patch.AssigneeID == nil clears the assignment.
		add("assignee_id", *patch.AssigneeID)
	}

	q := fmt.Sprintf(`UPDATE tickets SET %s WHERE id = $1`, strings.Join(sets, ", "))
	tag, err := r.db.Pool.Exec(ctx, q, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.Ticket{}, fmt.Errorf("no such assignee: %w", errs.ErrValidation)
		}
		return model.Ticket{}, err
	}
	if tag.RowsAffected() == 0 {
		return model.Ticket{}, errs.ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes the ticket.
func (r *TicketRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func scanTicket(row pgx.Row) (model.Ticket, error) {
	var (
		t                 model.Ticket
		repName, repEmail string
		asgName, asgEmail *string
		projectName       string
	)
	if err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description,
		&t.Priority, &t.Status, &t.Type, &t.ReporterID, &t.AssigneeID,
		&t.CreatedAt, &t.UpdatedAt,
		&repName, &repEmail, &asgName, &asgEmail, &projectName); err != nil {
		return model.Ticket{}, err
	}
	t.Reporter = &model.ProfileSummary{ID: t.ReporterID, FullName: repName, Email: repEmail}
	if t.AssigneeID != nil && asgName != nil && asgEmail != nil {
		t.Assignee = &model.ProfileSummary{ID: *t.AssigneeID, FullName: *asgName, Email: *asgEmail}
	}
	t.Project = &model.ProjectRef{ID: t.ProjectID, Name: projectName}
	return t, nil
}
