package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/dspetrov/trackdesk/internal/errs"
	"github.com/dspetrov/trackdesk/internal/model"
)

var ticketRowCols = []string{
	"id", "project_id", "title", "description", "priority", "status", "type",
	"reporter_id", "assignee_id", "created_at", "updated_at",
	"rep_full_name", "rep_email", "asg_full_name", "asg_email", "project_name",
}

func ticketRow(rows *pgxmock.Rows, id string, ts time.Time, assignee *string) *pgxmock.Rows {
	var asgName, asgEmail *string
	if assignee != nil {
		n, e := "Dev Two", "d2@example.com"
		asgName, asgEmail = &n, &e
	}
	return rows.AddRow(id, "p1", "Broken login", nil,
		model.PriorityHigh, model.TicketOpen, model.TypeBug,
		"u1", assignee, ts, ts,
		"Dev One", "d1@example.com", asgName, asgEmail, "Alpha")
}

func TestTicketRepo_List_All(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTicketRepo(db)
	ctx := context.Background()
	ts := time.Now().UTC()
	asg := "u2"

	rows := pgxmock.NewRows(ticketRowCols)
	ticketRow(rows, "t2", ts, &asg)
	ticketRow(rows, "t1", ts, nil)
	mock.ExpectQuery(`FROM tickets t\s+JOIN profiles rep ON rep.id = t.reporter_id\s+LEFT JOIN profiles asg ON asg.id = t.assignee_id\s+JOIN projects p ON p.id = t.project_id\s+ORDER BY t.created_at DESC`).
		WillReturnRows(rows)

	tickets, err := r.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	require.Equal(t, "t2", tickets[0].ID)
	require.NotNil(t, tickets[0].Assignee)
	require.Equal(t, "Dev Two", tickets[0].Assignee.FullName)
	require.Nil(t, tickets[1].Assignee)
	require.Equal(t, "Alpha", tickets[1].Project.Name)
	require.Equal(t, "Dev One", tickets[1].Reporter.FullName)
}

func TestTicketRepo_List_ProjectScope(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTicketRepo(db)
	ctx := context.Background()
	ts := time.Now().UTC()

	rows := pgxmock.NewRows(ticketRowCols)
	ticketRow(rows, "t1", ts, nil)
	mock.ExpectQuery(`WHERE t.project_id=\$1\s+ORDER BY t.created_at DESC`).
		WithArgs("p1").
		WillReturnRows(rows)

	tickets, err := r.List(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	require.Equal(t, "p1", tickets[0].ProjectID)
}

func TestTicketRepo_Get(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTicketRepo(db)
	ctx := context.Background()
	ts := time.Now().UTC()

	rows := pgxmock.NewRows(ticketRowCols)
	ticketRow(rows, "t1", ts, nil)
	mock.ExpectQuery(`WHERE t.id=\$1`).
		WithArgs("t1").
		WillReturnRows(rows)
	tk, err := r.Get(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, "t1", tk.ID)
	require.Equal(t, model.TicketOpen, tk.Status)

	mock.ExpectQuery(`WHERE t.id=\$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	_, err = r.Get(ctx, "missing")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestTicketRepo_Insert(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTicketRepo(db)
	ctx := context.Background()
	ts := time.Now().UTC()

	mock.ExpectExec(`INSERT INTO tickets \(id, project_id, title, description, priority, type, reporter_id, assignee_id\)`).
		WithArgs(pgxmock.AnyArg(), "p1", "Broken login", (*string)(nil),
			model.PriorityHigh, model.TypeBug, "u1", (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	rows := pgxmock.NewRows(ticketRowCols)
	ticketRow(rows, "t1", ts, nil)
	mock.ExpectQuery(`WHERE t.id=\$1`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(rows)

	tk, err := r.Insert(ctx, model.NewTicket{
		ProjectID: "p1", Title: "Broken login",
		Priority: model.PriorityHigh, Type: model.TypeBug, ReporterID: "u1",
	})
	require.NoError(t, err)
	require.Equal(t, model.TicketOpen, tk.Status)
}

func TestTicketRepo_Insert_BadProject(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTicketRepo(db)
	ctx := context.Background()

	mock.ExpectExec(`INSERT INTO tickets`).
		WithArgs(pgxmock.AnyArg(), "ghost", "Broken login", (*string)(nil),
			model.PriorityHigh, model.TypeBug, "u1", (*string)(nil)).
		WillReturnError(&pgconn.PgError{Code: "23503"})
	_, err := r.Insert(ctx, model.NewTicket{
		ProjectID: "ghost", Title: "Broken login",
		Priority: model.PriorityHigh, Type: model.TypeBug, ReporterID: "u1",
	})
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestTicketRepo_Update_StatusAndAssign(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTicketRepo(db)
	ctx := context.Background()
	ts := time.Now().UTC()
	status := model.TicketInProgress
	asg := "u2"
	asgPtr := &asg

	mock.ExpectExec(`UPDATE tickets SET updated_at = now\(\), status = \$2, assignee_id = \$3 WHERE id = \$1`).
		WithArgs("t1", status, asgPtr).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	rows := pgxmock.NewRows(ticketRowCols)
	ticketRow(rows, "t1", ts, &asg)
	mock.ExpectQuery(`WHERE t.id=\$1`).
		WithArgs("t1").
		WillReturnRows(rows)

	tk, err := r.Update(ctx, "t1", model.TicketPatch{Status: &status, AssigneeID: &asgPtr})
	require.NoError(t, err)
	require.NotNil(t, tk.Assignee)
}

func TestTicketRepo_Update_Unassign(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTicketRepo(db)
	ctx := context.Background()
	ts := time.Now().UTC()
	var cleared *string

	mock.ExpectExec(`UPDATE tickets SET updated_at = now\(\), assignee_id = \$2 WHERE id = \$1`).
		WithArgs("t1", (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	rows := pgxmock.NewRows(ticketRowCols)
	ticketRow(rows, "t1", ts, nil)
	mock.ExpectQuery(`WHERE t.id=\$1`).
		WithArgs("t1").
		WillReturnRows(rows)

	tk, err := r.Update(ctx, "t1", model.TicketPatch{AssigneeID: &cleared})
	require.NoError(t, err)
	require.Nil(t, tk.AssigneeID)
	require.Nil(t, tk.Assignee)
}

func TestTicketRepo_Update_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTicketRepo(db)
	ctx := context.Background()
	title := "Renamed"

	mock.ExpectExec(`UPDATE tickets SET updated_at = now\(\), title = \$2 WHERE id = \$1`).
		WithArgs("missing", title).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	_, err := r.Update(ctx, "missing", model.TicketPatch{Title: &title})
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestTicketRepo_Delete(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTicketRepo(db)
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM tickets WHERE id = \$1`).
		WithArgs("t1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, r.Delete(ctx, "t1"))

	mock.ExpectExec(`DELETE FROM tickets WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	require.ErrorIs(t, r.Delete(ctx, "missing"), errs.ErrNotFound)
}
