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

// ProjectRepo implements ProjectRepository using PostgreSQL.
type ProjectRepo struct{ db *DB }

// NewProjectRepo constructs a project repository.
func NewProjectRepo(db *DB) *ProjectRepo { return &ProjectRepo{db: db} }

const projectCols = `
SELECT p.id, p.name, p.description, p.owner_id, p.status, p.created_at, p.updated_at,
       o.full_name, o.email
FROM projects p
JOIN profiles o ON o.id = p.owner_id`

const memberCols = `
SELECT m.id, m.project_id, m.user_id, m.role, m.created_at,
       pr.full_name, pr.email
FROM project_members m
JOIN profiles pr ON pr.id = m.user_id`

// List returns all projects newest first, each enriched with its
// owner summary and membership list.
func (r *ProjectRepo) List(ctx context.Context) ([]model.Project, error) {
	rows, err := r.db.Pool.Query(ctx, projectCols+`
ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	index := map[string]int{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		index[p.ID] = len(projects)
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	mrows, err := r.db.Pool.Query(ctx, memberCols+`
ORDER BY m.created_at`)
	if err != nil {
		return nil, err
	}
	defer mrows.Close()
	for mrows.Next() {
		m, err := scanMember(mrows)
		if err != nil {
			return nil, err
		}
		if i, ok := index[m.ProjectID]; ok {
			projects[i].Members = append(projects[i].Members, m)
		}
	}
	return projects, mrows.Err()
}

// Get returns one enriched project by id.
func (r *ProjectRepo) Get(ctx context.Context, id string) (model.Project, error) {
	row := r.db.Pool.QueryRow(ctx, projectCols+`
WHERE p.id=$1`, id)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Project{}, errs.ErrNotFound
		}
		return model.Project{}, err
	}

	mrows, err := r.db.Pool.Query(ctx, memberCols+`
WHERE m.project_id=$1
ORDER BY m.created_at`, id)
	if err != nil {
		return model.Project{}, err
	}
	defer mrows.Close()
	for mrows.Next() {
		m, err := scanMember(mrows)
		if err != nil {
			return model.Project{}, err
		}
		p.Members = append(p.Members, m)
	}
	return p, mrows.Err()
}

// Insert creates a project with status active and returns the
// enriched row.
func (r *ProjectRepo) Insert(ctx context.Context, np model.NewProject) (model.Project, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return model.Project{}, err
	}
	const q = `
INSERT INTO projects (id, name, description, owner_id)
VALUES ($1, $2, $3, $4)`
	if _, err := r.db.Pool.Exec(ctx, q, id.String(), np.Name, np.Description, np.OwnerID); err != nil {
		if isForeignKeyViolation(err) {
			return model.Project{}, fmt.Errorf("no such owner: %w", errs.ErrValidation)
		}
		return model.Project{}, err
	}
	return r.Get(ctx, id.String())
}

// Update applies the non-nil patch fields and returns the refreshed row.
func (r *ProjectRepo) Update(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}

	q := fmt.Sprintf(`UPDATE projects SET %s WHERE id = $1`, strings.Join(sets, ", "))
	tag, err := r.db.Pool.Exec(ctx, q, args...)
	if err != nil {
		return model.Project{}, err
	}
	if tag.RowsAffected() == 0 {
		return model.Project{}, errs.ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes the project; memberships and tickets cascade.
func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func scanProject(row pgx.Row) (model.Project, error) {
	var (
		p                model.Project
		ownerName, email string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.Status,
		&p.CreatedAt, &p.UpdatedAt, &ownerName, &email); err != nil {
		return model.Project{}, err
	}
	p.Owner = &model.ProfileSummary{ID: p.OwnerID, FullName: ownerName, Email: email}
	return p, nil
}

func scanMember(row pgx.Row) (model.ProjectMember, error) {
	var (
		m               model.ProjectMember
		fullName, email string
	)
	if err := row.Scan(&m.ID, &m.ProjectID, &m.UserID, &m.Role, &m.CreatedAt,
		&fullName, &email); err != nil {
		return model.ProjectMember{}, err
	}
	m.Profile = &model.ProfileSummary{ID: m.UserID, FullName: fullName, Email: email}
	return m, nil
}

// MemberRepo implements MemberRepository using PostgreSQL.
type MemberRepo struct{ db *DB }

// NewMemberRepo constructs a membership repository.
func NewMemberRepo(db *DB) *MemberRepo { return &MemberRepo{db: db} }

// Insert adds a membership and returns it joined with the member's
// profile summary.
func (r *MemberRepo) Insert(ctx context.Context, nm model.NewMember) (model.ProjectMember, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return model.ProjectMember{}, err
	}
	const q = `
INSERT INTO project_members (id, project_id, user_id, role)
VALUES ($1, $2, $3, $4)`
	if _, err := r.db.Pool.Exec(ctx, q, id.String(), nm.ProjectID, nm.UserID, nm.Role); err != nil {
		if isUniqueViolation(err) {
			return model.ProjectMember{}, fmt.Errorf("already a member: %w", errs.ErrAlreadyExists)
		}
		if isForeignKeyViolation(err) {
			return model.ProjectMember{}, fmt.Errorf("no such project or user: %w", errs.ErrValidation)
		}
		return model.ProjectMember{}, err
	}

	row := r.db.Pool.QueryRow(ctx, memberCols+`
WHERE m.id=$1`, id.String())
	return scanMember(row)
}

// Delete removes a membership by its own id.
func (r *MemberRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM project_members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
