// Package model defines domain entities shared by the client stores,
// the gateway wire format, and the server-side services.
package model

import (
	"encoding/json"
	"time"
)

// Role is an application-level profile role.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleDeveloper Role = "developer"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleDeveloper:
		return true
	}
	return false
}

// ProjectStatus is the lifecycle state of a project. Transitions are
// unconstrained: any value may be set at any time.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectArchived  ProjectStatus = "archived"
	ProjectCompleted ProjectStatus = "completed"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectArchived, ProjectCompleted:
		return true
	}
	return false
}

// MemberRole is a membership role within a project, independent of the
// owner relationship.
type MemberRole string

const (
	MemberManager MemberRole = "manager"
	MemberRegular MemberRole = "member"
)

func (r MemberRole) Valid() bool {
	return r == MemberManager || r == MemberRegular
}

// TicketStatus is the workflow state of a ticket.
type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketResolved, TicketClosed:
		return true
	}
	return false
}

// TicketPriority is the urgency of a ticket.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
)

func (p TicketPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// TicketType classifies the kind of work a ticket tracks.
type TicketType string

const (
	TypeBug     TicketType = "bug"
	TypeFeature TicketType = "feature"
	TypeTask    TicketType = "task"
)

func (t TicketType) Valid() bool {
	switch t {
	case TypeBug, TypeFeature, TypeTask:
		return true
	}
	return false
}

// Identity is an authenticated session principal. The client treats it
// as opaque beyond its unique id.
type Identity struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Session carries an issued access token together with its principal.
type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Identity    Identity  `json:"identity"`
}

// Profile is the application-level user record keyed by identity id.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProfile is the insert shape for a profile. ID must equal the
// identity id the profile belongs to.
type NewProfile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}

// ProfileSummary is the join shape nested inside enriched records.
type ProfileSummary struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// Summary reduces a profile to its nested join shape.
func (p Profile) Summary() ProfileSummary {
	return ProfileSummary{ID: p.ID, FullName: p.FullName, Email: p.Email}
}

// ProjectMember is a project membership row enriched with the member's
// profile summary.
type ProjectMember struct {
	ID        string          `json:"id"`
	ProjectID string          `json:"project_id"`
	UserID    string          `json:"user_id"`
	Role      MemberRole      `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
	Profile   *ProfileSummary `json:"profile,omitempty"`
}

// NewMember is the insert shape for a project membership.
type NewMember struct {
	ProjectID string     `json:"project_id"`
	UserID    string     `json:"user_id"`
	Role      MemberRole `json:"role"`
}

// Project is a project record. Owner and Members are attached at fetch
// time by the backend's relational joins.
type Project struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	OwnerID     string          `json:"owner_id"`
	Status      ProjectStatus   `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Owner       *ProfileSummary `json:"owner,omitempty"`
	Members     []ProjectMember `json:"members,omitempty"`
}

// NewProject is the insert shape for a project. Status defaults to
// active on the backend.
type NewProject struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	OwnerID     string  `json:"owner_id"`
}

// ProjectPatch is a partial update: nil fields are left untouched.
type ProjectPatch struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Status      *ProjectStatus `json:"status,omitempty"`
}

// Empty reports whether the patch carries no changes.
func (p ProjectPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Status == nil
}

// ProjectRef is the project summary nested inside tickets.
type ProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Ticket is a ticket record enriched with reporter, assignee, and
// parent project summaries. ReporterID is set once at creation and is
// never mutated by any exposed operation.
type Ticket struct {
	ID          string          `json:"id"`
	ProjectID   string          `json:"project_id"`
	Title       string          `json:"title"`
	Description *string         `json:"description,omitempty"`
	Priority    TicketPriority  `json:"priority"`
	Status      TicketStatus    `json:"status"`
	Type        TicketType      `json:"type"`
	ReporterID  string          `json:"reporter_id"`
	AssigneeID  *string         `json:"assignee_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Reporter    *ProfileSummary `json:"reporter,omitempty"`
	Assignee    *ProfileSummary `json:"assignee,omitempty"`
	Project     *ProjectRef     `json:"project,omitempty"`
}

// NewTicket is the insert shape for a ticket. Status defaults to open
// on the backend.
type NewTicket struct {
	ProjectID   string         `json:"project_id"`
	Title       string         `json:"title"`
	Description *string        `json:"description,omitempty"`
	Priority    TicketPriority `json:"priority"`
	Type        TicketType     `json:"type"`
	ReporterID  string         `json:"reporter_id"`
	AssigneeID  *string        `json:"assignee_id,omitempty"`
}

// TicketPatch is a partial update: nil fields are left untouched.
// AssigneeID uses a double pointer so a patch can distinguish "leave
// as is" (nil) from "unassign" (pointer to nil).
type TicketPatch struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Priority    *TicketPriority `json:"priority,omitempty"`
	Status      *TicketStatus   `json:"status,omitempty"`
	Type        *TicketType     `json:"type,omitempty"`
	AssigneeID  **string        `json:"assignee_id,omitempty"`
}

// Empty reports whether the patch carries no changes.
func (p TicketPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil &&
		p.Status == nil && p.Type == nil && p.AssigneeID == nil
}

// UnmarshalJSON keeps an explicit `"assignee_id": null` distinguishable
// from an absent key, which plain decoding would collapse to nil.
func (p *TicketPatch) UnmarshalJSON(data []byte) error {
	type plain TicketPatch
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = TicketPatch(v)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if msg, ok := raw["assignee_id"]; ok {
		var id *string
		if err := json.Unmarshal(msg, &id); err != nil {
			return err
		}
		p.AssigneeID = &id
	}
	return nil
}

// TicketComment is present in the persisted schema for data-model
// completeness. No store operation or endpoint serves it.
type TicketComment struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketFilters is the active filter facet set of the tickets store.
// An empty set or string means "no constraint on that facet".
type TicketFilters struct {
	Search     string
	Status     []TicketStatus
	Priority   []TicketPriority
	Type       []TicketType
	AssigneeID *string
}

// TicketFilterPatch shallow-merges into TicketFilters: nil fields are
// left untouched, non-nil fields replace the facet wholesale.
type TicketFilterPatch struct {
	Search     *string
	Status     *[]TicketStatus
	Priority   *[]TicketPriority
	Type       *[]TicketType
	AssigneeID **string
}
