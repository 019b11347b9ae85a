package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dspetrov/trackdesk/internal/model"
)

// ticketForm drives ticket creation and editing. A non-empty editID
// means edit. On create, projectID pins the scope when the form was
// opened from a project detail; otherwise the picker cycles through
// the loaded projects.
type ticketForm struct {
	title       textinput.Model
	description textinput.Model
	priority    model.TicketPriority
	ticketType  model.TicketType
	status      model.TicketStatus
	projectID   string
	projectIdx  int
	editID      string
	focus       int
}

func newTicketForm(projectID string) ticketForm {
	title := textinput.New()
	title.Placeholder = "title"
	title.CharLimit = 150
	title.Focus()

	description := textinput.New()
	description.Placeholder = "description"
	description.CharLimit = 300

	return ticketForm{
		title:       title,
		description: description,
		priority:    model.PriorityMedium,
		ticketType:  model.TypeTask,
		projectID:   projectID,
	}
}

func newTicketEditForm(t model.Ticket) ticketForm {
	f := newTicketForm(t.ProjectID)
	f.editID = t.ID
	f.priority = t.Priority
	f.ticketType = t.Type
	f.status = t.Status
	f.title.SetValue(t.Title)
	if t.Description != nil {
		f.description.SetValue(*t.Description)
	}
	return f
}

func (f *ticketForm) setFocus(i int) {
	f.focus = i
	f.title.Blur()
	f.description.Blur()
	if i == 0 {
		f.title.Focus()
	} else {
		f.description.Focus()
	}
}

func (m *Model) openTicketForm(f ticketForm) {
	m.ticketForm = f
	m.formReturn = m.view
	m.view = ViewTicketForm
}

func (m *Model) updateTicketForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.ticketForm
	switch msg.String() {
	case "esc":
		m.view = m.formReturn
		return m, nil
	case "tab", "shift+tab":
		f.setFocus((f.focus + 1) % 2)
		return m, nil
	case "ctrl+p":
		switch f.priority {
		case model.PriorityLow:
			f.priority = model.PriorityMedium
		case model.PriorityMedium:
			f.priority = model.PriorityHigh
		default:
			f.priority = model.PriorityLow
		}
		return m, nil
	case "ctrl+t":
		switch f.ticketType {
		case model.TypeBug:
			f.ticketType = model.TypeFeature
		case model.TypeFeature:
			f.ticketType = model.TypeTask
		default:
			f.ticketType = model.TypeBug
		}
		return m, nil
	case "ctrl+s":
		if f.editID != "" {
			switch f.status {
			case model.TicketOpen:
				f.status = model.TicketInProgress
			case model.TicketInProgress:
				f.status = model.TicketResolved
			case model.TicketResolved:
				f.status = model.TicketClosed
			default:
				f.status = model.TicketOpen
			}
		}
		return m, nil
	case "ctrl+j":
		if f.editID == "" && f.projectID == "" && len(m.projects.Projects) > 0 {
			f.projectIdx = (f.projectIdx + 1) % len(m.projects.Projects)
		}
		return m, nil
	case "enter":
		if f.focus == 0 {
			f.setFocus(1)
			return m, nil
		}
		return m, m.submitTicketForm()
	}

	var cmd tea.Cmd
	if f.focus == 0 {
		f.title, cmd = f.title.Update(msg)
	} else {
		f.description, cmd = f.description.Update(msg)
	}
	return m, cmd
}

func (m *Model) submitTicketForm() tea.Cmd {
	f := m.ticketForm
	title := strings.TrimSpace(f.title.Value())
	description := strings.TrimSpace(f.description.Value())
	m.view = m.formReturn

	if f.editID == "" {
		nt := model.NewTicket{
			ProjectID: f.projectID,
			Title:     title,
			Priority:  f.priority,
			Type:      f.ticketType,
		}
		if nt.ProjectID == "" && f.projectIdx < len(m.projects.Projects) {
			nt.ProjectID = m.projects.Projects[f.projectIdx].ID
		}
		if description != "" {
			nt.Description = &description
		}
		if m.auth.Identity != nil {
			nt.ReporterID = m.auth.Identity.ID
		}
		return m.dispatch(func(ctx context.Context) {
			_ = m.stores.Tickets.Create(ctx, nt)
		})
	}

	priority, ticketType, status := f.priority, f.ticketType, f.status
	patch := model.TicketPatch{
		Description: &description,
		Priority:    &priority,
		Type:        &ticketType,
		Status:      &status,
	}
	if title != "" {
		patch.Title = &title
	}
	id := f.editID
	return m.dispatch(func(ctx context.Context) {
		_ = m.stores.Tickets.Update(ctx, id, patch)
	})
}

func (m *Model) viewTicketForm() string {
	s := m.styles
	f := m.ticketForm

	title := "New ticket"
	if f.editID != "" {
		title = "Edit ticket"
	}

	style := func(i int) lipgloss.Style {
		if f.focus == i {
			return s.Focused
		}
		return s.Input
	}

	rows := []string{
		s.Title.Render(title),
		"",
		style(0).Render(f.title.View()),
		style(1).Render(f.description.View()),
	}
	if f.editID == "" && f.projectID == "" {
		name := "(none)"
		if f.projectIdx < len(m.projects.Projects) {
			name = m.projects.Projects[f.projectIdx].Name
		}
		rows = append(rows, s.Muted.Render("project: "+name+"  (ctrl+j to change)"))
	}
	rows = append(rows,
		s.Muted.Render("priority: "+string(f.priority)+"  (ctrl+p to change)"),
		s.Muted.Render("type: "+string(f.ticketType)+"  (ctrl+t to change)"),
	)
	if f.editID != "" {
		rows = append(rows, s.Muted.Render("status: "+string(f.status)+"  (ctrl+s to change)"))
	}
	rows = append(rows, "", s.Help.Render(
		s.HelpKey.Render("↵")+" submit • "+
			s.HelpKey.Render("tab")+" next • "+
			s.HelpKey.Render("esc")+" cancel",
	))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
