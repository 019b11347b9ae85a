package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dspetrov/trackdesk/internal/model"
	"github.com/dspetrov/trackdesk/internal/view"
)

func (m *Model) updateProjects(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.projects.Projects)-1 {
			m.cursor++
		}
	case "r":
		return m, m.dispatch(func(ctx context.Context) { _ = m.stores.Projects.FetchAll(ctx) })
	case "n":
		m.openProjectForm(newProjectForm())
		return m, nil
	case "e":
		if m.cursor < len(m.projects.Projects) {
			m.openProjectForm(newProjectEditForm(m.projects.Projects[m.cursor]))
		}
		return m, nil
	case "d":
		if m.cursor < len(m.projects.Projects) {
			id := m.projects.Projects[m.cursor].ID
			return m, m.dispatch(func(ctx context.Context) { _ = m.stores.Projects.Delete(ctx, id) })
		}
	case "enter":
		if m.cursor < len(m.projects.Projects) {
			id := m.projects.Projects[m.cursor].ID
			m.detailID = id
			m.view = ViewProjectDetail
			m.cursor = 0
			return m, tea.Batch(
				m.dispatch(func(ctx context.Context) { _ = m.stores.Projects.FetchByID(ctx, id) }),
				m.dispatch(func(ctx context.Context) { _ = m.stores.Tickets.FetchAll(ctx, id) }),
			)
		}
	}
	return m, nil
}

func (m *Model) viewProjects() string {
	s := m.styles
	rows := []string{s.Title.Render("Projects"), ""}

	if m.projects.Loading {
		rows = append(rows, s.Muted.Render("loading..."))
	}
	if m.projects.Error != "" {
		rows = append(rows, s.Error.Render(m.projects.Error))
	}

	for i, p := range m.projects.Projects {
		line := p.Name + s.Muted.Render("  "+string(p.Status))
		if p.Owner != nil {
			line += s.Muted.Render(" · " + p.Owner.FullName)
		}
		if i == m.cursor {
			rows = append(rows, s.Selected.Render(line))
		} else {
			rows = append(rows, s.Item.Render(line))
		}
	}
	if len(m.projects.Projects) == 0 && !m.projects.Loading {
		rows = append(rows, s.Muted.Render("no projects"))
	}

	rows = append(rows, s.Help.Render(
		s.HelpKey.Render("n")+" new • "+
			s.HelpKey.Render("e")+" edit • "+
			s.HelpKey.Render("d")+" delete • "+
			s.HelpKey.Render("↵")+" open",
	))
	rows = append(rows, m.helpLine())
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) updateProjectDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cur := m.projects.CurrentProject
	switch msg.String() {
	case "esc", "backspace":
		m.view = ViewProjects
		m.cursor = 0
		m.stores.Projects.ClearCurrent()
		return m, m.dispatch(func(ctx context.Context) { _ = m.stores.Tickets.FetchAll(ctx, "") })
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if cur != nil && m.cursor < len(cur.Members)-1 {
			m.cursor++
		}
	case "e":
		if cur != nil {
			m.openProjectForm(newProjectEditForm(*cur))
		}
	case "n":
		m.openTicketForm(newTicketForm(m.detailID))
	case "a":
		m.memberForm = newMemberForm()
		m.formReturn = m.view
		m.view = ViewMemberForm
	case "d":
		if cur != nil && m.cursor < len(cur.Members) {
			projectID := cur.ID
			memberID := cur.Members[m.cursor].ID
			return m, m.dispatch(func(ctx context.Context) {
				_ = m.stores.Projects.RemoveMember(ctx, projectID, memberID)
			})
		}
	}
	return m, nil
}

func (m *Model) viewProjectDetail() string {
	s := m.styles
	cur := m.projects.CurrentProject
	if cur == nil {
		return s.Muted.Render("loading project...")
	}

	rows := []string{s.Title.Render(cur.Name) + "  " + s.Muted.Render(string(cur.Status))}
	if cur.Description != nil && *cur.Description != "" {
		rows = append(rows, s.Muted.Render(*cur.Description))
	}
	if view.CanEditProject(m.auth.Profile, cur) {
		rows = append(rows, s.Muted.Render("you can edit this project"))
	}

	rows = append(rows, "", s.Title.Render("Members"))
	if cur.Owner != nil {
		rows = append(rows, s.Item.Render(cur.Owner.FullName+s.Muted.Render("  owner")))
	}
	for i, mem := range cur.Members {
		name := mem.UserID
		if mem.Profile != nil {
			name = mem.Profile.FullName
		}
		line := name + s.Muted.Render("  "+string(mem.Role))
		if i == m.cursor {
			rows = append(rows, s.Selected.Render(line))
		} else {
			rows = append(rows, s.Item.Render(line))
		}
	}

	rows = append(rows, "", s.Title.Render("Tickets"))
	for _, t := range view.FilterTickets(m.tickets.Tickets, model.TicketFilters{}, cur.ID) {
		rows = append(rows, s.Item.Render(ticketLine(s, t)))
	}

	rows = append(rows, s.Help.Render(
		s.HelpKey.Render("e")+" edit • "+
			s.HelpKey.Render("n")+" new ticket • "+
			s.HelpKey.Render("a")+" add member • "+
			s.HelpKey.Render("d")+" remove member • "+
			s.HelpKey.Render("esc")+" back",
	))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func ticketLine(s *Styles, t model.Ticket) string {
	line := t.Title + s.Muted.Render("  "+string(t.Status)+" · "+string(t.Priority)+" · "+string(t.Type))
	if t.Assignee != nil {
		line += s.Muted.Render(" · " + t.Assignee.FullName)
	}
	return line
}
