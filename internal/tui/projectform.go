package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dspetrov/trackdesk/internal/model"
)

// projectForm drives project creation and editing. A non-empty editID
// means edit.
type projectForm struct {
	name        textinput.Model
	description textinput.Model
	status      model.ProjectStatus
	editID      string
	focus       int
}

func newProjectForm() projectForm {
	name := textinput.New()
	name.Placeholder = "project name"
	name.CharLimit = 100
	name.Focus()

	description := textinput.New()
	description.Placeholder = "description"
	description.CharLimit = 200

	return projectForm{name: name, description: description, status: model.ProjectActive}
}

func newProjectEditForm(p model.Project) projectForm {
	f := newProjectForm()
	f.editID = p.ID
	f.status = p.Status
	f.name.SetValue(p.Name)
	if p.Description != nil {
		f.description.SetValue(*p.Description)
	}
	return f
}

func (f *projectForm) setFocus(i int) {
	f.focus = i
	f.name.Blur()
	f.description.Blur()
	if i == 0 {
		f.name.Focus()
	} else {
		f.description.Focus()
	}
}

func (m *Model) openProjectForm(f projectForm) {
	m.projectForm = f
	m.formReturn = m.view
	m.view = ViewProjectForm
}

func (m *Model) updateProjectForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.projectForm
	switch msg.String() {
	case "esc":
		m.view = m.formReturn
		return m, nil
	case "tab", "shift+tab":
		f.setFocus((f.focus + 1) % 2)
		return m, nil
	case "ctrl+r":
		if f.editID != "" {
			switch f.status {
			case model.ProjectActive:
				f.status = model.ProjectCompleted
			case model.ProjectCompleted:
				f.status = model.ProjectArchived
			default:
				f.status = model.ProjectActive
			}
		}
		return m, nil
	case "enter":
		if f.focus == 0 {
			f.setFocus(1)
			return m, nil
		}
		return m, m.submitProjectForm()
	}

	var cmd tea.Cmd
	if f.focus == 0 {
		f.name, cmd = f.name.Update(msg)
	} else {
		f.description, cmd = f.description.Update(msg)
	}
	return m, cmd
}

func (m *Model) submitProjectForm() tea.Cmd {
	f := m.projectForm
	name := strings.TrimSpace(f.name.Value())
	description := strings.TrimSpace(f.description.Value())
	m.view = m.formReturn

	if f.editID == "" {
		ownerID := ""
		if m.auth.Identity != nil {
			ownerID = m.auth.Identity.ID
		}
		return m.dispatch(func(ctx context.Context) {
			_ = m.stores.Projects.Create(ctx, name, description, ownerID)
		})
	}

	status := f.status
	patch := model.ProjectPatch{Description: &description, Status: &status}
	if name != "" {
		patch.Name = &name
	}
	id := f.editID
	return m.dispatch(func(ctx context.Context) {
		_ = m.stores.Projects.Update(ctx, id, patch)
	})
}

func (m *Model) viewProjectForm() string {
	s := m.styles
	f := m.projectForm

	title := "New project"
	if f.editID != "" {
		title = "Edit project"
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
		style(0).Render(f.name.View()),
		style(1).Render(f.description.View()),
	}
	if f.editID != "" {
		rows = append(rows, s.Muted.Render("status: "+string(f.status)+"  (ctrl+r to change)"))
	}
	rows = append(rows, "", s.Help.Render(
		s.HelpKey.Render("↵")+" submit • "+
			s.HelpKey.Render("tab")+" next • "+
			s.HelpKey.Render("esc")+" cancel",
	))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// memberForm adds a membership to the project open in the detail view.
type memberForm struct {
	userID textinput.Model
	role   model.MemberRole
}

func newMemberForm() memberForm {
	userID := textinput.New()
	userID.Placeholder = "user id"
	userID.CharLimit = 100
	userID.Focus()
	return memberForm{userID: userID, role: model.MemberRegular}
}

func (m *Model) updateMemberForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.memberForm
	switch msg.String() {
	case "esc":
		m.view = m.formReturn
		return m, nil
	case "ctrl+r":
		if f.role == model.MemberRegular {
			f.role = model.MemberManager
		} else {
			f.role = model.MemberRegular
		}
		return m, nil
	case "enter":
		userID := strings.TrimSpace(f.userID.Value())
		role := f.role
		projectID := m.detailID
		m.view = m.formReturn
		return m, m.dispatch(func(ctx context.Context) {
			_ = m.stores.Projects.AddMember(ctx, projectID, userID, role)
		})
	}

	var cmd tea.Cmd
	f.userID, cmd = f.userID.Update(msg)
	return m, cmd
}

func (m *Model) viewMemberForm() string {
	s := m.styles
	f := m.memberForm
	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Add member"),
		"",
		s.Focused.Render(f.userID.View()),
		s.Muted.Render("role: "+string(f.role)+"  (ctrl+r to change)"),
		"",
		s.Help.Render(
			s.HelpKey.Render("↵")+" submit • "+
				s.HelpKey.Render("esc")+" cancel",
		),
	)
}
