package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dspetrov/trackdesk/internal/model"
)

// loginForm drives both sign-in and sign-up.
type loginForm struct {
	email    textinput.Model
	password textinput.Model
	fullName textinput.Model
	role     model.Role
	signup   bool
	focus    int
}

func newLoginForm() loginForm {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 100
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 100
	password.EchoMode = textinput.EchoPassword

	fullName := textinput.New()
	fullName.Placeholder = "full name"
	fullName.CharLimit = 100

	return loginForm{
		email:    email,
		password: password,
		fullName: fullName,
		role:     model.RoleDeveloper,
	}
}

func (f *loginForm) fieldCount() int {
	if f.signup {
		return 3
	}
	return 2
}

func (f *loginForm) setFocus(i int) {
	f.focus = i
	f.email.Blur()
	f.password.Blur()
	f.fullName.Blur()
	switch i {
	case 0:
		f.email.Focus()
	case 1:
		f.password.Focus()
	case 2:
		f.fullName.Focus()
	}
}

func (m *Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.login
	switch msg.String() {
	case "tab":
		f.setFocus((f.focus + 1) % f.fieldCount())
		return m, nil
	case "shift+tab":
		f.setFocus((f.focus + f.fieldCount() - 1) % f.fieldCount())
		return m, nil
	case "ctrl+n":
		f.signup = !f.signup
		f.setFocus(0)
		return m, nil
	case "ctrl+r":
		switch f.role {
		case model.RoleDeveloper:
			f.role = model.RoleManager
		case model.RoleManager:
			f.role = model.RoleAdmin
		default:
			f.role = model.RoleDeveloper
		}
		return m, nil
	case "enter":
		if f.focus < f.fieldCount()-1 {
			f.setFocus(f.focus + 1)
			return m, nil
		}
		return m, m.submitLogin()
	}

	var cmd tea.Cmd
	switch f.focus {
	case 0:
		f.email, cmd = f.email.Update(msg)
	case 1:
		f.password, cmd = f.password.Update(msg)
	case 2:
		f.fullName, cmd = f.fullName.Update(msg)
	}
	return m, cmd
}

func (m *Model) submitLogin() tea.Cmd {
	f := m.login
	email := strings.TrimSpace(f.email.Value())
	password := f.password.Value()
	if f.signup {
		fullName := strings.TrimSpace(f.fullName.Value())
		role := f.role
		return m.dispatch(func(ctx context.Context) {
			_ = m.stores.Auth.SignUp(ctx, email, password, fullName, role)
		})
	}
	return m.dispatch(func(ctx context.Context) {
		_ = m.stores.Auth.SignIn(ctx, email, password)
	})
}

func (m *Model) viewLogin() string {
	s := m.styles
	f := m.login

	title := "Sign in"
	if f.signup {
		title = "Sign up"
	}

	style := func(i int) lipgloss.Style {
		if f.focus == i {
			return s.Focused
		}
		return s.Input
	}

	rows := []string{
		s.Title.Render("trackdesk · " + title),
		"",
		style(0).Render(f.email.View()),
		style(1).Render(f.password.View()),
	}
	if f.signup {
		rows = append(rows,
			style(2).Render(f.fullName.View()),
			s.Muted.Render("role: "+string(f.role)+"  (ctrl+r to change)"),
		)
	}
	if m.auth.Loading {
		rows = append(rows, "", s.Muted.Render("working..."))
	}
	if m.auth.Error != "" {
		rows = append(rows, "", s.Error.Render(m.auth.Error))
	}
	rows = append(rows, "", s.Help.Render(
		s.HelpKey.Render("↵")+" submit • "+
			s.HelpKey.Render("tab")+" next • "+
			s.HelpKey.Render("ctrl+n")+" toggle sign-up • "+
			s.HelpKey.Render("ctrl+c")+" quit",
	))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	if m.width == 0 {
		return form
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, form)
}
