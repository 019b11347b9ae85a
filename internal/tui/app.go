// Package tui renders the interactive terminal client on top of the
// domain stores. The stores stay the single source of truth: the
// program receives their snapshots as messages and never mutates state
// directly.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dspetrov/trackdesk/internal/store"
)

// View identifies the active screen.
type View int

const (
	ViewLogin View = iota
	ViewDashboard
	ViewProjects
	ViewProjectDetail
	ViewTickets
	ViewProjectForm
	ViewTicketForm
	ViewMemberForm
)

// Stores bundles the three domain stores the UI observes.
type Stores struct {
	Auth     *store.AuthStore
	Projects *store.ProjectsStore
	Tickets  *store.TicketsStore
}

// Snapshot messages delivered via Program.Send by the store
// subscriptions wired in the command entry point.
type (
	AuthMsg     struct{ State store.AuthState }
	ProjectsMsg struct{ State store.ProjectsState }
	TicketsMsg  struct{ State store.TicketsState }
)

// initDoneMsg marks the end of the blocking session restore.
type initDoneMsg struct{}

// opDoneMsg marks the end of a dispatched store operation. Errors
// surface through the store snapshots, not through this message.
type opDoneMsg struct{}

// Model is the root bubbletea model.
type Model struct {
	stores Stores
	styles *Styles

	view        View
	width       int
	height      int
	initialized bool

	auth     store.AuthState
	projects store.ProjectsState
	tickets  store.TicketsState

	login       loginForm
	search      searchBox
	projectForm projectForm
	ticketForm  ticketForm
	memberForm  memberForm
	formReturn  View
	cursor      int
	detailID    string
}

// New constructs the root model over the given stores.
func New(st Stores) *Model {
	return &Model{
		stores: st,
		styles: NewStyles(),
		view:   ViewLogin,
		login:  newLoginForm(),
		search: newSearchBox(),
	}
}

// Init blocks on session restore before any authenticated view renders.
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg {
		_ = m.stores.Auth.Initialize(context.Background())
		return initDoneMsg{}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case initDoneMsg:
		m.initialized = true
		m.auth = m.stores.Auth.State()
		if m.auth.Identity != nil {
			return m, m.enterApp()
		}
		return m, nil

	case AuthMsg:
		signedIn := m.auth.Identity == nil && msg.State.Identity != nil
		signedOut := m.auth.Identity != nil && msg.State.Identity == nil
		m.auth = msg.State
		if !m.initialized {
			return m, nil
		}
		if signedOut {
			m.view = ViewLogin
			m.login = newLoginForm()
			return m, nil
		}
		if signedIn {
			return m, m.enterApp()
		}
		return m, nil

	case ProjectsMsg:
		m.projects = msg.State
		m.clampCursor()
		return m, nil

	case TicketsMsg:
		m.tickets = msg.State
		m.clampCursor()
		return m, nil

	case opDoneMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// enterApp switches to the dashboard and kicks off the initial loads.
func (m *Model) enterApp() tea.Cmd {
	m.view = ViewDashboard
	return tea.Batch(
		m.dispatch(func(ctx context.Context) { _ = m.stores.Projects.FetchAll(ctx) }),
		m.dispatch(func(ctx context.Context) { _ = m.stores.Tickets.FetchAll(ctx, "") }),
	)
}

// dispatch runs a blocking store operation off the update loop.
func (m *Model) dispatch(op func(ctx context.Context)) tea.Cmd {
	return func() tea.Msg {
		op(context.Background())
		return opDoneMsg{}
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.view == ViewLogin {
		return m.updateLogin(msg)
	}
	if m.view == ViewTickets && m.search.focused {
		return m.updateSearch(msg)
	}

	// Forms capture all input, like the login view.
	switch m.view {
	case ViewProjectForm:
		return m.updateProjectForm(msg)
	case ViewTicketForm:
		return m.updateTicketForm(msg)
	case ViewMemberForm:
		return m.updateMemberForm(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		m.view = ViewDashboard
		return m, nil
	case "2":
		m.view = ViewProjects
		m.cursor = 0
		return m, nil
	case "3":
		m.view = ViewTickets
		m.cursor = 0
		return m, nil
	case "ctrl+o":
		return m, m.dispatch(func(ctx context.Context) { _ = m.stores.Auth.SignOut(ctx) })
	}

	switch m.view {
	case ViewProjects:
		return m.updateProjects(msg)
	case ViewProjectDetail:
		return m.updateProjectDetail(msg)
	case ViewTickets:
		return m.updateTickets(msg)
	}
	return m, nil
}

func (m *Model) clampCursor() {
	n := 0
	switch m.view {
	case ViewProjects:
		n = len(m.projects.Projects)
	case ViewTickets:
		n = len(m.visibleTickets())
	case ViewProjectDetail:
		if m.projects.CurrentProject != nil {
			n = len(m.projects.CurrentProject.Members)
		}
	}
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m *Model) View() string {
	if !m.initialized {
		return m.styles.Muted.Render("Restoring session...")
	}
	switch m.view {
	case ViewLogin:
		return m.viewLogin()
	case ViewDashboard:
		return m.viewDashboard()
	case ViewProjects:
		return m.viewProjects()
	case ViewProjectDetail:
		return m.viewProjectDetail()
	case ViewTickets:
		return m.viewTickets()
	case ViewProjectForm:
		return m.viewProjectForm()
	case ViewTicketForm:
		return m.viewTicketForm()
	case ViewMemberForm:
		return m.viewMemberForm()
	}
	return ""
}
