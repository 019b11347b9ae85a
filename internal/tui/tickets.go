package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dspetrov/trackdesk/internal/model"
	"github.com/dspetrov/trackdesk/internal/view"
)

// searchBox wraps the ticket search input.
type searchBox struct {
	input   textinput.Model
	focused bool
}

func newSearchBox() searchBox {
	in := textinput.New()
	in.Placeholder = "search tickets"
	in.CharLimit = 100
	return searchBox{input: in}
}

func (m *Model) visibleTickets() []model.Ticket {
	return view.FilterTickets(m.tickets.Tickets, m.tickets.Filters, "")
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.search.focused = false
		m.search.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	q := m.search.input.Value()
	m.stores.Tickets.SetFilters(model.TicketFilterPatch{Search: &q})
	return m, cmd
}

func (m *Model) updateTickets(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visibleTickets()
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case "/":
		m.search.focused = true
		m.search.input.Focus()
		return m, textinput.Blink

	// Status facets.
	case "o":
		m.toggleStatus(model.TicketOpen)
	case "i":
		m.toggleStatus(model.TicketInProgress)
	case "e":
		m.toggleStatus(model.TicketResolved)
	case "c":
		m.toggleStatus(model.TicketClosed)

	// Priority facets.
	case "l":
		m.togglePriority(model.PriorityLow)
	case "m":
		m.togglePriority(model.PriorityMedium)
	case "h":
		m.togglePriority(model.PriorityHigh)

	// Type facets.
	case "b":
		m.toggleType(model.TypeBug)
	case "f":
		m.toggleType(model.TypeFeature)
	case "t":
		m.toggleType(model.TypeTask)

	case "x":
		m.search.input.Reset()
		m.stores.Tickets.ClearFilters()
	case "r":
		return m, m.dispatch(func(ctx context.Context) { _ = m.stores.Tickets.FetchAll(ctx, "") })

	case "n":
		if len(m.projects.Projects) > 0 {
			m.openTicketForm(newTicketForm(""))
		}
		return m, nil
	case "enter":
		if m.cursor < len(visible) {
			m.openTicketForm(newTicketEditForm(visible[m.cursor]))
		}
		return m, nil
	case "d":
		if m.cursor < len(visible) {
			id := visible[m.cursor].ID
			return m, m.dispatch(func(ctx context.Context) { _ = m.stores.Tickets.Delete(ctx, id) })
		}
	}
	m.clampCursor()
	return m, nil
}

func (m *Model) toggleStatus(v model.TicketStatus) {
	set := view.ToggleStatus(m.tickets.Filters.Status, v)
	m.stores.Tickets.SetFilters(model.TicketFilterPatch{Status: &set})
}

func (m *Model) togglePriority(v model.TicketPriority) {
	set := view.TogglePriority(m.tickets.Filters.Priority, v)
	m.stores.Tickets.SetFilters(model.TicketFilterPatch{Priority: &set})
}

func (m *Model) toggleType(v model.TicketType) {
	set := view.ToggleType(m.tickets.Filters.Type, v)
	m.stores.Tickets.SetFilters(model.TicketFilterPatch{Type: &set})
}

func (m *Model) viewTickets() string {
	s := m.styles
	rows := []string{s.Title.Render("Tickets"), ""}

	searchStyle := s.Input
	if m.search.focused {
		searchStyle = s.Focused
	}
	rows = append(rows, searchStyle.Render(m.search.input.View()))

	if facets := m.facetLine(); facets != "" {
		rows = append(rows, facets)
	}
	if m.tickets.Loading {
		rows = append(rows, s.Muted.Render("loading..."))
	}
	if m.tickets.Error != "" {
		rows = append(rows, s.Error.Render(m.tickets.Error))
	}
	rows = append(rows, "")

	visible := m.visibleTickets()
	for i, t := range visible {
		if i == m.cursor {
			rows = append(rows, s.Selected.Render(ticketLine(s, t)))
		} else {
			rows = append(rows, s.Item.Render(ticketLine(s, t)))
		}
	}
	if len(visible) == 0 && !m.tickets.Loading {
		rows = append(rows, s.Muted.Render("no tickets match"))
	}

	rows = append(rows, s.Help.Render(
		s.HelpKey.Render("/")+" search • "+
			s.HelpKey.Render("o/i/e/c")+" status • "+
			s.HelpKey.Render("l/m/h")+" priority • "+
			s.HelpKey.Render("b/f/t")+" type • "+
			s.HelpKey.Render("x")+" clear",
	))
	rows = append(rows, s.Help.Render(
		s.HelpKey.Render("n")+" new • "+
			s.HelpKey.Render("↵")+" edit • "+
			s.HelpKey.Render("d")+" delete",
	))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// facetLine renders the active filter facets as badges.
func (m *Model) facetLine() string {
	s := m.styles
	var parts []string
	for _, v := range m.tickets.Filters.Status {
		parts = append(parts, s.Badge.Render(string(v)))
	}
	for _, v := range m.tickets.Filters.Priority {
		parts = append(parts, s.Badge.Render(string(v)))
	}
	for _, v := range m.tickets.Filters.Type {
		parts = append(parts, s.Badge.Render(string(v)))
	}
	if m.tickets.Filters.Search != "" {
		parts = append(parts, s.Badge.Render("~"+m.tickets.Filters.Search))
	}
	return strings.Join(parts, "")
}
