package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/dspetrov/trackdesk/internal/view"
)

func (m *Model) viewDashboard() string {
	s := m.styles
	stats := view.ComputeStats(m.projects.Projects, m.tickets.Tickets)

	statLine := fmt.Sprintf(
		"active projects %d • open %d • in progress %d • resolved %d • high priority %d",
		stats.ActiveProjects, stats.OpenTickets, stats.InProgressTickets,
		stats.ResolvedTickets, stats.HighPriorityTickets,
	)

	recent := []string{s.Title.Render("Recent activity")}
	for _, t := range view.RecentTickets(m.tickets.Tickets, 5) {
		line := t.Title
		if t.Project != nil {
			line += s.Muted.Render(" · " + t.Project.Name)
		}
		recent = append(recent, s.Item.Render(line))
	}
	if len(recent) == 1 {
		recent = append(recent, s.Muted.Render("  no tickets yet"))
	}

	active := []string{s.Title.Render("Active projects")}
	for _, p := range view.ActiveProjects(m.projects.Projects, 5) {
		active = append(active, s.Item.Render(p.Name))
	}
	if len(active) == 1 {
		active = append(active, s.Muted.Render("  no active projects"))
	}

	who := ""
	if m.auth.Profile != nil {
		who = s.Muted.Render(m.auth.Profile.FullName + " (" + string(m.auth.Profile.Role) + ")")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Dashboard")+"  "+who,
		"",
		s.Panel.Render(statLine),
		"",
		lipgloss.JoinVertical(lipgloss.Left, recent...),
		"",
		lipgloss.JoinVertical(lipgloss.Left, active...),
		m.helpLine(),
	)
}

func (m *Model) helpLine() string {
	s := m.styles
	return s.Help.Render(
		s.HelpKey.Render("1") + " dashboard • " +
			s.HelpKey.Render("2") + " projects • " +
			s.HelpKey.Render("3") + " tickets • " +
			s.HelpKey.Render("ctrl+o") + " sign out • " +
			s.HelpKey.Render("q") + " quit",
	)
}
