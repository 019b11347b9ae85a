package view

import (
	"slices"

	"github.com/dspetrov/trackdesk/internal/model"
)

// DashboardStats are the aggregate counts shown on the dashboard.
type DashboardStats struct {
	ActiveProjects    int
	OpenTickets       int
	InProgressTickets int
	ResolvedTickets   int
	// HighPriorityTickets counts high-priority tickets that still need
	// attention: resolved and closed ones are excluded.
	HighPriorityTickets int
}

// ComputeStats recomputes the dashboard aggregates from current store
// state.
func ComputeStats(projects []model.Project, tickets []model.Ticket) DashboardStats {
	var s DashboardStats
	for _, p := range projects {
		if p.Status == model.ProjectActive {
			s.ActiveProjects++
		}
	}
	for _, t := range tickets {
		switch t.Status {
		case model.TicketOpen:
			s.OpenTickets++
		case model.TicketInProgress:
			s.InProgressTickets++
		case model.TicketResolved:
			s.ResolvedTickets++
		}
		if t.Priority == model.PriorityHigh &&
			t.Status != model.TicketResolved && t.Status != model.TicketClosed {
			s.HighPriorityTickets++
		}
	}
	return s
}

// RecentTickets returns up to n tickets ordered by created_at
// descending. The input is not mutated; the sort is stable so equal
// timestamps keep their relative order.
func RecentTickets(tickets []model.Ticket, n int) []model.Ticket {
	sorted := slices.Clone(tickets)
	slices.SortStableFunc(sorted, func(a, b model.Ticket) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// ActiveProjects returns projects with status active, capped at n when
// n is positive (the dashboard shows 5; elsewhere the list is
// unbounded).
func ActiveProjects(projects []model.Project, n int) []model.Project {
	out := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if p.Status != model.ProjectActive {
			continue
		}
		out = append(out, p)
		if n > 0 && len(out) == n {
			break
		}
	}
	return out
}
