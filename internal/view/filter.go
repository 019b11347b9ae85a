// Package view contains pure functions computed from store state on
// every render: ticket filtering, dashboard aggregates, recency
// sorting, and permission predicates. Nothing here caches or mutates.
package view

import (
	"slices"
	"strings"

	"github.com/dspetrov/trackdesk/internal/model"
)

// FilterTickets returns the tickets passing every active facet: AND
// across facets, OR within a facet. An empty set or search string
// leaves that facet unconstrained. A non-empty projectID is ANDed in
// as an extra scope constraint.
func FilterTickets(tickets []model.Ticket, f model.TicketFilters, projectID string) []model.Ticket {
	out := make([]model.Ticket, 0, len(tickets))
	search := strings.ToLower(f.Search)
	for _, t := range tickets {
		if projectID != "" && t.ProjectID != projectID {
			continue
		}
		if search != "" && !matchesSearch(t, search) {
			continue
		}
		if len(f.Status) > 0 && !slices.Contains(f.Status, t.Status) {
			continue
		}
		if len(f.Priority) > 0 && !slices.Contains(f.Priority, t.Priority) {
			continue
		}
		if len(f.Type) > 0 && !slices.Contains(f.Type, t.Type) {
			continue
		}
		if f.AssigneeID != nil {
			if t.AssigneeID == nil || *t.AssigneeID != *f.AssigneeID {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// matchesSearch does a case-insensitive substring match against title
// or description. A nil description never matches.
func matchesSearch(t model.Ticket, search string) bool {
	if strings.Contains(strings.ToLower(t.Title), search) {
		return true
	}
	return t.Description != nil && strings.Contains(strings.ToLower(*t.Description), search)
}

// toggle recomputes set membership: add the value if absent, remove it
// if present. Multi-select facet semantics.
func toggle[T comparable](set []T, v T) []T {
	if i := slices.Index(set, v); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return append(slices.Clone(set), v)
}

// ToggleStatus flips membership of v in the status facet.
func ToggleStatus(set []model.TicketStatus, v model.TicketStatus) []model.TicketStatus {
	return toggle(set, v)
}

// TogglePriority flips membership of v in the priority facet.
func TogglePriority(set []model.TicketPriority, v model.TicketPriority) []model.TicketPriority {
	return toggle(set, v)
}

// ToggleType flips membership of v in the type facet.
func ToggleType(set []model.TicketType, v model.TicketType) []model.TicketType {
	return toggle(set, v)
}
