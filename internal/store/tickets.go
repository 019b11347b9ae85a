package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/dspetrov/trackdesk/internal/gateway"
	"github.com/dspetrov/trackdesk/internal/model"
)

// TicketsState is the tickets store's published state. Tickets is
// ordered newest first; Filters is consumed by the derived-view layer,
// never applied here.
type TicketsState struct {
	Tickets       []model.Ticket
	CurrentTicket *model.Ticket
	Loading       bool
	Error         string
	Filters       model.TicketFilters
}

// Clone returns a snapshot with copied collections and facet sets.
func (s TicketsState) Clone() TicketsState {
	out := s
	out.Tickets = append([]model.Ticket(nil), s.Tickets...)
	if s.CurrentTicket != nil {
		t := *s.CurrentTicket
		out.CurrentTicket = &t
	}
	out.Filters.Status = append([]model.TicketStatus(nil), s.Filters.Status...)
	out.Filters.Priority = append([]model.TicketPriority(nil), s.Filters.Priority...)
	out.Filters.Type = append([]model.TicketType(nil), s.Filters.Type...)
	if s.Filters.AssigneeID != nil {
		id := *s.Filters.AssigneeID
		out.Filters.AssigneeID = &id
	}
	return out
}

// TicketsStore owns the local ticket collection and the active filter
// facet set.
type TicketsStore struct {
	c   *container[TicketsState]
	gw  gateway.Gateway
	log *zap.Logger
}

// NewTicketsStore constructs the tickets store around a gateway.
func NewTicketsStore(gw gateway.Gateway, log *zap.Logger) *TicketsStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &TicketsStore{c: newContainer(TicketsState{}), gw: gw, log: log}
}

// State returns the current snapshot.
func (s *TicketsStore) State() TicketsState { return s.c.State() }

// Subscribe registers a listener for state changes.
func (s *TicketsStore) Subscribe(fn func(TicketsState)) (unsubscribe func()) {
	return s.c.Subscribe(fn)
}

// FetchAll replaces the collection with the backend's newest-first
// listing, scoped to a project when projectID is non-empty.
func (s *TicketsStore) FetchAll(ctx context.Context, projectID string) error {
	s.c.set(func(st *TicketsState) { st.Loading = true })
	tickets, err := s.gw.ListTickets(ctx, projectID)
	if err != nil {
		s.fail("fetch tickets", err)
		return err
	}
	s.c.set(func(st *TicketsState) {
		st.Tickets = tickets
		st.Loading = false
		st.Error = ""
	})
	return nil
}

// FetchByID loads one enriched ticket and makes it current.
func (s *TicketsStore) FetchByID(ctx context.Context, id string) error {
	s.c.set(func(st *TicketsState) { st.Loading = true })
	ticket, err := s.gw.Ticket(ctx, id)
	if err != nil {
		s.fail("fetch ticket", err)
		return err
	}
	s.c.set(func(st *TicketsState) {
		st.CurrentTicket = &ticket
		st.Loading = false
	})
	return nil
}

// Create inserts a ticket; on success it is prepended and becomes
// current.
func (s *TicketsStore) Create(ctx context.Context, nt model.NewTicket) error {
	ticket, err := s.gw.InsertTicket(ctx, nt)
	if err != nil {
		s.fail("create ticket", err)
		return err
	}
	s.c.set(func(st *TicketsState) {
		st.Tickets = append([]model.Ticket{ticket}, st.Tickets...)
		st.CurrentTicket = &ticket
	})
	return nil
}

// Update patches the supplied fields only; the local entry is replaced
// in place, its position unchanged.
func (s *TicketsStore) Update(ctx context.Context, id string, patch model.TicketPatch) error {
	ticket, err := s.gw.UpdateTicket(ctx, id, patch)
	if err != nil {
		s.fail("update ticket", err)
		return err
	}
	s.c.set(func(st *TicketsState) {
		for i := range st.Tickets {
			if st.Tickets[i].ID == ticket.ID {
				st.Tickets[i] = ticket
				break
			}
		}
		if st.CurrentTicket != nil && st.CurrentTicket.ID == ticket.ID {
			st.CurrentTicket = &ticket
		}
	})
	return nil
}

// Delete removes the ticket remotely and locally; a matching current
// ticket is nulled.
func (s *TicketsStore) Delete(ctx context.Context, id string) error {
	if err := s.gw.DeleteTicket(ctx, id); err != nil {
		s.fail("delete ticket", err)
		return err
	}
	s.c.set(func(st *TicketsState) {
		kept := st.Tickets[:0:0]
		for _, t := range st.Tickets {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		st.Tickets = kept
		if st.CurrentTicket != nil && st.CurrentTicket.ID == id {
			st.CurrentTicket = nil
		}
	})
	return nil
}

// SetFilters shallow-merges the patch into the active filter state:
// nil facets stay as they are, non-nil facets are replaced wholesale.
func (s *TicketsStore) SetFilters(patch model.TicketFilterPatch) {
	s.c.set(func(st *TicketsState) {
		if patch.Search != nil {
			st.Filters.Search = *patch.Search
		}
		if patch.Status != nil {
			st.Filters.Status = *patch.Status
		}
		if patch.Priority != nil {
			st.Filters.Priority = *patch.Priority
		}
		if patch.Type != nil {
			st.Filters.Type = *patch.Type
		}
		if patch.AssigneeID != nil {
			st.Filters.AssigneeID = *patch.AssigneeID
		}
	})
}

// ClearFilters resets every facet to unconstrained.
func (s *TicketsStore) ClearFilters() {
	s.c.set(func(st *TicketsState) { st.Filters = model.TicketFilters{} })
}

// ClearCurrent nulls the current ticket.
func (s *TicketsStore) ClearCurrent() {
	s.c.set(func(st *TicketsState) { st.CurrentTicket = nil })
}

// ClearError clears the error message only.
func (s *TicketsStore) ClearError() {
	s.c.set(func(st *TicketsState) { st.Error = "" })
}

func (s *TicketsStore) fail(op string, err error) {
	s.log.Warn("tickets operation failed", zap.String("op", op), zap.Error(err))
	s.c.set(func(st *TicketsState) {
		st.Loading = false
		st.Error = err.Error()
	})
}
