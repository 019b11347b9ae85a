package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dspetrov/trackdesk/internal/model"
)

func TestComputeStats(t *testing.T) {
	t.Parallel()
	projects := []model.Project{
		{ID: "p1", Status: model.ProjectActive},
		{ID: "p2", Status: model.ProjectArchived},
		{ID: "p3", Status: model.ProjectActive},
		{ID: "p4", Status: model.ProjectCompleted},
	}
	tickets := []model.Ticket{
		{ID: "t1", Status: model.TicketOpen, Priority: model.PriorityHigh},
		{ID: "t2", Status: model.TicketOpen, Priority: model.PriorityLow},
		{ID: "t3", Status: model.TicketInProgress, Priority: model.PriorityHigh},
		{ID: "t4", Status: model.TicketResolved, Priority: model.PriorityHigh},
		{ID: "t5", Status: model.TicketClosed, Priority: model.PriorityHigh},
		{ID: "t6", Status: model.TicketResolved, Priority: model.PriorityMedium},
	}

	s := ComputeStats(projects, tickets)
	require.Equal(t, 2, s.ActiveProjects)
	require.Equal(t, 2, s.OpenTickets)
	require.Equal(t, 1, s.InProgressTickets)
	require.Equal(t, 2, s.ResolvedTickets)
	require.Equal(t, 2, s.HighPriorityTickets,
		"resolved and closed tickets are excluded even at high priority")
}

func TestRecentTickets_OrderAndCap(t *testing.T) {
	t.Parallel()
	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return d
	}
	tickets := []model.Ticket{
		{ID: "jan", CreatedAt: day("2024-01-01")},
		{ID: "mar", CreatedAt: day("2024-03-01")},
		{ID: "feb", CreatedAt: day("2024-02-01")},
	}

	got := RecentTickets(tickets, 5)
	require.Equal(t, []string{"mar", "feb", "jan"}, ids(got))

	// Never more than n, strictly descending.
	var many []model.Ticket
	for i := 0; i < 8; i++ {
		many = append(many, model.Ticket{
			ID:        string(rune('a' + i)),
			CreatedAt: day("2024-01-01").AddDate(0, 0, i),
		})
	}
	got = RecentTickets(many, 5)
	require.Len(t, got, 5)
	for i := 1; i < len(got); i++ {
		require.True(t, !got[i].CreatedAt.After(got[i-1].CreatedAt))
	}

	// Input order untouched.
	require.Equal(t, "jan", tickets[0].ID)
}

func TestActiveProjects(t *testing.T) {
	t.Parallel()
	var projects []model.Project
	for i := 0; i < 7; i++ {
		status := model.ProjectActive
		if i%3 == 2 {
			status = model.ProjectArchived
		}
		projects = append(projects, model.Project{ID: string(rune('a' + i)), Status: status})
	}

	capped := ActiveProjects(projects, 5)
	require.Len(t, capped, 5)
	for _, p := range capped {
		require.Equal(t, model.ProjectActive, p.Status)
	}

	unbounded := ActiveProjects(projects, 0)
	require.Len(t, unbounded, 5) // 7 minus the two archived
}

func TestCanEditProject(t *testing.T) {
	t.Parallel()
	owner := &model.Profile{ID: "u1", Role: model.RoleDeveloper}
	admin := &model.Profile{ID: "u2", Role: model.RoleAdmin}
	manager := &model.Profile{ID: "u3", Role: model.RoleManager}
	outsider := &model.Profile{ID: "u4", Role: model.RoleDeveloper}

	project := &model.Project{
		ID:      "p1",
		OwnerID: "u1",
		Members: []model.ProjectMember{
			{ID: "m1", ProjectID: "p1", UserID: "u3", Role: model.MemberManager},
			{ID: "m2", ProjectID: "p1", UserID: "u4", Role: model.MemberRegular},
		},
	}

	require.True(t, CanEditProject(owner, project), "owner edits")
	require.True(t, CanEditProject(admin, project), "admin edits everything")
	require.True(t, CanEditProject(manager, project), "manager-role member edits")
	require.False(t, CanEditProject(outsider, project), "plain member does not")
	require.False(t, CanEditProject(nil, project))
	require.False(t, CanEditProject(owner, nil))
}

func TestCanEditProject_ManagerSignUpScenario(t *testing.T) {
	t.Parallel()
	// Sign up with role=manager: the profile role alone does not grant
	// edit rights on foreign projects; owning one does.
	profile := &model.Profile{ID: "u5", Role: model.RoleManager}
	owned := &model.Project{ID: "p1", OwnerID: "u5"}
	foreign := &model.Project{ID: "p2", OwnerID: "u9"}

	require.True(t, CanEditProject(profile, owned))
	require.False(t, CanEditProject(profile, foreign))
}
