package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/negotiation"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/repository"
	"github.com/stretchr/testify/require"
)

func testNegotiation(id, number string, now time.Time) *negotiation.Negotiation {
	return &negotiation.Negotiation{
		ID:         id,
		ContractID: "c1",
		Number:     number,
		Title:      "Renewal 2026",
		Status:     negotiation.StatusActive,
		Phase:      negotiation.PhasePreparation,
		Round:      1,
		Internal: []negotiation.Participant{
			{ActorID: "u1", DisplayName: "Dana", JoinedAt: now, Permissions: []string{"edit"}},
		},
		StartedAt:      now,
		LastActivityAt: now,
	}
}

func TestNegotiationRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewNegotiationRepository(db)

	neg := testNegotiation("n1", "NEG-202608-0001", time.Now())
	require.NoError(t, repo.Create(ctx, "tenant1", neg))

	loaded, err := repo.Get(ctx, "tenant1", "n1")
	require.NoError(t, err)
	require.Equal(t, "tenant1", loaded.TenantID)
	require.Equal(t, "NEG-202608-0001", loaded.Number)
	require.Len(t, loaded.Internal, 1)
	require.Equal(t, []string{"edit"}, loaded.Internal[0].Permissions)
}

func TestNegotiationRepository_NumberConflict(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewNegotiationRepository(db)
	now := time.Now()

	require.NoError(t, repo.Create(ctx, "tenant1", testNegotiation("n1", "NEG-202608-0001", now)))

	err := repo.Create(ctx, "tenant1", testNegotiation("n2", "NEG-202608-0001", now))
	require.Equal(t, repository.ErrConflict, err)

	// The same number in another tenant is fine.
	require.NoError(t, repo.Create(ctx, "tenant2", testNegotiation("n3", "NEG-202608-0001", now)))
}

func TestNegotiationRepository_MaxSequence(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewNegotiationRepository(db)
	now := time.Now()

	seq, err := repo.MaxSequence(ctx, "tenant1", "NEG-202608-")
	require.NoError(t, err)
	require.Equal(t, 0, seq)

	require.NoError(t, repo.Create(ctx, "tenant1", testNegotiation("n1", "NEG-202608-0001", now)))
	require.NoError(t, repo.Create(ctx, "tenant1", testNegotiation("n2", "NEG-202608-0012", now)))
	require.NoError(t, repo.Create(ctx, "tenant1", testNegotiation("n3", "NEG-202607-0099", now)))
	require.NoError(t, repo.Create(ctx, "tenant2", testNegotiation("n4", "NEG-202608-0500", now)))

	seq, err = repo.MaxSequence(ctx, "tenant1", "NEG-202608-")
	require.NoError(t, err)
	require.Equal(t, 12, seq)
}

func TestNegotiationRepository_Update(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewNegotiationRepository(db)
	now := time.Now()

	neg := testNegotiation("n1", "NEG-202608-0001", now)
	require.NoError(t, repo.Create(ctx, "tenant1", neg))

	final := 9500.0
	completedAt := now.Add(time.Hour)
	neg.Status = negotiation.StatusCompleted
	neg.Phase = negotiation.PhaseFinalization
	neg.Won = true
	neg.FinalValue = &final
	neg.CompletedAt = &completedAt
	neg.PricingHistory = []negotiation.PricingEntry{
		{Value: 9500, Reason: "volume discount", Round: 2, Actor: "u1", At: now},
	}
	require.NoError(t, repo.Update(ctx, "tenant1", neg))

	loaded, err := repo.Get(ctx, "tenant1", "n1")
	require.NoError(t, err)
	require.Equal(t, negotiation.StatusCompleted, loaded.Status)
	require.True(t, loaded.Won)
	require.NotNil(t, loaded.FinalValue)
	require.Equal(t, 9500.0, *loaded.FinalValue)
	require.Len(t, loaded.PricingHistory, 1)

	neg.ID = "missing"
	err = repo.Update(ctx, "tenant1", neg)
	require.Equal(t, repository.ErrNotFound, err)
}

func TestNegotiationRepository_ListFilters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewNegotiationRepository(db)
	now := time.Now()

	a := testNegotiation("n1", "NEG-202608-0001", now)
	b := testNegotiation("n2", "NEG-202608-0002", now)
	b.Status = negotiation.StatusPaused
	c := testNegotiation("n3", "NEG-202608-0003", now)
	c.Phase = negotiation.PhaseApproval
	past := now.Add(-48 * time.Hour)
	c.Deadline = &past

	for _, neg := range []*negotiation.Negotiation{a, b, c} {
		require.NoError(t, repo.Create(ctx, "tenant1", neg))
	}

	active, err := repo.List(ctx, "tenant1", negotiation.ListOptions{
		Statuses: []negotiation.Status{negotiation.StatusActive},
	})
	require.NoError(t, err)
	require.Len(t, active, 2)

	inApproval, err := repo.List(ctx, "tenant1", negotiation.ListOptions{
		Phases: []negotiation.Phase{negotiation.PhaseApproval},
	})
	require.NoError(t, err)
	require.Len(t, inApproval, 1)
	require.Equal(t, "n3", inApproval[0].ID)

	overdue, err := repo.List(ctx, "tenant1", negotiation.ListOptions{Overdue: true})
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	require.Equal(t, "n3", overdue[0].ID)
}
