package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/version"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/repository"
	"github.com/stretchr/testify/require"
)

func testVersion(id, contractID, number string, now time.Time) *version.ContractVersion {
	return &version.ContractVersion{
		ID:             id,
		ContractID:     contractID,
		VersionNumber:  number,
		Type:           version.TypeRevision,
		Status:         version.StatusDraft,
		ApprovalStatus: version.ApprovalPending,
		Title:          "Hosting Agreement",
		Value:          1200,
		Components: []version.ComponentAssignment{
			{ComponentID: "comp-1", Name: "Hosting", Quantity: 2, UnitPrice: 600, CalculatedPrice: 1200},
		},
		Pricing: version.PricingSnapshot{
			TotalValue:     1200,
			ComponentCount: 1,
			CapturedAt:     now,
		},
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

func TestVersionRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewVersionRepository(db)

	ver := testVersion("v1", "c1", "v1.0", time.Now())
	require.NoError(t, repo.Create(ctx, "tenant1", ver))

	loaded, err := repo.Get(ctx, "tenant1", "v1")
	require.NoError(t, err)
	require.Equal(t, "tenant1", loaded.TenantID)
	require.Equal(t, "v1.0", loaded.VersionNumber)
	require.Len(t, loaded.Components, 1)
	require.Equal(t, 1200.0, loaded.Pricing.TotalValue)
}

func TestVersionRepository_NumberConflict(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewVersionRepository(db)
	now := time.Now()

	require.NoError(t, repo.Create(ctx, "tenant1", testVersion("v1", "c1", "v1.0", now)))

	err := repo.Create(ctx, "tenant1", testVersion("v2", "c1", "v1.0", now))
	require.Equal(t, repository.ErrConflict, err)

	// Same number on another contract or tenant is fine.
	require.NoError(t, repo.Create(ctx, "tenant1", testVersion("v3", "c2", "v1.0", now)))
	require.NoError(t, repo.Create(ctx, "tenant2", testVersion("v4", "c1", "v1.0", now)))
}

func TestVersionRepository_Latest(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewVersionRepository(db)

	_, err := repo.Latest(ctx, "tenant1", "c1")
	require.Equal(t, repository.ErrNotFound, err)

	base := time.Now()
	require.NoError(t, repo.Create(ctx, "tenant1", testVersion("v1", "c1", "v1.0", base)))
	require.NoError(t, repo.Create(ctx, "tenant1", testVersion("v2", "c1", "v1.1", base.Add(time.Second))))

	latest, err := repo.Latest(ctx, "tenant1", "c1")
	require.NoError(t, err)
	require.Equal(t, "v1.1", latest.VersionNumber)
}

func TestVersionRepository_UpdateFinalGuard(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewVersionRepository(db)
	now := time.Now()

	ver := testVersion("v1", "c1", "v1.0", now)
	require.NoError(t, repo.Create(ctx, "tenant1", ver))

	ver.Status = version.StatusFinal
	ver.IsFinal = true
	ver.ModifiedAt = time.Now()
	require.NoError(t, repo.Update(ctx, "tenant1", ver))

	// Any further write bounces off the finalized row.
	ver.Status = version.StatusDraft
	err := repo.Update(ctx, "tenant1", ver)
	require.Equal(t, repository.ErrImmutable, err)

	ver.ID = "missing"
	err = repo.Update(ctx, "tenant1", ver)
	require.Equal(t, repository.ErrNotFound, err)
}

func TestVersionRepository_SecondFinalConflicts(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewVersionRepository(db)
	now := time.Now()

	first := testVersion("v1", "c1", "v1.0", now)
	second := testVersion("v2", "c1", "v1.1", now)
	require.NoError(t, repo.Create(ctx, "tenant1", first))
	require.NoError(t, repo.Create(ctx, "tenant1", second))

	first.IsFinal = true
	require.NoError(t, repo.Update(ctx, "tenant1", first))

	second.IsFinal = true
	err := repo.Update(ctx, "tenant1", second)
	require.Equal(t, repository.ErrConflict, err)
}

func TestVersionRepository_ListFilters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewVersionRepository(db)
	now := time.Now()

	a := testVersion("v1", "c1", "v1.0", now)
	b := testVersion("v2", "c1", "v1.1", now.Add(time.Second))
	b.Status = version.StatusApproved
	visible := true
	b.IsClientVisible = visible
	c := testVersion("v3", "c2", "v1.0", now)

	for _, ver := range []*version.ContractVersion{a, b, c} {
		require.NoError(t, repo.Create(ctx, "tenant1", ver))
	}

	byContract, err := repo.List(ctx, "tenant1", version.ListOptions{ContractID: "c1"})
	require.NoError(t, err)
	require.Len(t, byContract, 2)
	require.Equal(t, "v1.1", byContract[0].VersionNumber)

	approved, err := repo.List(ctx, "tenant1", version.ListOptions{
		ContractID: "c1",
		Statuses:   []version.Status{version.StatusApproved},
	})
	require.NoError(t, err)
	require.Len(t, approved, 1)
	require.Equal(t, "v2", approved[0].ID)

	clientVisible, err := repo.List(ctx, "tenant1", version.ListOptions{ClientVisible: &visible})
	require.NoError(t, err)
	require.Len(t, clientVisible, 1)
}
