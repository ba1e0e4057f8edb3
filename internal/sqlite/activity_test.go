package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogAndList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)
	now := time.Now()

	templateID := "t1"
	entries := []*activity.Entry{
		{ContractID: "c1", EntityKind: activity.EntityTemplate, EntityID: &templateID, Type: activity.TypeTemplateGenerated, Actor: "u1", Summary: "generated contract from template", CreatedAt: now},
		{ContractID: "c1", EntityKind: activity.EntityVersion, Type: activity.TypeVersionCreated, Actor: "u1", Summary: "created version v1.0", CreatedAt: now.Add(time.Second)},
		{ContractID: "c2", EntityKind: activity.EntityNegotiation, Type: activity.TypeNegotiationCreated, Actor: "u2", Summary: "opened negotiation", CreatedAt: now.Add(2 * time.Second)},
	}
	for _, e := range entries {
		require.NoError(t, repo.Log(ctx, "tenant1", e))
		require.NotZero(t, e.ID)
	}

	all, err := repo.List(ctx, "tenant1", activity.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest first.
	require.Equal(t, activity.TypeNegotiationCreated, all[0].Type)

	byContract, err := repo.List(ctx, "tenant1", activity.ListOptions{ContractID: "c1"})
	require.NoError(t, err)
	require.Len(t, byContract, 2)

	kind := activity.EntityTemplate
	byKind, err := repo.List(ctx, "tenant1", activity.ListOptions{EntityKind: &kind})
	require.NoError(t, err)
	require.Len(t, byKind, 1)
	require.NotNil(t, byKind[0].EntityID)
	require.Equal(t, "t1", *byKind[0].EntityID)

	other, err := repo.List(ctx, "tenant2", activity.ListOptions{})
	require.NoError(t, err)
	require.Empty(t, other)
}

func TestAPIKeyStore(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	store := NewAPIKeyStore(db)

	tenant, err := store.TenantForKey(ctx, "unknown")
	require.NoError(t, err)
	require.Empty(t, tenant)

	require.NoError(t, store.StoreKey(ctx, "hash1", "tenant1"))

	tenant, err = store.TenantForKey(ctx, "hash1")
	require.NoError(t, err)
	require.Equal(t, "tenant1", tenant)
}
