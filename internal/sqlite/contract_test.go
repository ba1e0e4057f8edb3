package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/version"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestContractRepository_PutGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewContractRepository(db)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	data := &version.ContractData{
		ContractID: "c1",
		Title:      "Managed Services Agreement",
		Value:      2500,
		StartDate:  &start,
		Components: []version.ComponentAssignment{
			{ComponentID: "comp1", Name: "Workstation coverage", Quantity: 40, UnitPrice: 25, CalculatedPrice: 1000},
		},
		Data: map[string]any{"region": "us-west"},
	}
	require.NoError(t, repo.Put(ctx, "tenant1", data))

	got, err := repo.Get(ctx, "tenant1", "c1")
	require.NoError(t, err)
	require.Equal(t, "Managed Services Agreement", got.Title)
	require.Equal(t, 2500.0, got.Value)
	require.NotNil(t, got.StartDate)
	require.Nil(t, got.EndDate)
	require.Len(t, got.Components, 1)
	require.Equal(t, "us-west", got.Data["region"])
}

func TestContractRepository_PutUpserts(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewContractRepository(db)

	require.NoError(t, repo.Put(ctx, "tenant1", &version.ContractData{ContractID: "c1", Title: "First", Value: 100}))
	require.NoError(t, repo.Put(ctx, "tenant1", &version.ContractData{ContractID: "c1", Title: "Second", Value: 200}))

	got, err := repo.Get(ctx, "tenant1", "c1")
	require.NoError(t, err)
	require.Equal(t, "Second", got.Title)
	require.Equal(t, 200.0, got.Value)
}

func TestContractRepository_TenantIsolation(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewContractRepository(db)

	require.NoError(t, repo.Put(ctx, "tenant1", &version.ContractData{ContractID: "c1", Title: "Mine"}))

	_, err := repo.Get(ctx, "tenant2", "c1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	// Same ID under another tenant is a distinct row, not an upsert.
	require.NoError(t, repo.Put(ctx, "tenant2", &version.ContractData{ContractID: "c1", Title: "Theirs"}))
	got, err := repo.Get(ctx, "tenant1", "c1")
	require.NoError(t, err)
	require.Equal(t, "Mine", got.Title)
}

func TestContractRepository_Delete(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewContractRepository(db)

	require.NoError(t, repo.Put(ctx, "tenant1", &version.ContractData{ContractID: "c1", Title: "Gone soon"}))
	require.NoError(t, repo.Delete(ctx, "tenant1", "c1"))
	require.ErrorIs(t, repo.Delete(ctx, "tenant1", "c1"), repository.ErrNotFound)
}
