package version_test

import (
	"context"
	"testing"
	"time"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/version"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/repository"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestVersionService_CreateSnapshot_First(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	contracts := &mocks.ContractSource{}
	contracts.On("Get", ctx, tenantID, "c1").Return(&version.ContractData{
		ContractID: "c1",
		Title:      "MSA with Globex",
		Value:      2500,
		Components: []version.ComponentAssignment{
			{ComponentID: "comp1", Name: "Workstations", Quantity: 40},
		},
	}, nil)

	versions := &mocks.VersionRepository{}
	versions.On("Latest", ctx, tenantID, "c1").Return(nil, repository.ErrNotFound)
	versions.On("Create", ctx, tenantID, mock.Anything).Return(nil)

	svc := version.NewService(versions, contracts, nil, nil)
	ver, err := svc.CreateSnapshot(ctx, tenantID, version.SnapshotRequest{ContractID: "c1"})
	require.NoError(t, err)
	require.Equal(t, "v1.0", ver.VersionNumber)
	require.Equal(t, version.TypeInitial, ver.Type)
	require.Equal(t, version.StatusDraft, ver.Status)
	require.Equal(t, version.ApprovalPending, ver.ApprovalStatus)
	require.Equal(t, 2500.0, ver.Pricing.TotalValue)
	require.Equal(t, 1, ver.Pricing.ComponentCount)
	require.Empty(t, ver.Changes)
}

func TestVersionService_CreateSnapshot_IncrementsMinor(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	contracts := &mocks.ContractSource{}
	contracts.On("Get", ctx, tenantID, "c1").Return(&version.ContractData{
		ContractID: "c1",
		Title:      "MSA with Globex (amended)",
		Value:      3000,
	}, nil)

	versions := &mocks.VersionRepository{}
	versions.On("Latest", ctx, tenantID, "c1").Return(&version.ContractVersion{
		ContractID:    "c1",
		VersionNumber: "v1.9",
		Title:         "MSA with Globex",
		Value:         2500,
	}, nil)
	versions.On("Create", ctx, tenantID, mock.Anything).Return(nil)

	svc := version.NewService(versions, contracts, nil, nil)
	ver, err := svc.CreateSnapshot(ctx, tenantID, version.SnapshotRequest{ContractID: "c1"})
	require.NoError(t, err)
	require.Equal(t, "v1.10", ver.VersionNumber)
	require.Equal(t, version.TypeRevision, ver.Type)
	// Change set vs the previous latest is captured at snapshot time.
	require.Len(t, ver.Changes, 2)
}

func TestVersionService_CreateSnapshot_RetriesNumberingRace(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	contracts := &mocks.ContractSource{}
	contracts.On("Get", ctx, tenantID, "c1").Return(&version.ContractData{ContractID: "c1"}, nil)

	versions := &mocks.VersionRepository{}
	versions.On("Latest", ctx, tenantID, "c1").Return(nil, repository.ErrNotFound).Once()
	versions.On("Create", ctx, tenantID, mock.Anything).Return(repository.ErrConflict).Once()
	// Second attempt sees the version that won the race.
	versions.On("Latest", ctx, tenantID, "c1").Return(&version.ContractVersion{
		ContractID:    "c1",
		VersionNumber: "v1.0",
	}, nil).Once()
	versions.On("Create", ctx, tenantID, mock.Anything).Return(nil).Once()

	svc := version.NewService(versions, contracts, nil, nil)
	ver, err := svc.CreateSnapshot(ctx, tenantID, version.SnapshotRequest{ContractID: "c1"})
	require.NoError(t, err)
	require.Equal(t, "v1.1", ver.VersionNumber)
	// The winning writer created the real first version, so the retry is a
	// revision, not an initial.
	require.Equal(t, version.TypeRevision, ver.Type)
}

func TestVersionService_CreateSnapshot_ExhaustsRetries(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	contracts := &mocks.ContractSource{}
	contracts.On("Get", ctx, tenantID, "c1").Return(&version.ContractData{ContractID: "c1"}, nil)

	versions := &mocks.VersionRepository{}
	versions.On("Latest", ctx, tenantID, "c1").Return(nil, repository.ErrNotFound)
	versions.On("Create", ctx, tenantID, mock.Anything).Return(repository.ErrConflict)

	svc := version.NewService(versions, contracts, nil, nil)
	_, err := svc.CreateSnapshot(ctx, tenantID, version.SnapshotRequest{ContractID: "c1"})
	require.ErrorIs(t, err, version.ErrNumberingConflict)
}

func TestVersionService_Approve_AppendsLog(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	versions := &mocks.VersionRepository{}
	versions.On("Get", ctx, tenantID, "v1").Return(&version.ContractVersion{
		ID:             "v1",
		VersionNumber:  "v1.0",
		Status:         version.StatusDraft,
		ApprovalStatus: version.ApprovalPending,
	}, nil)
	versions.On("Update", ctx, tenantID, mock.Anything).Return(nil)

	svc := version.NewService(versions, nil, nil, nil)
	ver, err := svc.Approve(ctx, tenantID, "v1", "alice", "looks good")
	require.NoError(t, err)
	require.Equal(t, version.ApprovalApproved, ver.ApprovalStatus)
	require.Equal(t, version.StatusApproved, ver.Status)
	require.Len(t, ver.ApprovalLog, 1)
	require.Equal(t, "alice", ver.ApprovalLog[0].Actor)
}

func TestVersionService_Reject_RequiresReason(t *testing.T) {
	ctx := context.Background()

	versions := &mocks.VersionRepository{}
	svc := version.NewService(versions, nil, nil, nil)

	_, err := svc.Reject(ctx, "tenant1", "v1", "bob", "   ")
	require.ErrorIs(t, err, version.ErrReasonRequired)
	versions.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestVersionService_Reject(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	versions := &mocks.VersionRepository{}
	versions.On("Get", ctx, tenantID, "v1").Return(&version.ContractVersion{
		ID:            "v1",
		VersionNumber: "v1.2",
	}, nil)
	versions.On("Update", ctx, tenantID, mock.Anything).Return(nil)

	svc := version.NewService(versions, nil, nil, nil)
	ver, err := svc.Reject(ctx, tenantID, "v1", "bob", "pricing is off")
	require.NoError(t, err)
	require.Equal(t, version.ApprovalRejected, ver.ApprovalStatus)
	require.Len(t, ver.ApprovalLog, 1)
	require.Equal(t, "pricing is off", ver.ApprovalLog[0].Reason)
}

func TestVersionService_FinalVersionIsImmutable(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	versions := &mocks.VersionRepository{}
	versions.On("Get", ctx, tenantID, "v1").Return(&version.ContractVersion{
		ID:      "v1",
		IsFinal: true,
	}, nil)

	svc := version.NewService(versions, nil, nil, nil)

	_, err := svc.Approve(ctx, tenantID, "v1", "alice", "")
	require.ErrorIs(t, err, version.ErrVersionFinal)
	_, err = svc.Reject(ctx, tenantID, "v1", "alice", "too late")
	require.ErrorIs(t, err, version.ErrVersionFinal)
	_, err = svc.SetClientVisible(ctx, tenantID, "v1", true)
	require.ErrorIs(t, err, version.ErrVersionFinal)
	_, err = svc.MarkFinal(ctx, tenantID, "v1", "alice")
	require.ErrorIs(t, err, version.ErrVersionFinal)
	versions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestVersionService_MarkFinal_SecondFinalConflicts(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	versions := &mocks.VersionRepository{}
	versions.On("Get", ctx, tenantID, "v2").Return(&version.ContractVersion{
		ID:         "v2",
		ContractID: "c1",
	}, nil)
	versions.On("Update", ctx, tenantID, mock.Anything).Return(repository.ErrConflict)

	svc := version.NewService(versions, nil, nil, nil)
	_, err := svc.MarkFinal(ctx, tenantID, "v2", "alice")
	require.ErrorIs(t, err, version.ErrFinalExists)
}

func TestVersionService_CurrentTotal(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	versions := &mocks.VersionRepository{}
	versions.On("Latest", ctx, tenantID, "c1").Return(&version.ContractVersion{
		Pricing: version.PricingSnapshot{TotalValue: 1800},
	}, nil)
	versions.On("Latest", ctx, tenantID, "c2").Return(nil, repository.ErrNotFound)

	svc := version.NewService(versions, nil, nil, nil)

	total, exists, err := svc.CurrentTotal(ctx, tenantID, "c1")
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, 1800.0, total)

	_, exists, err = svc.CurrentTotal(ctx, tenantID, "c2")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestDiff(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	base := &version.ContractVersion{
		Title:     "MSA",
		Value:     1000,
		StartDate: &start,
		Components: []version.ComponentAssignment{
			{ComponentID: "comp1"},
			{ComponentID: "comp2"},
		},
	}
	target := &version.ContractVersion{
		Title:     "MSA (amended)",
		Value:     1000,
		StartDate: &start,
		Components: []version.ComponentAssignment{
			{ComponentID: "comp2"},
			{ComponentID: "comp3"},
		},
	}

	changes := version.Diff(base, target)
	require.Len(t, changes, 3)
	require.Equal(t, version.ChangeFieldChanged, changes[0].Kind)
	require.Equal(t, "title", changes[0].Field)
	require.Equal(t, version.ChangeComponentAdded, changes[1].Kind)
	require.Equal(t, "comp3", changes[1].ComponentID)
	require.Equal(t, version.ChangeComponentRemoved, changes[2].Kind)
	require.Equal(t, "comp1", changes[2].ComponentID)

	// Direction matters: the reverse diff swaps added and removed.
	reverse := version.Diff(target, base)
	require.Len(t, reverse, 3)
	require.Equal(t, version.ChangeComponentAdded, reverse[1].Kind)
	require.Equal(t, "comp1", reverse[1].ComponentID)
}

func TestNextNumber(t *testing.T) {
	number, err := version.NextNumber("")
	require.NoError(t, err)
	require.Equal(t, "v1.0", number)

	number, err = version.NextNumber("v1.9")
	require.NoError(t, err)
	require.Equal(t, "v1.10", number)

	_, err = version.NextNumber("1.0-beta")
	require.Error(t, err)
}
