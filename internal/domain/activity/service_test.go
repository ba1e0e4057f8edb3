package activity_test

import (
	"context"
	"testing"
	"time"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/activity"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestActivityService_Log_StampsCreatedAt(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	repo := &mocks.ActivityRepository{}
	repo.On("Log", ctx, tenantID, mock.Anything).Return(nil)

	svc := activity.NewService(repo, nil)
	entry := &activity.Entry{
		ContractID: "c1",
		EntityKind: activity.EntityVersion,
		Type:       activity.TypeVersionCreated,
		Summary:    "created version v1.0",
	}
	require.NoError(t, svc.Log(ctx, tenantID, entry))
	require.False(t, entry.CreatedAt.IsZero())
}

func TestActivityService_Log_KeepsExplicitTimestamp(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	repo := &mocks.ActivityRepository{}
	repo.On("Log", ctx, tenantID, mock.Anything).Return(nil)

	svc := activity.NewService(repo, nil)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entry := &activity.Entry{
		EntityKind: activity.EntityComment,
		Type:       activity.TypeCommentCreated,
		Summary:    "comment added",
		CreatedAt:  at,
	}
	require.NoError(t, svc.Log(ctx, tenantID, entry))
	require.Equal(t, at, entry.CreatedAt)
}

func TestActivityService_Log_NilEntry(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)
	require.ErrorIs(t, svc.Log(context.Background(), "tenant1", nil), activity.ErrInvalidInput)
}

func TestActivityService_Recent(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	entries := []activity.Entry{
		{ID: 2, Summary: "newer"},
		{ID: 1, Summary: "older"},
	}
	repo := &mocks.ActivityRepository{}
	repo.On("List", ctx, tenantID, activity.ListOptions{ContractID: "c1", Limit: 10}).Return(entries, nil)

	svc := activity.NewService(repo, nil)
	got, err := svc.Recent(ctx, tenantID, activity.ListOptions{ContractID: "c1", Limit: 10})
	require.NoError(t, err)
	require.Equal(t, entries, got)
}
