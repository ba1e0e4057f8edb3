package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/comment"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/repository"
	"github.com/stretchr/testify/require"
)

func testComment(id string, parentID *string, now time.Time) *comment.Comment {
	return &comment.Comment{
		ID:         id,
		ContractID: "c1",
		ParentID:   parentID,
		AuthorID:   "u1",
		AuthorKind: comment.AuthorInternal,
		Body:       "Please revisit section 4.2.",
		Type:       comment.TypeSuggestion,
		Priority:   comment.PriorityNormal,
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

func TestCommentRepository_CreateAssignsPositions(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewCommentRepository(db)
	now := time.Now()

	for i, id := range []string{"cm1", "cm2", "cm3"} {
		c := testComment(id, nil, now)
		require.NoError(t, repo.Create(ctx, "tenant1", c))
		require.Equal(t, i+1, c.ThreadPosition)
	}

	// Replies number independently of their parent's siblings.
	parent := "cm1"
	reply := testComment("cm4", &parent, now)
	require.NoError(t, repo.Create(ctx, "tenant1", reply))
	require.Equal(t, 1, reply.ThreadPosition)

	reply2 := testComment("cm5", &parent, now)
	require.NoError(t, repo.Create(ctx, "tenant1", reply2))
	require.Equal(t, 2, reply2.ThreadPosition)
}

func TestCommentRepository_UnknownParent(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewCommentRepository(db)

	parent := "missing"
	err := repo.Create(ctx, "tenant1", testComment("cm1", &parent, time.Now()))
	require.Equal(t, repository.ErrForeignKeyViolation, err)
}

func TestCommentRepository_TenantIsolation(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewCommentRepository(db)

	require.NoError(t, repo.Create(ctx, "tenant1", testComment("cm1", nil, time.Now())))

	_, err := repo.Get(ctx, "tenant2", "cm1")
	require.Equal(t, repository.ErrNotFound, err)
}

func TestCommentRepository_UpdateResolution(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewCommentRepository(db)
	now := time.Now()

	c := testComment("cm1", nil, now)
	require.NoError(t, repo.Create(ctx, "tenant1", c))

	resolver := "u2"
	resolvedAt := now.Add(time.Hour)
	c.IsResolved = true
	c.ResolvedBy = &resolver
	c.ResolvedAt = &resolvedAt
	c.ModifiedAt = resolvedAt
	require.NoError(t, repo.Update(ctx, "tenant1", c))

	loaded, err := repo.Get(ctx, "tenant1", "cm1")
	require.NoError(t, err)
	require.True(t, loaded.IsResolved)
	require.NotNil(t, loaded.ResolvedBy)
	require.Equal(t, "u2", *loaded.ResolvedBy)
}

func TestCommentRepository_ListFilters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewCommentRepository(db)
	now := time.Now()

	a := testComment("cm1", nil, now)
	a.RequiresResponse = true
	b := testComment("cm2", nil, now)
	b.IsResolved = true
	b.Type = comment.TypeObjection
	c := testComment("cm3", nil, now)
	c.IsInternal = true
	parent := "cm1"
	d := testComment("cm4", &parent, now)

	for _, cm := range []*comment.Comment{a, b, c, d} {
		require.NoError(t, repo.Create(ctx, "tenant1", cm))
	}

	unresolved, err := repo.List(ctx, "tenant1", comment.ListOptions{
		ContractID: "c1",
		Unresolved: true,
	})
	require.NoError(t, err)
	require.Len(t, unresolved, 3)

	roots, err := repo.List(ctx, "tenant1", comment.ListOptions{
		ContractID: "c1",
		RootsOnly:  true,
	})
	require.NoError(t, err)
	require.Len(t, roots, 3)

	external, err := repo.List(ctx, "tenant1", comment.ListOptions{
		ContractID:      "c1",
		ExcludeInternal: true,
	})
	require.NoError(t, err)
	require.Len(t, external, 3)

	objections, err := repo.List(ctx, "tenant1", comment.ListOptions{
		ContractID: "c1",
		Types:      []comment.Type{comment.TypeObjection},
	})
	require.NoError(t, err)
	require.Len(t, objections, 1)
	require.Equal(t, "cm2", objections[0].ID)

	needsResponse, err := repo.List(ctx, "tenant1", comment.ListOptions{
		ContractID:       "c1",
		RequiresResponse: true,
	})
	require.NoError(t, err)
	require.Len(t, needsResponse, 1)
	require.Equal(t, "cm1", needsResponse[0].ID)

	all, err := repo.ListByContract(ctx, "tenant1", "c1")
	require.NoError(t, err)
	require.Len(t, all, 4)
}
