package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStorePutGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	name, err := store.Put(ctx, "comments/c1/cm1/notes.pdf", strings.NewReader("pdf bytes"), 9, "application/pdf")
	require.NoError(t, err)
	require.Equal(t, "comments/c1/cm1/notes.pdf", name)

	data, ok := store.Get(name)
	require.True(t, ok)
	require.Equal(t, "pdf bytes", string(data))

	require.NoError(t, store.Delete(ctx, name))
	_, ok = store.Get(name)
	require.False(t, ok)
}

func TestNewMinioStore(t *testing.T) {
	store, err := NewMinioStore(Options{
		Endpoint:  "localhost:9000",
		AccessKey: "test",
		SecretKey: "test",
		Bucket:    "attachments",
	})
	require.NoError(t, err)
	require.NotNil(t, store)
}
