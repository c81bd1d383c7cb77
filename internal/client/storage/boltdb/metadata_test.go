package boltdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerURL(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	got, err := store.GetServerURL(ctx)
	require.NoError(t, err)
	assert.Empty(t, got, "nothing remembered yet")

	for _, url := range []string{"https://notes.example.com", "http://localhost:8080"} {
		require.NoError(t, store.SaveServerURL(ctx, url))
		got, err = store.GetServerURL(ctx)
		require.NoError(t, err)
		assert.Equal(t, url, got)
	}
}

func TestServerURL_IndependentOfSession(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	require.NoError(t, store.SaveServerURL(ctx, "https://notes.example.com"))
	require.NoError(t, store.SaveAuth(ctx, testSession(0)))
	require.NoError(t, store.DeleteAuth(ctx))

	got, err := store.GetServerURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://notes.example.com", got, "logout keeps the remembered server")
}

func TestServerURL_BucketMissing(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	dropBucket(t, store, bucketMetadata)

	_, err := store.GetServerURL(ctx)
	assert.ErrorContains(t, err, "failed to read server url")

	err = store.SaveServerURL(ctx, "http://localhost:8080")
	assert.ErrorContains(t, err, "failed to save server url")
}
