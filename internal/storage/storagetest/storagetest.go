// Package storagetest holds the behavior every storage.Store must share.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/clevo-client/internal/storage"
)

// Run exercises get/set/delete semantics against s.
func Run(t *testing.T, s storage.Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, storage.TokenKey)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Set(ctx, storage.TokenKey, "first"))
	require.NoError(t, s.Set(ctx, storage.TokenKey, "second"))
	require.NoError(t, s.Set(ctx, storage.UserKey, `{"id":"1"}`))

	got, err := s.Get(ctx, storage.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	require.NoError(t, s.Delete(ctx, storage.TokenKey))
	require.NoError(t, s.Delete(ctx, storage.TokenKey), "deleting twice is not an error")

	_, err = s.Get(ctx, storage.TokenKey)
	require.ErrorIs(t, err, storage.ErrNotFound)

	got, err = s.Get(ctx, storage.UserKey)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, got)
}
