package userrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/pollen-calendar/internal/domain/auth"
)

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	user, err := repo.Create(ctx, "a@b.com", "a", "hash")
	require.NoError(t, err)
	require.Equal(t, int64(1), user.ID)

	_, err = repo.Create(ctx, "a@b.com", "b", "hash")
	require.ErrorIs(t, err, auth.ErrEmailExists)

	byEmail, ok, err := repo.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, user, byEmail)

	_, ok, err = repo.GetByID(ctx, 42)
	require.NoError(t, err)
	require.False(t, ok)
}
