package checkin

import (
	"context"
	"testing"

	"booth-service/internal/domain/scope"
	repomemory "booth-service/internal/repository/memory"
	apperrors "booth-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sc = scope.TenantScope{OwnerID: "owner-1", EventID: "event-1"}

func TestRegisterUpsertsByEmail(t *testing.T) {
	store := NewStore(repomemory.NewDocumentStore())
	ctx := context.Background()

	first, err := store.Register(ctx, sc, RegisterInput{Name: "Ana", Email: "Ana@Example.com"})
	require.NoError(t, err)

	second, err := store.Register(ctx, sc, RegisterInput{Email: "ana@example.com ", Phone: "+15550100"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ana", second.Name)
	assert.Equal(t, "+15550100", second.Phone)

	items, err := store.List(ctx, sc)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = store.Register(ctx, sc, RegisterInput{Name: "No email"})
	assert.ErrorIs(t, err, apperrors.ErrMissingParameter)
}

func TestCheckinsAreScoped(t *testing.T) {
	store := NewStore(repomemory.NewDocumentStore())
	ctx := context.Background()

	_, err := store.Register(ctx, sc, RegisterInput{Email: "a@example.com"})
	require.NoError(t, err)

	items, err := store.List(ctx, scope.TenantScope{OwnerID: "owner-1", EventID: "event-2"})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDeleteCheckin(t *testing.T) {
	store := NewStore(repomemory.NewDocumentStore())
	ctx := context.Background()

	c, err := store.Register(ctx, sc, RegisterInput{Email: "a@example.com"})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, sc, c.ID))
	assert.ErrorIs(t, store.Delete(ctx, sc, c.ID), apperrors.ErrNotFound)
}

func TestPingCountsAndClear(t *testing.T) {
	store := NewNotificationStore(repomemory.NewDocumentStore())
	ctx := context.Background()

	p, err := store.Ping(ctx, sc, "guest@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Count)

	p, err = store.Ping(ctx, sc, "GUEST@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Count)

	_, err = store.Ping(ctx, sc, "other@example.com")
	require.NoError(t, err)

	items, err := store.List(ctx, sc)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	require.NoError(t, store.Clear(ctx, sc, p.ID))
	items, err = store.List(ctx, sc)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "other@example.com", items[0].Email)

	assert.ErrorIs(t, store.Clear(ctx, sc, p.ID), apperrors.ErrNotFound)
}
