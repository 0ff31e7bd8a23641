package selection

import (
	"context"
	"testing"
	"time"

	"booth-service/internal/domain/scope"
	repomemory "booth-service/internal/repository/memory"
	apperrors "booth-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore() (*Store, *clock) {
	c := &clock{t: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewStore(repomemory.NewDocumentStore(), WithClock(c.Now)), c
}

var sc = scope.TenantScope{OwnerID: "owner-1", EventID: "event-1"}

func TestFindRespectsTTL(t *testing.T) {
	store, c := newTestStore()
	ctx := context.Background()

	tok, err := store.Create(ctx, sc, "Guest@Example.com", 72*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "guest@example.com", tok.Email)
	assert.Equal(t, "owner-1", tok.OwnerID)
	assert.Equal(t, "event-1", tok.EventID)

	found, err := store.Find(ctx, sc, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, tok.Token, found.Token)

	c.Advance(73 * time.Hour)
	_, err = store.Find(ctx, sc, tok.Token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrExpiredToken)
}

func TestFindExpiresAtBoundary(t *testing.T) {
	store, c := newTestStore()
	ctx := context.Background()

	tok, err := store.Create(ctx, sc, "guest@example.com", 0)
	require.NoError(t, err)
	assert.Equal(t, c.Now().Add(72*time.Hour), tok.ExpiresAt)

	c.Advance(72 * time.Hour)
	_, err = store.Find(ctx, sc, tok.Token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrExpiredToken)
}

func TestFindIsScoped(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	tok, err := store.Create(ctx, sc, "guest@example.com", time.Hour)
	require.NoError(t, err)

	other := scope.TenantScope{OwnerID: "owner-2", EventID: "event-1"}
	_, err = store.Find(ctx, other, tok.Token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrExpiredToken)

	_, err = store.Find(ctx, sc, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrExpiredToken)
}

func TestMarkUsedKeepsTokenUsable(t *testing.T) {
	store, c := newTestStore()
	ctx := context.Background()

	tok, err := store.Create(ctx, sc, "guest@example.com", time.Hour)
	require.NoError(t, err)

	c.Advance(time.Minute)
	require.NoError(t, store.MarkUsed(ctx, sc, tok.Token))

	found, err := store.Find(ctx, sc, tok.Token)
	require.NoError(t, err)
	require.NotNil(t, found.UsedAt)
	assert.True(t, c.Now().Equal(*found.UsedAt))

	assert.ErrorIs(t, store.MarkUsed(ctx, sc, "unknown"), apperrors.ErrInvalidOrExpiredToken)
}

func TestCreateDropsExpiredTokens(t *testing.T) {
	store, c := newTestStore()
	ctx := context.Background()

	_, err := store.Create(ctx, sc, "old@example.com", time.Hour)
	require.NoError(t, err)
	c.Advance(2 * time.Hour)
	_, err = store.Create(ctx, sc, "new@example.com", time.Hour)
	require.NoError(t, err)

	body, err := store.docs.Get(ctx, sc.DocumentKey(scope.CollectionSelections))
	require.NoError(t, err)
	assert.NotContains(t, string(body), "old@example.com")
	assert.Contains(t, string(body), "new@example.com")
}

func TestCreateRequiresEmail(t *testing.T) {
	store, _ := newTestStore()
	_, err := store.Create(context.Background(), sc, "  ", time.Hour)
	assert.ErrorIs(t, err, apperrors.ErrMissingParameter)
}
