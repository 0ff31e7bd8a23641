package usage_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"booth-service/internal/domain/plan"
	"booth-service/internal/domain/scope"
	"booth-service/internal/quota"
	repomemory "booth-service/internal/repository/memory"
	storagememory "booth-service/internal/storage/memory"
	"booth-service/internal/tenant"
	"booth-service/internal/usage"
	apperrors "booth-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, p plan.ID) (*usage.Ledger, *tenant.EventStore, scope.TenantScope) {
	t.Helper()
	events := tenant.NewEventStore(repomemory.NewDocumentStore(), storagememory.New(""), "tenants", 7*24*time.Hour)
	e, err := events.Create(context.Background(), "owner-1", tenant.CreateInput{Name: "Gala", Plan: p})
	require.NoError(t, err)
	return usage.NewLedger(events), events, tenant.ScopeOf(*e)
}

func TestBasicPlanOverrunClampsRemaining(t *testing.T) {
	ledger, _, sc := setup(t, plan.Basic)

	e, snap, err := ledger.IncrementUsage(context.Background(), sc, usage.Delta{Photos: 51})
	require.NoError(t, err)

	assert.Equal(t, 51, e.PhotoUsed)
	assert.Equal(t, 51, snap.PhotoUsed)
	require.NotNil(t, snap.PhotoCap)
	assert.Equal(t, 50, *snap.PhotoCap)
	require.NotNil(t, snap.RemainingPhotos)
	assert.Equal(t, 0, *snap.RemainingPhotos)
	assert.Equal(t, 0, snap.AICredits)
	assert.Equal(t, 0, snap.RemainingAI)

	assert.ErrorIs(t, quota.CheckPhotos(snap, 1), apperrors.ErrQuotaExceeded)
}

func TestSequentialIncrementsAccumulate(t *testing.T) {
	ledger, events, sc := setup(t, plan.Pro)
	ctx := context.Background()

	_, _, err := ledger.IncrementUsage(ctx, sc, usage.Delta{Photos: 1})
	require.NoError(t, err)
	_, _, err = ledger.IncrementUsage(ctx, sc, usage.Delta{Photos: 1})
	require.NoError(t, err)

	e, err := events.Load(ctx, sc)
	require.NoError(t, err)
	assert.Equal(t, 2, e.PhotoUsed)
}

func TestConcurrentIncrementsDoNotLoseUpdates(t *testing.T) {
	ledger, events, sc := setup(t, plan.Studio)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := ledger.IncrementUsage(ctx, sc, usage.Delta{Photos: 1, AICredits: 2})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	e, err := events.Load(ctx, sc)
	require.NoError(t, err)
	assert.Equal(t, 40, e.PhotoUsed)
	assert.Equal(t, 80, e.AIUsed)
}

func TestNegativeDeltaClampsAtZero(t *testing.T) {
	ledger, _, sc := setup(t, plan.Pro)
	ctx := context.Background()

	_, _, err := ledger.IncrementUsage(ctx, sc, usage.Delta{Photos: 3, AICredits: 5})
	require.NoError(t, err)

	e, snap, err := ledger.IncrementUsage(ctx, sc, usage.Delta{Photos: -10, AICredits: -1})
	require.NoError(t, err)
	assert.Equal(t, 0, e.PhotoUsed)
	assert.Equal(t, 4, e.AIUsed)
	assert.Equal(t, 96, snap.RemainingAI)
}

func TestIncrementUnknownEvent(t *testing.T) {
	ledger, _, sc := setup(t, plan.Free)
	sc.EventID = "missing"

	_, _, err := ledger.IncrementUsage(context.Background(), sc, usage.Delta{Photos: 1})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
