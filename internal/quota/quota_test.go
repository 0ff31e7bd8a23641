package quota

import (
	"testing"

	"booth-service/internal/domain/event"
	"booth-service/internal/domain/plan"
	apperrors "booth-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageSnapshotClampsAtZero(t *testing.T) {
	e := event.WithDefaults(event.Event{Plan: plan.Basic, PhotoUsed: 51, AIUsed: 7})

	snap := UsageSnapshot(e)

	require.NotNil(t, snap.RemainingPhotos)
	assert.Equal(t, 0, *snap.RemainingPhotos)
	assert.Equal(t, 51, snap.PhotoUsed)
	assert.Equal(t, 0, snap.RemainingAI)
}

func TestUsageSnapshotUnlimited(t *testing.T) {
	e := event.WithDefaults(event.Event{Plan: plan.Studio, PhotoUsed: 10000, AIUsed: 10})

	snap := UsageSnapshot(e)

	assert.Nil(t, snap.RemainingPhotos)
	assert.Equal(t, 990, snap.RemainingAI)
	assert.NoError(t, CheckPhotos(snap, 500))
}

func TestCheckPhotos(t *testing.T) {
	e := event.WithDefaults(event.Event{Plan: plan.Free, PhotoUsed: 24})
	snap := UsageSnapshot(e)

	assert.NoError(t, CheckPhotos(snap, 1))

	err := CheckPhotos(snap, 2)
	assert.ErrorIs(t, err, apperrors.ErrQuotaExceeded)
	assert.Contains(t, err.Error(), "photo")

	full := UsageSnapshot(event.WithDefaults(event.Event{Plan: plan.Free, PhotoUsed: 25}))
	err = CheckPhotos(full, 1)
	assert.ErrorIs(t, err, apperrors.ErrQuotaExceeded)
	assert.Contains(t, err.Error(), "photo limit reached")
}

func TestCheckAIMessageDiffersFromPhotos(t *testing.T) {
	snap := UsageSnapshot(event.WithDefaults(event.Event{Plan: plan.Pro, AIUsed: 100}))

	err := CheckAI(snap, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrQuotaExceeded)
	assert.Contains(t, err.Error(), "AI credits")
	assert.NotContains(t, err.Error(), "photo")

	partial := UsageSnapshot(event.WithDefaults(event.Event{Plan: plan.Pro, AIUsed: 98}))
	assert.NoError(t, CheckAI(partial, 2))
	assert.ErrorIs(t, CheckAI(partial, 3), apperrors.ErrQuotaExceeded)
}

func TestRequireCollaborators(t *testing.T) {
	assert.ErrorIs(t, RequireCollaborators(event.WithDefaults(event.Event{Plan: plan.Basic})), apperrors.ErrPlanRestriction)
	assert.ErrorIs(t, RequireCollaborators(event.WithDefaults(event.Event{Plan: plan.Free})), apperrors.ErrPlanRestriction)
	assert.NoError(t, RequireCollaborators(event.WithDefaults(event.Event{Plan: plan.Pro})))
	assert.NoError(t, RequireCollaborators(event.WithDefaults(event.Event{Plan: "enterprise"})))
}

func TestRequireFeature(t *testing.T) {
	free := event.WithDefaults(event.Event{Plan: plan.Free})
	pro := event.WithDefaults(event.Event{Plan: plan.Pro})

	assert.ErrorIs(t, RequireFeature(free, FeatureAIBackgrounds), apperrors.ErrPlanRestriction)
	assert.NoError(t, RequireFeature(pro, FeatureAIBackgrounds))
	assert.NoError(t, RequireFeature(free, FeatureBackgroundRemoval))

	pro.Features.AIBackgrounds = false
	assert.ErrorIs(t, RequireFeature(pro, FeatureAIBackgrounds), apperrors.ErrPlanRestriction)
}
