package quota

import (
	"fmt"

	"booth-service/internal/domain/event"
	"booth-service/internal/domain/plan"
	apperrors "booth-service/pkg/errors"
)

type Feature string

const (
	FeatureBackgroundRemoval Feature = "backgroundRemoval"
	FeatureAIBackgrounds     Feature = "aiBackgrounds"
	FeatureAIFilters         Feature = "aiFilters"
	FeatureSMS               Feature = "sms"
	FeatureGalleryZip        Feature = "galleryZip"
)

const (
	msgPhotoLimitReachedFmt  = "photo limit reached for this event (%d of %d used). Upgrade your plan to capture more photos."
	msgPhotoLimitTooSmallFmt = "only %d photo(s) left on this event's plan. Upgrade your plan to capture more photos."
	msgAICreditsExhaustedFmt = "AI credits exhausted for this event (%d of %d used). Upgrade your plan or buy more credits."
	msgAICreditsTooFewFmt    = "this action needs %d AI credit(s) but only %d remain. Upgrade your plan or buy more credits."
	msgCollaboratorsPlan     = "collaborators are available on the Pro and Studio plans"
	msgFeatureDisabledFmt    = "%s is not available on the %s plan"
)

// Snapshot is the live usage view of an event. RemainingPhotos is nil when
// the photo cap is unlimited.
type Snapshot struct {
	Plan            plan.ID `json:"plan"`
	PhotoCap        *int    `json:"photoCap"`
	PhotoUsed       int     `json:"photoUsed"`
	RemainingPhotos *int    `json:"remainingPhotos"`
	AICredits       int     `json:"aiCredits"`
	AIUsed          int     `json:"aiUsed"`
	RemainingAI     int     `json:"remainingAi"`
}

func UsageSnapshot(e event.Event) Snapshot {
	credits := e.CreditCap()
	snap := Snapshot{
		Plan:        e.Plan,
		PhotoCap:    e.PhotoCap,
		PhotoUsed:   e.PhotoUsed,
		AICredits:   credits,
		AIUsed:      e.AIUsed,
		RemainingAI: max(credits-e.AIUsed, 0),
	}
	if e.PhotoCap != nil {
		remaining := max(*e.PhotoCap-e.PhotoUsed, 0)
		snap.RemainingPhotos = &remaining
	}
	return snap
}

// CheckPhotos fails when n more photos would exceed the cap.
func CheckPhotos(s Snapshot, n int) error {
	if s.RemainingPhotos == nil || n <= 0 {
		return nil
	}
	remaining := *s.RemainingPhotos
	if remaining == 0 {
		return apperrors.QuotaExceeded(fmt.Sprintf(msgPhotoLimitReachedFmt, s.PhotoUsed, *s.PhotoCap))
	}
	if n > remaining {
		return apperrors.QuotaExceeded(fmt.Sprintf(msgPhotoLimitTooSmallFmt, remaining))
	}
	return nil
}

// CheckAI fails when cost credits are not available.
func CheckAI(s Snapshot, cost int) error {
	if cost <= 0 {
		return nil
	}
	if s.RemainingAI == 0 {
		return apperrors.QuotaExceeded(fmt.Sprintf(msgAICreditsExhaustedFmt, s.AIUsed, s.AICredits))
	}
	if cost > s.RemainingAI {
		return apperrors.QuotaExceeded(fmt.Sprintf(msgAICreditsTooFewFmt, cost, s.RemainingAI))
	}
	return nil
}

func RequireCollaborators(e event.Event) error {
	if !plan.DefaultsFor(e.Plan).CanAddCollaborators {
		return apperrors.PlanRestriction(msgCollaboratorsPlan)
	}
	return nil
}

func RequireFeature(e event.Event, f Feature) error {
	if Enabled(e, f) {
		return nil
	}
	return apperrors.PlanRestriction(fmt.Sprintf(msgFeatureDisabledFmt, f, e.Plan))
}

func Enabled(e event.Event, f Feature) bool {
	features := e.Features
	if features == nil {
		defaults := event.FeaturesFor(plan.DefaultsFor(e.Plan))
		features = &defaults
	}
	switch f {
	case FeatureBackgroundRemoval:
		return features.BackgroundRemoval
	case FeatureAIBackgrounds:
		return features.AIBackgrounds && plan.DefaultsFor(e.Plan).AllowAIBackgrounds
	case FeatureAIFilters:
		return features.AIFilters
	case FeatureSMS:
		return features.SMS
	case FeatureGalleryZip:
		return features.GalleryZip
	}
	return false
}
