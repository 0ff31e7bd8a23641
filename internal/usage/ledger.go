package usage

import (
	"context"

	"booth-service/internal/domain/event"
	"booth-service/internal/domain/scope"
	"booth-service/internal/quota"
)

// Delta is a signed change to an event's usage counters.
type Delta struct {
	Photos    int `json:"photos"`
	AICredits int `json:"aiCredits"`
}

type EventUpdater interface {
	Update(ctx context.Context, sc scope.TenantScope, fn func(e *event.Event) error) (*event.Event, error)
}

// Ledger commits usage after the metered work has succeeded. It never
// refuses an increment that passes the cap; callers check the snapshot
// before doing the work.
type Ledger struct {
	events EventUpdater
}

func NewLedger(events EventUpdater) *Ledger {
	return &Ledger{events: events}
}

// IncrementUsage applies d to the counters, clamping each at zero.
func (l *Ledger) IncrementUsage(ctx context.Context, sc scope.TenantScope, d Delta) (*event.Event, quota.Snapshot, error) {
	updated, err := l.events.Update(ctx, sc, func(e *event.Event) error {
		e.PhotoUsed = max(0, e.PhotoUsed+d.Photos)
		e.AIUsed = max(0, e.AIUsed+d.AICredits)
		return nil
	})
	if err != nil {
		return nil, quota.Snapshot{}, err
	}
	return updated, quota.UsageSnapshot(*updated), nil
}
