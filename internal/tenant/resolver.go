package tenant

import (
	"context"
	"strings"

	"booth-service/internal/domain/event"
	"booth-service/internal/domain/scope"
	apperrors "booth-service/pkg/errors"
)

// Resolver turns a caller identity and an event reference into a
// TenantScope. Lookups always go through the owner's own events index.
type Resolver struct {
	events *EventStore
}

func NewResolver(events *EventStore) *Resolver {
	return &Resolver{events: events}
}

// Resolve finds slugOrID among the caller's own events.
func (r *Resolver) Resolve(ctx context.Context, callerID, slugOrID string) (scope.TenantScope, error) {
	if err := checkCaller(callerID); err != nil {
		return scope.TenantScope{}, err
	}
	if strings.TrimSpace(slugOrID) == "" {
		return scope.TenantScope{}, apperrors.MissingParameter(paramEvent)
	}

	e, err := r.events.Get(ctx, callerID, slugOrID)
	if err != nil {
		return scope.TenantScope{}, err
	}
	return validScope(*e)
}

// ResolveShared resolves an event of another owner for a caller listed as
// one of its collaborators. A caller without access gets NotFound.
func (r *Resolver) ResolveShared(ctx context.Context, callerID, ownerID, slug string) (scope.TenantScope, error) {
	if err := checkCaller(callerID); err != nil {
		return scope.TenantScope{}, err
	}
	if strings.TrimSpace(ownerID) == "" || strings.TrimSpace(slug) == "" {
		return scope.TenantScope{}, apperrors.MissingParameter(paramEvent)
	}
	if !scope.ValidID(ownerID) {
		return scope.TenantScope{}, apperrors.NotFound(errEventNotFound)
	}

	e, err := r.events.Get(ctx, ownerID, slug)
	if err != nil {
		return scope.TenantScope{}, err
	}
	if !e.HasAccess(callerID) {
		return scope.TenantScope{}, apperrors.NotFound(errEventNotFound)
	}
	return validScope(*e)
}

// ResolveByID is used where a link token or the admin key is the
// authority instead of a caller identity.
func (r *Resolver) ResolveByID(ctx context.Context, ownerID, eventID string) (scope.TenantScope, error) {
	sc, _, err := r.ResolveEvent(ctx, ownerID, eventID)
	return sc, err
}

// ResolveEvent is ResolveByID that also returns the event record.
func (r *Resolver) ResolveEvent(ctx context.Context, ownerID, eventID string) (scope.TenantScope, *event.Event, error) {
	if strings.TrimSpace(ownerID) == "" || strings.TrimSpace(eventID) == "" {
		return scope.TenantScope{}, nil, apperrors.MissingParameter(paramEvent)
	}
	sc := scope.TenantScope{OwnerID: ownerID, EventID: eventID}
	if !sc.Valid() {
		return scope.TenantScope{}, nil, apperrors.NotFound(errEventNotFound)
	}

	e, err := r.events.Load(ctx, sc)
	if err != nil {
		return scope.TenantScope{}, nil, err
	}
	sc, err = validScope(*e)
	if err != nil {
		return scope.TenantScope{}, nil, err
	}
	return sc, e, nil
}

func checkCaller(callerID string) error {
	if strings.TrimSpace(callerID) == "" {
		return apperrors.Unauthorized(errCallerRequired)
	}
	if !scope.ValidID(callerID) {
		return apperrors.Unauthorized(errInvalidCaller)
	}
	return nil
}

// validScope guards records written before ids were checked on the way in.
func validScope(e event.Event) (scope.TenantScope, error) {
	sc := ScopeOf(e)
	if !sc.Valid() {
		return scope.TenantScope{}, apperrors.NotFound(errEventNotFound)
	}
	return sc, nil
}
