package tenant

import (
	"context"
	"regexp"
	"slices"
	"strings"
	"time"

	"booth-service/internal/domain/event"
	"booth-service/internal/domain/plan"
	"booth-service/internal/domain/scope"
	"booth-service/internal/quota"
	"booth-service/internal/repository"
	"booth-service/internal/storage"
	apperrors "booth-service/pkg/errors"
	"booth-service/pkg/logger"

	"github.com/google/uuid"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

type CreateInput struct {
	Name           string
	Slug           string
	Mode           event.Mode
	Plan           plan.ID
	EventDate      *time.Time
	SelectionLimit int
}

// EventStore keeps each owner's events in one index document. Every read
// sweeps events past their retention window and purges their subtree.
type EventStore struct {
	docs         repository.DocumentStore
	objects      storage.ObjectStore
	globalPrefix string
	retention    time.Duration
	now          func() time.Time
}

type Option func(*EventStore)

func WithClock(now func() time.Time) Option {
	return func(s *EventStore) { s.now = now }
}

func NewEventStore(docs repository.DocumentStore, objects storage.ObjectStore, globalPrefix string, retention time.Duration, opts ...Option) *EventStore {
	s := &EventStore{
		docs:         docs,
		objects:      objects,
		globalPrefix: globalPrefix,
		retention:    retention,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func ScopeOf(e event.Event) scope.TenantScope {
	return scope.TenantScope{
		OwnerID:   e.OwnerID,
		EventID:   e.ID,
		EventSlug: e.Slug,
		EventName: e.Name,
	}
}

func Slugify(raw string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	return slug
}

type sweep struct {
	kept    []event.Event
	expired []event.Event
}

// List returns the owner's live events after removing expired ones.
func (s *EventStore) List(ctx context.Context, ownerID string) ([]event.Event, error) {
	events, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !slices.ContainsFunc(events, func(e event.Event) bool { return e.ExpiredAt(now, s.retention) }) {
		return events, nil
	}

	result, err := repository.MutateList(ctx, s.docs, scope.EventsKey(ownerID), func(items []event.Event) ([]event.Event, sweep, error) {
		var out sweep
		for _, e := range items {
			e = event.WithDefaults(e)
			if e.ExpiredAt(now, s.retention) {
				out.expired = append(out.expired, e)
				continue
			}
			out.kept = append(out.kept, e)
		}
		return out.kept, out, nil
	})
	if err != nil {
		return nil, err
	}

	for _, e := range result.expired {
		logger.WithComponent("tenant").Info("event expired, purging", "owner_id", e.OwnerID, "event_id", e.ID)
		s.purge(ctx, ScopeOf(e))
	}
	if result.kept == nil {
		return []event.Event{}, nil
	}
	return result.kept, nil
}

// Get finds an event of ownerID by slug or id.
func (s *EventStore) Get(ctx context.Context, ownerID, slugOrID string) (*event.Event, error) {
	return s.find(ctx, ownerID, func(e event.Event) bool {
		return e.ID == slugOrID || e.Slug == Slugify(slugOrID)
	})
}

// Load returns the current event record behind sc.
func (s *EventStore) Load(ctx context.Context, sc scope.TenantScope) (*event.Event, error) {
	return s.find(ctx, sc.OwnerID, func(e event.Event) bool { return e.ID == sc.EventID })
}

func (s *EventStore) Create(ctx context.Context, ownerID string, in CreateInput) (*event.Event, error) {
	if !scope.ValidID(ownerID) {
		return nil, apperrors.Unauthorized(errInvalidCaller)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.Validation(errEventNameRequired)
	}
	slug := Slugify(in.Slug)
	if in.Slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return nil, apperrors.Validation(errInvalidSlug)
	}
	planID := plan.Free
	if strings.TrimSpace(string(in.Plan)) != "" {
		id, ok := plan.Parse(string(in.Plan))
		if !ok {
			return nil, apperrors.Validation(errInvalidPlan)
		}
		planID = id
	}

	now := s.now().UTC()
	created := event.Event{
		SchemaVersion:  event.CurrentSchemaVersion,
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		Slug:           slug,
		Name:           name,
		Mode:           in.Mode,
		Status:         event.StatusDraft,
		PaymentStatus:  event.PaymentUnpaid,
		EventDate:      in.EventDate,
		SelectionLimit: in.SelectionLimit,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	created = event.ApplyPlan(created, planID)

	_, err := repository.MutateList(ctx, s.docs, scope.EventsKey(ownerID), func(items []event.Event) ([]event.Event, struct{}, error) {
		for _, e := range items {
			if e.Slug == slug {
				return nil, struct{}{}, apperrors.Conflict(errSlugTaken)
			}
		}
		return append(items, created), struct{}{}, nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update applies fn to the stored event under the index lock. fn sees the
// upcast record; an error from fn leaves the index unchanged.
func (s *EventStore) Update(ctx context.Context, sc scope.TenantScope, fn func(e *event.Event) error) (*event.Event, error) {
	return repository.MutateList(ctx, s.docs, scope.EventsKey(sc.OwnerID), func(items []event.Event) ([]event.Event, *event.Event, error) {
		idx := slices.IndexFunc(items, func(e event.Event) bool { return e.ID == sc.EventID })
		if idx < 0 {
			return nil, nil, apperrors.NotFound(errEventNotFound)
		}

		e := event.WithDefaults(items[idx])
		if err := fn(&e); err != nil {
			return nil, nil, err
		}
		e.UpdatedAt = s.now().UTC()
		items[idx] = e
		return items, &e, nil
	})
}

func (s *EventStore) UpdateStatus(ctx context.Context, sc scope.TenantScope, status event.Status) (*event.Event, error) {
	switch status {
	case event.StatusDraft, event.StatusLive, event.StatusClosed:
	default:
		return nil, apperrors.Validation(errInvalidStatus)
	}
	return s.Update(ctx, sc, func(e *event.Event) error {
		e.Status = status
		return nil
	})
}

// UpdatePlan re-derives caps and features from the new plan. Legacy plan
// names are accepted as on Create. Usage counters carry over.
func (s *EventStore) UpdatePlan(ctx context.Context, sc scope.TenantScope, raw string) (*event.Event, error) {
	id, ok := plan.Parse(raw)
	if !ok {
		return nil, apperrors.Validation(errInvalidPlan)
	}
	return s.Update(ctx, sc, func(e *event.Event) error {
		*e = event.ApplyPlan(*e, id)
		return nil
	})
}

func (s *EventStore) SetPaymentStatus(ctx context.Context, sc scope.TenantScope, status event.PaymentStatus) (*event.Event, error) {
	switch status {
	case event.PaymentUnpaid, event.PaymentPending, event.PaymentPaid:
	default:
		return nil, apperrors.Validation(errInvalidPaymentStatus)
	}
	return s.Update(ctx, sc, func(e *event.Event) error {
		e.PaymentStatus = status
		return nil
	})
}

func (s *EventStore) AddCollaborator(ctx context.Context, sc scope.TenantScope, userID string) (*event.Event, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.Validation(errCollaboratorRequired)
	}
	return s.Update(ctx, sc, func(e *event.Event) error {
		if err := quota.RequireCollaborators(*e); err != nil {
			return err
		}
		if userID == e.OwnerID {
			return apperrors.BadRequest(errCollaboratorIsOwner)
		}
		if !e.IsCollaborator(userID) {
			e.Roles.Collaborators = append(e.Roles.Collaborators, userID)
		}
		return nil
	})
}

func (s *EventStore) RemoveCollaborator(ctx context.Context, sc scope.TenantScope, userID string) (*event.Event, error) {
	return s.Update(ctx, sc, func(e *event.Event) error {
		e.Roles.Collaborators = slices.DeleteFunc(e.Roles.Collaborators, func(id string) bool { return id == userID })
		return nil
	})
}

// AddBackground stores a backdrop image and offers it to guests of the event.
func (s *EventStore) AddBackground(ctx context.Context, sc scope.TenantScope, name, filename string, data []byte, contentType string) (*event.Background, error) {
	if len(data) == 0 {
		return nil, apperrors.Validation(errBackgroundEmpty)
	}

	bg := event.Background{ID: uuid.NewString(), Name: strings.TrimSpace(name)}
	if bg.Name == "" {
		bg.Name = filename
	}
	contentType = storage.ContentTypeFor(filename, contentType)

	key := storage.Key(sc.ObjectPrefix(s.globalPrefix), storage.KindBackground, bg.ID, filename)
	res, err := s.objects.Upload(ctx, key, data, contentType, backgroundCacheControl)
	if err != nil {
		return nil, apperrors.StorageFailure(errBackgroundUpload, err)
	}
	bg.Key = res.Key
	bg.URL = res.URL

	_, err = s.Update(ctx, sc, func(e *event.Event) error {
		e.Backgrounds = append(e.Backgrounds, bg)
		return nil
	})
	if err != nil {
		s.objects.DeleteMany(ctx, []string{key})
		return nil, err
	}
	return &bg, nil
}

// Delete removes the event and purges its documents and objects.
func (s *EventStore) Delete(ctx context.Context, sc scope.TenantScope) error {
	_, err := repository.MutateList(ctx, s.docs, scope.EventsKey(sc.OwnerID), func(items []event.Event) ([]event.Event, struct{}, error) {
		idx := slices.IndexFunc(items, func(e event.Event) bool { return e.ID == sc.EventID })
		if idx < 0 {
			return nil, struct{}{}, apperrors.NotFound(errEventNotFound)
		}
		return slices.Delete(items, idx, idx+1), struct{}{}, nil
	})
	if err != nil {
		return err
	}
	s.purge(ctx, sc)
	return nil
}

func (s *EventStore) load(ctx context.Context, ownerID string) ([]event.Event, error) {
	events, err := repository.LoadList[event.Event](ctx, s.docs, scope.EventsKey(ownerID))
	if err != nil {
		return nil, err
	}
	for i := range events {
		events[i] = event.WithDefaults(events[i])
	}
	return events, nil
}

func (s *EventStore) find(ctx context.Context, ownerID string, match func(event.Event) bool) (*event.Event, error) {
	events, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(events, match)
	if idx < 0 {
		return nil, apperrors.NotFound(errEventNotFound)
	}
	e := events[idx]
	return &e, nil
}

// purge is best effort. Failures are logged and never returned.
func (s *EventStore) purge(ctx context.Context, sc scope.TenantScope) {
	log := logger.WithComponent("tenant")

	if _, err := s.docs.DeletePrefix(ctx, sc.DocumentKey("")); err != nil {
		log.Warn("event document purge failed", "owner_id", sc.OwnerID, "event_id", sc.EventID, "error", err)
	}

	result := s.objects.DeletePrefix(ctx, sc.ObjectPrefix(s.globalPrefix))
	if !result.OK() {
		log.Warn("event object purge incomplete", "owner_id", sc.OwnerID, "event_id", sc.EventID, "failed", len(result.Failed))
	}
}
