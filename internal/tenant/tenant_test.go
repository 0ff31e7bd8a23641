package tenant

import (
	"context"
	"testing"
	"time"

	"booth-service/internal/domain/event"
	"booth-service/internal/domain/plan"
	"booth-service/internal/domain/scope"
	repomemory "booth-service/internal/repository/memory"
	storagememory "booth-service/internal/storage/memory"
	apperrors "booth-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	docs     *repomemory.DocumentStore
	objects  *storagememory.Store
	events   *EventStore
	resolver *Resolver
	clock    *clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c := &clock{t: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)}
	docs := repomemory.NewDocumentStore()
	objects := storagememory.New("http://assets.test")
	events := NewEventStore(docs, objects, "tenants", 7*24*time.Hour, WithClock(c.Now))
	return &fixture{docs: docs, objects: objects, events: events, resolver: NewResolver(events), clock: c}
}

func TestCreateAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.events.Create(ctx, "owner-1", CreateInput{Name: "Summer Gala 2026", Plan: plan.Basic})
	require.NoError(t, err)
	assert.Equal(t, "summer-gala-2026", created.Slug)
	assert.Equal(t, event.StatusDraft, created.Status)
	require.NotNil(t, created.PhotoCap)
	assert.Equal(t, 50, *created.PhotoCap)
	assert.Equal(t, 0, created.CreditCap())

	bySlug, err := f.events.Get(ctx, "owner-1", "summer-gala-2026")
	require.NoError(t, err)
	byID, err := f.events.Get(ctx, "owner-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, bySlug.ID, byID.ID)
}

func TestCreateDuplicateSlugConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.events.Create(ctx, "owner-1", CreateInput{Name: "Wedding", Slug: "smith"})
	require.NoError(t, err)

	_, err = f.events.Create(ctx, "owner-1", CreateInput{Name: "Other", Slug: "Smith"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = f.events.Create(ctx, "owner-2", CreateInput{Name: "Wedding", Slug: "smith"})
	assert.NoError(t, err)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.events.Create(ctx, "owner-1", CreateInput{Name: "  "})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.events.Create(ctx, "owner-1", CreateInput{Name: "Party", Slug: "!!!"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestResolveErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.events.Create(ctx, "owner-1", CreateInput{Name: "Launch"})
	require.NoError(t, err)

	_, err = f.resolver.Resolve(ctx, "", "launch")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = f.resolver.Resolve(ctx, "owner-1", "")
	assert.ErrorIs(t, err, apperrors.ErrMissingParameter)

	_, err = f.resolver.Resolve(ctx, "owner-2", "launch")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	sc, err := f.resolver.Resolve(ctx, "owner-1", "launch")
	require.NoError(t, err)
	assert.Equal(t, scope.TenantScope{OwnerID: "owner-1", EventID: created.ID, EventSlug: "launch", EventName: "Launch"}, sc)
}

func TestResolveRejectsAmbiguousIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.events.Create(ctx, "ab", CreateInput{Name: "Open Day", Plan: plan.Pro})
	require.NoError(t, err)
	_, err = f.events.AddCollaborator(ctx, ScopeOf(*created), "helper")
	require.NoError(t, err)

	_, err = f.resolver.Resolve(ctx, "a/b", "open-day")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = f.resolver.Resolve(ctx, "..", "open-day")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = f.resolver.ResolveShared(ctx, "helper", "a/b", "open-day")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = f.resolver.ResolveShared(ctx, "help/er", "ab", "open-day")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = f.resolver.ResolveByID(ctx, `a\b`, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.events.Create(ctx, "a/b", CreateInput{Name: "Clash"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	sc, err := f.resolver.Resolve(ctx, "ab", "open-day")
	require.NoError(t, err)
	assert.True(t, sc.Valid())
}

func TestResolveShared(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.events.Create(ctx, "owner-1", CreateInput{Name: "Conference", Plan: plan.Pro})
	require.NoError(t, err)
	_, err = f.events.AddCollaborator(ctx, ScopeOf(*created), "helper")
	require.NoError(t, err)

	sc, err := f.resolver.ResolveShared(ctx, "helper", "owner-1", "conference")
	require.NoError(t, err)
	assert.Equal(t, created.ID, sc.EventID)

	_, err = f.resolver.ResolveShared(ctx, "stranger", "owner-1", "conference")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestResolveByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.events.Create(ctx, "owner-1", CreateInput{Name: "Prom"})
	require.NoError(t, err)

	sc, err := f.resolver.ResolveByID(ctx, "owner-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "prom", sc.EventSlug)

	_, err = f.resolver.ResolveByID(ctx, "owner-2", created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.resolver.ResolveByID(ctx, "owner-1", "")
	assert.ErrorIs(t, err, apperrors.ErrMissingParameter)
}

func TestAddCollaboratorIsPlanGated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.events.Create(ctx, "owner-1", CreateInput{Name: "Picnic", Plan: plan.Basic})
	require.NoError(t, err)

	_, err = f.events.AddCollaborator(ctx, ScopeOf(*created), "helper")
	assert.ErrorIs(t, err, apperrors.ErrPlanRestriction)

	e, err := f.events.Load(ctx, ScopeOf(*created))
	require.NoError(t, err)
	assert.Empty(t, e.Roles.Collaborators)
}

func TestCollaboratorsAddIsIdempotentAndRemovable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.events.Create(ctx, "owner-1", CreateInput{Name: "Expo", Plan: plan.Studio})
	require.NoError(t, err)
	sc := ScopeOf(*created)

	_, err = f.events.AddCollaborator(ctx, sc, "helper")
	require.NoError(t, err)
	e, err := f.events.AddCollaborator(ctx, sc, "helper")
	require.NoError(t, err)
	assert.Equal(t, []string{"helper"}, e.Roles.Collaborators)

	_, err = f.events.AddCollaborator(ctx, sc, "owner-1")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	e, err = f.events.RemoveCollaborator(ctx, sc, "helper")
	require.NoError(t, err)
	assert.False(t, e.IsCollaborator("helper"))
}

func TestUpdatePlanKeepsCounters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.events.Create(ctx, "owner-1", CreateInput{Name: "Fair"})
	require.NoError(t, err)
	sc := ScopeOf(*created)

	_, err = f.events.Update(ctx, sc, func(e *event.Event) error {
		e.PhotoUsed = 20
		return nil
	})
	require.NoError(t, err)

	e, err := f.events.UpdatePlan(ctx, sc, "pro")
	require.NoError(t, err)
	assert.Equal(t, plan.Pro, e.Plan)
	assert.Equal(t, 500, *e.PhotoCap)
	assert.Equal(t, 20, e.PhotoUsed)

	_, err = f.events.UpdatePlan(ctx, sc, "platinum")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestLegacyPlanNamesAcceptedOnCreateAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.events.Create(ctx, "owner-1", CreateInput{Name: "Expo", Plan: "premium"})
	require.NoError(t, err)
	assert.Equal(t, plan.Pro, created.Plan)

	e, err := f.events.UpdatePlan(ctx, ScopeOf(*created), "enterprise")
	require.NoError(t, err)
	assert.Equal(t, plan.Studio, e.Plan)
	assert.Nil(t, e.PhotoCap)

	_, err = f.events.Create(ctx, "owner-1", CreateInput{Name: "Expo Two", Plan: "bogus"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	defaulted, err := f.events.Create(ctx, "owner-1", CreateInput{Name: "Expo Three"})
	require.NoError(t, err)
	assert.Equal(t, plan.Free, defaulted.Plan)
}

func TestUpdateStatusAndPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.events.Create(ctx, "owner-1", CreateInput{Name: "Reunion"})
	require.NoError(t, err)
	sc := ScopeOf(*created)

	e, err := f.events.UpdateStatus(ctx, sc, event.StatusLive)
	require.NoError(t, err)
	assert.Equal(t, event.StatusLive, e.Status)

	_, err = f.events.UpdateStatus(ctx, sc, "archived")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	e, err = f.events.SetPaymentStatus(ctx, sc, event.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, event.PaymentPaid, e.PaymentStatus)
}

func TestListSweepsExpiredEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	date := f.clock.Now()
	old, err := f.events.Create(ctx, "owner-1", CreateInput{Name: "Old", EventDate: &date})
	require.NoError(t, err)
	_, err = f.events.Create(ctx, "owner-1", CreateInput{Name: "Undated"})
	require.NoError(t, err)

	sc := ScopeOf(*old)
	_, err = f.objects.Upload(ctx, sc.ObjectPrefix("tenants")+"/photos/p1/a.jpg", []byte("img"), "image/jpeg", "")
	require.NoError(t, err)
	require.NoError(t, f.docs.Update(ctx, sc.DocumentKey(scope.CollectionProduction), func([]byte) ([]byte, error) {
		return []byte(`[]`), nil
	}))

	f.clock.Advance(7 * 24 * time.Hour)
	events, err := f.events.List(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, events, 2)

	f.clock.Advance(time.Minute)
	events, err = f.events.List(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "undated", events[0].Slug)

	assert.Equal(t, 0, f.objects.Len())
	body, err := f.docs.Get(ctx, sc.DocumentKey(scope.CollectionProduction))
	require.NoError(t, err)
	assert.Nil(t, body)
}

func TestDeletePurgesSubtree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.events.Create(ctx, "owner-1", CreateInput{Name: "Gone"})
	require.NoError(t, err)
	sc := ScopeOf(*created)

	bg, err := f.events.AddBackground(ctx, sc, "Beach", "beach.png", []byte("png"), "")
	require.NoError(t, err)
	obj, err := f.objects.Fetch(ctx, bg.Key)
	require.NoError(t, err)
	assert.Equal(t, "image/png", obj.ContentType)

	require.NoError(t, f.events.Delete(ctx, sc))
	assert.Equal(t, 0, f.objects.Len())

	_, err = f.events.Load(ctx, sc)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, f.events.Delete(ctx, sc), apperrors.ErrNotFound)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "anna-ben-s-wedding", Slugify("  Anna & Ben's Wedding "))
	assert.Equal(t, "", Slugify("---"))
}
