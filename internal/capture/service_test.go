package capture

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"booth-service/internal/domain/plan"
	"booth-service/internal/domain/scope"
	repomemory "booth-service/internal/repository/memory"
	storagememory "booth-service/internal/storage/memory"
	"booth-service/internal/tenant"
	"booth-service/internal/usage"
	apperrors "booth-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcessor struct {
	cost  int
	calls int
	err   error
}

func (p *fakeProcessor) EstimateCost(req ProcessRequest) int {
	if req.Operation == OpRemoveBackground {
		return 0
	}
	return p.cost
}

func (p *fakeProcessor) Process(_ context.Context, req ProcessRequest) (ProcessResult, error) {
	p.calls++
	if p.err != nil {
		return ProcessResult{}, p.err
	}
	return ProcessResult{Image: append([]byte("processed-"), req.Image...), ContentType: "image/png", CreditCost: p.EstimateCost(req)}, nil
}

type fixture struct {
	svc     *Service
	events  *tenant.EventStore
	objects *storagememory.Store
	proc    *fakeProcessor
	sc      scope.TenantScope
}

func newFixture(t *testing.T, p plan.ID) *fixture {
	t.Helper()
	docs := repomemory.NewDocumentStore()
	objects := storagememory.New("")
	events := tenant.NewEventStore(docs, objects, "tenants", 7*24*time.Hour)
	e, err := events.Create(context.Background(), "owner-1", tenant.CreateInput{Name: "Booth", Plan: p})
	require.NoError(t, err)

	proc := &fakeProcessor{cost: 2}
	svc := NewService(events, usage.NewLedger(events), docs, objects, proc, "tenants", "", time.Minute)
	return &fixture{svc: svc, events: events, objects: objects, proc: proc, sc: tenant.ScopeOf(*e)}
}

func upload(t *testing.T, f *fixture, email string) error {
	t.Helper()
	_, _, err := f.svc.Upload(context.Background(), f.sc, UploadInput{Email: email, Filename: "shot.jpg", Data: []byte("jpeg")})
	return err
}

func TestUploadStopsAtPhotoCap(t *testing.T) {
	f := newFixture(t, plan.Free)

	for i := 0; i < 25; i++ {
		require.NoError(t, upload(t, f, "guest@example.com"))
	}

	err := upload(t, f, "guest@example.com")
	require.ErrorIs(t, err, apperrors.ErrQuotaExceeded)
	assert.Contains(t, err.Error(), "photo limit reached")
	assert.Equal(t, 25, f.objects.Len())

	e, err := f.events.Load(context.Background(), f.sc)
	require.NoError(t, err)
	assert.Equal(t, 25, e.PhotoUsed)
}

func TestUploadFailureIsNotCharged(t *testing.T) {
	f := newFixture(t, plan.Basic)
	f.objects.FailKeys["/shot.jpg"] = true

	err := upload(t, f, "guest@example.com")
	assert.ErrorIs(t, err, apperrors.ErrStorageFailure)

	e, err := f.events.Load(context.Background(), f.sc)
	require.NoError(t, err)
	assert.Equal(t, 0, e.PhotoUsed)
}

func TestUploadReturnsSnapshot(t *testing.T) {
	f := newFixture(t, plan.Basic)

	p, snap, err := f.svc.Upload(context.Background(), f.sc, UploadInput{Email: " Guest@Example.com ", Filename: "my shot.JPG", Data: []byte("jpeg")})
	require.NoError(t, err)
	assert.Equal(t, "guest@example.com", p.Email)
	assert.Equal(t, "image/jpeg", p.ContentType)
	require.NotNil(t, snap.RemainingPhotos)
	assert.Equal(t, 49, *snap.RemainingPhotos)
}

func TestListByEmail(t *testing.T) {
	f := newFixture(t, plan.Pro)
	require.NoError(t, upload(t, f, "a@example.com"))
	require.NoError(t, upload(t, f, "b@example.com"))
	require.NoError(t, upload(t, f, "a@example.com"))

	photos, err := f.svc.ListByEmail(context.Background(), f.sc, "A@example.com")
	require.NoError(t, err)
	assert.Len(t, photos, 2)
}

func TestProcessIsPlanGated(t *testing.T) {
	f := newFixture(t, plan.Free)
	require.NoError(t, upload(t, f, "guest@example.com"))
	photos, err := f.svc.List(context.Background(), f.sc)
	require.NoError(t, err)

	_, _, err = f.svc.Process(context.Background(), f.sc, photos[0].ID, OpAIBackground, "beach")
	assert.ErrorIs(t, err, apperrors.ErrPlanRestriction)
	assert.Equal(t, 0, f.proc.calls)

	p, _, err := f.svc.Process(context.Background(), f.sc, photos[0].ID, OpRemoveBackground, "")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ProcessedKey)

	obj, err := f.svc.Read(context.Background(), *p)
	require.NoError(t, err)
	assert.Equal(t, []byte("processed-jpeg"), obj.Data)
}

func TestProcessChargesCreditsOnSuccessOnly(t *testing.T) {
	f := newFixture(t, plan.Pro)
	ctx := context.Background()
	require.NoError(t, upload(t, f, "guest@example.com"))
	photos, err := f.svc.List(ctx, f.sc)
	require.NoError(t, err)

	f.proc.err = errors.New("provider down")
	_, _, err = f.svc.Process(ctx, f.sc, photos[0].ID, OpAIBackground, "")
	require.Error(t, err)

	e, err := f.events.Load(ctx, f.sc)
	require.NoError(t, err)
	assert.Equal(t, 0, e.AIUsed)

	f.proc.err = nil
	_, snap, err := f.svc.Process(ctx, f.sc, photos[0].ID, OpAIBackground, "")
	require.NoError(t, err)
	assert.Equal(t, 2, snap.AIUsed)
	assert.Equal(t, 98, snap.RemainingAI)
}

func TestProcessFailsWhenCreditsExhausted(t *testing.T) {
	f := newFixture(t, plan.Pro)
	ctx := context.Background()
	require.NoError(t, upload(t, f, "guest@example.com"))
	photos, err := f.svc.List(ctx, f.sc)
	require.NoError(t, err)

	_, _, err = usage.NewLedger(f.events).IncrementUsage(ctx, f.sc, usage.Delta{AICredits: 100})
	require.NoError(t, err)

	_, _, err = f.svc.Process(ctx, f.sc, photos[0].ID, OpAIFilter, "")
	require.ErrorIs(t, err, apperrors.ErrQuotaExceeded)
	assert.Contains(t, err.Error(), "AI credits exhausted")
	assert.Equal(t, 0, f.proc.calls)
}

func TestProcessUnknownOperationAndPhoto(t *testing.T) {
	f := newFixture(t, plan.Pro)
	ctx := context.Background()

	_, _, err := f.svc.Process(ctx, f.sc, "x", Operation("upscale"), "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, _, err = f.svc.Process(ctx, f.sc, "missing", OpRemoveBackground, "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestHTTPProcessorReadsCostHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ai-background", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("X-Credit-Cost", "3")
		_, _ = w.Write(append([]byte("out:"), body...))
	}))
	defer srv.Close()

	p := NewHTTPProcessor(srv.URL, "secret")
	res, err := p.Process(context.Background(), ProcessRequest{Operation: OpAIBackground, Image: []byte("in"), ContentType: "image/jpeg"})
	require.NoError(t, err)
	assert.Equal(t, []byte("out:in"), res.Image)
	assert.Equal(t, 3, res.CreditCost)
	assert.Equal(t, "image/png", res.ContentType)
}

func TestHTTPProcessorErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad image", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	_, err := NewHTTPProcessor(srv.URL, "").Process(context.Background(), ProcessRequest{Operation: OpRemoveBackground, Image: []byte("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}
