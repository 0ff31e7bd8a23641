package capture

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"booth-service/internal/domain/event"
	"booth-service/internal/domain/photo"
	"booth-service/internal/domain/scope"
	"booth-service/internal/quota"
	"booth-service/internal/repository"
	"booth-service/internal/storage"
	"booth-service/internal/usage"
	apperrors "booth-service/pkg/errors"
	"booth-service/pkg/logger"

	"github.com/google/uuid"
)

const (
	paramImage = "image"

	msgPhotoNotFound     = "photo not found"
	msgUploadFailed      = "failed to store photo"
	msgReadFailed        = "failed to read photo"
	msgProcessFailed     = "image processing failed"
	msgUnknownOperation  = "unknown processing operation"
	msgProcessorDisabled = "image processing is not configured"
)

type EventLoader interface {
	Load(ctx context.Context, sc scope.TenantScope) (*event.Event, error)
}

type UsageRecorder interface {
	IncrementUsage(ctx context.Context, sc scope.TenantScope, d usage.Delta) (*event.Event, quota.Snapshot, error)
}

type UploadInput struct {
	Email       string
	Filename    string
	ContentType string
	Data        []byte
}

// Service ingests booth photos. The photo quota is checked before the
// upload and charged after it succeeds; AI processing works the same way
// with credits.
type Service struct {
	events       EventLoader
	ledger       UsageRecorder
	docs         repository.DocumentStore
	objects      storage.ObjectStore
	processor    Processor
	globalPrefix string
	cacheControl string
	presignTTL   time.Duration
	now          func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(events EventLoader, ledger UsageRecorder, docs repository.DocumentStore, objects storage.ObjectStore, processor Processor, globalPrefix, cacheControl string, presignTTL time.Duration, opts ...Option) *Service {
	s := &Service{
		events:       events,
		ledger:       ledger,
		docs:         docs,
		objects:      objects,
		processor:    processor,
		globalPrefix: globalPrefix,
		cacheControl: cacheControl,
		presignTTL:   presignTTL,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Upload(ctx context.Context, sc scope.TenantScope, in UploadInput) (*photo.Photo, quota.Snapshot, error) {
	if len(in.Data) == 0 {
		return nil, quota.Snapshot{}, apperrors.MissingParameter(paramImage)
	}

	e, err := s.events.Load(ctx, sc)
	if err != nil {
		return nil, quota.Snapshot{}, err
	}
	if err := quota.CheckPhotos(quota.UsageSnapshot(*e), 1); err != nil {
		return nil, quota.Snapshot{}, err
	}

	p := photo.Photo{
		ID:        uuid.NewString(),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Filename:  storage.SanitizeFilename(in.Filename),
		CreatedAt: s.now().UTC(),
		Size:      int64(len(in.Data)),
	}
	p.ContentType = storage.ContentTypeFor(p.Filename, in.ContentType)
	p.Key = storage.Key(sc.ObjectPrefix(s.globalPrefix), storage.KindPhotos, p.ID, p.Filename)

	if _, err := s.objects.Upload(ctx, p.Key, in.Data, p.ContentType, s.cacheControl); err != nil {
		return nil, quota.Snapshot{}, apperrors.StorageFailure(msgUploadFailed, err)
	}

	_, err = repository.MutateList(ctx, s.docs, sc.DocumentKey(scope.CollectionPhotos), func(photos []photo.Photo) ([]photo.Photo, struct{}, error) {
		return append(photos, p), struct{}{}, nil
	})
	if err != nil {
		s.objects.DeleteMany(ctx, []string{p.Key})
		return nil, quota.Snapshot{}, err
	}

	_, snap, err := s.ledger.IncrementUsage(ctx, sc, usage.Delta{Photos: 1})
	if err != nil {
		return nil, quota.Snapshot{}, err
	}
	return &p, snap, nil
}

// Process runs op on a stored photo and keeps the result next to it.
func (s *Service) Process(ctx context.Context, sc scope.TenantScope, photoID string, op Operation, prompt string) (*photo.Photo, quota.Snapshot, error) {
	if s.processor == nil {
		return nil, quota.Snapshot{}, apperrors.BadRequest(msgProcessorDisabled)
	}
	feature, ok := featureFor(op)
	if !ok {
		return nil, quota.Snapshot{}, apperrors.Validation(msgUnknownOperation)
	}

	e, err := s.events.Load(ctx, sc)
	if err != nil {
		return nil, quota.Snapshot{}, err
	}
	if err := quota.RequireFeature(*e, feature); err != nil {
		return nil, quota.Snapshot{}, err
	}

	p, err := s.Get(ctx, sc, photoID)
	if err != nil {
		return nil, quota.Snapshot{}, err
	}
	original, err := s.objects.Fetch(ctx, p.Key)
	if err != nil {
		return nil, quota.Snapshot{}, apperrors.StorageFailure(msgReadFailed, err)
	}

	req := ProcessRequest{Operation: op, Image: original.Data, ContentType: original.ContentType, Prompt: prompt}
	if err := quota.CheckAI(quota.UsageSnapshot(*e), s.processor.EstimateCost(req)); err != nil {
		return nil, quota.Snapshot{}, err
	}

	result, err := s.processor.Process(ctx, req)
	if err != nil {
		logger.WithComponent("capture").Warn("processing failed", "owner_id", sc.OwnerID, "event_id", sc.EventID, "photo_id", p.ID, "error", err)
		return nil, quota.Snapshot{}, apperrors.InternalServer(msgProcessFailed, err)
	}

	contentType := result.ContentType
	if contentType == "" {
		contentType = p.ContentType
	}
	key := storage.Key(sc.ObjectPrefix(s.globalPrefix), storage.KindProcessed, p.ID, p.Filename)
	if _, err := s.objects.Upload(ctx, key, result.Image, contentType, s.cacheControl); err != nil {
		return nil, quota.Snapshot{}, apperrors.StorageFailure(msgUploadFailed, err)
	}

	updated, err := repository.MutateList(ctx, s.docs, sc.DocumentKey(scope.CollectionPhotos), func(photos []photo.Photo) ([]photo.Photo, photo.Photo, error) {
		idx := slices.IndexFunc(photos, func(x photo.Photo) bool { return x.ID == p.ID })
		if idx < 0 {
			return nil, photo.Photo{}, apperrors.NotFound(msgPhotoNotFound)
		}
		photos[idx].ProcessedKey = key
		return photos, photos[idx], nil
	})
	if err != nil {
		s.objects.DeleteMany(ctx, []string{key})
		return nil, quota.Snapshot{}, err
	}

	_, snap, err := s.ledger.IncrementUsage(ctx, sc, usage.Delta{AICredits: result.CreditCost})
	if err != nil {
		return nil, quota.Snapshot{}, err
	}
	return &updated, snap, nil
}

func (s *Service) List(ctx context.Context, sc scope.TenantScope) ([]photo.Photo, error) {
	return repository.LoadList[photo.Photo](ctx, s.docs, sc.DocumentKey(scope.CollectionPhotos))
}

// ListByEmail returns the photos captured for one guest.
func (s *Service) ListByEmail(ctx context.Context, sc scope.TenantScope, email string) ([]photo.Photo, error) {
	photos, err := s.List(ctx, sc)
	if err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	return slices.DeleteFunc(photos, func(p photo.Photo) bool { return p.Email != email }), nil
}

func (s *Service) Get(ctx context.Context, sc scope.TenantScope, id string) (*photo.Photo, error) {
	photos, err := s.List(ctx, sc)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(photos, func(p photo.Photo) bool { return p.ID == id })
	if idx < 0 {
		return nil, apperrors.NotFound(msgPhotoNotFound)
	}
	p := photos[idx]
	return &p, nil
}

// Read returns the processed image when there is one, else the original.
func (s *Service) Read(ctx context.Context, p photo.Photo) (storage.Object, error) {
	key := p.Key
	if p.ProcessedKey != "" {
		key = p.ProcessedKey
	}
	obj, err := s.objects.Fetch(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return storage.Object{}, apperrors.NotFound(msgPhotoNotFound)
		}
		return storage.Object{}, apperrors.StorageFailure(msgReadFailed, err)
	}
	return obj, nil
}

// URL presigns the image Read would return.
func (s *Service) URL(ctx context.Context, p photo.Photo) (string, error) {
	key := p.Key
	if p.ProcessedKey != "" {
		key = p.ProcessedKey
	}
	return s.objects.Presign(ctx, key, s.presignTTL)
}

func featureFor(op Operation) (quota.Feature, bool) {
	switch op {
	case OpRemoveBackground:
		return quota.FeatureBackgroundRemoval, true
	case OpAIBackground:
		return quota.FeatureAIBackgrounds, true
	case OpAIFilter:
		return quota.FeatureAIFilters, true
	}
	return "", false
}
