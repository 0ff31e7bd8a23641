package delivery

import (
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"time"

	"booth-service/internal/domain/production"
	"booth-service/internal/domain/scope"
	"booth-service/internal/repository"
	"booth-service/internal/storage"
	apperrors "booth-service/pkg/errors"
	"booth-service/pkg/logger"
	"booth-service/pkg/token"

	"github.com/google/uuid"
)

// File is one finished photo handed to Save.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Store keeps production sets in the scope's production document and their
// bytes in the object store. Expired sets are purged as a side effect of
// List and Verify.
type Store struct {
	docs         repository.DocumentStore
	objects      storage.ObjectStore
	globalPrefix string
	cacheControl string
	now          func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(docs repository.DocumentStore, objects storage.ObjectStore, globalPrefix, cacheControl string, opts ...Option) *Store {
	s := &Store{
		docs:         docs,
		objects:      objects,
		globalPrefix: globalPrefix,
		cacheControl: cacheControl,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save uploads every file and a zip of all of them under a new set id,
// then records the set with a fresh download token. The returned set
// carries the token and must only reach the recipient.
func (s *Store) Save(ctx context.Context, sc scope.TenantScope, email string, files []File, ttl time.Duration, picks ...production.Pick) (*production.Set, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.MissingParameter(paramEmail)
	}
	if len(files) == 0 {
		return nil, apperrors.MissingParameter(paramFiles)
	}
	for _, f := range files {
		if len(f.Data) == 0 {
			return nil, apperrors.Validation(fmt.Sprintf(msgEmptyAttachmentFmt, f.Filename))
		}
	}
	if ttl <= 0 {
		ttl = production.DefaultTTL
	}

	downloadToken, err := token.GenerateLinkToken()
	if err != nil {
		return nil, apperrors.InternalServer(msgTokenFailed, err)
	}

	now := s.now().UTC()
	set := production.Set{
		ID:             uuid.NewString(),
		Email:          email,
		CreatedAt:      now,
		DownloadToken:  downloadToken,
		TokenExpiresAt: now.Add(ttl),
		Attachments:    make([]production.Attachment, 0, len(files)),
		BundleFilename: production.DefaultBundleFilename,
		Selections:     picks,
	}

	prefix := sc.ObjectPrefix(s.globalPrefix)
	used := map[string]bool{production.DefaultBundleFilename: true}
	entries := make([]bundleEntry, 0, len(files))
	var uploaded []string

	for _, f := range files {
		name := uniqueName(storage.SanitizeFilename(f.Filename), used)
		contentType := storage.ContentTypeFor(name, f.ContentType)
		key := storage.Key(prefix, storage.KindProduction, set.ID, name)

		if _, err := s.objects.Upload(ctx, key, f.Data, contentType, s.cacheControl); err != nil {
			s.cleanup(ctx, uploaded)
			return nil, apperrors.StorageFailure(msgUploadFailed, err)
		}
		uploaded = append(uploaded, key)

		set.Attachments = append(set.Attachments, production.Attachment{
			Filename:    name,
			Key:         key,
			ContentType: contentType,
			Size:        int64(len(f.Data)),
		})
		entries = append(entries, bundleEntry{name: name, data: f.Data})
	}

	bundle, err := buildBundle(entries, now)
	if err != nil {
		s.cleanup(ctx, uploaded)
		return nil, apperrors.InternalServer(msgBundleFailed, err)
	}
	bundleKey := storage.Key(prefix, storage.KindProduction, set.ID, set.BundleFilename)
	if _, err := s.objects.Upload(ctx, bundleKey, bundle, bundleContentType, s.cacheControl); err != nil {
		s.cleanup(ctx, uploaded)
		return nil, apperrors.StorageFailure(msgUploadFailed, err)
	}
	uploaded = append(uploaded, bundleKey)
	set.BundleKey = bundleKey

	_, err = repository.MutateList(ctx, s.docs, sc.DocumentKey(scope.CollectionProduction), func(sets []production.Set) ([]production.Set, struct{}, error) {
		return append([]production.Set{set}, sets...), struct{}{}, nil
	})
	if err != nil {
		s.cleanup(ctx, uploaded)
		return nil, err
	}

	logger.WithComponent("delivery").Info("production set saved",
		"owner_id", sc.OwnerID, "event_id", sc.EventID, "set_id", set.ID, "attachments", len(set.Attachments))
	return &set, nil
}

// Verify returns the set only if tok matches and the set has not expired.
// Both failures look the same to the caller. An expired match triggers a
// purge of the scope's expired sets.
func (s *Store) Verify(ctx context.Context, sc scope.TenantScope, id, tok string) (*production.Set, error) {
	sets, err := s.load(ctx, sc)
	if err != nil {
		return nil, err
	}

	idx := slices.IndexFunc(sets, func(p production.Set) bool { return p.ID == id })
	if idx < 0 || !token.Equal(tok, sets[idx].DownloadToken) {
		logger.WithComponent("delivery").Debug("download link rejected",
			"owner_id", sc.OwnerID, "event_id", sc.EventID, "set_id", id, "link", token.Redact(tok))
		return nil, apperrors.InvalidOrExpiredToken()
	}

	set := sets[idx]
	if set.ExpiredAt(s.now()) {
		if _, err := s.PurgeExpired(ctx, sc); err != nil {
			logger.WithComponent("delivery").Warn("purge after expired token failed",
				"owner_id", sc.OwnerID, "event_id", sc.EventID, "set_id", id, "link", token.Redact(tok), "error", err)
		}
		return nil, apperrors.InvalidOrExpiredToken()
	}
	return &set, nil
}

// RecordDownload bumps the counter and keeps the newest
// production.MaxDownloadEvents entries of the download log.
func (s *Store) RecordDownload(ctx context.Context, sc scope.TenantScope, id, ip string) error {
	_, err := repository.MutateList(ctx, s.docs, sc.DocumentKey(scope.CollectionProduction), func(sets []production.Set) ([]production.Set, struct{}, error) {
		idx := slices.IndexFunc(sets, func(p production.Set) bool { return p.ID == id })
		if idx < 0 {
			return nil, struct{}{}, apperrors.NotFound(msgSetNotFound)
		}

		now := s.now().UTC()
		set := &sets[idx]
		set.DownloadCount++
		set.LastDownloadedAt = &now
		set.DownloadEvents = append([]production.DownloadEvent{{At: now, IP: ip}}, set.DownloadEvents...)
		if len(set.DownloadEvents) > production.MaxDownloadEvents {
			set.DownloadEvents = set.DownloadEvents[:production.MaxDownloadEvents]
		}
		return sets, struct{}{}, nil
	})
	return err
}

// Delete removes one set. Object deletes are best effort; the set is gone
// from the index even if some objects could not be removed.
func (s *Store) Delete(ctx context.Context, sc scope.TenantScope, id string) (storage.BatchResult, error) {
	removed, err := repository.MutateList(ctx, s.docs, sc.DocumentKey(scope.CollectionProduction), func(sets []production.Set) ([]production.Set, production.Set, error) {
		idx := slices.IndexFunc(sets, func(p production.Set) bool { return p.ID == id })
		if idx < 0 {
			return nil, production.Set{}, apperrors.NotFound(msgSetNotFound)
		}
		set := sets[idx]
		return slices.Delete(sets, idx, idx+1), set, nil
	})
	if err != nil {
		return storage.BatchResult{}, err
	}
	return s.deleteObjects(ctx, sc, []production.Set{removed}), nil
}

func (s *Store) DeleteAll(ctx context.Context, sc scope.TenantScope) (storage.BatchResult, error) {
	removed, err := repository.MutateList(ctx, s.docs, sc.DocumentKey(scope.CollectionProduction), func(sets []production.Set) ([]production.Set, []production.Set, error) {
		return []production.Set{}, sets, nil
	})
	if err != nil {
		return storage.BatchResult{}, err
	}
	return s.deleteObjects(ctx, sc, removed), nil
}

// PurgeExpired drops every set whose token has expired and deletes its
// objects. It returns how many sets were removed.
func (s *Store) PurgeExpired(ctx context.Context, sc scope.TenantScope) (int, error) {
	now := s.now()

	sets, err := s.load(ctx, sc)
	if err != nil {
		return 0, err
	}
	if _, expired := production.Partition(sets, now); len(expired) == 0 {
		return 0, nil
	}

	expired, err := repository.MutateList(ctx, s.docs, sc.DocumentKey(scope.CollectionProduction), func(sets []production.Set) ([]production.Set, []production.Set, error) {
		kept, expired := production.Partition(sets, now)
		return kept, expired, nil
	})
	if err != nil {
		return 0, err
	}

	s.deleteObjects(ctx, sc, expired)
	logger.WithComponent("delivery").Info("expired production sets purged",
		"owner_id", sc.OwnerID, "event_id", sc.EventID, "count", len(expired))
	return len(expired), nil
}

// List returns live sets, newest first.
func (s *Store) List(ctx context.Context, sc scope.TenantScope) ([]production.Set, error) {
	if _, err := s.PurgeExpired(ctx, sc); err != nil {
		return nil, err
	}
	return s.load(ctx, sc)
}

func (s *Store) Get(ctx context.Context, sc scope.TenantScope, id string) (*production.Set, error) {
	sets, err := s.List(ctx, sc)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(sets, func(p production.Set) bool { return p.ID == id })
	if idx < 0 {
		return nil, apperrors.NotFound(msgSetNotFound)
	}
	set := sets[idx]
	return &set, nil
}

// Open reads the bytes of one attachment, or of the bundle when filename
// is the set's bundle filename.
func (s *Store) Open(ctx context.Context, set *production.Set, filename string) (storage.Object, error) {
	key := ""
	if set.BundleKey != "" && filename == set.BundleFilename {
		key = set.BundleKey
	} else {
		for _, a := range set.Attachments {
			if a.Filename == filename {
				key = a.Key
				break
			}
		}
	}
	if key == "" {
		return storage.Object{}, apperrors.NotFound(msgFileNotFound)
	}

	obj, err := s.objects.Fetch(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return storage.Object{}, apperrors.NotFound(msgFileNotFound)
		}
		return storage.Object{}, apperrors.StorageFailure(msgFetchFailed, err)
	}
	return obj, nil
}

func (s *Store) load(ctx context.Context, sc scope.TenantScope) ([]production.Set, error) {
	return repository.LoadList[production.Set](ctx, s.docs, sc.DocumentKey(scope.CollectionProduction))
}

func (s *Store) deleteObjects(ctx context.Context, sc scope.TenantScope, sets []production.Set) storage.BatchResult {
	var keys []string
	for _, set := range sets {
		keys = append(keys, set.Keys()...)
	}
	if len(keys) == 0 {
		return storage.BatchResult{}
	}

	result := s.objects.DeleteMany(ctx, keys)
	if !result.OK() {
		logger.WithComponent("delivery").Warn("some production objects were not deleted",
			"owner_id", sc.OwnerID, "event_id", sc.EventID, "failed", len(result.Failed))
	}
	return result
}

func (s *Store) cleanup(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}
	if result := s.objects.DeleteMany(ctx, keys); !result.OK() {
		logger.WithComponent("delivery").Warn("cleanup after failed save left objects behind", "failed", len(result.Failed))
	}
}

func uniqueName(name string, used map[string]bool) string {
	if !used[name] {
		used[name] = true
		return name
	}
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 2; ; i++ {
		candidate := fmt.Sprintf(duplicateNameFmt, base, i, ext)
		if !used[candidate] {
			used[candidate] = true
			return candidate
		}
	}
}
