package memory

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"booth-service/internal/storage"
)

// Store is an in-process ObjectStore used for local runs and tests.
type Store struct {
	mu      sync.RWMutex
	objects map[string]storage.Object
	baseURL string

	// FailKeys makes Upload and DeleteMany fail for keys ending in any entry.
	FailKeys map[string]bool
}

func New(baseURL string) *Store {
	return &Store{
		objects:  make(map[string]storage.Object),
		baseURL:  strings.TrimRight(baseURL, "/"),
		FailKeys: make(map[string]bool),
	}
}

func (s *Store) Upload(ctx context.Context, key string, data []byte, contentType, _ string) (storage.UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return storage.UploadResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fails(key) {
		return storage.UploadResult{}, fmt.Errorf("upload %s: injected failure", key)
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[key] = storage.Object{Data: buf, ContentType: contentType}

	result := storage.UploadResult{Key: key}
	if s.baseURL != "" {
		result.URL = s.baseURL + "/" + key
	}
	return result, nil
}

func (s *Store) Fetch(ctx context.Context, key string) (storage.Object, error) {
	if err := ctx.Err(); err != nil {
		return storage.Object{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return storage.Object{}, storage.ErrObjectNotFound
	}
	return obj, nil
}

func (s *Store) DeleteMany(_ context.Context, keys []string) storage.BatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result storage.BatchResult
	for _, key := range keys {
		if s.fails(key) {
			result.Failed = append(result.Failed, key)
			continue
		}
		delete(s.objects, key)
		result.Succeeded = append(result.Succeeded, key)
	}
	return result
}

func (s *Store) Presign(_ context.Context, key string, ttl time.Duration) (string, error) {
	expires := time.Now().Add(ttl).Unix()
	return fmt.Sprintf("%s/%s?expires=%d", s.baseURL, url.PathEscape(key), expires), nil
}

func (s *Store) List(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix = strings.TrimRight(prefix, "/") + "/"
	var keys []string
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) DeletePrefix(ctx context.Context, prefix string) storage.BatchResult {
	keys, _ := s.List(ctx, prefix)
	return s.DeleteMany(ctx, keys)
}

func (s *Store) fails(key string) bool {
	for suffix, on := range s.FailKeys {
		if on && strings.HasSuffix(key, suffix) {
			return true
		}
	}
	return false
}

// Len reports how many objects are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
