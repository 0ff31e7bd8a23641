package memory

import (
	"context"
	"strings"
	"sync"
)

// DocumentStore keeps documents in process. Each key has its own lock so
// Update behaves like the Postgres store.
type DocumentStore struct {
	mu    sync.RWMutex
	docs  map[string][]byte
	locks sync.Map
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string][]byte)}
}

func (s *DocumentStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.docs[key]), nil
}

func (s *DocumentStore) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	current := clone(s.docs[key])
	s.mu.RUnlock()

	next, err := fn(current)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.docs[key] = clone(next)
	s.mu.Unlock()
	return nil
}

func (s *DocumentStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.docs, key)
	s.mu.Unlock()
	return nil
}

func (s *DocumentStore) DeletePrefix(_ context.Context, prefix string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for key := range s.docs {
		if strings.HasPrefix(key, prefix) {
			delete(s.docs, key)
			n++
		}
	}
	return n, nil
}

func (s *DocumentStore) keyLock(key string) *sync.Mutex {
	lock, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
