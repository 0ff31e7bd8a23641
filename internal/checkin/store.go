package checkin

import (
	"context"
	"slices"
	"strings"
	"time"

	"booth-service/internal/domain/checkin"
	"booth-service/internal/domain/scope"
	"booth-service/internal/repository"
	apperrors "booth-service/pkg/errors"

	"github.com/google/uuid"
)

const (
	paramEmail = "email"

	msgCheckinNotFound      = "checkin not found"
	msgNotificationNotFound = "notification not found"
)

type Option func(*clock)

type clock struct {
	now func() time.Time
}

func WithClock(now func() time.Time) Option {
	return func(c *clock) { c.now = now }
}

func newClock(opts []Option) clock {
	c := clock{now: time.Now}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Store is the guest registry of an event, keyed by email.
type Store struct {
	docs repository.DocumentStore
	clock
}

func NewStore(docs repository.DocumentStore, opts ...Option) *Store {
	return &Store{docs: docs, clock: newClock(opts)}
}

type RegisterInput struct {
	Name  string
	Email string
	Phone string
}

// Register adds a guest or updates the existing entry with the same email.
func (s *Store) Register(ctx context.Context, sc scope.TenantScope, in RegisterInput) (*checkin.Checkin, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, apperrors.MissingParameter(paramEmail)
	}

	return repository.MutateList(ctx, s.docs, sc.DocumentKey(scope.CollectionCheckins), func(items []checkin.Checkin) ([]checkin.Checkin, *checkin.Checkin, error) {
		now := s.now().UTC()
		idx := slices.IndexFunc(items, func(c checkin.Checkin) bool { return c.Email == email })
		if idx >= 0 {
			if name := strings.TrimSpace(in.Name); name != "" {
				items[idx].Name = name
			}
			if phone := strings.TrimSpace(in.Phone); phone != "" {
				items[idx].Phone = phone
			}
			items[idx].UpdatedAt = now
			updated := items[idx]
			return items, &updated, nil
		}

		created := checkin.Checkin{
			ID:        uuid.NewString(),
			Name:      strings.TrimSpace(in.Name),
			Email:     email,
			Phone:     strings.TrimSpace(in.Phone),
			CreatedAt: now,
			UpdatedAt: now,
		}
		return append(items, created), &created, nil
	})
}

func (s *Store) List(ctx context.Context, sc scope.TenantScope) ([]checkin.Checkin, error) {
	return repository.LoadList[checkin.Checkin](ctx, s.docs, sc.DocumentKey(scope.CollectionCheckins))
}

func (s *Store) Delete(ctx context.Context, sc scope.TenantScope, id string) error {
	_, err := repository.MutateList(ctx, s.docs, sc.DocumentKey(scope.CollectionCheckins), func(items []checkin.Checkin) ([]checkin.Checkin, struct{}, error) {
		idx := slices.IndexFunc(items, func(c checkin.Checkin) bool { return c.ID == id })
		if idx < 0 {
			return nil, struct{}{}, apperrors.NotFound(msgCheckinNotFound)
		}
		return slices.Delete(items, idx, idx+1), struct{}{}, nil
	})
	return err
}

// NotificationStore tracks guests waiting for photos that have not been
// delivered yet. Repeated pings for one email bump its count.
type NotificationStore struct {
	docs repository.DocumentStore
	clock
}

func NewNotificationStore(docs repository.DocumentStore, opts ...Option) *NotificationStore {
	return &NotificationStore{docs: docs, clock: newClock(opts)}
}

func (s *NotificationStore) Ping(ctx context.Context, sc scope.TenantScope, email string) (*checkin.PendingUpload, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperrors.MissingParameter(paramEmail)
	}

	return repository.MutateList(ctx, s.docs, sc.DocumentKey(scope.CollectionNotifications), func(items []checkin.PendingUpload) ([]checkin.PendingUpload, *checkin.PendingUpload, error) {
		now := s.now().UTC()
		idx := slices.IndexFunc(items, func(p checkin.PendingUpload) bool { return p.Email == email })
		if idx >= 0 {
			items[idx].Count++
			items[idx].UpdatedAt = now
			updated := items[idx]
			return items, &updated, nil
		}

		created := checkin.PendingUpload{
			ID:        uuid.NewString(),
			Email:     email,
			Count:     1,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return append(items, created), &created, nil
	})
}

func (s *NotificationStore) List(ctx context.Context, sc scope.TenantScope) ([]checkin.PendingUpload, error) {
	return repository.LoadList[checkin.PendingUpload](ctx, s.docs, sc.DocumentKey(scope.CollectionNotifications))
}

func (s *NotificationStore) Clear(ctx context.Context, sc scope.TenantScope, id string) error {
	_, err := repository.MutateList(ctx, s.docs, sc.DocumentKey(scope.CollectionNotifications), func(items []checkin.PendingUpload) ([]checkin.PendingUpload, struct{}, error) {
		idx := slices.IndexFunc(items, func(p checkin.PendingUpload) bool { return p.ID == id })
		if idx < 0 {
			return nil, struct{}{}, apperrors.NotFound(msgNotificationNotFound)
		}
		return slices.Delete(items, idx, idx+1), struct{}{}, nil
	})
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
