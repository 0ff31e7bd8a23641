package selection

import (
	"context"
	"slices"
	"strings"
	"time"

	"booth-service/internal/domain/scope"
	"booth-service/internal/domain/selection"
	"booth-service/internal/repository"
	apperrors "booth-service/pkg/errors"
	"booth-service/pkg/token"
)

const (
	paramEmail = "email"

	msgTokenFailed = "failed to generate selection token"
)

// Store issues guest selection links for one scope. Tokens stay usable
// until they expire, even after MarkUsed, so a guest can come back to the
// page before the link runs out.
type Store struct {
	docs repository.DocumentStore
	now  func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(docs repository.DocumentStore, opts ...Option) *Store {
	s := &Store{docs: docs, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create issues a token for email valid for ttl (72h when ttl <= 0).
// Expired tokens of the scope are dropped in the same write.
func (s *Store) Create(ctx context.Context, sc scope.TenantScope, email string, ttl time.Duration) (*selection.Token, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.MissingParameter(paramEmail)
	}
	if ttl <= 0 {
		ttl = selection.DefaultTTL
	}

	secret, err := token.GenerateLinkToken()
	if err != nil {
		return nil, apperrors.InternalServer(msgTokenFailed, err)
	}

	now := s.now().UTC()
	created := selection.Token{
		Token:     secret,
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		OwnerID:   sc.OwnerID,
		EventID:   sc.EventID,
	}

	_, err = repository.MutateList(ctx, s.docs, sc.DocumentKey(scope.CollectionSelections), func(tokens []selection.Token) ([]selection.Token, struct{}, error) {
		tokens = slices.DeleteFunc(tokens, func(t selection.Token) bool { return t.ExpiredAt(now) })
		return append(tokens, created), struct{}{}, nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Find returns the token if it exists in this scope and has not expired.
func (s *Store) Find(ctx context.Context, sc scope.TenantScope, tok string) (*selection.Token, error) {
	tokens, err := repository.LoadList[selection.Token](ctx, s.docs, sc.DocumentKey(scope.CollectionSelections))
	if err != nil {
		return nil, err
	}

	idx := slices.IndexFunc(tokens, func(t selection.Token) bool { return token.Equal(tok, t.Token) })
	if idx < 0 || tokens[idx].ExpiredAt(s.now()) {
		return nil, apperrors.InvalidOrExpiredToken()
	}
	found := tokens[idx]
	return &found, nil
}

// MarkUsed stamps usedAt. The token is not invalidated.
func (s *Store) MarkUsed(ctx context.Context, sc scope.TenantScope, tok string) error {
	_, err := repository.MutateList(ctx, s.docs, sc.DocumentKey(scope.CollectionSelections), func(tokens []selection.Token) ([]selection.Token, struct{}, error) {
		idx := slices.IndexFunc(tokens, func(t selection.Token) bool { return token.Equal(tok, t.Token) })
		if idx < 0 {
			return nil, struct{}{}, apperrors.InvalidOrExpiredToken()
		}
		now := s.now().UTC()
		tokens[idx].UsedAt = &now
		return tokens, struct{}{}, nil
	})
	return err
}
