package selection

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"booth-service/internal/delivery"
	"booth-service/internal/domain/event"
	"booth-service/internal/domain/photo"
	"booth-service/internal/domain/production"
	"booth-service/internal/domain/scope"
	"booth-service/internal/domain/selection"
	"booth-service/internal/storage"
	apperrors "booth-service/pkg/errors"
	"booth-service/pkg/logger"
	"booth-service/pkg/token"
)

const (
	selectionPathFmt = "%s/selections/%s/%s/%s"

	msgNoPicks           = "choose at least one photo"
	msgTooManyPicksFmt   = "you can choose up to %d photo(s)"
	msgUnknownPhoto      = "photo is not available for this link"
	msgUnknownBackground = "background is not available for this event"
	msgDuplicatePick     = "each photo can only be chosen once"
	msgNotifierNotSetup  = "email delivery is not configured"
	msgSignPhotoURL      = "failed to sign photo url"
	msgSignBackgroundURL = "failed to sign background url"
)

type EventResolver interface {
	ResolveEvent(ctx context.Context, ownerID, eventID string) (scope.TenantScope, *event.Event, error)
}

type PhotoSource interface {
	ListByEmail(ctx context.Context, sc scope.TenantScope, email string) ([]photo.Photo, error)
	Read(ctx context.Context, p photo.Photo) (storage.Object, error)
	URL(ctx context.Context, p photo.Photo) (string, error)
}

type Deliverer interface {
	Deliver(ctx context.Context, sc scope.TenantScope, email string, files []delivery.File, picks ...production.Pick) (*production.Set, error)
}

type Presigner interface {
	Presign(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Invite is what a Notifier needs to send a guest their selection link.
type Invite struct {
	To        string
	EventName string
	Link      string
	Limit     int
	ExpiresAt time.Time
}

type Notifier interface {
	SendSelectionInvite(ctx context.Context, inv Invite) error
}

type PhotoView struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// Page is everything a guest sees on the selection page.
type Page struct {
	EventName   string             `json:"eventName"`
	Email       string             `json:"email"`
	Photos      []PhotoView        `json:"photos"`
	Backgrounds []event.Background `json:"backgrounds"`
	Limit       int                `json:"limit"`
	ExpiresAt   time.Time          `json:"expiresAt"`
	UsedAt      *time.Time         `json:"usedAt,omitempty"`
}

type Invitation struct {
	Email     string    `json:"email"`
	Link      string    `json:"link"`
	ExpiresAt time.Time `json:"expiresAt"`
	Emailed   bool      `json:"emailed"`
}

type Config struct {
	PublicBaseURL string
	TTL           time.Duration
	DefaultLimit  int
	PresignTTL    time.Duration
}

type Service struct {
	store     *Store
	resolver  EventResolver
	photos    PhotoSource
	delivery  Deliverer
	presigner Presigner
	notifier  Notifier
	cfg       Config
}

func NewService(store *Store, resolver EventResolver, photos PhotoSource, deliverer Deliverer, presigner Presigner, notifier Notifier, cfg Config) *Service {
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	return &Service{
		store:     store,
		resolver:  resolver,
		photos:    photos,
		delivery:  deliverer,
		presigner: presigner,
		notifier:  notifier,
		cfg:       cfg,
	}
}

// Invite creates a selection link for a guest and emails it. The link is
// also returned so the booth can show it directly.
func (s *Service) Invite(ctx context.Context, sc scope.TenantScope, email string) (*Invitation, error) {
	_, e, err := s.resolver.ResolveEvent(ctx, sc.OwnerID, sc.EventID)
	if err != nil {
		return nil, err
	}

	tok, err := s.store.Create(ctx, sc, email, s.cfg.TTL)
	if err != nil {
		return nil, err
	}

	inv := &Invitation{
		Email:     tok.Email,
		Link:      s.Link(sc, tok.Token),
		ExpiresAt: tok.ExpiresAt,
	}

	if s.notifier == nil {
		logger.WithComponent("selection").Warn(msgNotifierNotSetup, "owner_id", sc.OwnerID, "event_id", sc.EventID)
		return inv, nil
	}
	err = s.notifier.SendSelectionInvite(ctx, Invite{
		To:        tok.Email,
		EventName: e.Name,
		Link:      inv.Link,
		Limit:     s.limitFor(e),
		ExpiresAt: tok.ExpiresAt,
	})
	if err != nil {
		logger.WithComponent("selection").Warn("selection invite not sent", "owner_id", sc.OwnerID, "event_id", sc.EventID, "error", err)
		return inv, nil
	}
	inv.Emailed = true
	return inv, nil
}

// Describe validates the token and lists what the guest may choose from.
func (s *Service) Describe(ctx context.Context, ownerID, eventID, tok string) (*Page, error) {
	sc, e, t, err := s.open(ctx, ownerID, eventID, tok)
	if err != nil {
		return nil, err
	}

	photos, err := s.photos.ListByEmail(ctx, sc, t.Email)
	if err != nil {
		return nil, err
	}

	page := &Page{
		EventName:   e.Name,
		Email:       t.Email,
		Photos:      make([]PhotoView, 0, len(photos)),
		Backgrounds: make([]event.Background, 0, len(e.Backgrounds)),
		Limit:       s.limitFor(e),
		ExpiresAt:   t.ExpiresAt,
		UsedAt:      t.UsedAt,
	}
	for _, p := range photos {
		u, err := s.photos.URL(ctx, p)
		if err != nil {
			return nil, apperrors.StorageFailure(msgSignPhotoURL, err)
		}
		page.Photos = append(page.Photos, PhotoView{ID: p.ID, Filename: p.Filename, URL: u})
	}
	for _, bg := range e.Backgrounds {
		if bg.URL == "" && bg.Key != "" && s.presigner != nil {
			u, err := s.presigner.Presign(ctx, bg.Key, s.cfg.PresignTTL)
			if err != nil {
				return nil, apperrors.StorageFailure(msgSignBackgroundURL, err)
			}
			bg.URL = u
		}
		bg.Key = ""
		page.Backgrounds = append(page.Backgrounds, bg)
	}
	return page, nil
}

// Submit delivers the chosen photos to the token's email and marks the
// token used.
func (s *Service) Submit(ctx context.Context, ownerID, eventID, tok string, picks []production.Pick) (*production.Set, error) {
	sc, e, t, err := s.open(ctx, ownerID, eventID, tok)
	if err != nil {
		return nil, err
	}

	if len(picks) == 0 {
		return nil, apperrors.Validation(msgNoPicks)
	}
	if limit := s.limitFor(e); len(picks) > limit {
		return nil, apperrors.Validation(fmt.Sprintf(msgTooManyPicksFmt, limit))
	}

	photos, err := s.photos.ListByEmail(ctx, sc, t.Email)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(picks))
	files := make([]delivery.File, 0, len(picks))
	for _, pick := range picks {
		if seen[pick.PhotoID] {
			return nil, apperrors.Validation(msgDuplicatePick)
		}
		seen[pick.PhotoID] = true

		idx := slices.IndexFunc(photos, func(p photo.Photo) bool { return p.ID == pick.PhotoID })
		if idx < 0 {
			return nil, apperrors.Validation(msgUnknownPhoto)
		}
		if pick.BackgroundID != "" && !slices.ContainsFunc(e.Backgrounds, func(b event.Background) bool { return b.ID == pick.BackgroundID }) {
			return nil, apperrors.Validation(msgUnknownBackground)
		}

		obj, err := s.photos.Read(ctx, photos[idx])
		if err != nil {
			return nil, err
		}
		files = append(files, delivery.File{
			Filename:    photos[idx].Filename,
			ContentType: obj.ContentType,
			Data:        obj.Data,
		})
	}

	set, err := s.delivery.Deliver(ctx, sc, t.Email, files, picks...)
	if err != nil {
		return nil, err
	}

	if err := s.store.MarkUsed(ctx, sc, tok); err != nil {
		logger.WithComponent("selection").Warn("selection not marked used",
			"owner_id", sc.OwnerID, "event_id", sc.EventID, "link", token.Redact(tok), "error", err)
	}
	return set, nil
}

func (s *Service) Link(sc scope.TenantScope, tok string) string {
	return fmt.Sprintf(selectionPathFmt, s.cfg.PublicBaseURL, url.PathEscape(sc.OwnerID), url.PathEscape(sc.EventID), url.PathEscape(tok))
}

// open resolves the scope and validates the token. An unknown event and a
// bad token produce the same error.
func (s *Service) open(ctx context.Context, ownerID, eventID, tok string) (scope.TenantScope, *event.Event, *selection.Token, error) {
	sc, e, err := s.resolver.ResolveEvent(ctx, ownerID, eventID)
	if err != nil {
		return scope.TenantScope{}, nil, nil, apperrors.InvalidOrExpiredToken()
	}
	t, err := s.store.Find(ctx, sc, tok)
	if err != nil {
		return scope.TenantScope{}, nil, nil, err
	}
	return sc, e, t, nil
}

func (s *Service) limitFor(e *event.Event) int {
	if e.SelectionLimit > 0 {
		return e.SelectionLimit
	}
	if s.cfg.DefaultLimit > 0 {
		return s.cfg.DefaultLimit
	}
	return 1
}
