package delivery

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"booth-service/internal/domain/production"
	"booth-service/internal/domain/scope"
	"booth-service/internal/storage"
	apperrors "booth-service/pkg/errors"
	"booth-service/pkg/logger"
)

const downloadPathFmt = "%s/deliveries/%s/%s/production/%s/%s?token=%s"

// Message is what a Notifier needs to tell a guest their photos are ready.
type Message struct {
	To         string
	EventName  string
	Link       string
	PhotoCount int
	ExpiresAt  time.Time
}

type Notifier interface {
	SendDeliveryLink(ctx context.Context, msg Message) error
}

// Service ties the production store to the download link and the email
// that carries it.
type Service struct {
	store    *Store
	notifier Notifier
	baseURL  string
	ttl      time.Duration
}

func NewService(store *Store, notifier Notifier, publicBaseURL string, ttl time.Duration) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		baseURL:  strings.TrimRight(publicBaseURL, "/"),
		ttl:      ttl,
	}
}

func (s *Service) Store() *Store {
	return s.store
}

// Deliver saves the files as a new production set and emails the link.
// A failed email is logged and the set is kept so it can be resent.
func (s *Service) Deliver(ctx context.Context, sc scope.TenantScope, email string, files []File, picks ...production.Pick) (*production.Set, error) {
	set, err := s.store.Save(ctx, sc, email, files, s.ttl, picks...)
	if err != nil {
		return nil, err
	}

	if err := s.notify(ctx, sc, set); err != nil {
		logger.WithComponent("delivery").Warn("delivery email not sent",
			"owner_id", sc.OwnerID, "event_id", sc.EventID, "set_id", set.ID, "error", err)
	}
	return set, nil
}

// Resend emails the link of an existing, unexpired set again.
func (s *Service) Resend(ctx context.Context, sc scope.TenantScope, id string) error {
	set, err := s.store.Get(ctx, sc, id)
	if err != nil {
		return err
	}
	if err := s.notify(ctx, sc, set); err != nil {
		return apperrors.InternalServer(msgSendFailed, err)
	}
	return nil
}

// Download validates the token, reads the requested file and records the
// download. A failure to record does not fail the download.
func (s *Service) Download(ctx context.Context, sc scope.TenantScope, id, filename, tok, ip string) (storage.Object, error) {
	set, err := s.store.Verify(ctx, sc, id, tok)
	if err != nil {
		return storage.Object{}, err
	}

	obj, err := s.store.Open(ctx, set, filename)
	if err != nil {
		return storage.Object{}, err
	}

	if err := s.store.RecordDownload(ctx, sc, id, ip); err != nil {
		logger.WithComponent("delivery").Warn("download not recorded",
			"owner_id", sc.OwnerID, "event_id", sc.EventID, "set_id", id, "error", err)
	}
	return obj, nil
}

// Link builds the public download URL of the set's bundle.
func (s *Service) Link(sc scope.TenantScope, set *production.Set) string {
	filename := set.BundleFilename
	if filename == "" && len(set.Attachments) > 0 {
		filename = set.Attachments[0].Filename
	}
	return fmt.Sprintf(downloadPathFmt,
		s.baseURL,
		url.PathEscape(sc.OwnerID),
		url.PathEscape(sc.EventID),
		url.PathEscape(set.ID),
		url.PathEscape(filename),
		url.QueryEscape(set.DownloadToken),
	)
}

func (s *Service) notify(ctx context.Context, sc scope.TenantScope, set *production.Set) error {
	if s.notifier == nil {
		return fmt.Errorf(msgNotifierUnavailable)
	}
	return s.notifier.SendDeliveryLink(ctx, Message{
		To:         set.Email,
		EventName:  sc.EventName,
		Link:       s.Link(sc, set),
		PhotoCount: len(set.Attachments),
		ExpiresAt:  set.TokenExpiresAt,
	})
}
