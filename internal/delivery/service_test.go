package delivery

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "booth-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (n *recordingNotifier) SendDeliveryLink(_ context.Context, msg Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

func TestDeliverEmailsBundleLink(t *testing.T) {
	store, _, _ := newTestStore(t)
	notifier := &recordingNotifier{}
	svc := NewService(store, notifier, "https://booth.test/", 72*time.Hour)

	set, err := svc.Deliver(context.Background(), testScope, "guest@example.com", twoFiles())
	require.NoError(t, err)

	require.Len(t, notifier.sent, 1)
	msg := notifier.sent[0]
	assert.Equal(t, "guest@example.com", msg.To)
	assert.Equal(t, "Gala", msg.EventName)
	assert.Equal(t, 2, msg.PhotoCount)
	assert.Equal(t, set.TokenExpiresAt, msg.ExpiresAt)

	link, err := url.Parse(msg.Link)
	require.NoError(t, err)
	assert.Equal(t, "/deliveries/owner-1/event-1/production/"+set.ID+"/photos.zip", link.Path)
	assert.Equal(t, set.DownloadToken, link.Query().Get("token"))
}

func TestDeliverKeepsSetWhenEmailFails(t *testing.T) {
	store, _, _ := newTestStore(t)
	svc := NewService(store, &recordingNotifier{err: errors.New("smtp down")}, "https://booth.test", 0)

	set, err := svc.Deliver(context.Background(), testScope, "guest@example.com", twoFiles())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), testScope, set.ID)
	assert.NoError(t, err)
}

func TestResend(t *testing.T) {
	store, _, c := newTestStore(t)
	notifier := &recordingNotifier{}
	svc := NewService(store, notifier, "https://booth.test", time.Hour)
	ctx := context.Background()

	set, err := svc.Deliver(ctx, testScope, "guest@example.com", twoFiles())
	require.NoError(t, err)

	require.NoError(t, svc.Resend(ctx, testScope, set.ID))
	require.Len(t, notifier.sent, 2)
	assert.Equal(t, notifier.sent[0].Link, notifier.sent[1].Link)

	c.Advance(time.Hour)
	assert.ErrorIs(t, svc.Resend(ctx, testScope, set.ID), apperrors.ErrNotFound)
}

func TestDownloadRecordsAndValidates(t *testing.T) {
	store, _, _ := newTestStore(t)
	svc := NewService(store, &recordingNotifier{}, "https://booth.test", time.Hour)
	ctx := context.Background()

	set, err := svc.Deliver(ctx, testScope, "guest@example.com", twoFiles())
	require.NoError(t, err)

	obj, err := svc.Download(ctx, testScope, set.ID, "a.jpg", set.DownloadToken, "192.0.2.1")
	require.NoError(t, err)
	assert.Equal(t, []byte("photo-a"), obj.Data)

	_, err = svc.Download(ctx, testScope, set.ID, "a.jpg", strings.Repeat("0", 64), "192.0.2.1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrExpiredToken)

	got, err := store.Get(ctx, testScope, set.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.DownloadCount)
	assert.Equal(t, "192.0.2.1", got.DownloadEvents[0].IP)
}
