package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "booth-service/pkg/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "f3K9qL2mZx7VbN4tR8wYc1HdJ6sPgU0e"

func run(t *testing.T, mw echo.MiddlewareFunc, header, value string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	c := e.NewContext(req, httptest.NewRecorder())
	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	return c, err
}

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)
	tok, err := svc.Generate("owner-1", "owner@example.com")
	require.NoError(t, err)

	claims, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", claims.UserID)
	assert.Equal(t, "owner-1", claims.Subject)
}

func TestJWTRejectsExpiredAndForeignTokens(t *testing.T) {
	expired, err := NewJWTService(testSecret, -time.Minute).Generate("owner-1", "")
	require.NoError(t, err)
	_, err = NewJWTService(testSecret, time.Hour).Verify(expired)
	assert.Error(t, err)

	foreign, err := NewJWTService("another-secret-another-secret-xyz", time.Hour).Generate("owner-1", "")
	require.NoError(t, err)
	_, err = NewJWTService(testSecret, time.Hour).Verify(foreign)
	assert.Error(t, err)
}

func TestRequireJWT(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)
	m := NewMiddleware(svc, "", "")
	tok, err := svc.Generate("owner-1", "")
	require.NoError(t, err)

	c, err := run(t, m.RequireJWT(), headerAuthorization, "Bearer "+tok)
	require.NoError(t, err)
	id, err := GetUserID(c)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", id)
	assert.Equal(t, AuthTypeJWT, GetAuthType(c))

	_, err = run(t, m.RequireJWT(), "", "")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))

	_, err = run(t, m.RequireJWT(), headerAuthorization, "Basic "+tok)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestRequireAdminKey(t *testing.T) {
	m := NewMiddleware(NewJWTService(testSecret, time.Hour), "admin-key-0123456789abcdef", "")

	_, err := run(t, m.RequireAdminKey(), HeaderAdminKey, "admin-key-0123456789abcdef")
	assert.NoError(t, err)

	_, err = run(t, m.RequireAdminKey(), HeaderAdminKey, "admin-key-0123456789abcdeX")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))

	_, err = run(t, m.RequireAdminKey(), "", "")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))

	disabled := NewMiddleware(NewJWTService(testSecret, time.Hour), "", "")
	_, err = run(t, disabled.RequireAdminKey(), HeaderAdminKey, "anything")
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
}

func TestRequireWebhookSecret(t *testing.T) {
	m := NewMiddleware(NewJWTService(testSecret, time.Hour), "", "whsec_123")

	_, err := run(t, m.RequireWebhookSecret(), HeaderWebhookSecret, "whsec_123")
	assert.NoError(t, err)

	_, err = run(t, m.RequireWebhookSecret(), HeaderWebhookSecret, "whsec_124")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))

	unset := NewMiddleware(NewJWTService(testSecret, time.Hour), "", "")
	_, err = run(t, unset.RequireWebhookSecret(), HeaderWebhookSecret, "")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestSecretDigest(t *testing.T) {
	assert.Nil(t, NewSecretDigest(""))
	assert.False(t, (*SecretDigest)(nil).Matches("x"))

	d := NewSecretDigest("s3cret")
	assert.True(t, d.Matches("s3cret"))
	assert.False(t, d.Matches("s3cre"))
	assert.False(t, d.Matches(""))
}
