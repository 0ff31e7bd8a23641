package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEcho(m *Metrics) *echo.Echo {
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/deliveries/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusForbidden, "nope")
	})
	return e
}

func serve(e *echo.Echo, path string) int {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Code
}

func TestMiddlewareCountsByRoute(t *testing.T) {
	m := New()
	e := newEcho(m)

	require.Equal(t, http.StatusOK, serve(e, "/deliveries/secret-token-a"))
	require.Equal(t, http.StatusOK, serve(e, "/deliveries/secret-token-b"))
	require.Equal(t, http.StatusForbidden, serve(e, "/boom"))

	snap := m.Snapshot()
	assert.EqualValues(t, 3, snap.TotalRequests)
	assert.EqualValues(t, 1, snap.TotalErrors)
	assert.EqualValues(t, 0, snap.ActiveRequests)
	assert.EqualValues(t, 2, snap.EndpointCounts["GET /deliveries/:id"])
	assert.EqualValues(t, 1, snap.StatusCodes[http.StatusForbidden])
	assert.InDelta(t, 33.3, snap.ErrorRate, 0.1)
	for endpoint := range snap.EndpointCounts {
		assert.NotContains(t, endpoint, "secret-token")
	}
}

func TestReset(t *testing.T) {
	m := New()
	e := newEcho(m)
	serve(e, "/boom")

	m.Reset()

	snap := m.Snapshot()
	assert.Zero(t, snap.TotalRequests)
	assert.Empty(t, snap.EndpointCounts)
	assert.Empty(t, snap.StatusCodes)
}
