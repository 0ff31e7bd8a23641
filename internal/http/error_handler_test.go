package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "booth-service/pkg/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"not found", apperrors.NotFound("event not found"), http.StatusNotFound, "event not found"},
		{"unauthorized", apperrors.Unauthorized("missing authorization token"), http.StatusUnauthorized, "missing authorization token"},
		{"missing parameter", apperrors.MissingParameter("event"), http.StatusBadRequest, "event is required"},
		{"plan", apperrors.PlanRestriction("AI backgrounds require Pro"), http.StatusForbidden, "AI backgrounds require Pro"},
		{"quota", apperrors.QuotaExceeded("photo limit reached"), http.StatusPaymentRequired, "photo limit reached"},
		{"token", apperrors.InvalidOrExpiredToken(), http.StatusForbidden, "invalid or expired link"},
		{"conflict", apperrors.Conflict("slug taken"), http.StatusConflict, "slug taken"},
		{"storage", apperrors.StorageFailure("upload failed", errors.New("s3: timeout")), http.StatusBadGateway, msgStorageUnavailable},
		{"internal", apperrors.InternalServer("db exploded", errors.New("pq")), http.StatusInternalServerError, msgInternalServerError},
		{"plain", errors.New("boom"), http.StatusInternalServerError, msgInternalServerError},
		{"echo", echo.NewHTTPError(http.StatusUnsupportedMediaType, "json only"), http.StatusUnsupportedMediaType, "json only"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, message := statusFor(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestCustomHTTPErrorHandlerMasksInternalErrors(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	CustomHTTPErrorHandler(apperrors.InternalServer("secret detail", errors.New("token=abc")), c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret detail")
	assert.NotContains(t, rec.Body.String(), "abc")
}
