package http

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "booth-service/pkg/errors"
	"booth-service/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	msgInternalServerError = "Internal server error"
	msgStorageUnavailable  = "Storage temporarily unavailable"
	unknownRequestID       = "unknown"
)

type statusMapping struct {
	sentinel error
	code     int
	message  string
}

// Order matters: the first matching sentinel wins.
var statusMappings = []statusMapping{
	{apperrors.ErrInvalidOrExpiredToken, http.StatusForbidden, "Invalid or expired link"},
	{apperrors.ErrNotFound, http.StatusNotFound, "Resource not found"},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	{apperrors.ErrForbidden, http.StatusForbidden, "Forbidden"},
	{apperrors.ErrPlanRestriction, http.StatusForbidden, "Not available on current plan"},
	{apperrors.ErrQuotaExceeded, http.StatusPaymentRequired, "Quota exceeded"},
	{apperrors.ErrMissingParameter, http.StatusBadRequest, "Missing parameter"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, "Bad request"},
	{apperrors.ErrValidation, http.StatusBadRequest, "Validation error"},
	{apperrors.ErrConflict, http.StatusConflict, "Resource already exists"},
	{apperrors.ErrStorageFailure, http.StatusBadGateway, msgStorageUnavailable},
}

// CustomHTTPErrorHandler handles all errors returned by handlers and middleware.
// It maps sentinel errors to HTTP status codes and masks server-side detail.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, message := statusFor(err)

	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = unknownRequestID
	}

	log := logger.WithComponent("http")
	if code >= http.StatusInternalServerError {
		log.Error("internal_server_error",
			"request_id", requestID,
			"status", code,
			"path", c.Path(),
			"error", logger.SanitizeLogMessage(err.Error()))
		if code != http.StatusBadGateway {
			message = msgInternalServerError
		}
	} else {
		log.Warn("client_error",
			"request_id", requestID,
			"status", code,
			"path", c.Path(),
			"error", logger.SanitizeLogMessage(err.Error()))
	}

	var sendErr error
	if c.Request().Method == http.MethodHead {
		sendErr = c.NoContent(code)
	} else {
		sendErr = c.JSON(code, map[string]interface{}{
			"error":      message,
			"request_id": requestID,
		})
	}
	if sendErr != nil {
		log.Error("error response failed", "error", sendErr)
	}
}

func statusFor(err error) (int, string) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, fmt.Sprintf("%v", httpErr.Message)
	}

	code := http.StatusInternalServerError
	message := msgInternalServerError
	for _, m := range statusMappings {
		if errors.Is(err, m.sentinel) {
			code, message = m.code, m.message
			break
		}
	}

	// Client errors carry their AppError message.
	var appErr *apperrors.AppError
	if code < http.StatusInternalServerError && errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}
	return code, message
}
