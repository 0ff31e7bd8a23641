package middleware

import (
	"log/slog"

	"booth-service/pkg/logger"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// RequestLogger logs one line per request through the shared slog logger.
// The URI is sanitised because download links carry their token in the
// query string.
func RequestLogger() echo.MiddlewareFunc {
	log := logger.WithComponent("http")

	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", logger.SanitizeLogMessage(v.URI),
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
				"request_id", GetRequestID(c),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, "error", logger.SanitizeLogMessage(v.Error.Error()))
				level = slog.LevelWarn
			}
			log.Log(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}
