package auth

import (
	"strings"

	apperrors "booth-service/pkg/errors"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	jwtService    *JWTService
	adminKey      *SecretDigest
	webhookSecret *SecretDigest
}

func NewMiddleware(jwtService *JWTService, adminKey, webhookSecret string) *Middleware {
	return &Middleware{
		jwtService:    jwtService,
		adminKey:      NewSecretDigest(adminKey),
		webhookSecret: NewSecretDigest(webhookSecret),
	}
}

func (m *Middleware) RequireJWT() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractBearerToken(c)
			if token == "" {
				return apperrors.Unauthorized(msgMissingAuthorization)
			}

			claims, err := m.jwtService.Verify(token)
			if err != nil {
				return apperrors.Unauthorized(msgInvalidOrExpiredToken)
			}

			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeyAuthType, AuthTypeJWT)

			return next(c)
		}
	}
}

// RequireAdminKey guards operator endpoints. With no key configured every
// request is rejected.
func (m *Middleware) RequireAdminKey() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.adminKey == nil {
				return apperrors.Forbidden(msgAdminDisabled)
			}
			key := strings.TrimSpace(c.Request().Header.Get(HeaderAdminKey))
			if key == "" {
				return apperrors.Unauthorized(msgMissingAdminKey)
			}
			if !m.adminKey.Matches(key) {
				return apperrors.Unauthorized(msgInvalidAdminKey)
			}

			c.Set(ContextKeyAuthType, AuthTypeAdmin)
			return next(c)
		}
	}
}

func (m *Middleware) RequireWebhookSecret() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			secret := c.Request().Header.Get(HeaderWebhookSecret)
			if !m.webhookSecret.Matches(secret) {
				return apperrors.Unauthorized(msgInvalidWebhookSecret)
			}

			c.Set(ContextKeyAuthType, AuthTypeWebhook)
			return next(c)
		}
	}
}

func extractBearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(headerAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.Fields(authHeader)
	if len(parts) != authHeaderParts || strings.ToLower(parts[0]) != bearerScheme {
		return ""
	}

	return parts[1]
}

func GetUserID(c echo.Context) (string, error) {
	userID := c.Get(ContextKeyUserID)
	if userID == nil {
		return "", apperrors.Unauthorized(msgUserNotAuthenticated)
	}

	id, ok := userID.(string)
	if !ok || id == "" {
		return "", apperrors.InternalServer(msgInvalidUserIDCtx, nil)
	}

	return id, nil
}

func GetAuthType(c echo.Context) AuthType {
	t, _ := c.Get(ContextKeyAuthType).(AuthType)
	return t
}
