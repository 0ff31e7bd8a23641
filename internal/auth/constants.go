package auth

const (
	ContextKeyUserID   = "user_id"
	ContextKeyAuthType = "auth_type"

	headerAuthorization = "Authorization"
	HeaderAdminKey      = "X-Admin-Key"
	HeaderWebhookSecret = "X-Webhook-Secret"

	bearerScheme    = "bearer"
	authHeaderParts = 2
)

const (
	msgMissingAuthorization    = "missing authorization token"
	msgInvalidOrExpiredToken   = "invalid or expired token"
	msgMissingAdminKey         = "missing admin key"
	msgInvalidAdminKey         = "invalid admin key"
	msgAdminDisabled           = "admin endpoints are disabled"
	msgInvalidWebhookSecret    = "invalid webhook secret"
	msgUserNotAuthenticated    = "user not authenticated"
	msgInvalidUserIDCtx        = "invalid user ID in context"
	msgUnexpectedSigningMethod = "unexpected signing method: %v"
	msgTokenParseFailed        = "failed to parse token: %w"
	msgInvalidTokenClaims      = "invalid token claims"
)

type AuthType string

const (
	AuthTypeJWT     AuthType = "jwt"
	AuthTypeAdmin   AuthType = "admin"
	AuthTypeWebhook AuthType = "webhook"
)
