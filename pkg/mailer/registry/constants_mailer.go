package registry

import "time"

const (
	ProviderResend   = "resend"
	ProviderSendGrid = "sendgrid"
)

const (
	StrategySingle     = "single"
	StrategyFailover   = "failover"
	StrategyRoundRobin = "roundrobin"
)

const (
	ProviderLabelNone       = "none"
	ProviderLabelFailover   = "failover"
	ProviderLabelValidation = "validation"
	ProviderLabelTemplate   = "template"
	UnknownProviderName     = "unknown"
)

const (
	ResendAPIURL   = "https://api.resend.com"
	SendGridAPIURL = "https://api.sendgrid.com"
)

const (
	PathResendEmails     = "/emails"
	PathResendAPIKeys    = "/api-keys"
	PathSendGridMailSend = "/v3/mail/send"
	PathSendGridScopes   = "/v3/scopes"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderMessageID     = "X-Message-Id"
)

const (
	AuthBearerPrefix    = "Bearer "
	MIMEApplicationJSON = "application/json"
	MIMETextHTML        = "text/html"
	MIMETextPlain       = "text/plain"
)

const (
	URLSchemeHTTP  = "http"
	URLSchemeHTTPS = "https"
)

const (
	TemplateNameDeliveryLink    = "delivery-link"
	TemplateNameSelectionInvite = "selection-invite"
)

const (
	DefaultLinkExpiryHours = 72
	ProviderRequestTimeout = 15 * time.Second
	MaxResponseBodyBytes   = 64 << 10
)

const (
	HTTPStatusSuccessMin = 200
	HTTPStatusSuccessMax = 300
)

const (
	MessageSeparator       = "; "
	StrategySendFailedText = "send failed"
)

const (
	MsgFailedMarshalPayloadFmt = "failed to marshal payload: %v"
	MsgFailedCreateRequestFmt  = "failed to create request: %v"
	MsgRequestFailedFmt        = "request failed: %v"
	MsgFailedParseResponseFmt  = "failed to parse response: %v"
	MsgResendAPIErrorFmt       = "Resend API error: %d - %s"
	MsgSendGridAPIErrorFmt     = "SendGrid API error: %d - %s"
	MsgProviderErrorFmt        = "%s: %s"
)
