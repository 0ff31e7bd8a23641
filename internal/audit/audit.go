package audit

import (
	"context"
	"slices"
	"time"

	"booth-service/internal/auth"
	"booth-service/internal/domain/scope"
	"booth-service/internal/repository"
	"booth-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// MaxEntries bounds the trail kept per event. Older entries are dropped.
const MaxEntries = 200

const logTimeout = 2 * time.Second

type ActorType string

const (
	ActorTypeUser    ActorType = "user"
	ActorTypeAdmin   ActorType = "admin"
	ActorTypeWebhook ActorType = "webhook"
	ActorTypeSystem  ActorType = "system"
)

type ResourceType string

const (
	ResourceTypeEvent      ResourceType = "event"
	ResourceTypeProduction ResourceType = "production"
)

type Action string

const (
	ActionDelete  Action = "delete"
	ActionResend  Action = "resend"
	ActionPayment Action = "payment"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

type Entry struct {
	ID           string         `json:"id"`
	EventType    string         `json:"eventType"`
	ActorType    ActorType      `json:"actorType"`
	ActorID      string         `json:"actorId,omitempty"`
	ResourceType ResourceType   `json:"resourceType"`
	ResourceID   string         `json:"resourceId,omitempty"`
	Action       Action         `json:"action"`
	Status       Status         `json:"status"`
	IPAddress    string         `json:"ipAddress,omitempty"`
	UserAgent    string         `json:"userAgent,omitempty"`
	RequestID    string         `json:"requestId,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// Logger keeps an operator trail per event in the document store.
type Logger struct {
	docs repository.DocumentStore
	now  func() time.Time
}

func NewLogger(docs repository.DocumentStore) *Logger {
	return &Logger{docs: docs, now: time.Now}
}

// Log appends entry to the event's trail.
func (l *Logger) Log(ctx context.Context, sc scope.TenantScope, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = l.now().UTC()
	}
	if entry.EventType == "" {
		entry.EventType = string(entry.Action) + "_" + string(entry.ResourceType)
	}
	if len(entry.Metadata) > 0 {
		entry.Metadata = logger.SanitizeMap(entry.Metadata)
	}
	entry.ErrorMessage = logger.SanitizeLogMessage(entry.ErrorMessage)

	_, err := repository.MutateList(ctx, l.docs, sc.DocumentKey(scope.CollectionAudit), func(entries []Entry) ([]Entry, struct{}, error) {
		entries = append(entries, entry)
		if over := len(entries) - MaxEntries; over > 0 {
			entries = entries[over:]
		}
		return entries, struct{}{}, nil
	})
	return err
}

// LogFromContext records the outcome of a request. A failed write is logged
// and never fails the request itself.
func (l *Logger) LogFromContext(c echo.Context, sc scope.TenantScope, resourceType ResourceType, resourceID string, action Action, actionErr error, metadata map[string]any) {
	entry := Entry{
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Action:       action,
		Status:       StatusSuccess,
		IPAddress:    c.RealIP(),
		UserAgent:    c.Request().UserAgent(),
		RequestID:    c.Response().Header().Get(echo.HeaderXRequestID),
		Metadata:     metadata,
	}
	if actionErr != nil {
		entry.Status = StatusFailure
		entry.ErrorMessage = actionErr.Error()
	}

	switch auth.GetAuthType(c) {
	case auth.AuthTypeAdmin:
		entry.ActorType = ActorTypeAdmin
	case auth.AuthTypeWebhook:
		entry.ActorType = ActorTypeWebhook
	case auth.AuthTypeJWT:
		entry.ActorType = ActorTypeUser
		entry.ActorID, _ = auth.GetUserID(c)
	default:
		entry.ActorType = ActorTypeSystem
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), logTimeout)
	defer cancel()
	if err := l.Log(ctx, sc, entry); err != nil {
		logger.WithComponent("audit").Warn("audit log failed",
			"owner_id", sc.OwnerID, "event_id", sc.EventID, "event_type", entry.EventType, "error", err)
	}
}

// List returns the trail newest first.
func (l *Logger) List(ctx context.Context, sc scope.TenantScope) ([]Entry, error) {
	entries, err := repository.LoadList[Entry](ctx, l.docs, sc.DocumentKey(scope.CollectionAudit))
	if err != nil {
		return nil, err
	}
	slices.Reverse(entries)
	return entries, nil
}
