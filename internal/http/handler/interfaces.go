package handler

import (
	"context"

	"booth-service/internal/audit"
	"booth-service/internal/capture"
	checkins "booth-service/internal/checkin"
	"booth-service/internal/delivery"
	"booth-service/internal/domain/checkin"
	"booth-service/internal/domain/event"
	"booth-service/internal/domain/photo"
	"booth-service/internal/domain/production"
	"booth-service/internal/domain/scope"
	"booth-service/internal/quota"
	"booth-service/internal/selection"
	"booth-service/internal/storage"
	"booth-service/internal/tenant"

	"github.com/labstack/echo/v4"
)

// Consumer-side interfaces defined by handlers
// Each interface contains only the methods needed by the specific handler

type ScopeResolver interface {
	Resolve(ctx context.Context, callerID, slugOrID string) (scope.TenantScope, error)
	ResolveShared(ctx context.Context, callerID, ownerID, slug string) (scope.TenantScope, error)
	ResolveByID(ctx context.Context, ownerID, eventID string) (scope.TenantScope, error)
}

// EventHandler interfaces
type EventManager interface {
	List(ctx context.Context, ownerID string) ([]event.Event, error)
	Create(ctx context.Context, ownerID string, in tenant.CreateInput) (*event.Event, error)
	Load(ctx context.Context, sc scope.TenantScope) (*event.Event, error)
	Delete(ctx context.Context, sc scope.TenantScope) error
	UpdateStatus(ctx context.Context, sc scope.TenantScope, status event.Status) (*event.Event, error)
	UpdatePlan(ctx context.Context, sc scope.TenantScope, raw string) (*event.Event, error)
	SetPaymentStatus(ctx context.Context, sc scope.TenantScope, status event.PaymentStatus) (*event.Event, error)
	AddCollaborator(ctx context.Context, sc scope.TenantScope, userID string) (*event.Event, error)
	RemoveCollaborator(ctx context.Context, sc scope.TenantScope, userID string) (*event.Event, error)
	AddBackground(ctx context.Context, sc scope.TenantScope, name, filename string, data []byte, contentType string) (*event.Background, error)
}

// PhotoHandler interfaces
type PhotoService interface {
	Upload(ctx context.Context, sc scope.TenantScope, in capture.UploadInput) (*photo.Photo, quota.Snapshot, error)
	Process(ctx context.Context, sc scope.TenantScope, photoID string, op capture.Operation, prompt string) (*photo.Photo, quota.Snapshot, error)
	List(ctx context.Context, sc scope.TenantScope) ([]photo.Photo, error)
	URL(ctx context.Context, p photo.Photo) (string, error)
}

// DeliveryHandler interfaces
type DeliveryService interface {
	Deliver(ctx context.Context, sc scope.TenantScope, email string, files []delivery.File, picks ...production.Pick) (*production.Set, error)
	Resend(ctx context.Context, sc scope.TenantScope, id string) error
	Download(ctx context.Context, sc scope.TenantScope, id, filename, tok, ip string) (storage.Object, error)
	Link(sc scope.TenantScope, set *production.Set) string
}

type ProductionStore interface {
	List(ctx context.Context, sc scope.TenantScope) ([]production.Set, error)
	Delete(ctx context.Context, sc scope.TenantScope, id string) (storage.BatchResult, error)
	DeleteAll(ctx context.Context, sc scope.TenantScope) (storage.BatchResult, error)
}

// SelectionHandler interfaces
type SelectionService interface {
	Invite(ctx context.Context, sc scope.TenantScope, email string) (*selection.Invitation, error)
	Describe(ctx context.Context, ownerID, eventID, tok string) (*selection.Page, error)
	Submit(ctx context.Context, ownerID, eventID, tok string, picks []production.Pick) (*production.Set, error)
}

// CheckinHandler interfaces
type CheckinStore interface {
	Register(ctx context.Context, sc scope.TenantScope, in checkins.RegisterInput) (*checkin.Checkin, error)
	List(ctx context.Context, sc scope.TenantScope) ([]checkin.Checkin, error)
	Delete(ctx context.Context, sc scope.TenantScope, id string) error
}

type NotificationStore interface {
	Ping(ctx context.Context, sc scope.TenantScope, email string) (*checkin.PendingUpload, error)
	List(ctx context.Context, sc scope.TenantScope) ([]checkin.PendingUpload, error)
	Clear(ctx context.Context, sc scope.TenantScope, id string) error
}

// AdminHandler and WebhookHandler interfaces
type AuditLog interface {
	LogFromContext(c echo.Context, sc scope.TenantScope, resourceType audit.ResourceType, resourceID string, action audit.Action, actionErr error, metadata map[string]any)
	List(ctx context.Context, sc scope.TenantScope) ([]audit.Entry, error)
}
