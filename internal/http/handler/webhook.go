package handler

import (
	"net/http"

	"booth-service/internal/audit"
	"booth-service/internal/domain/event"
	"booth-service/pkg/logger"

	"github.com/labstack/echo/v4"
)

type WebhookHandler struct {
	events   EventManager
	resolver ScopeResolver
	audit    AuditLog
}

func NewWebhookHandler(events EventManager, resolver ScopeResolver, auditLog AuditLog) *WebhookHandler {
	return &WebhookHandler{
		events:   events,
		resolver: resolver,
		audit:    auditLog,
	}
}

// PaymentWebhookRequest carries only what is needed to flip the status.
// Provider payloads are normalised upstream.
type PaymentWebhookRequest struct {
	OwnerID string `json:"ownerId" validate:"required,max=128"`
	EventID string `json:"eventId" validate:"required,max=128"`
	Status  string `json:"status" validate:"required,oneof=unpaid pending paid"`
}

func (h *WebhookHandler) Payment(c echo.Context) error {
	var req PaymentWebhookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	sc, err := h.resolver.ResolveByID(ctx, req.OwnerID, req.EventID)
	if err != nil {
		return err
	}

	_, err = h.events.SetPaymentStatus(ctx, sc, event.PaymentStatus(req.Status))
	h.audit.LogFromContext(c, sc, audit.ResourceTypeEvent, sc.EventID, audit.ActionPayment, err, map[string]any{"status": req.Status})
	if err != nil {
		return err
	}
	logger.WithComponent("webhook").Info("payment status updated",
		"owner_id", sc.OwnerID, "event_id", sc.EventID, "status", req.Status)
	return respondMessage(c, http.StatusOK, msgPaymentRecorded)
}
