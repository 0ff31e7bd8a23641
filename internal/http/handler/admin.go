package handler

import (
	"net/http"

	"booth-service/internal/audit"
	"booth-service/internal/domain/scope"
	"booth-service/internal/storage"
	"booth-service/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AdminHandler serves operator bulk operations. Routes are guarded by the
// admin key, so scopes are resolved by id without an owner identity.
type AdminHandler struct {
	deliveries DeliveryService
	production ProductionStore
	resolver   ScopeResolver
	audit      AuditLog
}

func NewAdminHandler(deliveries DeliveryService, production ProductionStore, resolver ScopeResolver, auditLog AuditLog) *AdminHandler {
	return &AdminHandler{
		deliveries: deliveries,
		production: production,
		resolver:   resolver,
		audit:      auditLog,
	}
}

func (h *AdminHandler) ListProduction(c echo.Context) error {
	sc, err := h.scope(c)
	if err != nil {
		return err
	}

	sets, err := h.production.List(c.Request().Context(), sc)
	if err != nil {
		return err
	}
	views := make([]SetView, 0, len(sets))
	for _, set := range sets {
		views = append(views, SetView{Set: set.Public(), DownloadURL: h.deliveries.Link(sc, &set)})
	}
	return c.JSON(http.StatusOK, views)
}

func (h *AdminHandler) DeleteAllProduction(c echo.Context) error {
	sc, err := h.scope(c)
	if err != nil {
		return err
	}

	result, err := h.production.DeleteAll(c.Request().Context(), sc)
	h.audit.LogFromContext(c, sc, audit.ResourceTypeProduction, "", audit.ActionDelete, err, batchMetadata(result))
	if err != nil {
		return err
	}
	logger.WithComponent("admin").Info("production cleared",
		"owner_id", sc.OwnerID, "event_id", sc.EventID,
		"deleted", len(result.Succeeded), "failed", len(result.Failed))
	return c.JSON(http.StatusOK, batchResponse(result))
}

func (h *AdminHandler) DeleteProduction(c echo.Context) error {
	sc, err := h.scope(c)
	if err != nil {
		return err
	}

	result, err := h.production.Delete(c.Request().Context(), sc, c.Param(paramID))
	h.audit.LogFromContext(c, sc, audit.ResourceTypeProduction, c.Param(paramID), audit.ActionDelete, err, batchMetadata(result))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, batchResponse(result))
}

func (h *AdminHandler) ResendDelivery(c echo.Context) error {
	sc, err := h.scope(c)
	if err != nil {
		return err
	}

	err = h.deliveries.Resend(c.Request().Context(), sc, c.Param(paramID))
	h.audit.LogFromContext(c, sc, audit.ResourceTypeProduction, c.Param(paramID), audit.ActionResend, err, nil)
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, msgDeliveryResent)
}

// ListAudit returns the operator trail of one event, newest first.
func (h *AdminHandler) ListAudit(c echo.Context) error {
	sc, err := h.scope(c)
	if err != nil {
		return err
	}

	entries, err := h.audit.List(c.Request().Context(), sc)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *AdminHandler) scope(c echo.Context) (scope.TenantScope, error) {
	return h.resolver.ResolveByID(c.Request().Context(), c.Param(paramOwnerID), c.Param(paramEventID))
}

func batchMetadata(result storage.BatchResult) map[string]any {
	return map[string]any{
		"deleted": len(result.Succeeded),
		"failed":  len(result.Failed),
	}
}
