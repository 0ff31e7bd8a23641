package handler

import (
	"net/http"
	"strings"
	"time"

	"booth-service/internal/auth"
	"booth-service/internal/domain/event"
	"booth-service/internal/domain/plan"
	"booth-service/internal/domain/scope"
	"booth-service/internal/quota"
	"booth-service/internal/tenant"
	apperrors "booth-service/pkg/errors"

	"github.com/labstack/echo/v4"
)

type EventHandler struct {
	events        EventManager
	resolver      ScopeResolver
	maxUploadSize int64
}

func NewEventHandler(events EventManager, resolver ScopeResolver, maxUploadSize int64) *EventHandler {
	return &EventHandler{
		events:        events,
		resolver:      resolver,
		maxUploadSize: maxUploadSize,
	}
}

type CreateEventRequest struct {
	Name           string `json:"name" validate:"required,max=200"`
	Slug           string `json:"slug" validate:"omitempty,max=64"`
	Mode           string `json:"mode" validate:"omitempty,oneof=self-serve photographer"`
	Plan           string `json:"plan" validate:"omitempty,max=32"`
	EventDate      string `json:"eventDate"`
	SelectionLimit int    `json:"selectionLimit" validate:"gte=0,lte=500"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft live closed"`
}

type UpdatePlanRequest struct {
	Plan string `json:"plan" validate:"required,max=32"`
}

type AddCollaboratorRequest struct {
	UserID string `json:"userId" validate:"required,max=128"`
}

type UsageResponse struct {
	Event string         `json:"event"`
	Usage quota.Snapshot `json:"usage"`
}

func (h *EventHandler) ListEvents(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return err
	}

	events, err := h.events.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

func (h *EventHandler) CreateEvent(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return err
	}

	var req CreateEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := tenant.CreateInput{
		Name:           strings.TrimSpace(req.Name),
		Slug:           req.Slug,
		Mode:           event.Mode(req.Mode),
		Plan:           plan.ID(req.Plan),
		SelectionLimit: req.SelectionLimit,
	}
	if req.EventDate != "" {
		date, err := time.Parse(time.RFC3339, req.EventDate)
		if err != nil {
			return apperrors.Validation(msgInvalidEventDate)
		}
		in.EventDate = &date
	}

	e, err := h.events.Create(c.Request().Context(), userID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *EventHandler) GetEvent(c echo.Context) error {
	sc, err := h.scope(c)
	if err != nil {
		return err
	}

	e, err := h.events.Load(c.Request().Context(), sc)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (h *EventHandler) DeleteEvent(c echo.Context) error {
	sc, err := h.scope(c)
	if err != nil {
		return err
	}

	if err := h.events.Delete(c.Request().Context(), sc); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, msgEventDeleted)
}

func (h *EventHandler) UpdateStatus(c echo.Context) error {
	sc, err := h.scope(c)
	if err != nil {
		return err
	}

	var req UpdateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	e, err := h.events.UpdateStatus(c.Request().Context(), sc, event.Status(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (h *EventHandler) UpdatePlan(c echo.Context) error {
	sc, err := h.scope(c)
	if err != nil {
		return err
	}

	var req UpdatePlanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	e, err := h.events.UpdatePlan(c.Request().Context(), sc, req.Plan)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (h *EventHandler) AddCollaborator(c echo.Context) error {
	sc, err := h.scope(c)
	if err != nil {
		return err
	}

	var req AddCollaboratorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	e, err := h.events.AddCollaborator(c.Request().Context(), sc, strings.TrimSpace(req.UserID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (h *EventHandler) RemoveCollaborator(c echo.Context) error {
	sc, err := h.scope(c)
	if err != nil {
		return err
	}

	userID := c.Param(paramUserID)
	if userID == "" {
		return apperrors.MissingParameter(paramUserID)
	}

	e, err := h.events.RemoveCollaborator(c.Request().Context(), sc, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (h *EventHandler) GetUsage(c echo.Context) error {
	sc, err := h.scope(c)
	if err != nil {
		return err
	}

	e, err := h.events.Load(c.Request().Context(), sc)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, UsageResponse{Event: e.ID, Usage: quota.UsageSnapshot(*e)})
}

func (h *EventHandler) UploadBackground(c echo.Context) error {
	sc, err := h.scope(c)
	if err != nil {
		return err
	}

	form, err := multipartForm(c)
	if err != nil {
		return err
	}
	files := form.File[formFile]
	if len(files) == 0 {
		return apperrors.Validation(msgFileRequired)
	}
	up, err := readUpload(files[0], h.maxUploadSize)
	if err != nil {
		return err
	}

	name := formValue(form, formName)
	if name == "" {
		name = up.Filename
	}

	bg, err := h.events.AddBackground(c.Request().Context(), sc, name, up.Filename, up.Data, up.ContentType)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, bg)
}

// scope resolves :slug among the caller's own events.
func (h *EventHandler) scope(c echo.Context) (scope.TenantScope, error) {
	return resolveOwned(c, h.resolver)
}

func resolveOwned(c echo.Context, resolver ScopeResolver) (scope.TenantScope, error) {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return scope.TenantScope{}, err
	}
	return resolver.Resolve(c.Request().Context(), userID, c.Param(paramSlug))
}
