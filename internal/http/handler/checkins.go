package handler

import (
	"net/http"

	checkins "booth-service/internal/checkin"

	"github.com/labstack/echo/v4"
)

type CheckinHandler struct {
	checkins      CheckinStore
	notifications NotificationStore
	resolver      ScopeResolver
}

func NewCheckinHandler(checkins CheckinStore, notifications NotificationStore, resolver ScopeResolver) *CheckinHandler {
	return &CheckinHandler{
		checkins:      checkins,
		notifications: notifications,
		resolver:      resolver,
	}
}

type RegisterCheckinRequest struct {
	Name  string `json:"name" validate:"max=200"`
	Email string `json:"email" validate:"required,email,max=255"`
	Phone string `json:"phone" validate:"max=32"`
}

type PingRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

func (h *CheckinHandler) Register(c echo.Context) error {
	sc, err := resolveOwned(c, h.resolver)
	if err != nil {
		return err
	}

	var req RegisterCheckinRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ci, err := h.checkins.Register(c.Request().Context(), sc, checkins.RegisterInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ci)
}

func (h *CheckinHandler) List(c echo.Context) error {
	sc, err := resolveOwned(c, h.resolver)
	if err != nil {
		return err
	}

	list, err := h.checkins.List(c.Request().Context(), sc)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *CheckinHandler) Delete(c echo.Context) error {
	sc, err := resolveOwned(c, h.resolver)
	if err != nil {
		return err
	}

	if err := h.checkins.Delete(c.Request().Context(), sc, c.Param(paramID)); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, msgCheckinDeleted)
}

func (h *CheckinHandler) Ping(c echo.Context) error {
	sc, err := resolveOwned(c, h.resolver)
	if err != nil {
		return err
	}

	var req PingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pending, err := h.notifications.Ping(c.Request().Context(), sc, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pending)
}

func (h *CheckinHandler) ListNotifications(c echo.Context) error {
	sc, err := resolveOwned(c, h.resolver)
	if err != nil {
		return err
	}

	list, err := h.notifications.List(c.Request().Context(), sc)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *CheckinHandler) ClearNotification(c echo.Context) error {
	sc, err := resolveOwned(c, h.resolver)
	if err != nil {
		return err
	}

	if err := h.notifications.Clear(c.Request().Context(), sc, c.Param(paramID)); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, msgNotificationCleared)
}
