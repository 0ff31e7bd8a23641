package handler

import (
	"net/http"
	"time"

	"booth-service/internal/auth"
	"booth-service/internal/domain/production"
	"booth-service/internal/domain/scope"

	"github.com/labstack/echo/v4"
)

type SelectionHandler struct {
	selections SelectionService
	resolver   ScopeResolver
}

func NewSelectionHandler(selections SelectionService, resolver ScopeResolver) *SelectionHandler {
	return &SelectionHandler{
		selections: selections,
		resolver:   resolver,
	}
}

type InviteRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type PickRequest struct {
	PhotoID      string `json:"photoId" validate:"required,max=64"`
	BackgroundID string `json:"backgroundId" validate:"max=64"`
}

type SubmitSelectionRequest struct {
	Picks []PickRequest `json:"picks" validate:"required,min=1,max=500,dive"`
}

type SubmitSelectionResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Count     int       `json:"count"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *SelectionHandler) Invite(c echo.Context) error {
	sc, err := resolveOwned(c, h.resolver)
	if err != nil {
		return err
	}
	return h.invite(c, sc)
}

// InviteShared lets a collaborator invite a guest to another owner's event.
func (h *SelectionHandler) InviteShared(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return err
	}
	sc, err := h.resolver.ResolveShared(c.Request().Context(), userID, c.Param(paramOwnerID), c.Param(paramSlug))
	if err != nil {
		return err
	}
	return h.invite(c, sc)
}

func (h *SelectionHandler) invite(c echo.Context, sc scope.TenantScope) error {
	var req InviteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	inv, err := h.selections.Invite(c.Request().Context(), sc, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, inv)
}

// Describe is public: the token in the path is the credential.
func (h *SelectionHandler) Describe(c echo.Context) error {
	page, err := h.selections.Describe(c.Request().Context(), c.Param(paramOwnerID), c.Param(paramEventID), c.Param(paramToken))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *SelectionHandler) Submit(c echo.Context) error {
	var req SubmitSelectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	picks := make([]production.Pick, 0, len(req.Picks))
	for _, p := range req.Picks {
		picks = append(picks, production.Pick{PhotoID: p.PhotoID, BackgroundID: p.BackgroundID})
	}

	set, err := h.selections.Submit(c.Request().Context(), c.Param(paramOwnerID), c.Param(paramEventID), c.Param(paramToken), picks)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, SubmitSelectionResponse{
		ID:        set.ID,
		Email:     set.Email,
		Count:     len(set.Attachments),
		ExpiresAt: set.TokenExpiresAt,
	})
}
