package handler

import (
	"net/http"
	"slices"

	"booth-service/internal/auth"
	"booth-service/internal/delivery"
	"booth-service/internal/domain/production"
	"booth-service/internal/domain/scope"
	"booth-service/internal/storage"
	apperrors "booth-service/pkg/errors"
	"booth-service/pkg/validator"

	"github.com/labstack/echo/v4"
)

type DeliveryHandler struct {
	deliveries    DeliveryService
	production    ProductionStore
	resolver      ScopeResolver
	maxUploadSize int64
}

func NewDeliveryHandler(deliveries DeliveryService, production ProductionStore, resolver ScopeResolver, maxUploadSize int64) *DeliveryHandler {
	return &DeliveryHandler{
		deliveries:    deliveries,
		production:    production,
		resolver:      resolver,
		maxUploadSize: maxUploadSize,
	}
}

// SetView is a production set as shown to its owner. The raw token is
// only exposed through the download link.
type SetView struct {
	production.Set
	DownloadURL string `json:"downloadUrl"`
}

type BatchResponse struct {
	Deleted int      `json:"deleted"`
	Failed  []string `json:"failed"`
}

func (h *DeliveryHandler) CreateDelivery(c echo.Context) error {
	sc, err := resolveOwned(c, h.resolver)
	if err != nil {
		return err
	}

	form, err := multipartForm(c)
	if err != nil {
		return err
	}
	email := formValue(form, formEmail)
	if err := validator.Email(email); err != nil {
		return apperrors.Validation(err.Error())
	}

	headers := slices.Concat(form.File[formFiles], form.File[formFile])
	if len(headers) == 0 {
		return apperrors.Validation(msgFileRequired)
	}
	files := make([]delivery.File, 0, len(headers))
	for _, fh := range headers {
		up, err := readUpload(fh, h.maxUploadSize)
		if err != nil {
			return err
		}
		files = append(files, delivery.File{Filename: up.Filename, ContentType: up.ContentType, Data: up.Data})
	}

	set, err := h.deliveries.Deliver(c.Request().Context(), sc, email, files)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.view(sc, *set))
}

func (h *DeliveryHandler) ListProduction(c echo.Context) error {
	sc, err := resolveOwned(c, h.resolver)
	if err != nil {
		return err
	}
	return h.list(c, sc)
}

// ListSharedProduction serves a collaborator looking at another owner's event.
func (h *DeliveryHandler) ListSharedProduction(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return err
	}
	sc, err := h.resolver.ResolveShared(c.Request().Context(), userID, c.Param(paramOwnerID), c.Param(paramSlug))
	if err != nil {
		return err
	}
	return h.list(c, sc)
}

func (h *DeliveryHandler) DeleteProduction(c echo.Context) error {
	sc, err := resolveOwned(c, h.resolver)
	if err != nil {
		return err
	}

	result, err := h.production.Delete(c.Request().Context(), sc, c.Param(paramID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, batchResponse(result))
}

// Download is public. The token in the query string is the only credential.
func (h *DeliveryHandler) Download(c echo.Context) error {
	ctx := c.Request().Context()
	sc, err := h.resolver.ResolveByID(ctx, c.Param(paramOwnerID), c.Param(paramEventID))
	if err != nil {
		return apperrors.InvalidOrExpiredToken()
	}

	filename := c.Param(paramFilename)
	obj, err := h.deliveries.Download(ctx, sc, c.Param(paramID), filename, c.QueryParam(queryToken), c.RealIP())
	if err != nil {
		return err
	}
	return attachment(c, filename, obj.ContentType, obj.Data)
}

func (h *DeliveryHandler) list(c echo.Context, sc scope.TenantScope) error {
	sets, err := h.production.List(c.Request().Context(), sc)
	if err != nil {
		return err
	}

	views := make([]SetView, 0, len(sets))
	for _, set := range sets {
		views = append(views, h.view(sc, set))
	}
	return c.JSON(http.StatusOK, views)
}

func (h *DeliveryHandler) view(sc scope.TenantScope, set production.Set) SetView {
	return SetView{Set: set.Public(), DownloadURL: h.deliveries.Link(sc, &set)}
}

func batchResponse(result storage.BatchResult) BatchResponse {
	failed := result.Failed
	if failed == nil {
		failed = []string{}
	}
	return BatchResponse{Deleted: len(result.Succeeded), Failed: failed}
}
