package handler

import (
	"net/http"

	"booth-service/internal/capture"
	"booth-service/internal/domain/photo"
	"booth-service/internal/quota"
	apperrors "booth-service/pkg/errors"
	"booth-service/pkg/logger"

	"github.com/labstack/echo/v4"
)

type PhotoHandler struct {
	photos        PhotoService
	resolver      ScopeResolver
	maxUploadSize int64
}

func NewPhotoHandler(photos PhotoService, resolver ScopeResolver, maxUploadSize int64) *PhotoHandler {
	return &PhotoHandler{
		photos:        photos,
		resolver:      resolver,
		maxUploadSize: maxUploadSize,
	}
}

type ProcessPhotoRequest struct {
	Operation string `json:"operation" validate:"required,oneof=remove-background ai-background ai-filter"`
	Prompt    string `json:"prompt" validate:"max=500"`
}

type PhotoResponse struct {
	Photo *photo.Photo   `json:"photo"`
	Usage quota.Snapshot `json:"usage"`
}

type PhotoView struct {
	photo.Photo
	URL string `json:"url,omitempty"`
}

func (h *PhotoHandler) UploadPhoto(c echo.Context) error {
	sc, err := resolveOwned(c, h.resolver)
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

	p, snap, err := h.photos.Upload(c.Request().Context(), sc, capture.UploadInput{
		Email:       formValue(form, formEmail),
		Filename:    up.Filename,
		ContentType: up.ContentType,
		Data:        up.Data,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, PhotoResponse{Photo: p, Usage: snap})
}

func (h *PhotoHandler) ListPhotos(c echo.Context) error {
	sc, err := resolveOwned(c, h.resolver)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	photos, err := h.photos.List(ctx, sc)
	if err != nil {
		return err
	}

	views := make([]PhotoView, 0, len(photos))
	for _, p := range photos {
		url, err := h.photos.URL(ctx, p)
		if err != nil {
			logger.WithComponent("http").Warn("presign failed", "photo_id", p.ID, "error", err)
		}
		views = append(views, PhotoView{Photo: p, URL: url})
	}
	return c.JSON(http.StatusOK, views)
}

func (h *PhotoHandler) ProcessPhoto(c echo.Context) error {
	sc, err := resolveOwned(c, h.resolver)
	if err != nil {
		return err
	}

	var req ProcessPhotoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, snap, err := h.photos.Process(c.Request().Context(), sc, c.Param(paramPhotoID), capture.Operation(req.Operation), req.Prompt)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, PhotoResponse{Photo: p, Usage: snap})
}
