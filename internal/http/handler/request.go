package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"booth-service/pkg/validator"

	"github.com/labstack/echo/v4"
)

const (
	contentTypeJSON          = "application/json"
	maxStrictBodyBytes int64 = 1 << 20 // Keep parser bound aligned with global body limit.
)

func bindStrictJSON(c echo.Context, dst interface{}) error {
	if !strings.HasPrefix(strings.ToLower(c.Request().Header.Get(echo.HeaderContentType)), contentTypeJSON) {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, msgContentTypeJSONRequired)
	}

	body := io.LimitReader(c.Request().Body, maxStrictBodyBytes)
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidRequestBody)
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidRequestBody)
	}

	return nil
}

// bindAndValidate decodes a strict JSON body into dst and runs its
// validate tags.
func bindAndValidate(c echo.Context, dst interface{}) error {
	if err := bindStrictJSON(c, dst); err != nil {
		return err
	}
	return validator.Struct(dst)
}

type upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// readUpload reads one multipart file, enforcing limit bytes.
func readUpload(fh *multipart.FileHeader, limit int64) (upload, error) {
	name := strings.TrimSpace(fh.Filename)
	if err := validator.FileName(name); err != nil {
		return upload{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := validator.FileSize(fh.Size, limit); err != nil {
		return upload{}, echo.NewHTTPError(http.StatusRequestEntityTooLarge, msgFileTooLarge)
	}
	contentType := fh.Header.Get(echo.HeaderContentType)
	if err := validator.ContentType(contentType); err != nil {
		contentType = ""
	}

	f, err := fh.Open()
	if err != nil {
		return upload{}, echo.NewHTTPError(http.StatusBadRequest, msgFileReadFailed)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return upload{}, echo.NewHTTPError(http.StatusBadRequest, msgFileReadFailed)
	}
	if int64(len(data)) > limit {
		return upload{}, echo.NewHTTPError(http.StatusRequestEntityTooLarge, msgFileTooLarge)
	}

	return upload{Filename: name, ContentType: contentType, Data: data}, nil
}

func multipartForm(c echo.Context) (*multipart.Form, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, msgInvalidMultipart)
	}
	return form, nil
}

func formValue(form *multipart.Form, key string) string {
	if vals := form.Value[key]; len(vals) > 0 {
		return strings.TrimSpace(vals[0])
	}
	return ""
}

func attachment(c echo.Context, filename, contentType string, data []byte) error {
	c.Response().Header().Set(headerDisposition, fmt.Sprintf(dispositionFmt, strings.ReplaceAll(filename, `"`, "")))
	return c.Blob(http.StatusOK, contentType, data)
}
