package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// AttachmentStore is the PDF storage the handler serves from.
type AttachmentStore interface {
	Upload(filename string, data []byte) (string, error)
	Download(id string) ([]byte, error)
}

// AttachmentHandler uploads bulletin PDFs and serves them back by id.
type AttachmentHandler struct {
	store   AttachmentStore
	baseURL string
}

// NewAttachmentHandler returns an AttachmentHandler. baseURL prefixes
// generated file links; empty keeps them relative.
func NewAttachmentHandler(store AttachmentStore, baseURL string) *AttachmentHandler {
	return &AttachmentHandler{store: store, baseURL: strings.TrimRight(baseURL, "/")}
}

type uploadAttachmentResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Upload handles POST /v1/attachments. The PDF arrives as the multipart
// field "file"; the response URL goes straight into the bulletin's pdf_url.
//
// @Summary      Upload a PDF attachment
// @Tags         attachments
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "PDF document"
// @Success      201  {object}  uploadAttachmentResponse
// @Failure      400  {object}  errorResponse
// @Failure      413  {object}  errorResponse
// @Failure      415  {object}  errorResponse
// @Router       /v1/attachments [post]
func (h *AttachmentHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	if ct := fh.Header.Get("Content-Type"); ct != "" && ct != "application/pdf" {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, "only PDF attachments are accepted")
	}

	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read file")
	}

	id, err := h.store.Upload(fh.Filename, data)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, uploadAttachmentResponse{
		ID:  id,
		URL: h.baseURL + "/files/" + id,
	})
}

// Download handles GET /files/:id.
//
// @Summary      Download a PDF attachment
// @Tags         attachments
// @Produce      application/pdf
// @Param        id  path  string  true  "Attachment id"
// @Success      200  {file}    file
// @Failure      404  {object}  errorResponse
// @Router       /files/{id} [get]
func (h *AttachmentHandler) Download(c echo.Context) error {
	data, err := h.store.Download(c.Param("id"))
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/pdf", data)
}
