package handler

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ebhcs/bulletin-board/internal/api/metrics"
	"github.com/ebhcs/bulletin-board/internal/imaging"
)

// ImageHandler runs uploaded bulletin images through the optimizer and
// returns the data URI ready to embed in a bulletin.
type ImageHandler struct {
	optimizer *imaging.Optimizer
}

func NewImageHandler(optimizer *imaging.Optimizer) *ImageHandler {
	return &ImageHandler{optimizer: optimizer}
}

// Optimize handles POST /v1/images/optimize. The image arrives as the
// multipart field "image"; an optional "last_modified" field (unix millis)
// sharpens the memo cache key.
//
// @Summary      Optimize an uploaded image
// @Tags         images
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image  formData  file  true  "JPEG, PNG, GIF or WebP image"
// @Success      200  {object}  imaging.Result
// @Failure      400  {object}  errorResponse
// @Failure      413  {object}  errorResponse
// @Failure      415  {object}  errorResponse
// @Router       /v1/images/optimize [post]
func (h *ImageHandler) Optimize(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}

	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read image")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read image")
	}

	var lastModified int64
	if v := c.FormValue("last_modified"); v != "" {
		lastModified, _ = strconv.ParseInt(v, 10, 64)
	}

	started := time.Now()
	result, err := h.optimizer.Optimize(c.Request().Context(), imaging.Input{
		Filename:     fh.Filename,
		MIME:         fh.Header.Get("Content-Type"),
		LastModified: lastModified,
		Data:         data,
	})
	if err != nil {
		metrics.ImagesOptimizedTotal.WithLabelValues("rejected").Inc()
		return err
	}

	metrics.ImagesOptimizedTotal.WithLabelValues("ok").Inc()
	metrics.ImageOptimizeDuration.Observe(time.Since(started).Seconds())
	return c.JSON(http.StatusOK, result)
}
