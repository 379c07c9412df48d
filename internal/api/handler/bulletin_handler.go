package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ebhcs/bulletin-board/internal/api/metrics"
	"github.com/ebhcs/bulletin-board/internal/core/ports"
)

// BulletinHandler handles the JSON bulletin API.
type BulletinHandler struct {
	service ports.BulletinService
}

func NewBulletinHandler(service ports.BulletinService) *BulletinHandler {
	return &BulletinHandler{service: service}
}

// List handles GET /v1/bulletins.
//
// @Summary      List visible bulletins
// @Description  Applies the multi-select filters, search term and expired toggle to the active collection.
// @Tags         bulletins
// @Produce      json
// @Param        category      query  []string  false  "Category filter (repeatable)"
// @Param        posted        query  []string  false  "Posted bucket: today, thisweek, lastweek, thismonth, lastmonth"
// @Param        deadline      query  []string  false  "Deadline bucket: soon, thisweek, thismonth, nodate"
// @Param        class_type    query  []string  false  "Class type filter (repeatable)"
// @Param        advisor       query  []string  false  "Advisor name filter (repeatable)"
// @Param        q             query  string    false  "Free-text search"
// @Param        show_expired  query  bool      false  "Include expired bulletins"
// @Success      200  {object}  listBulletinsResponse
// @Router       /v1/bulletins [get]
func (h *BulletinHandler) List(c echo.Context) error {
	now := time.Now()
	sel := toSelection(c.QueryParams())

	res, err := h.service.ListVisible(c.Request().Context(), sel, now)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(res, now))
}

// Get handles GET /v1/bulletins/:id.
//
// @Summary      Get one bulletin
// @Tags         bulletins
// @Produce      json
// @Param        id  path  string  true  "Bulletin id"
// @Success      200  {object}  bulletinResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/bulletins/{id} [get]
func (h *BulletinHandler) Get(c echo.Context) error {
	b, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBulletinResponse(b, time.Now()))
}

// Create handles POST /v1/bulletins.
//
// @Summary      Post a new bulletin
// @Tags         bulletins
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBulletinRequest  true  "Bulletin details"
// @Success      201   {object}  mutateBulletinResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/bulletins [post]
func (h *BulletinHandler) Create(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req createBulletinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	b, warnings, err := h.service.Create(c.Request().Context(), toCreateInput(req), sess)
	if err != nil {
		return err
	}

	metrics.BulletinsCreatedTotal.WithLabelValues(string(b.Category)).Inc()
	if len(warnings) > 0 {
		metrics.ModerationWarningsTotal.Add(float64(len(warnings)))
	}

	return c.JSON(http.StatusCreated, mutateBulletinResponse{
		Bulletin: toBulletinResponse(b, time.Now()),
		Warnings: warnings,
	})
}

// Update handles PUT /v1/bulletins/:id.
//
// @Summary      Update a bulletin
// @Description  Only the original poster or an admin may update a bulletin.
// @Tags         bulletins
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Bulletin id"
// @Param        body  body      updateBulletinRequest  true  "Fields to change"
// @Success      200   {object}  mutateBulletinResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/bulletins/{id} [put]
func (h *BulletinHandler) Update(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req updateBulletinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	b, warnings, err := h.service.Update(c.Request().Context(), c.Param("id"), toPatch(req), sess)
	if err != nil {
		return err
	}

	if len(warnings) > 0 {
		metrics.ModerationWarningsTotal.Add(float64(len(warnings)))
	}

	return c.JSON(http.StatusOK, mutateBulletinResponse{
		Bulletin: toBulletinResponse(b, time.Now()),
		Warnings: warnings,
	})
}

// Delete handles DELETE /v1/bulletins/:id. Bulletins are soft-deleted: the
// document stays in the store with is_active flipped off.
//
// @Summary      Delete a bulletin
// @Tags         bulletins
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Bulletin id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/bulletins/{id} [delete]
func (h *BulletinHandler) Delete(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	if err := h.service.SoftDelete(c.Request().Context(), c.Param("id"), sess); err != nil {
		return err
	}

	metrics.BulletinsDeletedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}
