package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ebhcs/bulletin-board/internal/core/domain"
	"github.com/ebhcs/bulletin-board/internal/core/ports"
	"github.com/ebhcs/bulletin-board/internal/render"
)

// ViewHandler serves rendered view markup. Layout switching, filtering and
// calendar paging all happen server-side; the client swaps the returned
// fragment in place.
type ViewHandler struct {
	service ports.BulletinService
}

func NewViewHandler(service ports.BulletinService) *ViewHandler {
	return &ViewHandler{service: service}
}

// Board handles GET /v1/views/:view where view is gallery, list or calendar.
// The same filter query parameters as the JSON list endpoint apply; calendar
// views additionally accept year and month.
//
// @Summary      Render a board view
// @Tags         views
// @Produce      html
// @Param        view          path   string  true   "gallery, list or calendar"
// @Param        year          query  int     false  "Calendar anchor year"
// @Param        month         query  int     false  "Calendar anchor month (1-12)"
// @Param        show_expired  query  bool    false  "Include expired bulletins"
// @Success      200  {string}  string
// @Failure      400  {object}  errorResponse
// @Router       /v1/views/{view} [get]
func (h *ViewHandler) Board(c echo.Context) error {
	view := render.View(c.Param("view"))
	now := time.Now()
	sel := toSelection(c.QueryParams())

	res, err := h.service.ListVisible(c.Request().Context(), sel, now)
	if err != nil {
		return err
	}

	opts := render.Options{
		Manage:        viewerCanManage(c),
		Now:           now,
		FiltersActive: sel.Active(),
	}
	if y, err := strconv.Atoi(c.QueryParam("year")); err == nil {
		opts.Year = y
	}
	if m, err := strconv.Atoi(c.QueryParam("month")); err == nil && m >= 1 && m <= 12 {
		opts.Month = time.Month(m)
	}

	markup, err := render.Render(view, res.Bulletins, opts)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown view "+string(view))
	}
	return c.HTML(http.StatusOK, markup)
}

// Detail handles GET /v1/views/bulletin/:id. A deleted or unknown id renders
// the inline not-found placeholder rather than an error page, so stale deep
// links stay friendly.
//
// @Summary      Render one bulletin's detail markup
// @Tags         views
// @Produce      html
// @Param        id  path  string  true  "Bulletin id"
// @Success      200  {string}  string
// @Router       /v1/views/bulletin/{id} [get]
func (h *ViewHandler) Detail(c echo.Context) error {
	b, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if errors.Is(err, domain.ErrBulletinNotFound) {
		return c.HTML(http.StatusOK, render.NotFound())
	}
	if err != nil {
		return err
	}

	opts := render.Options{Manage: viewerCanManage(c), Now: time.Now()}
	return c.HTML(http.StatusOK, render.Detail(b, opts))
}

// Day handles GET /v1/views/calendar/:date, the calendar drill-down listing
// every bulletin that falls on one day.
//
// @Summary      Render the bulletins for one calendar day
// @Tags         views
// @Produce      html
// @Param        date  path  string  true  "Day in YYYY-MM-DD form"
// @Success      200  {string}  string
// @Failure      400  {object}  errorResponse
// @Router       /v1/views/calendar/{date} [get]
func (h *ViewHandler) Day(c echo.Context) error {
	date := c.Param("date")
	if _, ok := domain.ParseLocalDate(date); !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
	}

	now := time.Now()
	sel := toSelection(c.QueryParams())

	res, err := h.service.ListVisible(c.Request().Context(), sel, now)
	if err != nil {
		return err
	}

	opts := render.Options{Manage: viewerCanManage(c), Now: now, FiltersActive: sel.Active()}
	return c.HTML(http.StatusOK, render.DayDetail(res.Bulletins, date, opts))
}

// viewerCanManage reports whether the optional auth middleware put advisor
// claims on the request. Views are public; manage controls only render for
// signed-in advisors.
func viewerCanManage(c echo.Context) bool {
	username, _ := c.Get("username").(string)
	return username != ""
}
