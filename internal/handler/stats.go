package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/buildrr-backend/internal/middleware"
)

// StatsHandler serves the dashboard summaries and the admin CSV export.
type StatsHandler struct {
	stats  Stats
	export Exporter
}

func NewStatsHandler(stats Stats, export Exporter) *StatsHandler {
	return &StatsHandler{stats: stats, export: export}
}

func (h *StatsHandler) Admin(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	st, err := h.stats.Admin(ctx, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"stats": st})
}

func (h *StatsHandler) User(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	st, err := h.stats.User(ctx, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"stats": st})
}

// Export returns one entity kind as CSV text inside JSON.
func (h *StatsHandler) Export(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	out, err := h.export.Export(ctx, c.Param("type"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
