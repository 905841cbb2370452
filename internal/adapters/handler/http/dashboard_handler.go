package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-vitals/internal/core/services"
)

type DashboardHandler struct {
	svc *services.DashboardService
}

func NewDashboardHandler(svc *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/dashboard")
	{
		dashboard.GET("", h.Build)
		dashboard.GET("/heatmap", h.Heatmap)
		dashboard.GET("/sleep", h.Sleep)
	}
}

func dashboardOptions(c *gin.Context) services.DashboardOptions {
	return services.DashboardOptions{
		Theme:     c.Query("theme"),
		Baseline:  c.Query("baseline"),
		WeekStart: c.Query("week_start"),
		Days:      c.Query("days"),
		Date:      c.Query("date"),
	}
}

func (h *DashboardHandler) Build(c *gin.Context) {
	d, err := h.svc.Build(c.Request.Context(), dashboardOptions(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DashboardHandler) Heatmap(c *gin.Context) {
	view, err := h.svc.Heatmap(c.Request.Context(), dashboardOptions(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *DashboardHandler) Sleep(c *gin.Context) {
	view, err := h.svc.SleepBreakdown(c.Request.Context(), dashboardOptions(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
