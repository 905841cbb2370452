package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-vitals/internal/config"
	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
	"github.com/comitanigiacomo/kanso-vitals/internal/core/services"
)

// TrackerHandler serves the public read endpoints and manual entries.
// Entry bodies may be JSON or form encoded.
type TrackerHandler struct {
	svc     *services.TrackerService
	profile config.Profile
}

func NewTrackerHandler(svc *services.TrackerService, profile config.Profile) *TrackerHandler {
	return &TrackerHandler{
		svc:     svc,
		profile: profile,
	}
}

type weightRequest struct {
	Weight float64 `json:"weight" form:"weight"`
	Date   string  `json:"date" form:"date"`
}

type waterRequest struct {
	WaterML int    `json:"water_ml" form:"water_ml"`
	Date    string `json:"date" form:"date"`
}

type caloriesRequest struct {
	Calories int    `json:"calories" form:"calories"`
	Datetime string `json:"datetime" form:"datetime"`
	Item     string `json:"item" form:"item"`
}

func (h *TrackerHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/data", h.Data)
	router.GET("/profile", h.Profile)
}

// RegisterRoutes mounts the entry endpoints, which mutate the dataset.
func (h *TrackerHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/weight", h.LogWeight)
	router.POST("/water", h.LogWater)
	router.POST("/calories", h.LogCalories)
}

func (h *TrackerHandler) Data(c *gin.Context) {
	snap, err := h.svc.Snapshot(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *TrackerHandler) Profile(c *gin.Context) {
	c.JSON(http.StatusOK, h.profile)
}

func (h *TrackerHandler) LogWeight(c *gin.Context) {
	var req weightRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	rec, err := h.svc.LogWeight(c.Request.Context(), services.WeightInput{Weight: req.Weight, Date: req.Date})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Weight added",
		"date":    rec.Date,
		"weight":  rec.Weight,
	})
}

func (h *TrackerHandler) LogWater(c *gin.Context) {
	var req waterRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	rec, err := h.svc.LogWater(c.Request.Context(), services.WaterInput{AmountML: req.WaterML, Date: req.Date})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"message":  "Water added",
		"date":     rec.Date,
		"water_ml": rec.WaterML,
	})
}

func (h *TrackerHandler) LogCalories(c *gin.Context) {
	var req caloriesRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	input := services.CaloriesInput{Calories: req.Calories, Item: req.Item}
	if req.Datetime != "" {
		at, err := domain.ParseDatetime(req.Datetime, h.svc.Location())
		if err != nil {
			handleError(c, err)
			return
		}
		input.Datetime = at
	}

	entry, err := h.svc.LogCalories(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Calories added",
		"entry":   entry,
	})
}
