package report

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petmily/vetcare-api/internal/handler"
	"github.com/petmily/vetcare-api/internal/middleware"
	"github.com/petmily/vetcare-api/internal/model"
	"github.com/petmily/vetcare-api/internal/service/report"
)

type Handler struct {
	service *report.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *report.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/community/report", h.auth.Authenticate())
	{
		reports.POST("", h.Create)
		reports.GET("", h.List)
		reports.GET("/:reportId", h.Get)
		reports.PATCH("/:reportId", h.UpdateStatus)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), middleware.ClaimsFrom(c), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) List(c *gin.Context) {
	var filter model.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	reports, err := h.service.List(c.Request.Context(), middleware.ClaimsFrom(c), &filter)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (h *Handler) Get(c *gin.Context) {
	reportID, ok := handler.ParamID(c, "reportId")
	if !ok {
		return
	}

	found, err := h.service.Get(c.Request.Context(), middleware.ClaimsFrom(c), reportID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	reportID, ok := handler.ParamID(c, "reportId")
	if !ok {
		return
	}

	var req model.UpdateReportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), middleware.ClaimsFrom(c), reportID, req.Status)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
