package reservation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petmily/vetcare-api/internal/handler"
	"github.com/petmily/vetcare-api/internal/middleware"
	"github.com/petmily/vetcare-api/internal/model"
	"github.com/petmily/vetcare-api/internal/service/reservation"
)

type Handler struct {
	service *reservation.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *reservation.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	reservations := rg.Group("/reservations", h.auth.Authenticate())
	{
		reservations.GET("", h.ListMine)
		reservations.POST("", h.Create)
		reservations.PATCH("/:id/cancel", h.Cancel)
	}

	hospitals := rg.Group("/hospitals/:id/reservations", h.auth.Authenticate())
	{
		hospitals.GET("", h.ListForHospital)
		hospitals.PATCH("/:rid", h.UpdateStatus)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateReservationRequest
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

func (h *Handler) ListMine(c *gin.Context) {
	reservations, err := h.service.ListForUser(c.Request.Context(), middleware.ClaimsFrom(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservations)
}

func (h *Handler) ListForHospital(c *gin.Context) {
	hospitalID, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	reservations, err := h.service.ListForHospital(c.Request.Context(), middleware.ClaimsFrom(c), hospitalID, c.Query("status"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservations)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	hospitalID, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}
	reservationID, ok := handler.ParamID(c, "rid")
	if !ok {
		return
	}

	var req model.UpdateReservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), middleware.ClaimsFrom(c), hospitalID, reservationID, req.Status)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) Cancel(c *gin.Context) {
	reservationID, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	cancelled, err := h.service.Cancel(c.Request.Context(), middleware.ClaimsFrom(c), reservationID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelled)
}
