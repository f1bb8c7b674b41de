package hospital

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petmily/vetcare-api/internal/handler"
	"github.com/petmily/vetcare-api/internal/middleware"
	"github.com/petmily/vetcare-api/internal/model"
	"github.com/petmily/vetcare-api/internal/service/hospital"
)

type Handler struct {
	service *hospital.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *hospital.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	hospitals := rg.Group("/hospitals")
	{
		hospitals.GET("", h.auth.Identify(), h.Search)
		hospitals.POST("", h.auth.Authenticate(), h.Create)
		hospitals.GET("/:id", h.Get)
		hospitals.PATCH("/:id", h.auth.Authenticate(), h.Update)
		hospitals.DELETE("/:id", h.auth.Authenticate(), h.Delete)
		hospitals.GET("/:id/stats", h.auth.Authenticate(), h.Stats)
	}

	rg.GET("/specialties", h.ListSpecialties)
	rg.GET("/veterinarians", h.ListVeterinarians)
}

func (h *Handler) Search(c *gin.Context) {
	var filter model.HospitalSearchFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		handler.RespondBindError(c, err)
		return
	}
	mine := c.Query("mine")
	filter.Mine = mine == "1" || mine == "true"

	result, err := h.service.Search(c.Request.Context(), middleware.ClaimsFrom(c), &filter)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	detail, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	detail, err := h.service.Create(c.Request.Context(), middleware.ClaimsFrom(c), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	detail, err := h.service.Update(c.Request.Context(), middleware.ClaimsFrom(c), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.ClaimsFrom(c), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "hospital deleted"})
}

func (h *Handler) Stats(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), middleware.ClaimsFrom(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) ListSpecialties(c *gin.Context) {
	specialties, err := h.service.ListSpecialties(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, specialties)
}

func (h *Handler) ListVeterinarians(c *gin.Context) {
	veterinarians, err := h.service.ListVeterinarians(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, veterinarians)
}
