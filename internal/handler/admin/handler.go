package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petmily/vetcare-api/internal/handler"
	"github.com/petmily/vetcare-api/internal/middleware"
	"github.com/petmily/vetcare-api/internal/model"
	"github.com/petmily/vetcare-api/internal/service/admin"
)

type Handler struct {
	service *admin.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *admin.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/admin", h.auth.Authenticate())
	{
		group.GET("/users", h.ListUsers)
		group.PATCH("/users", h.ChangeRole)
		group.GET("/audit-logs", h.ListAuditLogs)
	}
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context(), middleware.ClaimsFrom(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) ChangeRole(c *gin.Context) {
	var req model.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	user, err := h.service.ChangeRole(c.Request.Context(), middleware.ClaimsFrom(c), req.UserID, req.NewRole)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) ListAuditLogs(c *gin.Context) {
	logs, err := h.service.ListAuditLogs(c.Request.Context(), middleware.ClaimsFrom(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
