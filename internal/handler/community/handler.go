package community

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/petmily/vetcare-api/internal/handler"
	"github.com/petmily/vetcare-api/internal/middleware"
	"github.com/petmily/vetcare-api/internal/model"
	"github.com/petmily/vetcare-api/internal/service/community"
)

type Handler struct {
	service *community.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *community.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	posts := rg.Group("/community")
	{
		posts.GET("", h.ListPosts)
		posts.POST("", h.auth.Authenticate(), h.CreatePost)
		posts.GET("/:id", h.GetPost)
		posts.PUT("/:id", h.auth.Authenticate(), h.UpdatePost)
		posts.DELETE("/:id", h.auth.Authenticate(), h.DeletePost)

		posts.GET("/:id/comment", h.ListComments)
		posts.POST("/:id/comment", h.auth.Authenticate(), h.CreateComment)
		posts.PUT("/:id/comment/:commentId", h.auth.Authenticate(), h.UpdateComment)
		posts.DELETE("/:id/comment/:commentId", h.auth.Authenticate(), h.DeleteComment)

		posts.POST("/:id/like", h.auth.Authenticate(), h.Like)
		posts.DELETE("/:id/like", h.auth.Authenticate(), h.Unlike)
	}
}

func (h *Handler) ListPosts(c *gin.Context) {
	var filter model.PostFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	page, err := h.service.ListPosts(c.Request.Context(), &filter)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) CreatePost(c *gin.Context) {
	var req model.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), middleware.ClaimsFrom(c), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *Handler) GetPost(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	post, err := h.service.GetPost(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) UpdatePost(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	var req model.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	post, err := h.service.UpdatePost(c.Request.Context(), middleware.ClaimsFrom(c), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), middleware.ClaimsFrom(c), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}

func (h *Handler) ListComments(c *gin.Context) {
	postID, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	var parentID *int64
	if raw := c.Query("parentId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parentId"})
			return
		}
		parentID = &parsed
	}

	comments, err := h.service.ListComments(c.Request.Context(), postID, parentID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *Handler) CreateComment(c *gin.Context) {
	postID, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	comment, err := h.service.CreateComment(c.Request.Context(), middleware.ClaimsFrom(c), postID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *Handler) UpdateComment(c *gin.Context) {
	commentID, ok := handler.ParamID(c, "commentId")
	if !ok {
		return
	}

	var req model.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	comment, err := h.service.UpdateComment(c.Request.Context(), middleware.ClaimsFrom(c), commentID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *Handler) DeleteComment(c *gin.Context) {
	commentID, ok := handler.ParamID(c, "commentId")
	if !ok {
		return
	}

	if err := h.service.DeleteComment(c.Request.Context(), middleware.ClaimsFrom(c), commentID); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

func (h *Handler) Like(c *gin.Context) {
	postID, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	like, err := h.service.Like(c.Request.Context(), middleware.ClaimsFrom(c), postID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, like)
}

func (h *Handler) Unlike(c *gin.Context) {
	postID, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Unlike(c.Request.Context(), middleware.ClaimsFrom(c), postID); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "like removed"})
}
