package api

import (
	"errors"
	"fmt"
	"net/http"

	"nutriai/nutrition-app/internal/service"

	"github.com/gin-gonic/gin"
)

// PostHandler serves the community feed.
type PostHandler struct {
	communityService service.CommunityService
}

func NewPostHandler(communityService service.CommunityService) *PostHandler {
	return &PostHandler{communityService: communityService}
}

type CreatePostRequest struct {
	Text string `json:"text" binding:"required"`
}

// Create godoc
// @Summary Publish a community post
// @Tags Community
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param post body CreatePostRequest true "Post text"
// @Success 201 {object} domain.Post
// @Failure 400 {object} gin.H "Empty or too long text"
// @Failure 404 {object} gin.H "Author no longer exists"
// @Router /posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	post, err := h.communityService.CreatePost(c.Request.Context(), uid, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyPost), errors.Is(err, service.ErrPostTooLong):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
		}
		return
	}
	c.JSON(http.StatusCreated, post)
}

// ListMine godoc
// @Summary List the caller's posts, newest first
// @Tags Community
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Post
// @Router /posts [get]
func (h *PostHandler) ListMine(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	posts, err := h.communityService.ListMyPosts(c.Request.Context(), uid)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}
	c.JSON(http.StatusOK, posts)
}
