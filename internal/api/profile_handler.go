package api

import (
	"errors"
	"fmt"
	"net/http"

	"nutriai/nutrition-app/internal/domain"
	"nutriai/nutrition-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ProfileHandler serves the authenticated user's profile and avatar.
type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

type BodyMetricsRequest struct {
	Name   string `json:"nome" binding:"required"`
	Weight string `json:"peso" binding:"required"`
	Height string `json:"altura" binding:"required"`
	Age    string `json:"idade" binding:"required"`
}

type AvatarUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// ConfirmAvatarRequest carries the key returned by RequestAvatarUpload after
// the client finished the PUT.
type ConfirmAvatarRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 404 {object} gin.H "User not found"
// @Router /me [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	user, err := h.profileService.GetProfile(c.Request.Context(), uid)
	if err != nil {
		writeProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// UpdateProfile godoc
// @Summary Merge the given fields into the profile
// @Description Only fields present in the body are written.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 400 {object} gin.H "Empty update or blank name"
// @Router /me [patch]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	var req domain.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	user, err := h.profileService.UpdateProfile(c.Request.Context(), uid, req)
	if err != nil {
		writeProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// SaveBodyMetrics godoc
// @Summary Save weight, height and age from onboarding
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param metrics body BodyMetricsRequest true "Body metrics"
// @Success 200 {object} UserResponse
// @Router /me/metrics [put]
func (h *ProfileHandler) SaveBodyMetrics(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	var req BodyMetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	user, err := h.profileService.SaveBodyMetrics(c.Request.Context(), uid, service.BodyMetrics{
		Name:   req.Name,
		Weight: req.Weight,
		Height: req.Height,
		Age:    req.Age,
	})
	if err != nil {
		writeProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// RequestAvatarUpload godoc
// @Summary Get a presigned URL to upload a new avatar
// @Description The current avatar is untouched until the upload is confirmed.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param upload body AvatarUploadRequest true "Image content type"
// @Success 200 {object} service.AvatarUpload
// @Failure 400 {object} gin.H "Not an image content type"
// @Failure 503 {object} gin.H "Object storage not configured"
// @Router /me/avatar [post]
func (h *ProfileHandler) RequestAvatarUpload(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	var req AvatarUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	upload, err := h.profileService.RequestAvatarUpload(c.Request.Context(), uid, req.ContentType)
	if err != nil {
		writeProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}

// ConfirmAvatarUpload godoc
// @Summary Make an uploaded object the user's avatar
// @Description Called after the PUT to the presigned URL succeeded. The previous avatar object is deleted.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param confirm body ConfirmAvatarRequest true "Object key from the upload request"
// @Success 200 {object} UserResponse
// @Failure 400 {object} gin.H "Key belongs to another user"
// @Failure 409 {object} gin.H "Object was not uploaded"
// @Failure 503 {object} gin.H "Object storage not configured"
// @Router /me/avatar/confirm [post]
func (h *ProfileHandler) ConfirmAvatarUpload(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	var req ConfirmAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	user, err := h.profileService.ConfirmAvatarUpload(c.Request.Context(), uid, req.ObjectKey)
	if err != nil {
		writeProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// GetAvatarURL godoc
// @Summary Get a presigned download URL for the avatar
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "{url: string}"
// @Failure 404 {object} gin.H "No avatar"
// @Router /me/avatar [get]
func (h *ProfileHandler) GetAvatarURL(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	url, err := h.profileService.AvatarURL(c.Request.Context(), uid)
	if err != nil {
		writeProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// writeProfileError maps profile service errors to HTTP statuses.
func writeProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrNoAvatar):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrEmptyUpdate),
		errors.Is(err, service.ErrUnsupportedContentType),
		errors.Is(err, service.ErrForeignAvatarKey):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAvatarNotUploaded):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrStorageUnavailable):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
