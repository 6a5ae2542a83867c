package handler

import (
	"net/http"

	"mentormatch/internal/service"
	"mentormatch/pkg/apperror"
	"mentormatch/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

func (h *ProfileHandler) Me(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.profileService.Me(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input service.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	res, err := h.profileService.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// GetImage serves the database-stored profile image, or redirects to the
// external/placeholder URL.
func (h *ProfileHandler) GetImage(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrNotFound)
		return
	}

	data, redirectURL, err := h.profileService.GetImage(c.Request.Context(), c.Param("role"), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if redirectURL != "" {
		c.Redirect(http.StatusFound, redirectURL)
		return
	}

	c.Data(http.StatusOK, "image/jpeg", data)
}
