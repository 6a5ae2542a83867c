package handler

import (
	"net/http"

	"mentormatch/internal/service"
	"mentormatch/pkg/response"

	"github.com/gin-gonic/gin"
)

type MentorHandler struct {
	mentorService service.MentorService
}

func NewMentorHandler(mentorService service.MentorService) *MentorHandler {
	return &MentorHandler{
		mentorService: mentorService,
	}
}

func (h *MentorHandler) ListMentors(c *gin.Context) {
	query := service.MentorQuery{
		Skill:   c.Query("skill"),
		OrderBy: c.Query("order_by"),
		Query:   c.Query("q"),
	}

	mentors, err := h.mentorService.ListMentors(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, mentors)
}
