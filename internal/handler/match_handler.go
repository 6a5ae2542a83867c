package handler

import (
	"context"
	"net/http"

	"mentormatch/internal/service"
	"mentormatch/pkg/apperror"
	"mentormatch/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MatchHandler struct {
	matchService service.MatchService
}

func NewMatchHandler(matchService service.MatchService) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
	}
}

func (h *MatchHandler) CreateRequest(c *gin.Context) {
	menteeID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input service.CreateMatchRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	res, err := h.matchService.CreateRequest(c.Request.Context(), menteeID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *MatchHandler) ListIncoming(c *gin.Context) {
	mentorID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.matchService.ListIncoming(c.Request.Context(), mentorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *MatchHandler) ListOutgoing(c *gin.Context) {
	menteeID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.matchService.ListOutgoing(c.Request.Context(), menteeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *MatchHandler) AcceptRequest(c *gin.Context) {
	h.transition(c, h.matchService.AcceptRequest)
}

func (h *MatchHandler) RejectRequest(c *gin.Context) {
	h.transition(c, h.matchService.RejectRequest)
}

func (h *MatchHandler) CancelRequest(c *gin.Context) {
	h.transition(c, h.matchService.CancelRequest)
}

// transition runs a status transition on behalf of the authenticated
// principal; accept/reject/cancel only differ in the service call.
func (h *MatchHandler) transition(c *gin.Context, op func(ctx context.Context, principalID, requestID uuid.UUID) (*service.MatchRequestPayload, error)) {
	principalID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrNotFound)
		return
	}

	res, err := op(c.Request.Context(), principalID, requestID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
