package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gemtrack/gemtrack/internal/services"
	"github.com/gemtrack/gemtrack/internal/utils"
)

type AccountHandler struct {
	svc services.AccountService
}

func NewAccountHandler(svc services.AccountService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

func (h *AccountHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	p, err := h.svc.Me(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type UpdateRecipientsRequest struct {
	Recipients []string `json:"recipients" binding:"required"`
}

func (h *AccountHandler) UpdateRecipients(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateRecipientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AccountHandler.UpdateRecipients", "invalid request body", err))
		return
	}

	co, err := h.svc.UpdateRecipients(c.Request.Context(), userID, req.Recipients)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, co)
}
