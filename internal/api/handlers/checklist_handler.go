package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gemtrack/gemtrack/internal/services"
	"github.com/gemtrack/gemtrack/internal/utils"
)

type ChecklistHandler struct {
	svc      services.ChecklistService
	accounts services.AccountService
}

func NewChecklistHandler(svc services.ChecklistService, accounts services.AccountService) *ChecklistHandler {
	return &ChecklistHandler{svc: svc, accounts: accounts}
}

type UpdateChecklistRequest struct {
	IsReady     *bool   `json:"is_ready,omitempty"`
	IsSubmitted *bool   `json:"is_submitted,omitempty"`
	DocumentURL *string `json:"document_url,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

func (h *ChecklistHandler) Update(c *gin.Context) {
	userID, companyID, ok := requireCompany(c, h.accounts)
	if !ok {
		return
	}

	var req UpdateChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ChecklistHandler.Update", "invalid request body", err))
		return
	}

	item, err := h.svc.Update(c.Request.Context(), userID, companyID, c.Param("id"), services.ChecklistUpdate{
		IsReady:     req.IsReady,
		IsSubmitted: req.IsSubmitted,
		DocumentURL: req.DocumentURL,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ChecklistHandler) Download(c *gin.Context) {
	_, companyID, ok := requireCompany(c, h.accounts)
	if !ok {
		return
	}

	url, err := h.svc.DownloadURL(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"download_url": url})
}
