package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gemtrack/gemtrack/internal/services"
	"github.com/gemtrack/gemtrack/internal/utils"
)

type TenderHandler struct {
	svc      services.TenderService
	accounts services.AccountService
}

func NewTenderHandler(svc services.TenderService, accounts services.AccountService) *TenderHandler {
	return &TenderHandler{svc: svc, accounts: accounts}
}

func (h *TenderHandler) List(c *gin.Context) {
	_, companyID, ok := requireCompany(c, h.accounts)
	if !ok {
		return
	}

	views, err := h.svc.List(c.Request.Context(), companyID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *TenderHandler) Get(c *gin.Context) {
	_, companyID, ok := requireCompany(c, h.accounts)
	if !ok {
		return
	}

	v, err := h.svc.Get(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type UpdateTenderRequest struct {
	Nickname *string `json:"nickname"`
}

func (h *TenderHandler) Update(c *gin.Context) {
	_, companyID, ok := requireCompany(c, h.accounts)
	if !ok {
		return
	}

	var req UpdateTenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "TenderHandler.Update", "invalid request body", err))
		return
	}
	if req.Nickname == nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "TenderHandler.Update", "no update data provided", nil))
		return
	}

	v, err := h.svc.UpdateNickname(c.Request.Context(), companyID, c.Param("id"), req.Nickname)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *TenderHandler) Delete(c *gin.Context) {
	_, companyID, ok := requireCompany(c, h.accounts)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), companyID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tender deleted"})
}

func (h *TenderHandler) Download(c *gin.Context) {
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
