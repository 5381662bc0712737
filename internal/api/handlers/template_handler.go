package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gemtrack/gemtrack/internal/services"
)

type TemplateHandler struct {
	svc services.TemplateService
}

func NewTemplateHandler(svc services.TemplateService) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

func (h *TemplateHandler) List(c *gin.Context) {
	rows, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *TemplateHandler) Download(c *gin.Context) {
	url, err := h.svc.DownloadURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"download_url": url})
}
