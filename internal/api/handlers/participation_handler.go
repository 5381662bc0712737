package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gemtrack/gemtrack/internal/providers/extract"
	"github.com/gemtrack/gemtrack/internal/services"
	"github.com/gemtrack/gemtrack/internal/utils"
)

const maxScreenshotBytes = 10 << 20

// ParticipationHandler backs the participated-bids page: screenshot
// analysis plus applying the confirmed evaluation updates.
type ParticipationHandler struct {
	svc      services.ParticipationService
	accounts services.AccountService
}

func NewParticipationHandler(svc services.ParticipationService, accounts services.AccountService) *ParticipationHandler {
	return &ParticipationHandler{svc: svc, accounts: accounts}
}

func (h *ParticipationHandler) AnalyzeScreenshot(c *gin.Context) {
	if _, _, ok := requireCompany(c, h.accounts); !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ParticipationHandler.AnalyzeScreenshot", "missing multipart field 'file'", err))
		return
	}
	if fh.Size <= 0 || fh.Size > maxScreenshotBytes {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ParticipationHandler.AnalyzeScreenshot", "file too large (max 10MB)", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "ParticipationHandler.AnalyzeScreenshot", "failed to open upload", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxScreenshotBytes+1))
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "ParticipationHandler.AnalyzeScreenshot", "failed to read upload", err))
		return
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ParticipationHandler.AnalyzeScreenshot", "only image files are allowed", nil))
		return
	}

	updates, err := h.svc.AnalyzeScreenshot(c.Request.Context(), data, mimeType)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Screenshot analyzed successfully",
		"updates": updates,
	})
}

type ApplyUpdatesRequest struct {
	Updates []extract.BidUpdate `json:"updates" binding:"required"`
}

func (h *ParticipationHandler) ApplyUpdates(c *gin.Context) {
	_, companyID, ok := requireCompany(c, h.accounts)
	if !ok {
		return
	}

	var req ApplyUpdatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ParticipationHandler.ApplyUpdates", "invalid request body", err))
		return
	}

	applied, err := h.svc.ApplyUpdates(c.Request.Context(), companyID, req.Updates)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tenders updated successfully",
		"applied": applied,
	})
}
