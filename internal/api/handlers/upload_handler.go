package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gemtrack/gemtrack/internal/services"
	"github.com/gemtrack/gemtrack/internal/utils"
)

const maxUploadBytes = 20 << 20

type UploadHandler struct {
	svc      services.UploadService
	accounts services.AccountService
}

func NewUploadHandler(svc services.UploadService, accounts services.AccountService) *UploadHandler {
	return &UploadHandler{svc: svc, accounts: accounts}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	userID, companyID, ok := requireCompany(c, h.accounts)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "UploadHandler.Upload", "missing multipart field 'file'", err))
		return
	}

	if strings.ToLower(filepath.Ext(fh.Filename)) != ".pdf" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "UploadHandler.Upload", "only PDF files are allowed", nil))
		return
	}
	if fh.Size <= 0 || fh.Size > maxUploadBytes {
		writeError(c, utils.E(utils.CodeInvalidArgument, "UploadHandler.Upload", "file too large (max 20MB)", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "UploadHandler.Upload", "failed to open upload", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "UploadHandler.Upload", "failed to read upload", err))
		return
	}

	// sniff content, the extension alone is not trusted
	if ct := http.DetectContentType(data); ct != "application/pdf" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "UploadHandler.Upload", "invalid content type (must be pdf)", nil))
		return
	}

	v, err := h.svc.Upload(c.Request.Context(), userID, companyID, fh.Filename, data)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "PDF uploaded successfully",
		"tender":  v,
	})
}

// UploadBulk processes a batch of PDFs in one request. Each file succeeds
// or fails on its own; only an all-failure batch is an error response.
func (h *UploadHandler) UploadBulk(c *gin.Context) {
	userID, companyID, ok := requireCompany(c, h.accounts)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "UploadHandler.UploadBulk", "invalid multipart form", err))
		return
	}
	fhs := form.File["files"]
	if len(fhs) == 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, "UploadHandler.UploadBulk", "missing multipart field 'files'", nil))
		return
	}

	tenders := make([]*services.TenderView, 0, len(fhs))
	var failures []string

	for _, fh := range fhs {
		if strings.ToLower(filepath.Ext(fh.Filename)) != ".pdf" {
			failures = append(failures, "Skipped "+fh.Filename+": Only PDF files are allowed")
			continue
		}
		if fh.Size <= 0 || fh.Size > maxUploadBytes {
			failures = append(failures, "Skipped "+fh.Filename+": file too large (max 20MB)")
			continue
		}

		data, rerr := readUpload(fh)
		if rerr != nil {
			failures = append(failures, "Error processing "+fh.Filename+": "+rerr.Error())
			continue
		}
		if ct := http.DetectContentType(data); ct != "application/pdf" {
			failures = append(failures, "Skipped "+fh.Filename+": invalid content type (must be pdf)")
			continue
		}

		v, uerr := h.svc.Upload(c.Request.Context(), userID, companyID, fh.Filename, data)
		if uerr != nil {
			failures = append(failures, "Failed to process "+fh.Filename+": "+uerr.Error())
			continue
		}
		tenders = append(tenders, v)
	}

	if len(tenders) == 0 && len(failures) > 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, "UploadHandler.UploadBulk", strings.Join(failures, "\n"), nil))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Processed %d tenders successfully", len(tenders)),
		"tenders": tenders,
		"errors":  failures,
	})
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
}
