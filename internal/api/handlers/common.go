package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gemtrack/gemtrack/internal/services"
	"github.com/gemtrack/gemtrack/internal/utils"
)

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		c.JSON(status, APIError{
			Code:    ae.Code,
			Message: ae.Message,
		})
		return
	}

	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}

func requireUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}

// requireCompany resolves the caller's company once per request and caches
// it on the gin context.
func requireCompany(c *gin.Context, accounts services.AccountService) (userID, companyID string, ok bool) {
	userID, ok = requireUserID(c)
	if !ok {
		return "", "", false
	}

	if v, exists := c.Get("company_id"); exists {
		if s, _ := v.(string); s != "" {
			return userID, s, true
		}
	}

	companyID, err := accounts.CompanyID(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return "", "", false
	}
	c.Set("company_id", companyID)
	return userID, companyID, true
}
