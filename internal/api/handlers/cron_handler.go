package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	mongorepo "github.com/gemtrack/gemtrack/internal/repositories/mongo"
	"github.com/gemtrack/gemtrack/internal/services"
)

// CronHandler exposes the expiry job to the external scheduler. The bearer
// secret is enforced only in production; pre-production environments may
// invoke it unauthenticated.
type CronHandler struct {
	svc        services.ExpiryService
	runs       mongorepo.JobRunRepository // nil when Mongo is not configured
	secret     string
	production bool
	log        *logrus.Logger
}

func NewCronHandler(svc services.ExpiryService, runs mongorepo.JobRunRepository, secret string, production bool, log *logrus.Logger) *CronHandler {
	return &CronHandler{svc: svc, runs: runs, secret: secret, production: production, log: log}
}

func (h *CronHandler) authorized(c *gin.Context) bool {
	if !h.production {
		return true
	}
	// no secret configured means nothing can match it
	if h.secret == "" {
		return false
	}
	auth := c.GetHeader("Authorization")
	want := "Bearer " + h.secret
	return subtle.ConstantTimeCompare([]byte(auth), []byte(want)) == 1
}

func (h *CronHandler) Expiry(c *gin.Context) {
	if !h.authorized(c) {
		c.Status(http.StatusUnauthorized)
		return
	}

	report, err := h.svc.Run(c.Request.Context(), time.Now().UTC())
	if err != nil {
		h.log.WithError(err).Error("expiry job failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"remindersSent": report.RemindersSent,
		"cleanup":       report.Cleanup,
		"timestamp":     report.Timestamp.Format(time.RFC3339),
	})
}

// History lists recent job runs for the admin dashboard.
func (h *CronHandler) History(c *gin.Context) {
	if h.runs == nil {
		c.JSON(http.StatusOK, []any{})
		return
	}

	runs, err := h.runs.Recent(c.Request.Context(), 20)
	if err != nil {
		h.log.WithError(err).Error("job run lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch job runs"})
		return
	}
	c.JSON(http.StatusOK, runs)
}
