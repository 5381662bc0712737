package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/gemtrack/gemtrack/internal/api/handlers"
	"github.com/gemtrack/gemtrack/internal/api/middleware"
)

type Deps struct {
	Tenders       *handlers.TenderHandler
	Upload        *handlers.UploadHandler
	Checklist     *handlers.ChecklistHandler
	Templates     *handlers.TemplateHandler
	Accounts      *handlers.AccountHandler
	Participation *handlers.ParticipationHandler
	Cron          *handlers.CronHandler
	WS            *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "gemtrack"})
	})

	// scheduler endpoint; bearer-secret check happens in the handler
	r.GET("/cron/expiry", d.Cron.Expiry)

	// Protected routes (Supabase JWT)
	api := r.Group("/api")
	api.Use(middleware.JWTAuth())

	api.GET("/tenders", d.Tenders.List)
	api.GET("/tenders/:id", d.Tenders.Get)
	api.PUT("/tenders/:id", d.Tenders.Update)
	api.DELETE("/tenders/:id", d.Tenders.Delete)
	api.GET("/tenders/:id/download", d.Tenders.Download)

	api.POST("/upload", d.Upload.Upload)
	api.POST("/upload-bulk", d.Upload.UploadBulk)

	api.POST("/tenders/analyze-screenshot", d.Participation.AnalyzeScreenshot)
	api.POST("/tenders/apply-updates", d.Participation.ApplyUpdates)

	api.PUT("/checklist/:id", d.Checklist.Update)
	api.GET("/checklist/:id/download", d.Checklist.Download)

	api.GET("/templates", d.Templates.List)
	api.GET("/templates/:id/download", d.Templates.Download)

	api.GET("/me", d.Accounts.Me)
	api.PUT("/company/recipients", middleware.RequireAdmin(), d.Accounts.UpdateRecipients)
	api.GET("/admin/job-runs", middleware.RequireAdmin(), d.Cron.History)

	// WebSocket: realtime tender change feed
	api.GET("/ws/tenders", d.WS.TendersWS)
}
