package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/gemtrack/gemtrack/config"
	"github.com/gemtrack/gemtrack/internal/api/handlers"
	"github.com/gemtrack/gemtrack/internal/api/middleware"
	"github.com/gemtrack/gemtrack/internal/api/routes"
	"github.com/gemtrack/gemtrack/internal/cache"
	"github.com/gemtrack/gemtrack/internal/events"
	"github.com/gemtrack/gemtrack/internal/logger"
	"github.com/gemtrack/gemtrack/internal/providers/extract"
	"github.com/gemtrack/gemtrack/internal/providers/notify"
	mongorepo "github.com/gemtrack/gemtrack/internal/repositories/mongo"
	pgrepo "github.com/gemtrack/gemtrack/internal/repositories/postgres"
	"github.com/gemtrack/gemtrack/internal/services"
	"github.com/gemtrack/gemtrack/internal/storage"
	"github.com/gemtrack/gemtrack/internal/workers"
)

func main() {
	_ = godotenv.Load()

	appLog := logger.New()
	ctx := context.Background()

	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	appLog.Info("PostgreSQL connected")

	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	appLog.Info("Redis connected")

	// Mongo only backs the job-run history; unset URI disables it
	var jobRuns mongorepo.JobRunRepository
	if os.Getenv("MONGO_URI") != "" {
		if err := config.InitMongo(); err != nil {
			log.Fatalf("MongoDB init error: %v", err)
		}
		if err := config.EnsureMongoIndexes(); err != nil {
			log.Fatalf("MongoDB index error: %v", err)
		}
		jobRuns = mongorepo.NewJobRunRepo(config.MongoDatabase())
		appLog.Info("MongoDB connected")
	} else {
		appLog.Warn("MONGO_URI not set; job run history disabled")
	}

	pdfs, docs, files, remover := buildStores(ctx, appLog)

	tenderRepo := pgrepo.NewTenderRepo(config.PostgresDB)
	checklistRepo := pgrepo.NewChecklistRepo(config.PostgresDB)
	templateRepo := pgrepo.NewTemplateRepo(config.PostgresDB)
	companyRepo := pgrepo.NewCompanyRepo(config.PostgresDB)
	userRepo := pgrepo.NewUserRepo(config.PostgresDB)

	listCache := cache.NewRedisCache(config.RedisClient, appLog)
	publisher := events.NewRedisPublisher(config.RedisClient)

	extractor, vision := buildExtractor(ctx, appLog)

	accountSvc := services.NewAccountService(userRepo, companyRepo)
	tenderSvc := services.NewTenderService(tenderRepo, pdfs, listCache, publisher, appLog)
	uploadSvc := services.NewUploadService(tenderRepo, pdfs, extractor, listCache, publisher, appLog)
	participationSvc := services.NewParticipationService(tenderRepo, vision, listCache, publisher, appLog)
	checklistSvc := services.NewChecklistService(checklistRepo, tenderRepo, docs, listCache, publisher, appLog)
	templateSvc := services.NewTemplateService(templateRepo, files, appLog)
	expirySvc := services.NewExpiryService(tenderRepo, companyRepo, publisher, remover, jobRuns, appLog)

	pool := &workers.ReminderWorkerPool{
		Redis:    config.RedisClient,
		Notifier: buildNotifier(appLog),
		Logger:   appLog,
	}
	if err := pool.Start(ctx); err != nil {
		log.Fatalf("reminder worker init error: %v", err)
	}

	production := os.Getenv("ENV") == "production"

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(appLog))

	routes.RegisterRoutes(r, routes.Deps{
		Tenders:       handlers.NewTenderHandler(tenderSvc, accountSvc),
		Upload:        handlers.NewUploadHandler(uploadSvc, accountSvc),
		Checklist:     handlers.NewChecklistHandler(checklistSvc, accountSvc),
		Templates:     handlers.NewTemplateHandler(templateSvc),
		Accounts:      handlers.NewAccountHandler(accountSvc),
		Participation: handlers.NewParticipationHandler(participationSvc, accountSvc),
		Cron:          handlers.NewCronHandler(expirySvc, jobRuns, os.Getenv("CRON_SECRET"), production, appLog),
		WS:            handlers.NewWSHandler(accountSvc, config.RedisClient),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// buildStores wires one Store per bucket plus the elevated remover used by
// the cleanup phase. The remover stays nil when no service-role credential
// is available, which skips cleanup rather than failing the whole job.
func buildStores(ctx context.Context, appLog *logrus.Logger) (pdfs, docs, files, remover storage.Store) {
	if os.Getenv("STORAGE_BACKEND") == "gcs" {
		mk := func(bucket string) storage.Store {
			s, err := storage.NewGCS(ctx, bucket)
			if err != nil {
				log.Fatalf("GCS init error for bucket %s: %v", bucket, err)
			}
			return s
		}
		pdfs = mk("tender-pdfs")
		docs = mk("compliance-docs")
		files = mk("template-files")
		// GCS credentials are already service-level
		return pdfs, docs, files, pdfs
	}

	project := os.Getenv("SUPABASE_PROJECT_ID")
	anonKey := os.Getenv("SUPABASE_ANON_KEY")
	serviceKey := os.Getenv("SUPABASE_SERVICE_ROLE_KEY")
	if project == "" {
		log.Fatal("SUPABASE_PROJECT_ID is not set")
	}

	apiKey := serviceKey
	if apiKey == "" {
		apiKey = anonKey
	}
	if apiKey == "" {
		log.Fatal("neither SUPABASE_SERVICE_ROLE_KEY nor SUPABASE_ANON_KEY is set")
	}

	pdfs = storage.NewSupabase(project, apiKey, "tender-pdfs")
	docs = storage.NewSupabase(project, apiKey, "compliance-docs")
	files = storage.NewSupabase(project, apiKey, "template-files")

	if serviceKey != "" {
		remover = storage.NewSupabase(project, serviceKey, "tender-pdfs")
	} else {
		appLog.Warn("SUPABASE_SERVICE_ROLE_KEY is missing; cleanup phase will be skipped")
	}
	return pdfs, docs, files, remover
}

// buildExtractor returns the Gemini text and vision providers when
// configured, nils otherwise (upload falls back to regex parsing and
// screenshot analysis reports unavailable).
func buildExtractor(ctx context.Context, appLog *logrus.Logger) (extract.Provider, extract.VisionProvider) {
	project := os.Getenv("VERTEX_PROJECT_ID")
	if project == "" {
		appLog.Warn("VERTEX_PROJECT_ID not set; AI extraction disabled")
		return nil, nil
	}

	location := os.Getenv("VERTEX_LOCATION")
	if location == "" {
		location = "us-central1"
	}

	p, err := extract.NewVertexGemini(ctx, project, location,
		os.Getenv("VERTEX_MODEL"), os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	if err != nil {
		appLog.Warnf("Vertex Gemini init failed, AI extraction disabled: %v", err)
		return nil, nil
	}
	return p, p
}

func buildNotifier(appLog *logrus.Logger) notify.Notifier {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	chat := os.Getenv("TELEGRAM_CHAT_ID")
	if token != "" && chat != "" {
		chatID, err := strconv.ParseInt(chat, 10, 64)
		if err != nil {
			log.Fatalf("invalid TELEGRAM_CHAT_ID: %v", err)
		}
		n, err := notify.NewTelegram(token, chatID)
		if err != nil {
			log.Fatalf("telegram notifier init error: %v", err)
		}
		appLog.Info("telegram notifier enabled")
		return n
	}

	appLog.Info("no notifier configured; reminders will be logged only")
	return &notify.LogNotifier{Logger: appLog}
}
