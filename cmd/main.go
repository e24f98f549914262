package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/reuniteapp/reunite-backend/internal/clients/gcp"
	goredis "github.com/reuniteapp/reunite-backend/internal/clients/redis"
	casesRepo "github.com/reuniteapp/reunite-backend/internal/data/repos/cases"
	patternsRepo "github.com/reuniteapp/reunite-backend/internal/data/repos/patterns"
	tipsRepo "github.com/reuniteapp/reunite-backend/internal/data/repos/tips"
	"github.com/reuniteapp/reunite-backend/internal/db"
	httpS "github.com/reuniteapp/reunite-backend/internal/http"
	httpH "github.com/reuniteapp/reunite-backend/internal/http/handlers"
	httpMW "github.com/reuniteapp/reunite-backend/internal/http/middleware"
	"github.com/reuniteapp/reunite-backend/internal/observability"
	"github.com/reuniteapp/reunite-backend/internal/pkg/logger"
	"github.com/reuniteapp/reunite-backend/internal/services"
	"github.com/reuniteapp/reunite-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "reunite-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	if shutdownOTel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownOTel(ctx)
		}()
	}

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	port := utils.GetEnv("PORT", "8080", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	caseRepo := casesRepo.NewCaseRepo(thePG, log)
	leadRepo := casesRepo.NewLeadRepo(thePG, log)
	tipRepo := tipsRepo.NewTipRepo(thePG, log)
	tipsterRepo := tipsRepo.NewTipsterProfileRepo(thePG, log)
	verificationRepo := tipsRepo.NewVerificationRepo(thePG, log)
	queueItemRepo := tipsRepo.NewQueueItemRepo(thePG, log)
	scamPatternRepo := patternsRepo.NewScamPatternRepo(thePG, log)
	ruleRepo := patternsRepo.NewVerificationRuleRepo(thePG, log)

	// Optional collaborators, best-effort
	var photoAnalyzer services.PhotoAnalyzer
	if visionClient, err := gcp.NewVision(log); err != nil {
		log.Warn("Vision client unavailable, photo scoring uses stored metadata only", "error", err)
	} else {
		photoAnalyzer = visionClient
		defer visionClient.Close()
	}
	var eventBus goredis.EventBus
	if bus, err := goredis.NewEventBus(log); err != nil {
		log.Warn("Redis event bus unavailable, events disabled", "error", err)
	} else {
		eventBus = bus
		defer bus.Close()
	}

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(log, jwtSecretKey)
	verificationService := services.NewVerificationService(
		thePG,
		log,
		tipRepo,
		tipsterRepo,
		verificationRepo,
		queueItemRepo,
		caseRepo,
		leadRepo,
		scamPatternRepo,
		ruleRepo,
		photoAnalyzer,
		eventBus,
	)
	queueService := services.NewQueueService(thePG, log, queueItemRepo, verificationRepo, authService, eventBus)

	// Handlers
	log.Info("Setting up Handlers from main...")
	verificationHandler := httpH.NewVerificationHandler(verificationService)
	queueHandler := httpH.NewQueueHandler(queueService)
	healthHandler := httpH.NewHealthHandler()

	// Middleware
	authMiddleware := httpMW.NewAuthMiddleware(log, authService)

	// Server
	server := httpS.NewServer(httpS.RouterConfig{
		Log:                 log,
		AuthMiddleware:      authMiddleware,
		VerificationHandler: verificationHandler,
		QueueHandler:        queueHandler,
		HealthHandler:       healthHandler,
	})

	log.Info("Starting server...", "port", port)
	if err := server.Run(":" + port); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
