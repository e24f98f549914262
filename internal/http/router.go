package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/reuniteapp/reunite-backend/internal/http/handlers"
	httpMW "github.com/reuniteapp/reunite-backend/internal/http/middleware"
	"github.com/reuniteapp/reunite-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *httpMW.AuthMiddleware

	VerificationHandler *httpH.VerificationHandler
	QueueHandler        *httpH.QueueHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("reunite-backend"))
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
			protected.Use(cfg.AuthMiddleware.RequireInvestigativeRole())
		}

		// Tip verification
		if cfg.VerificationHandler != nil {
			protected.GET("/tips/verification", cfg.VerificationHandler.ListVerifications)
			protected.POST("/tips/verification", cfg.VerificationHandler.VerifyTip)
		}

		// Review queue
		if cfg.QueueHandler != nil {
			protected.GET("/tips/verification/queue", cfg.QueueHandler.ListQueue)
			protected.POST("/tips/verification/queue", cfg.QueueHandler.QueueAction)
		}
	}

	return r
}
