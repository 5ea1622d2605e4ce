package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/visabuddy/visabuddy-backend/internal/handlers"
	"github.com/visabuddy/visabuddy-backend/internal/middleware"
	"github.com/visabuddy/visabuddy-backend/internal/platform/envutil"
)

type RouterConfig struct {
	ChecklistHandler     *handlers.ChecklistHandler
	ProbabilityHandler   *handlers.ProbabilityHandler
	QuestionnaireHandler *handlers.QuestionnaireHandler
	AuthMiddleware       *middleware.InternalAuthMiddleware
	MetricsRegistry      *prometheus.Registry
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if envutil.Str("APP_MODE", "dev") == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Internal-Token"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	if cfg.MetricsRegistry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.MetricsRegistry, promhttp.HandlerOpts{})))
	}

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireServiceToken())
	// Checklists
	api.POST("/checklists/generate", cfg.ChecklistHandler.Generate)
	api.GET("/checklists/:applicationId", cfg.ChecklistHandler.Get)
	// Probability
	api.POST("/probability", cfg.ProbabilityHandler.Analyze)
	// Questionnaires
	api.POST("/questionnaires", cfg.QuestionnaireHandler.Submit)

	return router
}
