package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/thorfin/insights-backend/internal/handlers"
	"github.com/thorfin/insights-backend/internal/logger"
	"github.com/thorfin/insights-backend/internal/middleware"
)

type RouterConfig struct {
	Log            *logger.Logger
	CORSOrigins    []string
	DatasetHandler *handlers.DatasetHandler
	ChartHandler   *handlers.ChartHandler
	SummaryHandler *handlers.SummaryHandler
	ReportHandler  *handlers.ReportHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(cfg.Log))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || API       ||
	// ===============
	api := router.Group("/api")
	api.Use(middleware.SingleFlight())
	{
		// Datasets
		api.POST("/datasets", cfg.DatasetHandler.Upload)
		api.GET("/datasets/:id", cfg.DatasetHandler.Get)
		api.DELETE("/datasets/:id", cfg.DatasetHandler.Delete)
		api.POST("/datasets/:id/metrics", cfg.DatasetHandler.Metrics)
		api.GET("/datasets/:id/products", cfg.DatasetHandler.Products)
		// Charts
		api.POST("/datasets/:id/charts/:type", cfg.ChartHandler.Render)
		// AI summary
		api.POST("/datasets/:id/products/:product/summary", cfg.SummaryHandler.Summarize)
		// Reports
		api.POST("/datasets/:id/products/:product/report", cfg.ReportHandler.Generate)
	}

	return router
}
