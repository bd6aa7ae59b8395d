package main

import (
	"fmt"
	"os"

	"github.com/thorfin/insights-backend/internal/charts"
	"github.com/thorfin/insights-backend/internal/config"
	"github.com/thorfin/insights-backend/internal/dataset"
	"github.com/thorfin/insights-backend/internal/handlers"
	"github.com/thorfin/insights-backend/internal/logger"
	"github.com/thorfin/insights-backend/internal/server"
	"github.com/thorfin/insights-backend/internal/services"
	"github.com/thorfin/insights-backend/internal/utils"
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

	// Env + config
	log.Info("Loading environment variables from main...")
	utils.LoadDotEnv(log)
	cfg, err := config.Load(log)
	if err != nil {
		log.Error("Could not load config", "error", err)
		os.Exit(1)
	}

	// Dataset layer
	log.Info("Setting up dataset store from main...")
	loader := dataset.NewLoader(log)
	store := dataset.NewStore(log)

	// Charts
	renderer, err := charts.NewRenderer(log, cfg)
	if err != nil {
		log.Error("Could not init ChartRenderer", "error", err)
		os.Exit(1)
	}

	// Services
	log.Info("Setting up Services from main...")
	summarizer, err := services.NewSummarizer(log, cfg.AI)
	if err != nil {
		// Reports still work without the AI section.
		log.Warn("AI summarizer unavailable", "error", err)
		summarizer = nil
	}
	datasetService := services.NewDatasetService(log, loader, store)
	reportService := services.NewReportService(log, renderer, summarizer, cfg)

	// Handlers
	datasetHandler := handlers.NewDatasetHandler(log, datasetService)
	chartHandler := handlers.NewChartHandler(log, datasetService, renderer)
	summaryHandler := handlers.NewSummaryHandler(log, datasetService, summarizer, cfg)
	reportHandler := handlers.NewReportHandler(log, datasetService, reportService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		Log:            log,
		CORSOrigins:    cfg.Server.CORSOrigins,
		DatasetHandler: datasetHandler,
		ChartHandler:   chartHandler,
		SummaryHandler: summaryHandler,
		ReportHandler:  reportHandler,
	})

	addr := ":" + cfg.Server.Port
	log.Info("Starting server", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
