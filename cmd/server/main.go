package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"job-research/internal/api/routes"
	"job-research/internal/config"
	"job-research/internal/grpc/server"
	"job-research/internal/llm"
	"job-research/internal/logging"
	"job-research/internal/mux"
	"job-research/internal/recommend"
	"job-research/internal/research"
	"job-research/internal/search"
	"job-research/pkg/utils"
)

const shutdownTimeout = 30 * time.Second

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting job research service", map[string]interface{}{
		"search_provider": cfg.Search.Provider,
		"llm_provider":    cfg.LLM.Provider,
	})

	// Initialize LLM manager
	llmManager := llm.NewManager(cfg, logger)
	if err := llmManager.Start(); err != nil {
		logger.Fatal("Failed to start LLM manager", map[string]interface{}{"error": err.Error()})
	}

	provider := search.NewGuardedProvider(search.NewSerpAPIProvider(cfg, logger), search.GuardOptions{
		MaxFailures:  cfg.Search.BreakerFailures,
		ResetTimeout: cfg.Search.BreakerReset,
	}, logger)

	deps := research.Dependencies{
		Searcher: search.NewNormalizer(provider, search.Options{
			Timeout:       cfg.Search.Timeout,
			RecencyWindow: cfg.Research.RecencyWindow,
			SkillTerms:    cfg.Search.SkillTerms,
		}, logger),
		Synthesizer: recommend.NewSynthesizer(llmManager, recommend.Options{
			SampleSize: cfg.Research.PromptSampleSize,
			Count:      cfg.Research.RecommendationCount,
			Timeout:    cfg.LLM.Timeout,
		}, logger),
	}

	// Optional completion publisher
	var redisClient *utils.RedisClient
	if cfg.Redis.Enabled {
		redisClient, err = utils.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, completion events will only be logged", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			deps.Publisher = redisClient
		}
	}

	orchestrator, err := research.NewOrchestrator(cfg, deps, logger)
	if err != nil {
		logger.Fatal("Failed to start research orchestrator", map[string]interface{}{"error": err.Error()})
	}

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	routes.SetupRoutes(e, cfg, orchestrator, llmManager)

	var grpcServer *server.Server
	if cfg.Server.EnableGRPC {
		grpcServer = server.NewServer(cfg, orchestrator, llmManager, logger)
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	multiplexer := mux.NewMultiplexer(cfg, grpcServer, e, logger)
	if err := multiplexer.Start(address); err != nil {
		logger.Fatal("Server failed to start", map[string]interface{}{"error": err.Error()})
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Stop accepting research first so in-flight pipelines can finish
	if err := orchestrator.Stop(shutdownCtx); err != nil {
		logger.Error("Error stopping research orchestrator", map[string]interface{}{"error": err.Error()})
	}

	if err := multiplexer.Stop(shutdownCtx); err != nil {
		logger.Error("Error shutting down server", map[string]interface{}{"error": err.Error()})
	}

	if err := llmManager.Stop(); err != nil {
		logger.Error("Error stopping LLM manager", map[string]interface{}{"error": err.Error()})
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Error closing Redis client", map[string]interface{}{"error": err.Error()})
		}
	}

	logger.Info("Server shutdown complete")
}
