// hireflow server — evaluates AI recruiter conversation turns over HTTP.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hireflow/hireflow/pkg/api"
	"github.com/hireflow/hireflow/pkg/config"
	"github.com/hireflow/hireflow/pkg/database"
	"github.com/hireflow/hireflow/pkg/flow"
	"github.com/hireflow/hireflow/pkg/flow/groups"
	"github.com/hireflow/hireflow/pkg/flow/nodes"
	"github.com/hireflow/hireflow/pkg/flow/orchestrator"
	"github.com/hireflow/hireflow/pkg/knowledge"
	"github.com/hireflow/hireflow/pkg/llm"
	"github.com/hireflow/hireflow/pkg/masking"
	"github.com/hireflow/hireflow/pkg/services"
	"github.com/hireflow/hireflow/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"Path to configuration directory")
	flag.Parse()

	// Load .env file from config directory
	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		slog.Warn("Could not load .env file, continuing with existing environment",
			"path", envPath, "error", err)
	} else {
		slog.Info("Loaded environment", "path", envPath)
	}

	slog.Info("Starting hireflow",
		"version", version.Full(),
		"config_dir", *configDir)

	ctx := context.Background()

	// 1. Initialize configuration
	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		slog.Error("Failed to initialize configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize database
	dbConfig, err := database.LoadConfigFromEnv()
	if err != nil {
		slog.Error("Failed to load database config", "error", err)
		os.Exit(1)
	}

	dbClient, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			slog.Error("Error closing database client", "error", err)
		}
	}()
	slog.Info("Connected to PostgreSQL database")

	// 3. Domain services over the repository ports
	repos := flow.Repositories{
		JobQuestions:     services.NewJobQuestionService(dbClient.DB()),
		QuestionTracking: services.NewQuestionTrackingService(dbClient.DB()),
		Conversations:    services.NewConversationService(dbClient.DB()),
	}
	conversationService := services.NewConversationService(dbClient.DB())
	slog.Info("Services initialized")

	// 4. LLM gateway with the scene registry
	sceneRegistry, err := llm.NewSceneRegistry(cfg.LLM.Scenes)
	if err != nil {
		slog.Error("Failed to build scene registry", "error", err)
		os.Exit(1)
	}
	gateway, err := llm.NewClient(llm.ClientConfig{
		APIKey:       os.Getenv(cfg.LLM.APIKeyEnv),
		BaseURL:      cfg.LLM.BaseURL,
		DefaultModel: cfg.LLM.DefaultModel,
		CallTimeout:  cfg.LLM.CallTimeout,
	}, sceneRegistry)
	if err != nil {
		slog.Error("Failed to initialize LLM gateway", "error", err)
		os.Exit(1)
	}
	slog.Info("LLM gateway initialized",
		"base_url", cfg.LLM.BaseURL, "default_model", cfg.LLM.DefaultModel)

	// 5. Knowledge-base search client
	knowledgeClient := knowledge.NewClient(cfg.Knowledge.BaseURL, os.Getenv(cfg.Knowledge.TokenEnv))

	// 6. Flow engine: factory, nodes, groups, orchestrator
	factory := flow.NewNodeFactory()
	nodes.RegisterAll(factory, nodes.Deps{
		Gateway:   gateway,
		Knowledge: knowledgeClient,
		Repos:     repos,
	})
	executor := flow.NewDynamicExecutor(factory)
	responseGroup := groups.NewResponseGroup(executor, cfg.Engine.GroupTimeout)
	questionGroup := groups.NewQuestionGroup(executor, repos, cfg.Engine.GroupTimeout)
	groups.Register(factory, responseGroup, questionGroup)
	orch := orchestrator.New(executor, responseGroup, questionGroup, cfg.Engine.ParallelTimeout)
	slog.Info("Flow engine initialized")

	// 7. Masking service for log output
	var masker *masking.Service
	if cfg.Masking.MaskingEnabled() {
		masker = masking.NewService()
	}

	// 8. HTTP server
	httpServer := api.NewServer(dbClient, orch, executor, conversationService, masker)

	errCh := make(chan error, 1)
	go func() {
		addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
		slog.Info("HTTP server listening", "addr", addr)
		if err := httpServer.Start(addr); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			errCh <- err
		}
	}()

	slog.Info("hireflow started successfully")

	// 9. Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("Shutdown signal received", "signal", sig)
	case err := <-errCh:
		slog.Error("Server error triggered shutdown", "error", err)
	}

	// 10. Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
