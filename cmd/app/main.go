package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"code-review-service/api"
	"code-review-service/internal/analyzer"
	"code-review-service/internal/config"
	"code-review-service/internal/database"
	"code-review-service/internal/domain"
	"code-review-service/internal/github"
	"code-review-service/internal/handler"
	"code-review-service/internal/repository"
	"code-review-service/internal/usecase"
	"code-review-service/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	// Логгер
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Конфиг
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Warnf(".env not found: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
	}

	// База данных (database/sql + миграции goose)
	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.NewPostgresDB(startCtx, cfg)
	if err != nil {
		logger.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()
	logger.Info("Database connected")

	// SQLC queries
	queries := database.New(db)

	// Репозитории
	repoRepo := repository.NewRepoRepository(queries)
	prRepo := repository.NewPRRepository(db, queries)
	reviewRepo := repository.NewReviewRepository(db, queries)
	findingRepo := repository.NewFindingRepository(db, queries)
	statsRepo := repository.NewStatsRepository(queries)

	// Очередь живет в памяти процесса: все pending/in_progress ревью прошлого запуска брошены
	stale, err := reviewRepo.FailStale(startCtx, time.Now())
	startCancel()
	if err != nil {
		logger.WithError(err).Warn("Failed to mark stale reviews as failed")
	} else if stale > 0 {
		logger.WithField("count", stale).Warn("Stale reviews marked as failed")
	}

	// GitHub
	gh, err := github.NewClient(cfg.GitHubToken, cfg.GitHubAPIURL, logger)
	if err != nil {
		logger.Fatalf("GitHub client init failed: %v", err)
	}
	if cfg.GitHubToken == "" {
		logger.Warn("GITHUB_TOKEN is empty, only public repositories are reachable")
	}

	// Анализаторы
	runner := analyzer.ExecRunner{}
	analyzers := []domain.Analyzer{
		analyzer.NewSecurityAnalyzer(runner, cfg.BanditPath, cfg.StaticAnalyzerTimeout, logger),
		analyzer.NewQualityAnalyzer(runner, cfg.PylintPath, cfg.RadonPath, cfg.StaticAnalyzerTimeout, logger),
	}
	var summarizer domain.Summarizer = analyzer.NewTemplateSummarizer()
	if cfg.AnthropicAPIKey != "" {
		claude := analyzer.NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicMaxTokens, cfg.AIRequestsPerMinute)
		analyzers = append(analyzers, analyzer.NewGuard(
			analyzer.NewAIAnalyzer(claude, logger),
			cfg.AIAnalyzerTimeout,
			analyzer.NewBreaker("ai", cfg.BreakerThreshold, cfg.BreakerCooldown, logger),
		))
		summarizer = analyzer.NewGuardedSummarizer(
			analyzer.NewClaudeSummarizer(claude),
			analyzer.NewTemplateSummarizer(),
			cfg.SummaryTimeout,
			analyzer.NewBreaker("summary", cfg.BreakerThreshold, cfg.BreakerCooldown, logger),
			logger,
		)
		logger.WithField("model", cfg.AnthropicModel).Info("AI analyzer enabled")
	} else {
		logger.Warn("ANTHROPIC_API_KEY is empty, AI analyzer disabled")
	}

	// Фоновые ревью
	pool := worker.NewPool(cfg.WorkerCount, 0, cfg.ReviewTimeout, logger)
	pool.Start()

	// Use Cases
	reviewUC := usecase.NewReviewUseCase(usecase.ReviewDeps{
		Reviews:        reviewRepo,
		Findings:       findingRepo,
		PRs:            prRepo,
		Diffs:          gh,
		Analyzers:      analyzers,
		Summarizer:     summarizer,
		Dispatcher:     pool,
		Lease:          cfg.ReviewTimeout,
		SummaryTimeout: cfg.SummaryTimeout,
	}, logger)
	prUC := usecase.NewPRUseCase(prRepo, repoRepo, gh, reviewUC, cfg.AutoReview, logger)
	repoUC := usecase.NewRepoUseCase(repoRepo, gh, cfg.GitHubWebhookURL, cfg.GitHubWebhookSecret, logger)
	statsUC := usecase.NewStatsUseCase(statsRepo)

	// Echo + Handlers
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler(logger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: cfg.AllowedOrigins}))
	e.Use(handler.LoggingMiddleware(logger))

	// Handlers
	apiHandler := handler.NewAPIHandler(reviewUC, prUC, repoUC, statsUC, cfg.GitHubWebhookSecret, logger)
	api.RegisterHandlers(e, apiHandler)

	if cfg.GitHubWebhookSecret == "" {
		logger.Warn("GITHUB_WEBHOOK_SECRET is empty, webhook signatures are not verified")
	}

	// Запуск сервера
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Errorf("HTTP shutdown failed: %v", err)
	}

	// Очередь отменяется, запущенные ревью дорабатывают до дедлайна
	poolCtx, poolCancel := context.WithTimeout(context.Background(), cfg.ReviewTimeout)
	defer poolCancel()
	if err := pool.Stop(poolCtx); err != nil {
		logger.Errorf("Review workers did not stop in time: %v", err)
	}

	logger.Info("Server exited")
}
