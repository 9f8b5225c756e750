package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/tkd-competition/config"
	"github.com/Dosada05/tkd-competition/db"
	"github.com/Dosada05/tkd-competition/handlers"
	"github.com/Dosada05/tkd-competition/logging"
	"github.com/Dosada05/tkd-competition/metrics"
	"github.com/Dosada05/tkd-competition/middleware"
	"github.com/Dosada05/tkd-competition/realtime"
	"github.com/Dosada05/tkd-competition/repositories"
	api "github.com/Dosada05/tkd-competition/routes"
	"github.com/Dosada05/tkd-competition/scoring"
	"github.com/Dosada05/tkd-competition/services"
	"github.com/Dosada05/tkd-competition/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("application stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if err := db.MigrateUp(ctx, dbConn, logger); err != nil {
		return err
	}

	// Инициализация WebSocket Hub и зеркала телеметрии в Pub/Sub
	wsHub := realtime.NewHub(logger)
	go wsHub.Run()
	defer wsHub.Stop()

	notifier := realtime.Fanout{wsHub}
	if cfg.PubSub.ProjectID != "" && cfg.PubSub.TelemetryTopic != "" {
		publisher, err := realtime.NewPubSubPublisher(ctx, cfg.PubSub.ProjectID, cfg.PubSub.TelemetryTopic, logger)
		if err != nil {
			return fmt.Errorf("failed to create telemetry publisher: %w", err)
		}
		defer publisher.Close()
		notifier = append(notifier, publisher)
		logger.Info("telemetry mirrored to Pub/Sub", slog.String("topic", cfg.PubSub.TelemetryTopic))
	}

	// Архив отклоненных PSS-кадров в Cloudflare R2 (опционально)
	var archiver scoring.Archiver
	if cfg.R2.Enabled() {
		uploader, err := storage.NewR2Uploader(ctx, storage.R2Config{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		archiver = storage.NewPayloadArchiver(uploader)
		logger.Info("Cloudflare R2 payload archive enabled", slog.String("bucket", cfg.R2.BucketName))
	}

	m := metrics.NewService()

	// Инициализация репозиториев
	repos := services.MatchRepositories{
		Events:      repositories.NewPostgresEventRepository(dbConn),
		Competitors: repositories.NewPostgresCompetitorRepository(dbConn),
		Matches:     repositories.NewPostgresMatchRepository(dbConn),
		Actions:     repositories.NewPostgresMatchActionRepository(dbConn),
		Results:     repositories.NewPostgresMatchResultRepository(dbConn),
		Pools:       repositories.NewPostgresPoolRepository(dbConn),
		Assignments: repositories.NewPostgresAssignmentRepository(dbConn),
	}
	standingRepo := repositories.NewPostgresPoolStandingRepository(dbConn)
	medalRepo := repositories.NewPostgresMedalRepository(dbConn)
	txRunner := services.NewTxRunner(dbConn, logger)

	// Инициализация сервисов
	eventService := services.NewEventService(repos.Events, repos.Competitors, logger)
	medalService := services.NewMedalService(medalRepo, repos.Events, logger)
	matchService := services.NewMatchService(repos, txRunner, medalService, notifier, m, logger)
	bracketService := services.NewBracketService(txRunner, repos.Events, repos.Competitors, repos.Matches, notifier, m, logger)
	poolService := services.NewPoolService(repos, standingRepo, txRunner, notifier, m, logger)
	ingestor := scoring.NewIngestor(matchService, archiver, m, logger)
	logger.Info("services initialized")

	router := chi.NewRouter()
	h := api.Handlers{
		Events:     handlers.NewEventHandler(eventService, bracketService),
		Matches:    handlers.NewMatchHandler(matchService),
		Pools:      handlers.NewPoolHandler(poolService),
		Medals:     handlers.NewMedalHandler(medalService),
		Spectators: handlers.NewWebSocketHandler(wsHub, logger),
		PSSSocket:  scoring.NewSocketHandler(ingestor, cfg.PSSMessagesPerSecond, cfg.PSSBurst, logger),
		Metrics:    metrics.NewMetricsHandler(),
	}
	if cfg.PubSub.ProjectID != "" {
		h.PSSPush = scoring.PushHandler(ingestor, logger)
	}
	api.SetupRoutes(router, h, middleware.NewAuthenticator(cfg.JWTSecretKey), cfg.CORSAllowedOrigins)
	logger.Info("routes configured")

	// Настройка и запуск HTTP-сервера. WriteTimeout не задан: /ws/* держат соединение часами.
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.PubSub.ProjectID != "" && cfg.PubSub.ScoringSubscription != "" {
		sub, err := scoring.NewSubscriber(gctx, cfg.PubSub.ProjectID, cfg.PubSub.ScoringSubscription, ingestor, logger)
		if err != nil {
			return fmt.Errorf("failed to create PSS subscriber: %w", err)
		}
		defer sub.Close()
		g.Go(func() error { return sub.Run(gctx) })
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			return server.Close()
		}
		logger.Info("server shutdown complete")
		return nil
	})

	return g.Wait()
}
