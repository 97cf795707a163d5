package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/Renal37/go-quote-relay/internal/cache"
	"github.com/Renal37/go-quote-relay/internal/database"
	"github.com/Renal37/go-quote-relay/internal/events"
	router "github.com/Renal37/go-quote-relay/internal/http"
	"github.com/Renal37/go-quote-relay/internal/logger"
	"github.com/Renal37/go-quote-relay/internal/metrics"
	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/Renal37/go-quote-relay/internal/pdf/gofpdf"
	"github.com/Renal37/go-quote-relay/internal/services"
	"github.com/Renal37/go-quote-relay/internal/settings"
	"github.com/Renal37/go-quote-relay/internal/utils"
	"github.com/Renal37/go-quote-relay/internal/validation"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	ctx := context.Background()
	config := NewConfig()

	if err := logger.Initialize(config.logLevel, config.env); err != nil {
		log.Fatalf("Logger wasn't initialized due to %s", err)
	}

	db, err := database.New(ctx, config.dsn)
	if err != nil {
		log.Fatalf("Database wasn't initialized due to %s", err)
	}

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Migrations weren't run due to %s", err)
	}

	var (
		settingsCache settings.Cache
		redisClient   *cache.Client
	)
	if config.redisURL != "" {
		redisClient, err = cache.New(ctx, config.redisURL, "quote-relay:")
		if err != nil {
			logger.Log.Warn("Redis is unavailable, settings won't be cached", zap.Error(err))
		} else {
			settingsCache = redisClient
		}
	}

	provider := settings.NewProvider(db, settingsCache, settings.Defaults(config.site.AdminEmail))

	registry := metrics.NewRegistry()
	jobQueueService := services.NewJobQueueService(ctx, 100, 2)

	hooks := []models.QuoteHooks{services.LoggingHooks{}, registry}

	var publisher *events.KafkaPublisher
	if config.kafkaBrokers != "" {
		publisher = events.NewKafkaPublisher(config.kafkaBrokers, config.kafkaTopic, jobQueueService.Dispatch)
		hooks = append(hooks, publisher)
	}

	var mailer services.Mailer
	if config.smtp.Host != "" {
		mailer = services.NewSMTPMailer(config.smtp)
	} else {
		logger.Log.Warn("SMTP_HOST isn't set, fallback emails are disabled")
	}

	generator := gofpdf.New(config.site.Name)
	delivery := services.NewDelivery(config.site, &http.Client{}, mailer, generator)

	quoteService := services.NewQuoteService(
		db,
		provider,
		validation.New(),
		delivery,
		config.site,
		services.WithQuoteHooks(hooks...),
		services.WithSubmissionObserver(registry),
	)
	exportService := services.NewExportService(db, config.exportDir, config.exportBaseURL, registry)
	adminService := services.NewAdminService(db, provider, delivery, exportService, generator, hooks...)

	server := router.New(
		router.Config{Endpoint: config.endpoint, ExportDir: config.exportDir},
		services.NewAuthService(db),
		services.NewJWTService(config.authSecretKey),
		quoteService,
		adminService,
		registry.Handler(),
	).Server()

	done := utils.HandleTerminationProcess(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), settings.DefaultERPTimeout+5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Server shutdown failed", zap.Error(err))
		}

		jobQueueService.Shutdown()

		if publisher != nil {
			if err := publisher.Close(); err != nil {
				logger.Log.Error("Kafka writer wasn't closed", zap.Error(err))
			}
		}
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Log.Error("Redis client wasn't closed", zap.Error(err))
			}
		}

		db.Close()
		_ = logger.Log.Sync()
	})

	logger.Log.Info("Running server", zap.String("address", config.endpoint))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatal("Server stopped", zap.Error(err))
	}

	<-done
}
