package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tripfolio-service/internal/infrastructure/config"
	"tripfolio-service/internal/infrastructure/oauth"
	"tripfolio-service/internal/infrastructure/persistence"
	"tripfolio-service/internal/infrastructure/router"
	"tripfolio-service/internal/interface/api"
	"tripfolio-service/internal/interface/gmail"
	mongoRepo "tripfolio-service/internal/interface/repository"
	"tripfolio-service/internal/usecase"
	"tripfolio-service/pkg/logger"
	"tripfolio-service/pkg/metrics"

	"tripfolio-service/internal/domain/repository"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Tripfolio Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	// Set up repositories
	emailRepo := mongoRepo.NewMongoEmailRepository(db)
	itineraryRepo := mongoRepo.NewMongoItineraryRepository(db)
	noteRepo := mongoRepo.NewMongoNoteRepository(db)

	// Place reference data is optional; without it coordinate
	// enrichment falls back to geocoding only.
	var placeRepo repository.PlaceRepository
	if cfg.PostgresURI != "" {
		gormDB, err := gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{})
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		placeRepo = mongoRepo.NewGormPlaceRepository(gormDB)
	} else {
		log.Warn("POSTGRES_DSN not set, place lookups disabled")
	}

	geocodeRepo := mongoRepo.NewHTTPGeocodeRepository(cfg.GeocodeEndpoint, cfg.GeocodeAPIKey, log)

	// Set up metrics and the parse/merge use cases
	m := metrics.NewMetrics("tripfolio")
	pipeline := usecase.NewParsePipeline(cfg.ClassifyThreshold, m, log)
	aggregator := usecase.NewItineraryAggregator(log)
	merger := usecase.NewBookingMerger(itineraryRepo, placeRepo, geocodeRepo, aggregator, m, log)

	// Wire the email path: subject router + orchestrator
	subjectRouter := router.NewSubjectRouter(log)
	subjectRouter.Register(usecase.NewBookingEmailHandler(pipeline, merger, log))
	orchestrator := usecase.NewEmailOrchestrator(emailRepo, subjectRouter, log)

	// Set up Gmail OAuth
	gmailOAuth := oauth.NewGmailOAuth(
		cfg.GmailClientID,
		cfg.GmailClientSecret,
		cfg.GmailRefreshToken,
		log,
	)

	if cfg.GmailRefreshToken != "" {
		tokenSource := gmailOAuth.GetTokenSource(ctx)

		gmailService, err := gmail.NewGmailService(ctx, tokenSource, emailRepo, log, cfg.GmailPollInterval)
		if err != nil {
			log.Fatal("Failed to create Gmail service", "error", err)
		}

		// Start Gmail polling in a goroutine
		go gmailService.StartPolling(ctx)

		// Start email processor in a goroutine
		go func() {
			processTicker := time.NewTicker(30 * time.Second)
			defer processTicker.Stop()

			for {
				select {
				case <-ctx.Done():
					log.Info("Email processor stopped")
					return
				case <-processTicker.C:
					if err := orchestrator.ProcessPendingEmails(ctx); err != nil {
						log.Error("Error processing emails", "error", err)
					}
				}
			}
		}()
	} else {
		log.Warn("GMAIL_REFRESH_TOKEN not set, mailbox polling disabled")
	}

	// Set up HTTP API
	handler := api.NewHandler(pipeline, merger, itineraryRepo, noteRepo, log)
	engine := api.SetupRoutes(handler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Tripfolio Service stopped")
}
