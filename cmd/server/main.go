package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"rental/internal/app"
	"rental/internal/assistant"
	"rental/internal/config"
	"rental/internal/handler"
	internalRedis "rental/internal/redis"
	"rental/internal/repository/postgres"
	"rental/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// The assistant is optional. Without an API key the endpoint is simply
	// not registered.
	var assistantProvider assistant.Provider
	if cfg.Assistant.GeminiAPIKey != "" {
		gemini, err := assistant.NewGeminiProvider(ctx, cfg.Assistant.GeminiAPIKey)
		if err != nil {
			log.Printf("failed to initialize assistant: %v", err)
		} else {
			defer gemini.Close()
			assistantProvider = gemini
			log.Println("Help assistant enabled")
		}
	}

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, assistantProvider, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, assistantProvider assistant.Provider, cfg *config.Config) *http.Server {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	userRepo := postgres.NewUserRepository(db)
	carRepo := postgres.NewCarRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)

	// Initialize services.
	notificationService := service.NewNotificationService()
	receiptService := service.NewReceiptService(notificationService)
	carService := service.NewCarService(carRepo, cacheStore)
	bookingService := service.NewBookingService(bookingRepo, carRepo, userRepo, lockStore, cacheStore, notificationService)

	var gateway service.Gateway
	if cfg.Payment.GatewayURL != "" {
		gateway = service.NewHTTPGateway(cfg.Payment.GatewayURL, cfg.Payment.GatewayAPIKey)
		log.Printf("Payment gateway: %s", cfg.Payment.GatewayURL)
	} else {
		gateway = service.NewStubGateway()
		log.Println("Payment gateway: stub")
	}
	paymentService := service.NewPaymentService(paymentRepo, bookingRepo, gateway, cfg.Payment.Currency, lockStore, cacheStore, notificationService)

	// Initialize handlers.
	userHandler := handler.NewUserHandler(userRepo)
	carHandler := handler.NewCarHandler(carService)
	bookingHandler := handler.NewBookingHandler(bookingService, receiptService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	quoteHandler := handler.NewQuoteHandler()

	var assistantHandler *handler.AssistantHandler
	if assistantProvider != nil {
		assistantHandler = handler.NewAssistantHandler(assistantProvider)
	}

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		UserHandler:      userHandler,
		CarHandler:       carHandler,
		BookingHandler:   bookingHandler,
		PaymentHandler:   paymentHandler,
		QuoteHandler:     quoteHandler,
		AssistantHandler: assistantHandler,
		RedisClient:      redisClient,
		NewRelicApp:      nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
