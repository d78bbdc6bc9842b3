package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/medilink-plus/coordination-api/internal/adapters/cache"
	"github.com/medilink-plus/coordination-api/internal/adapters/database"
	"github.com/medilink-plus/coordination-api/internal/adapters/events"
	"github.com/medilink-plus/coordination-api/internal/api/handlers"
	"github.com/medilink-plus/coordination-api/internal/api/middleware"
	"github.com/medilink-plus/coordination-api/internal/api/routes"
	"github.com/medilink-plus/coordination-api/internal/application/services"
	"github.com/medilink-plus/coordination-api/internal/domain/providers"
	"github.com/medilink-plus/coordination-api/internal/domain/repositories"
	"github.com/medilink-plus/coordination-api/internal/infrastructure/clients/postgres"
	"github.com/medilink-plus/coordination-api/internal/infrastructure/clients/redis"
	"github.com/medilink-plus/coordination-api/internal/infrastructure/observability"
	"github.com/medilink-plus/coordination-api/pkg/config"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		// Continue without Redis - caching and events degrade gracefully
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize event bus for reservation lifecycle events
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Println("Event bus initialized successfully")
	} else {
		log.Println("Event bus disabled (Redis not available)")
	}

	// Initialize adapters

	// Create base hospital adapter, wrapped with caching when Redis is up
	baseHospitalAdapter := database.NewHospitalAdapter(pgClient)
	var hospitalAdapter repositories.HospitalRepository
	if cacheProvider != nil {
		hospitalAdapter = database.NewCachedHospitalAdapter(baseHospitalAdapter, cacheProvider)
		log.Println("Hospital adapter wrapped with caching layer")
	} else {
		hospitalAdapter = baseHospitalAdapter
		log.Println("Hospital adapter running without cache (Redis unavailable)")
	}

	reservationAdapter := database.NewReservationAdapter(pgClient)
	interpreterAdapter := database.NewInterpreterAdapter(pgClient)
	feeAdapter := database.NewFeeAdapter(pgClient)
	promotionAdapter := database.NewPromotionAdapter(pgClient)
	profileAdapter := database.NewProfileAdapter(pgClient)
	notificationAdapter := database.NewNotificationAdapter(pgClient)

	// Initialize services
	roleResolver := services.NewRoleResolver(cfg.Auth.AdminEmails)
	authService := services.NewAuthService(profileAdapter, roleResolver, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	reservationService := services.NewReservationService(
		reservationAdapter,
		hospitalAdapter,
		interpreterAdapter,
		eventBus,
	)

	hospitalService := services.NewHospitalService(hospitalAdapter)
	interpreterService := services.NewInterpreterService(interpreterAdapter)
	feeService := services.NewFeeService(feeAdapter, hospitalAdapter)
	promotionService := services.NewPromotionService(promotionAdapter)

	var notificationService *services.NotificationService
	if eventBus != nil {
		notificationService = services.NewNotificationService(notificationAdapter, eventBus)
		go func() {
			if err := notificationService.Run(ctx); err != nil {
				log.Printf("Warning: notification service stopped: %v", err)
			}
		}()
		log.Println("Notification service started")
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	reservationHandler := handlers.NewReservationHandler(reservationService)
	hospitalHandler := handlers.NewHospitalHandler(hospitalService)
	interpreterHandler := handlers.NewInterpreterHandler(interpreterService)
	feeHandler := handlers.NewFeeHandler(feeService)
	promotionHandler := handlers.NewPromotionHandler(promotionService)

	var notificationHandler *handlers.NotificationHandler
	if notificationService != nil {
		notificationHandler = handlers.NewNotificationHandler(notificationService)
	}

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		log.Println("Cache middleware initialized successfully")
	}

	authMiddleware := middleware.Auth(authService, cfg.Auth.JWTSecret)

	// Set up router
	router := routes.NewRouter(
		authHandler,
		reservationHandler,
		hospitalHandler,
		interpreterHandler,
		feeHandler,
		promotionHandler,
		notificationHandler,
		authMiddleware,
		cacheMiddleware,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Printf("Error closing event bus: %v", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
