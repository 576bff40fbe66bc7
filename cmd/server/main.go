package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"paysentry.backend/internal/config"
	"paysentry.backend/internal/domain/repositories"
	infrarepos "paysentry.backend/internal/infrastructure/repositories"
	stripeinfra "paysentry.backend/internal/infrastructure/stripe"
	"paysentry.backend/internal/interfaces/http/handlers"
	"paysentry.backend/internal/interfaces/http/middleware"
	"paysentry.backend/internal/usecases"
	"paysentry.backend/pkg/logger"
	"paysentry.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	// Initialize provider client and verifier
	providerClient := stripeinfra.NewClient(cfg.Stripe.APIKey)
	verifier := stripeinfra.NewSignatureVerifier(cfg.Stripe.WebhookSecret, cfg.Stripe.SignatureTolerance)

	// Initialize repositories
	paymentRepo := infrarepos.NewPaymentRecordRepository(db)
	subscriptionRepo := infrarepos.NewSubscriptionRecordRepository(db)
	refundRepo := infrarepos.NewRefundRecordRepository(db)

	var eventRepo repositories.WebhookEventRepository
	if cfg.Webhook.DedupeBackend == "redis" {
		eventRepo = infrarepos.NewRedisWebhookEventStore(redis.GetClient(), cfg.Webhook.ProcessingLease)
	} else {
		eventRepo = infrarepos.NewWebhookEventRepository(db, cfg.Webhook.ProcessingLease)
	}

	// Initialize usecases
	webhookUsecase := usecases.NewWebhookUsecase(verifier, eventRepo, paymentRepo, subscriptionRepo, refundRepo, providerClient, cfg.Modules)
	reconcileUsecase := usecases.NewReconcileUsecase(providerClient, eventRepo, webhookUsecase)
	refundUsecase := usecases.NewRefundUsecase(paymentRepo, refundRepo, providerClient)
	checkoutUsecase := usecases.NewCheckoutUsecase(paymentRepo, subscriptionRepo, providerClient)

	// Initialize handlers
	webhookHandler := handlers.NewWebhookHandler(webhookUsecase)
	reconcileHandler := handlers.NewReconcileHandler(reconcileUsecase)
	refundHandler := handlers.NewRefundHandler(refundUsecase)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutUsecase)

	adminAuthMiddleware := middleware.AdminAuthMiddleware(cfg.Security.AdminKeyHash)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerRoutes(r, routeDeps{
		webhookHandler:      webhookHandler,
		reconcileHandler:    reconcileHandler,
		refundHandler:       refundHandler,
		checkoutHandler:     checkoutHandler,
		adminAuthMiddleware: adminAuthMiddleware,
	})

	// Print all registered routes for debugging
	log.Println("📋 Registered Routes:")
	for _, route := range r.Routes() {
		log.Printf("   %s %s", route.Method, route.Path)
	}

	// Start server
	log.Printf("🚀 PaySentry Backend starting on port %s", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
