// Package main provides the main entry point for the Vellena marketplace backend
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SwipeCast-Vellena/vellena-backend/app/handlers"
	"github.com/SwipeCast-Vellena/vellena-backend/app/middleware"
	"github.com/SwipeCast-Vellena/vellena-backend/app/router"
	"github.com/SwipeCast-Vellena/vellena-backend/app/scheduler"
	"github.com/SwipeCast-Vellena/vellena-backend/app/services"
	businessflow "github.com/SwipeCast-Vellena/vellena-backend/business_flow"
	"github.com/SwipeCast-Vellena/vellena-backend/config"
	_ "github.com/SwipeCast-Vellena/vellena-backend/docs"
	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"github.com/SwipeCast-Vellena/vellena-backend/repository"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting Vellena application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging directs the standard logger to stdout, a rotated file, or both
func setupLogging(cfg config.LoggingConfig) {
	if cfg.Output == "stdout" || cfg.FilePath == "" {
		return
	}

	rotated := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	switch cfg.Output {
	case "file":
		log.SetOutput(rotated)
	case "both":
		log.SetOutput(io.MultiWriter(os.Stdout, rotated))
	}
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// migrateDatabase creates or updates the schema for all domain models
func migrateDatabase(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.ModelProfile{},
		&models.AgencyProfile{},
		&models.Campaign{},
		&models.Application{},
		&models.Match{},
		&models.Favorite{},
		&models.AuditLog{},
	)
}

// initializeCache initializes the cache client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established (db=%d)", cfg.RedisDB)
	return rc, nil
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := migrateDatabase(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db)
	modelRepo := repository.NewModelProfileRepository(db)
	agencyRepo := repository.NewAgencyProfileRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Initialize services
	captchaService, err := services.NewCaptchaServiceRotate(
		cfg.Security.CaptchaTTL,
		cfg.Security.CaptchaPadding,
		cfg.Security.CaptchaImgSize,
	)
	if err != nil {
		return nil, err
	}

	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	channelService := services.NewChatChannelClient(cfg.Chat.BaseURL, cfg.Chat.APIToken, cfg.Chat.Timeout)

	// Initialize flows
	signupFlow := businessflow.NewSignupFlow(
		accountRepo,
		auditRepo,
		tokenService,
		captchaService,
		cfg.Security,
		db,
	)

	loginFlow := businessflow.NewLoginFlow(
		accountRepo,
		auditRepo,
		tokenService,
	)

	profileFlow := businessflow.NewProfileFlow(
		accountRepo,
		modelRepo,
		agencyRepo,
		auditRepo,
		db,
	)

	campaignFlow := businessflow.NewCampaignFlow(
		campaignRepo,
		accountRepo,
		agencyRepo,
		auditRepo,
		db,
	)

	applicationFlow := businessflow.NewApplicationFlow(
		accountRepo,
		modelRepo,
		campaignRepo,
		applicationRepo,
		matchRepo,
		auditRepo,
		db,
		rc,
		&cfg.Cache,
	)

	approvalFlow := businessflow.NewApprovalFlow(
		accountRepo,
		modelRepo,
		agencyRepo,
		campaignRepo,
		matchRepo,
		auditRepo,
		channelService,
		db,
		rc,
	)

	favoriteFlow := businessflow.NewFavoriteFlow(
		accountRepo,
		modelRepo,
		agencyRepo,
		favoriteRepo,
		matchRepo,
		auditRepo,
		channelService,
		db,
		rc,
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(signupFlow, loginFlow)
	profileHandler := handlers.NewProfileHandler(profileFlow)
	campaignHandler := handlers.NewCampaignHandler(campaignFlow)
	applicationHandler := handlers.NewApplicationHandler(applicationFlow)
	matchHandler := handlers.NewMatchHandler(approvalFlow)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteFlow)

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Initialize router
	appRouter := router.NewFiberRouter(
		cfg,
		authMiddleware,
		authHandler,
		profileHandler,
		campaignHandler,
		applicationHandler,
		matchHandler,
		favoriteHandler,
	)

	if cfg.Scheduler.ChannelReconcileEnabled {
		reconciler := scheduler.NewChannelReconciler(
			matchRepo,
			modelRepo,
			agencyRepo,
			accountRepo,
			auditRepo,
			channelService,
			log.Default(),
			cfg.Scheduler,
		)
		stopReconciler := reconciler.Start(context.Background())
		stopFuncs = append(stopFuncs, stopReconciler)
	}

	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}
