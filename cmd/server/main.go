package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/shop/backend/internal/application/catalog"
	engagementapp "github.com/shop/backend/internal/application/engagement"
	"github.com/shop/backend/internal/application/softdelete"
	"github.com/shop/backend/internal/infrastructure/auth"
	"github.com/shop/backend/internal/infrastructure/config"
	"github.com/shop/backend/internal/infrastructure/logger"
	"github.com/shop/backend/internal/infrastructure/persistence"
	"github.com/shop/backend/internal/interfaces/http/handler"
	"github.com/shop/backend/internal/interfaces/http/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with zap-backed GORM logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := persistence.AutoMigrate(db.DB); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Soft-delete manager with its background token sweep
	tokenStore := softdelete.NewTokenStore(cfg.Undo.SweepInterval)
	deleter := softdelete.NewManager(tokenStore, log).WithDefaultWindow(cfg.Undo.Window)
	defer deleter.Close()

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)

	// Application services
	productService := catalogapp.NewProductService(productRepo, categoryRepo, reviewRepo, deleter)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo, deleter)
	reviewService := engagementapp.NewReviewService(reviewRepo, productRepo, deleter)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Handlers
	productHandler := handler.NewProductHandler(productService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	systemHandler := handler.NewSystemHandler(db, deleter)

	// Setup custom validator tag names
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health endpoint stays outside the authenticated API surface
	engine.GET("/health", systemHandler.Health)

	api := engine.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/api/v1/health",
		},
		Logger: log,
	}))

	api.GET("/health", systemHandler.Health)
	api.GET("/system/undo-stats", systemHandler.UndoStats)

	// Catalog routes
	api.POST("/products", productHandler.Create)
	api.GET("/products", productHandler.List)
	api.GET("/products/:id", productHandler.GetByID)
	api.PUT("/products/:id", productHandler.Update)
	api.DELETE("/products/:id", productHandler.Delete)
	api.POST("/products/bulk-delete", productHandler.BulkDelete)
	api.POST("/products/undo", productHandler.Undo)
	api.POST("/products/bulk-undo", productHandler.BulkUndo)

	api.POST("/categories", categoryHandler.Create)
	api.GET("/categories", categoryHandler.List)
	api.GET("/categories/:id", categoryHandler.GetByID)
	api.PUT("/categories/:id", categoryHandler.Update)
	api.DELETE("/categories/:id", categoryHandler.Delete)
	api.POST("/categories/undo", categoryHandler.Undo)

	// Engagement routes
	api.GET("/products/:id/reviews", reviewHandler.ListByProduct)
	api.POST("/reviews", reviewHandler.Create)
	api.POST("/reviews/:id/hide", reviewHandler.Hide)
	api.POST("/reviews/:id/publish", reviewHandler.Publish)
	api.DELETE("/reviews/:id", reviewHandler.Delete)
	api.POST("/reviews/bulk-delete", reviewHandler.BulkDelete)
	api.POST("/reviews/undo", reviewHandler.Undo)
	api.POST("/reviews/bulk-undo", reviewHandler.BulkUndo)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
