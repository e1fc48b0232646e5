package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/foodkart/catalog-service/internal/config"
	"github.com/foodkart/catalog-service/internal/handlers"
	"github.com/foodkart/catalog-service/internal/middleware"
	"github.com/foodkart/catalog-service/internal/models"
	"github.com/foodkart/catalog-service/internal/repository"
	"github.com/foodkart/catalog-service/internal/service"
	"github.com/foodkart/catalog-service/internal/storage"
	"github.com/foodkart/catalog-service/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting catalog api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	// Connect to MongoDB
	mongoClient, err := repository.NewMongoConnection(cfg.Mongo)
	if err != nil {
		log.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Error("error disconnecting mongodb client", "error", err)
		}
	}()
	db := mongoClient.Database(cfg.Mongo.DBName)
	log.Info("connected to mongodb", "database", cfg.Mongo.DBName)

	// Initialize image storage
	files, err := storage.NewCloudinaryStorage(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.APIKey,
		cfg.Cloudinary.APISecret,
	)
	if err != nil {
		log.Error("failed to initialize cloudinary storage", "error", err)
		os.Exit(1)
	}
	staging := storage.NewStaging(cfg.Storage.UploadDir)

	// Initialize repositories
	categoryRepo := repository.NewMongoCategoryRepository(db)
	productRepo := repository.NewMongoProductRepository(db)
	toppingRepo := repository.NewMongoToppingRepository(db)

	// Initialize services
	categoryService := service.NewCategoryService(categoryRepo, productRepo, log)
	productService := service.NewProductService(productRepo, categoryRepo, staging, files, log)
	toppingService := service.NewToppingService(toppingRepo, staging, files, log)

	// Initialize handlers
	validate := validator.New()
	healthHandler := handlers.NewHealthHandler(log)
	categoryHandler := handlers.NewCategoryHandler(categoryService, validate, log)
	productHandler := handlers.NewProductHandler(productService, validate, log, cfg.Storage.MaxUploadSize)
	toppingHandler := handlers.NewToppingHandler(toppingService, validate, log, cfg.Storage.MaxUploadSize)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(cfg.Auth.JWTSecret)

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// Category endpoints
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", categoryHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireRole(models.RoleAdmin))
			r.Post("/", categoryHandler.Create)
			r.Get("/{id}", categoryHandler.Get)
			r.Patch("/{id}", categoryHandler.Update)
			r.Delete("/{id}", categoryHandler.Delete)
		})
	})

	// Product endpoints
	r.Route("/products", func(r chi.Router) {
		r.Get("/", productHandler.List)
		r.Get("/{productId}", productHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager))
			r.Post("/", productHandler.Create)
			r.Put("/{productId}", productHandler.Update)
			r.Delete("/{productId}", productHandler.Delete)
		})
	})

	// Topping endpoints
	r.Route("/toppings", func(r chi.Router) {
		r.Get("/", toppingHandler.List)
		r.Get("/{id}", toppingHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager))
			r.Post("/", toppingHandler.Create)
			r.Patch("/{id}", toppingHandler.Update)
			r.Delete("/{id}", toppingHandler.Delete)
		})
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
