package app

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"musicstore_admin/internal/clients/catalog"
	"musicstore_admin/internal/clients/cloudinary"
	"musicstore_admin/internal/config"
	"musicstore_admin/internal/handlers"
	"musicstore_admin/internal/logger"
	"musicstore_admin/internal/middleware"
	"musicstore_admin/internal/routes"
	"musicstore_admin/internal/services"
	"musicstore_admin/internal/validator"
	"musicstore_admin/internal/workers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func Run() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	ginRouter, container := SetupRouter(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sessionWorker := workers.NewSessionWorker(container.FormService, cfg.Form.SessionTTL)
	sessionWorker.Start(ctx)
	logger.Info("Session worker started", "ttl", cfg.Form.SessionTTL)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds the full wiring: clients, services, handlers, routes.
// Split out so tests can stand up the router without the process lifecycle.
func SetupRouter(cfg *config.Config) (*gin.Engine, *services.ServiceContainer) {
	catalogClient := catalog.NewClient(catalog.Config{
		BaseURL: cfg.Catalog.BaseURL,
		Timeout: cfg.Catalog.Timeout,
	})
	cloudinaryClient := cloudinary.NewClient(cloudinary.Config{
		BackendBaseURL: cfg.Cloudinary.BackendBaseURL,
		UploadURL:      cfg.Cloudinary.UploadURL,
		UploadPreset:   cfg.Cloudinary.UploadPreset,
		Timeout:        cfg.Cloudinary.Timeout,
	})
	logger.Info("Clients initialized",
		"catalog", cfg.Catalog.BaseURL,
		"cloudinary_backend", cfg.Cloudinary.BackendBaseURL,
	)

	container := services.NewServiceContainer(catalogClient, cloudinaryClient, cloudinaryClient, cfg.Form.PreviewDir)
	appHandlers := initializeHandlers(container)

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers, cfg.JWT.Secret)

	return ginRouter, container
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	base := handlers.NewBaseHandler(validator.New())
	return &handlers.AppHandlers{
		FormHandler:  handlers.NewFormHandler(base, container.FormService, container.UploadService),
		ImageHandler: handlers.NewImageHandler(base, container.UploadService),
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	ginRouter.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
	}))

	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return ginRouter
}
