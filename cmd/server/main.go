package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	_ "github.com/karaokeos/backend/docs"
	"github.com/karaokeos/backend/internal/auth"
	"github.com/karaokeos/backend/internal/config"
	"github.com/karaokeos/backend/internal/database"
	"github.com/karaokeos/backend/internal/drive"
	"github.com/karaokeos/backend/internal/handlers"
	"github.com/karaokeos/backend/internal/logger"
	"github.com/karaokeos/backend/internal/metadata"
	"github.com/karaokeos/backend/internal/middleware"
	"github.com/karaokeos/backend/internal/models"
	"github.com/karaokeos/backend/internal/repositories"
	"github.com/karaokeos/backend/internal/services"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title Karaoke Catalog API
// @version 1.0
// @description Song catalog with search, paid playback through Google Drive, favorites, playlists and administration

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token. The token is also accepted from the access_token cookie.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Karaoke Catalog")

	// Connect to database
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := database.Migrate(db, database.MigrationPath()); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize JWT token generator
	tokenGenerator := auth.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize metadata lookups
	lookups := metadata.NewClients(cfg.Metadata, logger.Logger)

	// Initialize Drive client, granting is disabled without a service account
	var driveClient *drive.Client
	if cfg.DriveEnabled() {
		driveClient, err = drive.LoadClient(cfg.Drive.ServiceAccountFile, cfg.Drive.APIBaseURL, cfg.Drive.Timeout, logger.Logger)
		if err != nil {
			logger.Logger.Fatal("Failed to initialize Drive client", zap.Error(err))
		}
		logger.Logger.Info("Drive access granting enabled", zap.String("service_account", driveClient.ServiceAccountEmail()))
	} else {
		logger.Logger.Warn("DRIVE_SERVICE_ACCOUNT_FILE not set, Drive access granting disabled")
	}

	// Initialize repositories
	songRepo := repositories.NewSongRepository(db, logger.Logger)
	artistRepo := repositories.NewArtistRepository(db, logger.Logger)
	playRepo := repositories.NewPlayRepository(db, logger.Logger)
	userRepo := repositories.NewUserRepository(db, logger.Logger)
	verificationRepo := repositories.NewEmailVerificationRepository(db, logger.Logger)
	libraryRepo := repositories.NewLibraryRepository(db, logger.Logger)
	driveGrantRepo := repositories.NewDriveGrantRepository(db, logger.Logger)

	// Initialize services
	catalogService := services.NewCatalogService(songRepo, artistRepo, playRepo, logger.Logger)
	authService := services.NewAuthService(userRepo, verificationRepo, tokenGenerator, services.NewSMTPMailer(cfg.SMTP), logger.Logger, cfg.AppBaseURL, cfg.VerificationTTL)
	driveAccessService := services.NewDriveAccessService(services.NewDriveSessionOpener(driveClient), driveGrantRepo, userRepo, songRepo, logger.Logger)
	playService := services.NewPlayService(songRepo, userRepo, playRepo, driveAccessService, logger.Logger)
	libraryService := services.NewLibraryService(libraryRepo, songRepo, logger.Logger)
	adminSongService := services.NewAdminSongService(songRepo, artistRepo, lookups.Lookup, lookups.ArtistImages, logger.Logger)
	adminUserService := services.NewAdminUserService(userRepo, logger.Logger)

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(catalogService, logger.Logger)
	authHandler := handlers.NewAuthHandler(authService, logger.Logger, tokenGenerator.AccessTokenExpiry(), strings.HasPrefix(cfg.AppBaseURL, "https://"))
	playHandler := handlers.NewPlayHandler(playService, logger.Logger)
	libraryHandler := handlers.NewLibraryHandler(libraryService, logger.Logger)
	adminSongHandler := handlers.NewAdminSongHandler(adminSongService, driveAccessService, logger.Logger)
	adminUserHandler := handlers.NewAdminUserHandler(adminUserService, logger.Logger)

	// Initialize auth middleware
	authMiddleware := middleware.AuthMiddleware(tokenGenerator)
	adminMiddleware := middleware.RoleMiddleware(tokenGenerator, int(models.RoleAdmin))

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggerMiddleware(logger.Logger))
	r.Use(middleware.RecoveryMiddleware(logger.Logger))
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middleware.RequestSizeLimitMiddleware(10 * 1024 * 1024)) // 10MB

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Scope router to /api/v1
	r.Route("/api/v1", func(r chi.Router) {
		catalogHandler.RegisterRoutes(r)
		authHandler.RegisterRoutes(r, authMiddleware)
		playHandler.RegisterRoutes(r, authMiddleware)
		libraryHandler.RegisterRoutes(r, authMiddleware)
		// Register admin routes with role middleware
		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware)
			adminSongHandler.RegisterRoutes(r)
			adminUserHandler.RegisterRoutes(r)
		})
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}
