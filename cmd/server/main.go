package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"law_dashboard_go/config"
	"law_dashboard_go/db"
	"law_dashboard_go/handlers"
	"law_dashboard_go/middleware"
	"law_dashboard_go/models"
	"law_dashboard_go/services"
	"law_dashboard_go/services/i18n"
	"law_dashboard_go/services/jobs"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(&models.User{}, &models.Session{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := i18n.Load(); err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}
	middleware.InitAssetVersions("static")
	services.InitSecurityMonitor()

	authenticator, err := services.NewAuthenticator(cfg.AuthMode, db.DB, cfg.LoginDelay)
	if err != nil {
		log.Fatalf("Failed to set up login: %v", err)
	}

	clock := services.SystemClock{}
	snapshots := services.NewSnapshotStore(services.NewMetricsGenerator(clock, nil), services.DefaultSnapshotTTL)

	var archive services.StorageProvider
	if cfg.ReportArchive {
		archive = services.NewStorage(cfg)
	}
	exporter := services.NewReportExporter(services.NewChromeRenderer(cfg.ChromePath), archive)

	handlers.Configure(handlers.Dependencies{
		Authenticator: authenticator,
		Snapshots:     snapshots,
		Exporter:      exporter,
		Events:        services.DefaultMarketingEvents(),
		Clock:         clock,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cleanup := jobs.NewSessionCleanup(db.DB, snapshots, cfg.SessionCleanupCron)
	cleanup.AddSweeper("export rate limit", middleware.ExportRateLimiter)
	cleanup.AddSweeper("failed login", services.Monitor)
	if err := cleanup.Start(ctx); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.Secure())
	e.Use(middleware.CSPNonce())

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})
	e.Use(middleware.Locale(cfg))
	e.Use(middleware.CSRF(cfg))

	// Static files
	e.Static("/static", "static")

	handlers.RegisterRoutes(e)

	go func() {
		log.Printf("[INFO] Starting server on :%s (%s)", cfg.ServerPort, cfg.Environment)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[INFO] Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARNING] Server shutdown: %v", err)
	}
}
