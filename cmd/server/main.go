package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/admin"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/booking"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/config"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/database"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/handlers"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/listing"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/middleware"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/services"
	"github.com/eliaselmokadem/guide2umrahfrontend/pkg/apiclient"
	"github.com/eliaselmokadem/guide2umrahfrontend/pkg/jwt"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

const (
	// visitTTL bounds how long an untouched room selection is kept
	visitTTL = 2 * time.Hour
	// draftTTL bounds how long an untouched admin form is kept
	draftTTL = 12 * time.Hour
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Guide2Umrah site")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Background workers stop when ctx is cancelled on shutdown
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Lead journal database is optional
	var (
		db          database.DB
		journal     services.LeadJournal
		leadListing handlers.LeadLister
	)
	if cfg.JournalEnabled() {
		logger.Info("Connecting to lead journal database...")
		db, err = database.NewConnection(cfg.Database)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		leadRepository := database.NewLeadRepository(db)
		if err := leadRepository.EnsureSchema(); err != nil {
			logger.Fatalf("Failed to prepare lead journal: %v", err)
		}
		journal = leadRepository
		leadListing = leadRepository
		logger.Info("Lead journal enabled")
	} else {
		logger.Info("DATABASE_URL not set, lead journal disabled")
	}

	// Initialize services
	logger.Info("Initializing services...")
	client := apiclient.NewClient(apiclient.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, logger)
	jwtService := jwt.NewService(cfg.Session.Secret, cfg.Session.Expiry)

	visits := booking.NewVisits(visitTTL, logger)
	visits.Start(ctx)
	drafts := admin.NewDrafts(draftTTL, logger)
	drafts.Start(ctx)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, logger)
	rateLimiter.Start(ctx)

	catalogService := services.NewCatalogService(client, logger)
	leadService := services.NewLeadService(client, journal, logger)
	bookingService := services.NewBookingService(leadService, logger)
	backgroundService := services.NewBackgroundService(client, cfg.Site, logger)
	brochureService := services.NewBrochureService(cfg.Site.WhatsAppNumber, logger)
	adminService := services.NewAdminService(client, drafts, cfg.Uploads, logger)

	renderer := handlers.NewRenderer(backgroundService, cfg.Site, logger)
	cookie := middleware.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.Secure,
		MaxAge: int(cfg.Session.Expiry.Seconds()),
	}

	tmpl, err := handlers.LoadTemplates()
	if err != nil {
		logger.Fatalf("Failed to load templates: %v", err)
	}

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(middleware.LoadSession(jwtService, cookie, logger))
	router.MaxMultipartMemory = int64(cfg.Uploads.MaxUploadMB) << 20
	router.SetHTMLTemplate(tmpl)

	router.Static("/static", cfg.Site.StaticDir)
	router.GET("/health", healthCheckHandler(catalogService, db))

	handlers.Routes{
		Pages:     handlers.NewPageHandler(catalogService, renderer, logger),
		Catalog:   handlers.NewCatalogHandler(catalogService, bookingService, leadService, brochureService, visits, renderer, cfg.Site, logger),
		Leads:     handlers.NewLeadHandler(leadService, renderer, logger),
		API:       handlers.NewAPIHandler(catalogService, logger),
		Auth:      handlers.NewAuthHandler(client, jwtService, cookie, renderer, logger),
		Dashboard: handlers.NewDashboardHandler(adminService, catalogService, backgroundService, leadListing, renderer, logger),
		FormLimit: rateLimiter.Limit(),
		CORS: cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     cfg.CORS.AllowedMethods,
			AllowHeaders:     cfg.CORS.AllowedHeaders,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}),
	}.Register(router)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.API.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stop()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": time.Since(start).Milliseconds(),
			"user_agent": c.Request.UserAgent(),
			"admin":      middleware.GetSession(c).IsAuthenticated(),
		}
		if visit := c.Query("visit"); visit != "" {
			fields["visit"] = visit
		} else if visit := c.PostForm("visit"); visit != "" {
			fields["visit"] = visit
		}

		entry := logger.WithFields(fields)

		// Log errors with more details
		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
			return
		}

		// Log based on status code
		status := c.Writer.Status()
		if status >= 500 {
			entry.Error("Request completed with server error")
		} else if status >= 400 {
			entry.Warn("Request completed with client error")
		} else {
			entry.Debug("Request completed successfully")
		}
	}
}

// healthCheckHandler reports backend and journal status
func healthCheckHandler(catalog *services.CatalogService, db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		status := http.StatusOK
		backendStatus := "healthy"
		if _, err := catalog.ListPackages(ctx, listing.Filter{SortBy: listing.SortNone}); err != nil {
			backendStatus = "unreachable"
			status = http.StatusServiceUnavailable
		}

		dbStatus := "disabled"
		if db != nil {
			dbStatus = "healthy"
			if err := db.Ping(); err != nil {
				dbStatus = "unhealthy"
				status = http.StatusServiceUnavailable
			}
		}

		overall := "healthy"
		if status != http.StatusOK {
			overall = "unhealthy"
		}

		c.JSON(status, gin.H{
			"status":    overall,
			"backend":   backendStatus,
			"database":  dbStatus,
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
