package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"playhouse/internal/config"
	"playhouse/internal/database"
	"playhouse/internal/logger"
	"playhouse/internal/middleware"
	"playhouse/internal/modules/admin"
	"playhouse/internal/modules/branding"
	"playhouse/internal/modules/contact"
	"playhouse/internal/modules/events"
	"playhouse/internal/modules/feedback"
	"playhouse/internal/modules/rating"
	jwtsvc "playhouse/internal/pkg/jwt"
	"playhouse/internal/pkg/utils"
	"playhouse/internal/server"
	"playhouse/internal/web"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}
	if !cfg.IsProdLike() && cfg.AdminPasswordHash == "" && cfg.AdminPassword == config.DefaultAdminPassword {
		log.Warn("using default admin password; set ADMIN_PASSWORD")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// storage
	store := feedback.NewCSVStore(cfg.Path(cfg.FeedbackFile))
	if err := store.Bootstrap(ctx); err != nil {
		return fmt.Errorf("feedback store: %w", err)
	}

	db, err := database.Connect(cfg.ContactDSN(), log)
	if err != nil {
		return fmt.Errorf("contact db: %w", err)
	}
	if err := contact.Migrate(db); err != nil {
		return fmt.Errorf("contact migrate: %w", err)
	}

	// collaborators
	hub := events.NewHub(log)
	defer hub.Close()

	provider := rating.NewGooglePlaces(rating.GoogleConfig{
		APIKey:         cfg.GooglePlacesAPIKey,
		PlaceID:        cfg.GooglePlaceID,
		MapsLink:       cfg.GoogleMapsLink,
		CacheFile:      cfg.Path(cfg.GoogleCacheFile),
		CacheTTL:       cfg.GoogleCacheTTL,
		Timeout:        cfg.GoogleTimeout,
		FailureBackoff: cfg.GoogleFailureBackoff,
	}, log)
	logo := branding.NewLogoResolver(cfg.DataDir, cfg.LogoGlob)
	render := web.NewRenderer(web.DefaultSite(cfg.SiteVersion), logo, provider)

	passwordHash, err := admin.PasswordHash(cfg.AdminPassword, cfg.AdminPasswordHash)
	if err != nil {
		return fmt.Errorf("admin password: %w", err)
	}
	jwt := jwtsvc.New(cfg.SessionSecret, cfg.SessionTTL)

	// modules
	feedbackService := feedback.NewService(store, hub, log)
	if err := feedbackService.Bootstrap(ctx); err != nil {
		return err
	}
	contactService := contact.NewService(contact.NewRepository(db), hub, log)

	limiter := middleware.NewIPRateLimiter(cfg.APIRateRPS, cfg.APIRateBurst)
	go limiter.RunCleanup(ctx, 10*time.Minute, 30*time.Minute)

	router, err := server.NewRouter(server.Deps{
		Log:         log,
		Version:     cfg.SiteVersion,
		JWT:         jwt,
		Limiter:     limiter,
		CORSOrigins: cfg.CORSAllowedOrigins,
		Pages:       web.NewPages(render, cfg.ReviewsLink),
		Feedback:    feedback.NewHandler(feedbackService, render, log),
		Contact:     contact.NewHandler(contactService, render, log),
		Admin:       admin.NewHandler(admin.NewService(passwordHash, jwt, log), render, cfg.CookieSecure),
		Events:      events.NewHandler(hub, log),
		Rating:      rating.NewHandler(provider),
	})
	if err != nil {
		return fmt.Errorf("router: %w", err)
	}

	port := cfg.Port
	if port == 0 {
		if port = utils.FindFreePort(cfg.Host, cfg.PortRangeStart, cfg.PortRangeEnd); port == 0 {
			port = cfg.PortRangeStart
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("site starting",
			zap.String("version", cfg.SiteVersion),
			zap.String("feedback_file", store.Path()),
			zap.String("local", fmt.Sprintf("http://127.0.0.1:%d", port)),
			zap.String("lan", fmt.Sprintf("http://%s:%d", utils.LANAddress(), port)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("server exited")
	return nil
}
