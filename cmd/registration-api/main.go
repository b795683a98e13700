package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/bailakids/registration-api/api/swagger"
	"github.com/bailakids/registration-api/internal/dto"
	"github.com/bailakids/registration-api/internal/handler"
	"github.com/bailakids/registration-api/internal/middleware"
	"github.com/bailakids/registration-api/internal/repository"
	"github.com/bailakids/registration-api/internal/service"
	"github.com/bailakids/registration-api/pkg/cache"
	"github.com/bailakids/registration-api/pkg/config"
	"github.com/bailakids/registration-api/pkg/database"
	"github.com/bailakids/registration-api/pkg/events"
	"github.com/bailakids/registration-api/pkg/jobs"
	"github.com/bailakids/registration-api/pkg/logger"
	"github.com/bailakids/registration-api/pkg/mailer"
	corsmiddleware "github.com/bailakids/registration-api/pkg/middleware/cors"
	reqidmiddleware "github.com/bailakids/registration-api/pkg/middleware/requestid"
)

// @title Baila Kids Registration API
// @version 1.0.0
// @description Class registration, seat allocation and administration for Baila Kids dance classes.
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	validate := dto.NewValidator()

	var cacheRepo *repository.CacheRepository
	if cfg.Sections.CacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, sections cache disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(client, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}
	var sectionsCache *service.CacheService
	if cacheRepo != nil {
		sectionsCache = service.NewCacheService(cacheRepo, "sections", cfg.Sections.CacheTTL, metrics, logr)
	}

	publisher, err := events.Connect(cfg.Events.NATSURL, logr)
	if err != nil {
		return err
	}
	defer publisher.Close()

	eventWorker := service.NewEventWorker(publisher, cfg.Events.Subject, metrics, logr)
	eventQueue := jobs.NewQueue("registration-events", eventWorker.Handle, jobs.QueueConfig{
		Workers:    cfg.Events.Workers,
		MaxRetries: cfg.Events.MaxRetries,
		RetryDelay: cfg.Events.RetryDelay,
		Logger:     logr,
	})
	eventQueue.Start(ctx)
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), cfg.Events.DrainTimeout)
		defer cancel()
		if err := eventQueue.Stop(drainCtx); err != nil {
			logr.Warn("registration events not fully published", zap.Error(err))
		}
	}()

	studentRepo := repository.NewStudentRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)
	waitlistRepo := repository.NewWaitlistRepository(db)
	configRepo := repository.NewConfigurationRepository(db)

	settingsSvc := service.NewSettingsService(configRepo, cfg.Settings.CacheTTL, logr)
	catalogSvc := service.NewCatalogService(sectionRepo, studentRepo, settingsSvc, sectionsCache, logr)
	availabilitySvc := service.NewAvailabilityService(catalogSvc, settingsSvc, logr)
	registrationSvc := service.NewRegistrationService(service.RegistrationDeps{
		Store:    registrationRepo,
		Sections: sectionRepo,
		Settings: settingsSvc,
		Catalog:  catalogSvc,
		Events:   service.NewEventService(eventQueue, logr),
		Metrics:  metrics,
		Logger:   logr,
	})
	notificationSvc := service.NewNotificationService(mailer.New(cfg.Mail, logr), sectionRepo, metrics, logr, service.NotificationConfig{
		SchoolName:  cfg.Mail.SchoolName,
		OwnerEmail:  cfg.Mail.OwnerEmail,
		ZelleHandle: cfg.Mail.ZelleHandle,
		SendTimeout: cfg.Mail.SendTimeout,
	})
	waitlistSvc := service.NewWaitlistService(waitlistRepo, validate, logr)
	authSvc := service.NewAuthService(validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
		AdminEmail:        cfg.Admin.Email,
		AdminPasswordHash: cfg.Admin.PasswordHash,
		AdminDisplayName:  cfg.Admin.DisplayName,
	})
	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	exportSvc := service.NewRosterExportService(studentRepo, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, sectionRepo, catalogSvc, metrics, validate, logr)
	calendarSvc := service.NewCalendarService(calendarRepo, studentRepo, sectionRepo, settingsSvc, validate, logr)
	configurationSvc := service.NewConfigurationService(configRepo, logr)

	checks := map[string]handler.ReadinessCheck{"postgres": db.PingContext}
	if cacheRepo != nil {
		checks["redis"] = cacheRepo.Ping
	}
	metricsHandler := handler.NewMetricsHandler(metrics, checks)
	registrationHandler := handler.NewRegistrationHandler(registrationSvc, notificationSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc, availabilitySvc)
	waitlistHandler := handler.NewWaitlistHandler(waitlistSvc)
	authHandler := handler.NewAuthHandler(authSvc, logr)
	studentHandler := handler.NewStudentHandler(studentSvc, exportSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	calendarHandler := handler.NewCalendarHandler(calendarSvc)
	configurationHandler := handler.NewConfigurationHandler(configurationSvc, cfg.Settings.CacheTTL)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/register", registrationHandler.Register)
	api.POST("/send-confirmation", registrationHandler.SendConfirmation)
	api.GET("/sections", catalogHandler.Sections)
	api.GET("/class-counts", catalogHandler.ClassCounts)
	api.GET("/availability", catalogHandler.Availability)
	api.POST("/waitlist", waitlistHandler.Join)
	api.POST("/admin/login", authHandler.Login)

	admin := api.Group("/admin", middleware.JWT(authSvc), middleware.RequireAdmin())
	admin.GET("/students", studentHandler.List)
	admin.GET("/students/export", studentHandler.Export)
	admin.GET("/students/:id", studentHandler.Get)
	admin.PUT("/students/:id", middleware.Audit(logr, "student.update"), studentHandler.Update)
	admin.GET("/sections/:id/enrollments", enrollmentHandler.Roster)
	admin.PUT("/enrollments/:id/status", middleware.Audit(logr, "enrollment.status"), enrollmentHandler.UpdateStatus)
	admin.GET("/calendar", calendarHandler.Month)
	admin.POST("/calendar/events", middleware.Audit(logr, "calendar.event.create"), calendarHandler.CreateEvent)
	admin.DELETE("/calendar/events/:id", middleware.Audit(logr, "calendar.event.delete"), calendarHandler.DeleteEvent)
	admin.GET("/config", configurationHandler.List)
	admin.GET("/config/:key", configurationHandler.Get)
	admin.PUT("/config/:key", middleware.Audit(logr, "config.update"), configurationHandler.Update)
	admin.GET("/waitlist", waitlistHandler.List)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
