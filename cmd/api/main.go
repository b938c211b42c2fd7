package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus-transit/shuttle-ops-api/internal/engine"
	"github.com/campus-transit/shuttle-ops-api/internal/handler"
	"github.com/campus-transit/shuttle-ops-api/internal/middleware"
	"github.com/campus-transit/shuttle-ops-api/internal/models"
	"github.com/campus-transit/shuttle-ops-api/internal/service"
	"github.com/campus-transit/shuttle-ops-api/internal/store"
	"github.com/campus-transit/shuttle-ops-api/pkg/config"
	"github.com/campus-transit/shuttle-ops-api/pkg/logger"
	"github.com/campus-transit/shuttle-ops-api/pkg/middleware/cors"
	"github.com/campus-transit/shuttle-ops-api/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logr.Sync()

	st, cleanup, err := buildStore(cfg, logr)
	if err != nil {
		logr.Fatal("failed to init snapshot store", zap.Error(err))
	}
	defer cleanup()

	eng := engine.New(st, nil, logr)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	eng.OnSave(metricsSvc.ObserveSnapshotSave)

	userSvc := service.NewUserService(eng, validate, logr)
	busSvc := service.NewBusService(eng, validate, logr)
	routeSvc := service.NewRouteService(eng, validate, logr)
	tripSvc := service.NewTripService(eng, validate, logr)
	bookingSvc := service.NewBookingService(eng, validate, logr)
	paymentSvc := service.NewPaymentService(eng, validate, logr)
	attendanceSvc := service.NewAttendanceService(eng, validate, logr)
	assignmentSvc := service.NewAssignmentService(eng, logr)
	analyticsSvc := service.NewAnalyticsService(eng, logr)
	notificationSvc := service.NewNotificationService(eng, validate, logr)
	announcementSvc := service.NewAnnouncementService(eng, validate, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.Middleware())
	router.Use(logger.GinMiddleware(logr))
	router.Use(cors.New(cfg.CORS.AllowedOrigins))
	router.Use(middleware.Metrics(metricsSvc))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ready", func(c *gin.Context) {
		err := eng.View(c.Request.Context(), func(_ *models.Snapshot) error { return nil })
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	router.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	handler.RegisterRoutes(router, cfg.APIPrefix, handler.Handlers{
		Users:         handler.NewUserHandler(userSvc),
		Buses:         handler.NewBusHandler(busSvc, assignmentSvc),
		Routes:        handler.NewRouteHandler(routeSvc),
		Trips:         handler.NewTripHandler(tripSvc, analyticsSvc),
		Bookings:      handler.NewBookingHandler(bookingSvc),
		Payments:      handler.NewPaymentHandler(paymentSvc),
		Attendance:    handler.NewAttendanceHandler(attendanceSvc),
		Analytics:     handler.NewAnalyticsHandler(analyticsSvc),
		Notifications: handler.NewNotificationHandler(notificationSvc),
		Announcements: handler.NewAnnouncementHandler(announcementSvc),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logr.Info("server starting",
			zap.Int("port", cfg.Port),
			zap.String("env", cfg.Env),
			zap.String("store", cfg.Store.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("forced shutdown", zap.Error(err))
	}
	logr.Info("server stopped")
}

// buildStore selects the snapshot store backend from configuration. The
// returned cleanup closes any underlying connection.
func buildStore(cfg *config.Config, logr *zap.Logger) (store.Store, func(), error) {
	noop := func() {}

	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		return store.NewMemoryStore(nil), noop, nil
	case config.StoreDriverFile:
		return store.NewFileStore(cfg.Store.FilePath), noop, nil
	case config.StoreDriverRedis:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Store.SaveTimeout)
		defer cancel()
		client, err := store.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		cleanup := func() {
			if err := client.Close(); err != nil {
				logr.Warn("failed to close redis client", zap.Error(err))
			}
		}
		return store.NewRedisStore(client, cfg.Store.RedisKey), cleanup, nil
	case config.StoreDriverPostgres:
		db, err := store.NewPostgresDB(cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		pg, err := store.NewPostgresStore(db)
		if err != nil {
			db.Close()
			return nil, noop, err
		}
		cleanup := func() {
			if err := db.Close(); err != nil {
				logr.Warn("failed to close database", zap.Error(err))
			}
		}
		return pg, cleanup, nil
	default:
		return nil, noop, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
