package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/timetable-api/api/swagger"
	"github.com/noah-isme/timetable-api/internal/handler"
	internalmiddleware "github.com/noah-isme/timetable-api/internal/middleware"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/service"
	"github.com/noah-isme/timetable-api/pkg/config"
	"github.com/noah-isme/timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/timetable-api/pkg/middleware/requestid"
	"github.com/noah-isme/timetable-api/pkg/storage"
)

// @title Timetable API
// @version 1.0.0
// @description Generates weekly timetables from faculty workload sheets
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

type routerDeps struct {
	cfg        *config.Config
	logger     *zap.Logger
	metrics    *service.MetricsService
	timetables *handler.TimetableHandler
	probes     *handler.MetricsHandler
	tokens     *service.TokenService
}

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	uploads, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		logr.Fatal("failed to prepare uploads directory", zap.Error(err))
	}

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	cleanup := service.NewUploadCleanupService(uploads, metrics, service.UploadCleanupConfig{
		Workers:    cfg.Cleanup.Workers,
		Retries:    cfg.Cleanup.Retries,
		RetryDelay: cfg.Cleanup.RetryDelay,
		Retention:  cfg.Uploads.Retention,
	}, logr)
	cleanup.Start(ctx)
	if _, err := cleanup.Sweep(); err != nil {
		logr.Warn("initial upload sweep failed", zap.Error(err))
	}
	go cleanup.RunSweeper(ctx, cfg.Uploads.SweepInterval)

	timetableSvc := service.NewTimetableService(
		uploads,
		cleanup,
		service.NewTimetableExporter(nil, nil),
		metrics,
		service.DefaultRoomSource,
		validator.New(),
		logr,
		service.TimetableServiceConfig{HeaderOffset: cfg.Workload.HeaderOffset},
	)

	var tokens *service.TokenService
	if cfg.Auth.Enabled {
		tokens = service.NewTokenService(service.TokenConfig{
			Secret: cfg.Auth.Secret,
			TTL:    cfg.Auth.TokenTTL,
			Issuer: cfg.Auth.Issuer,
		})
	}

	r := setupRouter(routerDeps{
		cfg:        cfg,
		logger:     logr,
		metrics:    metrics,
		timetables: handler.NewTimetableHandler(timetableSvc, uploads, cfg.Uploads.MaxBytes),
		probes:     handler.NewMetricsHandler(metrics, cleanup, uploads),
		tokens:     tokens,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "uploads", cfg.Uploads.Dir, "auth", cfg.Auth.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	cleanup.Stop()
}

func setupRouter(deps routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(internalmiddleware.WithResponseMeta())
	r.Use(logger.GinMiddleware(deps.logger))
	r.Use(corsmiddleware.New(deps.cfg.CORS.AllowedOrigins))
	if deps.metrics != nil {
		r.Use(internalmiddleware.Metrics(deps.metrics))
	}

	r.GET("/health", deps.probes.Health)
	r.GET("/ready", deps.probes.Ready)
	if deps.metrics != nil {
		r.GET("/metrics", deps.probes.Prometheus)
	}

	if deps.cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	var guard []gin.HandlerFunc
	if deps.cfg.Auth.Enabled && deps.tokens != nil {
		guard = []gin.HandlerFunc{
			internalmiddleware.JWT(deps.tokens),
			internalmiddleware.RequireRoles(models.RoleAdmin, models.RoleCoordinator),
		}
	}
	guarded := func(h gin.HandlerFunc) []gin.HandlerFunc {
		chain := make([]gin.HandlerFunc, 0, len(guard)+1)
		chain = append(chain, guard...)
		return append(chain, h)
	}

	r.POST("/api/upload", guarded(deps.timetables.Upload)...)

	prefix := "/" + strings.Trim(deps.cfg.APIPrefix, "/")
	if prefix == "/" {
		prefix = "/api/v1"
	}
	api := r.Group(prefix)
	api.POST("/timetables/generate", guarded(deps.timetables.GenerateAlias)...)

	return r
}
