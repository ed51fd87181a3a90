package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tradedash/internal/client/engine"
	"tradedash/internal/config"
	cronrunner "tradedash/internal/cron"
	"tradedash/internal/db"
	"tradedash/internal/handler"
	"tradedash/internal/logger"
	gormrepository "tradedash/internal/repository/gorm"
	"tradedash/internal/service"
	"tradedash/internal/state"

	_ "tradedash/docs"
)

func main() {
	cfgPath := os.Getenv("TD_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("TD_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	liveState := state.NewStore(cfg.Dashboard.RecentSignals)
	engineClient := engine.NewClient(cfg.Engine, logger)

	thresholdSvc := &service.ThresholdService{Repo: store, Engine: engineClient, Logger: logger}
	decisionIngest := &service.DecisionIngestService{
		Repo:      store,
		Engine:    engineClient,
		Logger:    logger,
		PageLimit: cfg.Engine.PageLimit,
	}
	portfolioSync := &service.PortfolioSyncService{
		Repo:   store,
		Engine: engineClient,
		Store:  liveState,
		Logger: logger,
	}
	streamIngest := &service.StreamIngestService{
		Repo:   store,
		Store:  liveState,
		Config: cfg.Stream,
		Logger: logger,
	}
	retention := &service.RetentionService{
		Repo:      store,
		Logger:    logger,
		RawEvents: cfg.Retention.RawEvents,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handler.CORSMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(router)
	decisionHandler := &handler.DecisionHandler{
		Repo:        store,
		Thresholds:  thresholdSvc,
		Logger:      logger,
		PageSize:    cfg.Dashboard.PageSize,
		WindowLimit: cfg.Dashboard.WindowLimit,
	}
	decisionHandler.Register(router)
	thresholdHandler := &handler.ThresholdHandler{Repo: store, Service: thresholdSvc}
	thresholdHandler.Register(router)
	portfolioHandler := &handler.PortfolioHandler{
		Repo:          store,
		Store:         liveState,
		RecentSignals: cfg.Dashboard.RecentSignals,
	}
	portfolioHandler.Register(router)
	streamHandler := &handler.StreamHandler{Store: liveState, Logger: logger}
	streamHandler.Register(router)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		_, err = cronRunner.Add(cfg.Cron.DecisionPoll, func(ctx context.Context) {
			if err := decisionIngest.RunOnce(ctx); err != nil {
				logger.Warn("decision poll failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register decision poll failed", zap.Error(err))
		}
		_, err = cronRunner.Add(cfg.Cron.PortfolioPoll, func(ctx context.Context) {
			if err := portfolioSync.RunOnce(ctx); err != nil {
				logger.Warn("portfolio poll failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register portfolio poll failed", zap.Error(err))
		}
		_, err = cronRunner.Add(cfg.Cron.RawEventCleanup, func(ctx context.Context) {
			if err := retention.RunOnce(ctx); err != nil {
				logger.Warn("raw event cleanup failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register raw event cleanup failed", zap.Error(err))
		}
		_, err = cronRunner.Add(cfg.Cron.ThresholdSync, func(ctx context.Context) {
			if err := thresholdSvc.SyncFromEngine(ctx); err != nil {
				logger.Warn("threshold sync failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register threshold sync failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	// Prime the dashboard before the first cron ticks.
	if err := decisionIngest.RunOnce(ctx); err != nil {
		logger.Warn("initial decision ingest failed (continuing)", zap.Error(err))
	}
	if err := portfolioSync.RunOnce(ctx); err != nil {
		logger.Warn("initial portfolio sync failed (continuing)", zap.Error(err))
	}

	g, runCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := streamIngest.Run(runCtx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("engine stream stopped", zap.Error(err))
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-runCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
