package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	appcontext "github.com/SeakMengs/BizCard/internal/app_context"
	"github.com/SeakMengs/BizCard/internal/config"
	"github.com/SeakMengs/BizCard/internal/env"
	filestorage "github.com/SeakMengs/BizCard/internal/file_storage"
	"github.com/SeakMengs/BizCard/internal/middleware"
	ratelimiter "github.com/SeakMengs/BizCard/internal/rate_limiter"
	"github.com/SeakMengs/BizCard/internal/route"
	"github.com/SeakMengs/BizCard/internal/scheduler"
	"github.com/SeakMengs/BizCard/internal/util"
	"github.com/SeakMengs/BizCard/internal/watcher"
	"github.com/SeakMengs/BizCard/pkg/bizcard"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// this function run before main
func init() {
	env.LoadEnv(".env")
}

func main() {
	cfg := config.GetConfig()

	logger := util.NewLogger(cfg.ENV)
	defer logger.Sync()
	logger.Debugf("Configuration: %+v \n", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cardCfg := cfg.Card.BizCardConfig()
	generator, err := bizcard.NewCardGenerator(cardCfg, cfg.Card.Settings(), logger)
	if err != nil {
		logger.Panic(err)
	}
	page, placement, err := generator.Placement()
	if err != nil {
		logger.Panic(err)
	}
	logger.Infow("Template loaded", "path", cardCfg.TemplatePath, "page", page, "scaleFactor", placement.ScaleFactor)

	var storage *filestorage.Storage
	if cfg.Minio.ENABLED {
		storage, err = filestorage.NewStorage(&cfg.Minio)
		if err != nil {
			logger.Error("Error connecting to minio")
			logger.Panic(err)
		}
	}

	// Custom validation
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := util.RegisterValidations(v); err != nil {
			logger.Panic(err)
		}
	}

	templateWatcher, err := watcher.NewTemplateWatcher(generator.Template, logger)
	if err != nil {
		logger.Warnf("Template hot reload disabled: %v", err)
	} else {
		defer templateWatcher.Close()
		go templateWatcher.Run(ctx)
	}

	if cfg.Cleanup.Enabled {
		cleanup, err := scheduler.NewCleanupCron(cfg.Cleanup, []string{cardCfg.OutputDir, cardCfg.TmpDir}, logger)
		if err != nil {
			logger.Panic(err)
		}
		cleanup.Start()
		defer cleanup.Stop()
	}

	rateLimiter := ratelimiter.NewRateLimiter(cfg.RateLimiter, logger)
	app := appcontext.Application{
		Config:    &cfg,
		Logger:    logger,
		Generator: generator,
		Storage:   storage,
	}

	_middleware := middleware.NewMiddleware(&app, rateLimiter)

	if cfg.IsProduction() {
		logger.Info("Running in production mode")
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:    "0.0.0.0:" + app.Config.Port,
		Handler: route.NewRouter(&app, _middleware),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Panicf("Error running server: %v \n", err)
		}
	}()
	logger.Infof("%s api listening on %s", util.GetAppName(), srv.Addr)

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
}
