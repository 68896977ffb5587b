package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qrlink-go/internal/dnscheck"
	"qrlink-go/internal/dto"
	"qrlink-go/internal/handler"
	"qrlink-go/internal/i18n"
	"qrlink-go/internal/job"
	"qrlink-go/internal/repository"
	"qrlink-go/internal/router"
	"qrlink-go/internal/service"
	"qrlink-go/internal/worker"
	"qrlink-go/pkg/netinfo"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the redirect and management HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(false)
			if err != nil {
				return err
			}
			defer rt.close()
			return serve(rt)
		},
	}
}

func serve(rt *appEnv) error {
	cfg, logger := rt.cfg, rt.logger
	gin.SetMode(cfg.Server.Mode)

	store, closeCache := repository.OpenCache(cfg.Redis, logger)
	defer func() {
		if err := closeCache(); err != nil {
			logger.Warn("Redis close failed", zap.Error(err))
		}
	}()

	bundle, err := i18n.Load(cfg.I18n.DefaultLanguage)
	if err != nil {
		return err
	}
	if err := dto.RegisterValidators(); err != nil {
		return err
	}

	tasks := worker.NewDetached(logger, cfg.Analytics.TaskTimeout, cfg.Analytics.MaxInFlight)

	mappingRepo := repository.NewMappingRepository(rt.db, logger)
	scanRepo := repository.NewScanEventRepository(rt.db)

	usage := service.NewUsageService(repository.NewUsageRepository(rt.db), logger)
	scans := service.NewScanService(scanRepo, usage, cfg.Analytics.IPSalt, logger)
	redirects := service.NewRedirectService(mappingRepo, store, scans, tasks, cfg.Redirect.CacheTTL, logger)
	mappings := service.NewMappingService(mappingRepo, scanRepo, store, cfg.Redirect.InvalidateOnUpdate, logger)
	checker := dnscheck.NewChecker(nil, cfg.Domain.CNAMETarget, cfg.Domain.ARecords, cfg.Domain.LookupTimeout)
	domains := service.NewDomainService(repository.NewDomainRepository(rt.db), store, checker, tasks, service.DomainOptions{
		CacheTTL:     cfg.Domain.CacheTTL,
		RecheckAfter: cfg.Domain.RecheckAfter,
		SweepBatch:   cfg.Domain.SweepBatch,
	}, logger)
	apiKeys := service.NewAPIKeyService(repository.NewAPIKeyRepository(rt.db), cfg.APIKey.BcryptCost, logger)

	engine := router.New(router.Deps{
		Logger:       logger,
		Bundle:       bundle,
		Redirects:    redirects,
		Mappings:     mappings,
		Domains:      domains,
		Usage:        usage,
		RateLimits:   service.NewRateLimitService(store, logger),
		APIKeys:      apiKeys,
		Health:       handler.NewHealthHandler(rt.db),
		Extractor:    netinfo.NewExtractor(cfg.Analytics.CountryHeaders, cfg.Analytics.CityHeaders),
		PrimaryHosts: cfg.Server.PrimaryHosts,
	})

	scheduler := job.NewScheduler(logger)
	if cfg.Domain.SweepSpec != "" {
		if err := scheduler.AddDomainSweep(cfg.Domain.SweepSpec, domains, cfg.Domain.RecheckAfter); err != nil {
			return err
		}
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: engine,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server is running", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// 等待中断信号以优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server failed", zap.Error(err))
			scheduler.Stop(context.Background())
			return err
		}
	}
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	scheduler.Stop(ctx)
	// 已接受的跳转可能还有扫码记录在后台写入
	if err := tasks.Shutdown(ctx); err != nil {
		logger.Warn("Detached tasks still running at shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
	return nil
}
