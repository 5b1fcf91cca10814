package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"quantwp/pkg/audit"
	"quantwp/pkg/config"
	"quantwp/pkg/envsource"
	"quantwp/pkg/envsync"
	"quantwp/pkg/handlers"
	"quantwp/pkg/hooks"
	"quantwp/pkg/hostctx"
	"quantwp/pkg/logger"
	"quantwp/pkg/mailfrom"
	"quantwp/pkg/scheduler"
	"quantwp/pkg/server"
)

func main() {
	var (
		configPath  = flag.String("config", "", "配置文件路径")
		once        = flag.Bool("once", false, "执行一次环境变量同步后退出")
		checkConfig = flag.Bool("check-config", false, "仅校验配置文件")
	)
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ValidateConfig(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	if *checkConfig {
		fmt.Println("configuration OK")
		return
	}

	envValues, err := envsource.LoadFile(cfg.EnvFile)
	if err != nil {
		log.Fatalf("Failed to load env file: %v", err)
	}
	src := envsource.New(envValues)

	if err := logger.InitLogger(logger.Options{
		Development: cfg.App.Environment == "development",
		LogFile:     cfg.App.LogFile,
		Level:       cfg.App.LogLevel,
		Debug:       config.DebugEnabled(src),
	}); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, src, *once); err != nil {
		logger.Error("quantwp exited with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, src envsource.Source, once bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := config.OpenStore(cfg.Store)
	if err != nil {
		return fmt.Errorf("open settings store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close settings store", zap.Error(err))
		}
	}()
	logger.Info("Settings store opened", zap.String("driver", cfg.Store.Driver), zap.String("settings_key", cfg.Settings.Key))

	syncer := envsync.New(envsync.Options{
		Store:       store,
		SettingsKey: cfg.Settings.Key,
		Env:         src,
		Notifier:    newNotifier(cfg.Audit),
	})

	if once {
		result, err := syncer.Sync(ctx)
		if err != nil {
			return err
		}
		syncer.Wait()
		logger.Info("Settings sync completed",
			zap.String("pass_id", result.PassID),
			zap.Int("changes", len(result.Changes)),
			zap.Bool("written", result.Written))
		return nil
	}

	registry := buildRegistry(syncer, src)
	if err := registry.Init(ctx); err != nil {
		return fmt.Errorf("init hooks: %w", err)
	}

	ts, err := scheduler.NewTaskScheduler(ctx, &scheduler.Config{
		Enabled:  cfg.Sync.Enabled,
		SyncCron: cfg.Sync.Cron,
		Syncer:   syncer,
	})
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	handlerSvc := handlers.NewHandlerService(cfg, handlers.Dependencies{
		Store:     store,
		Syncer:    syncer,
		Registry:  registry,
		Scheduler: ts,
	})
	httpServer := server.NewHTTPServer(&server.Config{
		Address: cfg.Server.Address,
		Port:    cfg.Server.Port,
		Config:  cfg,
	}, handlerSvc)

	errCh := make(chan error, 2)
	go func() { errCh <- ts.Start() }()
	go func() { errCh <- httpServer.Start() }()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errCh:
		if runErr != nil {
			logger.Error("Component stopped unexpectedly", zap.Error(runErr))
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, err)
	}
	if err := ts.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, err)
	}
	waitNotifications(shutdownCtx, syncer)

	logger.Info("quantwp stopped")
	return runErr
}

// buildRegistry installs every integration hook. The sync runs on init and
// on admin_init; mail and uploads filters apply per request.
func buildRegistry(syncer *envsync.Syncer, src envsource.Source) *hooks.Registry {
	registry := hooks.NewRegistry()

	mailfrom.Register(registry, mailfrom.FromEnv(src))
	hostctx.RegisterUploadsFilter(registry)
	syncer.Register(registry)

	return registry
}

// waitNotifications gives pending audit deliveries until ctx expires.
func waitNotifications(ctx context.Context, syncer *envsync.Syncer) {
	done := make(chan struct{})
	go func() {
		syncer.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn("Audit notifications still pending at shutdown")
	}
}

func newNotifier(cfg *config.AuditConfig) envsync.Notifier {
	if cfg == nil || cfg.WebhookURL == "" {
		return nil
	}
	logger.Info("Audit webhook enabled", zap.Int("max_retries", cfg.MaxRetries))
	return audit.NewClient(audit.Config{
		WebhookURL: cfg.WebhookURL,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelayDuration(),
	})
}
