package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/quillcms/console/internal/catalog"
	"github.com/quillcms/console/internal/config"
	"github.com/quillcms/console/internal/httpserver"
	"github.com/quillcms/console/internal/httpserver/deps"
	"github.com/quillcms/console/internal/logger"
	"github.com/quillcms/console/internal/media"
	"github.com/quillcms/console/internal/notify"
	"github.com/quillcms/console/internal/redis"
	"github.com/quillcms/console/internal/resource"
	"github.com/quillcms/console/internal/scheduler"
	"github.com/quillcms/console/internal/search"
	"github.com/quillcms/console/internal/session"
	redisstore "github.com/quillcms/console/internal/store/redis"
	"github.com/quillcms/console/internal/upstream"
	"github.com/quillcms/console/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	reloader    *scheduler.CatalogReloader
	janitor     *scheduler.Janitor
	debounce    *search.Debouncer
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	store := redisstore.NewStore(redisClient)

	api := upstream.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, loggerClient)

	sessions := session.NewManager(store, loggerClient)
	center := notify.NewCenter()

	tracker := media.NewTracker()
	mediaSvc := media.NewService(api, tracker, center, cfg.StorageBaseURL, loggerClient)

	registry := resource.NewRegistry()
	buildManager := func(col *catalog.Collection) *resource.Manager {
		return resource.NewManager(col, api, center, loggerClient)
	}

	palettes := search.NewPalettes()
	debounce := search.NewDebouncer(cfg.SearchDebounce)
	searcher := search.NewSearcher(api, store, palettes, debounce, cfg.SearchLimit, loggerClient)

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewCatalogReloader(
		cfg.CatalogFile,
		registry,
		buildManager,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	janitor := scheduler.NewJanitor(
		center,
		tracker,
		loggerClient,
		cfg.JanitorInterval,
		cfg.JanitorMaxAge,
	)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		Registry:      registry,
		Searcher:      searcher,
		Palettes:      palettes,
		History:       store,
		Media:         mediaSvc,
		Sessions:      sessions,
		Notify:        center,
		RedisClient:   redisClient,
		CatalogFile:   cfg.CatalogFile,
		ReloadTrigger: reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		reloader:    reloader,
		janitor:     janitor,
		debounce:    debounce,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Quill Console v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Quill Console %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start catalog reloader (loads collections and starts periodic refresh)
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start catalog reloader: %w", err)
	}
	a.logger.Info("catalog reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval))

	// Start janitor
	if err := a.janitor.Start(ctx); err != nil {
		return fmt.Errorf("failed to start janitor: %w", err)
	}
	a.logger.Info("janitor started",
		logger.Duration("interval", a.cfg.JanitorInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.reloader.Stop()
	a.janitor.Stop()
	a.debounce.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Quill Console stopped cleanly")
	return nil
}
