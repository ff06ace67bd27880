package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	botpkg "github.com/liuran001/tunebot/bot"
	"github.com/liuran001/tunebot/bot/config"
	"github.com/liuran001/tunebot/bot/db"
	"github.com/liuran001/tunebot/bot/fetcher"
	"github.com/liuran001/tunebot/bot/i18n"
	"github.com/liuran001/tunebot/bot/id3"
	"github.com/liuran001/tunebot/bot/link"
	logpkg "github.com/liuran001/tunebot/bot/logger"
	"github.com/liuran001/tunebot/bot/metrics"
	"github.com/liuran001/tunebot/bot/queue"
	"github.com/liuran001/tunebot/bot/session"
	"github.com/liuran001/tunebot/bot/telegram"
	"github.com/liuran001/tunebot/bot/telegram/handler"
	"github.com/liuran001/tunebot/bot/tracker"
	"github.com/liuran001/tunebot/bot/worker"
	"github.com/liuran001/tunebot/bot/youtube"
	"golang.org/x/sync/errgroup"
)

// App wires all application dependencies.
type App struct {
	Config     *config.Config
	Logger     *logpkg.Logger
	DB         *db.Repository
	Pool       *worker.Pool
	Metrics    *metrics.Metrics
	Telegram   *telegram.Bot
	Tracker    *tracker.Tracker
	Controller *handler.Controller
	Router     *handler.Router
	Build      BuildInfo

	// background outlives single updates; cancelled on Shutdown.
	background context.Context
	stop       context.CancelFunc

	stopPolling   context.CancelFunc
	routerDone    chan struct{}
	metricsServer *http.Server
	shutdownOnce  sync.Once
}

// BuildInfo provides build-time metadata.
type BuildInfo struct {
	RuntimeVer string
	BinVersion string
	CommitSHA  string
	BuildTime  string
	BuildArch  string
}

// New builds the application container.
func New(ctx context.Context, configPath string, build BuildInfo) (*App, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	log, err := logpkg.New(logpkg.Options{
		Level:     conf.GetString("LogLevel"),
		Format:    conf.GetString("LogFormat"),
		AddSource: conf.GetBool("LogSource"),
		Dir:       conf.GetString("LogDir"),
	})
	if err != nil {
		return nil, err
	}

	var repo *db.Repository
	// interface values stay nil when the database is off
	var (
		deliveries botpkg.DeliveryRepository
		settings   botpkg.SettingsRepository
	)
	if databasePath := strings.TrimSpace(conf.GetString("Database")); databasePath != "" {
		gormLogger := logpkg.NewGormLogger(log.Slog(), conf.GetString("LogLevel"))
		repo, err = db.NewSQLiteRepository(databasePath, gormLogger)
		if err != nil {
			_ = log.Close()
			return nil, fmt.Errorf("init db: %w", err)
		}
		deliveries = repo
		settings = repo
	}

	pool := worker.New(conf.GetInt("WorkerPoolSize"))
	m := metrics.New()

	tele, err := telegram.New(conf, log)
	if err != nil {
		if repo != nil {
			_ = repo.Close()
		}
		_ = log.Close()
		return nil, fmt.Errorf("init telegram: %w", err)
	}

	rateLimiter := telegram.NewRateLimiter(conf.GetFloat64("RateLimitPerSecond"), conf.GetInt("RateLimitBurst"))
	rateLimiter.SetLogger(log)
	transport := telegram.NewTransport(tele, rateLimiter, log)

	background, stop := context.WithCancel(context.WithoutCancel(ctx))

	catalog := i18n.NewCatalog(conf.GetString("DefaultLanguage"))
	languages := i18n.NewPreferences(nil, settings, catalog.Fallback(), log)
	msgTracker := tracker.New(transport, nil, log)
	downloads := queue.New()

	fetch := fetcher.New(fetcher.Options{
		AudioFormat:    conf.GetString("AudioFormat"),
		AudioQuality:   conf.GetString("AudioQuality"),
		CookieFile:     conf.GetString("CookieFile"),
		Retries:        conf.GetInt("FetchRetries"),
		RetryDelay:     conf.GetSeconds("FetchRetryDelaySec", 2*time.Second),
		AttemptTimeout: conf.GetSeconds("FetchTimeoutSec", 10*time.Minute),
		Runner:         fetcher.NewYtDlpRunner(conf.GetString("YtDlpPath")),
		Logger:         log,
	})

	processor := &queue.Processor{
		Queue:      downloads,
		Transport:  transport,
		Tracker:    msgTracker,
		Fetcher:    fetch,
		Pool:       pool,
		Tagger:     id3.NewID3Service(log),
		Covers:     id3.NewCoverFetcher(30*time.Second, log),
		Catalog:    catalog,
		Languages:  languages,
		Metrics:    m,
		Logger:     log,
		ScratchDir: conf.GetString("CacheDir"),
	}
	if conf.GetBool("EnableDeliveryCache") {
		processor.Repo = deliveries
	}

	search := youtube.New(youtube.Options{
		APIKey:     conf.GetString("YOUTUBE_API_KEY"),
		MaxResults: conf.GetInt("SearchMaxResults"),
		Timeout:    conf.GetSeconds("SearchTimeoutSec", 15*time.Second),
		Logger:     log,
	})

	controller := &handler.Controller{
		Transport:  transport,
		Sessions:   session.NewManager(nil),
		Queue:      downloads,
		Processor:  processor,
		Tracker:    msgTracker,
		Links:      &link.Classifier{Resolver: link.NewResolver(conf.GetSeconds("RedirectTimeoutSec", 10*time.Second), log)},
		Search:     search,
		Catalog:    catalog,
		Languages:  languages,
		Repo:       deliveries,
		Metrics:    m,
		Logger:     log,
		Background: background,
	}

	router := &handler.Router{
		Start:    handler.MessageHandlerFunc(controller.Start),
		Help:     handler.MessageHandlerFunc(controller.Help),
		Lang:     handler.MessageHandlerFunc(controller.Lang),
		Cancel:   handler.MessageHandlerFunc(controller.Cancel),
		Queue:    handler.MessageHandlerFunc(controller.QueueList),
		Status:   handler.MessageHandlerFunc(controller.Status),
		Text:     handler.MessageHandlerFunc(controller.Text),
		Callback: handler.CallbackHandlerFunc(controller.Callback),
		Logger:   log,
	}

	return &App{
		Config:     conf,
		Logger:     log,
		DB:         repo,
		Pool:       pool,
		Metrics:    m,
		Telegram:   tele,
		Tracker:    msgTracker,
		Controller: controller,
		Router:     router,
		Build:      build,
		background: background,
		stop:       stop,
	}, nil
}

// Start publishes the command menu, starts the metrics endpoint and begins polling.
func (a *App) Start(ctx context.Context) error {
	meCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	me, err := a.Telegram.GetMe(meCtx)
	if err != nil {
		return fmt.Errorf("getMe: %w", err)
	}

	if err := a.Telegram.SetCommands(ctx, handler.Commands); err != nil {
		a.Logger.Warn("set commands failed", "error", err)
	}

	if addr := strings.TrimSpace(a.Config.GetString("MetricsAddr")); addr != "" {
		a.startMetrics(addr)
	}

	pollCtx, stopPolling := context.WithCancel(ctx)
	updates, err := a.Telegram.Updates(pollCtx)
	if err != nil {
		stopPolling()
		return fmt.Errorf("start polling: %w", err)
	}
	a.stopPolling = stopPolling
	a.routerDone = make(chan struct{})
	go func() {
		defer close(a.routerDone)
		a.Router.Run(a.background, a.Telegram.Client(), updates)
	}()

	a.Logger.Info("bot started",
		"username", me.Username,
		"version", a.Build.BinVersion,
		"commit", a.Build.CommitSHA,
		"runtime", a.Build.RuntimeVer,
		"arch", a.Build.BuildArch,
	)
	return nil
}

func (a *App) startMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.Metrics.Handler())
	a.metricsServer = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error("metrics server stopped", "addr", addr, "error", err)
		}
	}()
	a.Logger.Info("metrics endpoint listening", "addr", addr)
}

// Shutdown stops polling, lets in-flight updates finish, abandons the running
// queues and releases resources. It returns the first error.
func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error
	a.shutdownOnce.Do(func() {
		firstErr = a.shutdown(ctx)
	})
	return firstErr
}

func (a *App) shutdown(ctx context.Context) error {
	if a.stopPolling != nil {
		a.stopPolling()
	}
	if a.routerDone != nil {
		select {
		case <-a.routerDone:
		case <-ctx.Done():
		}
	}
	if a.stop != nil {
		a.stop()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		done := make(chan struct{})
		go func() {
			a.Controller.Wait()
			a.Tracker.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-gctx.Done():
			return fmt.Errorf("wait for queue processors: %w", gctx.Err())
		}
	})
	if a.metricsServer != nil {
		g.Go(func() error {
			if err := a.metricsServer.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown metrics server: %w", err)
			}
			return nil
		})
	}
	firstErr := g.Wait()

	if a.Pool != nil {
		if err := a.Pool.Shutdown(ctx); err != nil {
			a.Pool.StopNow()
			if firstErr == nil {
				firstErr = fmt.Errorf("shutdown worker pool: %w", err)
			}
		}
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Error("failed to close database", "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("close database: %w", err)
			}
		}
	}

	if firstErr != nil {
		a.Logger.Error("shutdown incomplete", "error", firstErr)
	} else {
		a.Logger.Info("bot stopped")
	}
	if err := a.Logger.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close logger: %w", err)
	}
	return firstErr
}
