package server

import (
	"context"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	httpapi "github.com/OpenVoiceOS/ovos-app-launcher/internal/api/http"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/api/middleware"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/bus"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/activity"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/alias"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/catalog"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/launch"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/match"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/process"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/resolve"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/session"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/window"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/infrastructure/config"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/infrastructure/logging"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/infrastructure/monitoring"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/infrastructure/watch"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/shared/paths"
)

// Server wires the launcher engine, the bus adapter, and the status API.
type Server struct {
	router  *gin.Engine
	bus     *bus.Client
	watcher *watch.Watcher
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics

	cancel context.CancelFunc
}

// NewServer assembles the daemon from configuration.
func NewServer(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing application launcher",
		zap.String("port", cfg.Server.Port),
		zap.String("bus_url", cfg.Bus.URL),
		zap.Float64("thresh", cfg.Settings.Thresh),
	)

	metrics := monitoring.NewMetrics()

	// Catalog and alias index.
	cat := catalog.New(paths.ManifestDirs(), runtime.GOOS, catalog.Filters{
		Blocklist:         cfg.Settings.Blocklist,
		SkipCategories:    cfg.Settings.SkipCategories,
		TargetCategories:  cfg.Settings.TargetCategories,
		SkipKeywords:      cfg.Settings.SkipKeywords,
		TargetKeywords:    cfg.Settings.TargetKeywords,
		RequireIcon:       cfg.Settings.RequireIcon,
		RequireCategories: cfg.Settings.RequireCategories,
		ExtraLangs:        cfg.Settings.ExtraLangs,
	}, logger)

	index := alias.New(cat, alias.Options{
		UserAliases:  cfg.Settings.Aliases,
		UserCommands: cfg.Settings.UserCommands,
	}, logger)

	matcher := match.New(match.Levenshtein(), cfg.Settings.Thresh)
	resolver := resolve.New(index, matcher, logger)

	// Platform controllers.
	spawner := launch.New(logger)
	procs := process.New(resolver, process.SystemLister{}, logger)
	windows := window.Detect(resolver, process.SystemLister{}, cfg.Settings.DisableWindowManager, logger)

	activityLog := activity.NewLog(0)

	// Bus adapter. With the bus disabled the orchestrator runs with a nop
	// prompter: launches proceed, confirmations resolve to "no answer".
	var (
		busClient *bus.Client
		prompter  session.Prompter = session.NopPrompter{}
	)
	if cfg.Bus.Enabled {
		busClient = bus.NewClient(cfg.Bus.URL, logger).WithMetrics(metrics)
		prompter = busClient
	}

	orchestrator := session.New(
		resolver,
		spawner,
		procs,
		windows,
		prompter,
		activityLog,
		cfg.Settings.TerminateAll,
		logger,
	).WithMetrics(metrics)

	if busClient != nil {
		busClient.SetEngine(orchestrator)
	}

	// Manifest directory watcher keeps the index fresh without a restart.
	var watcher *watch.Watcher
	if cfg.Watcher.Enabled {
		debounce := time.Duration(cfg.Watcher.DebounceMS) * time.Millisecond
		w, err := watch.New(paths.ManifestDirs(), debounce, func() {
			index.Invalidate()
			if count := len(index.Aliases()); count > 0 {
				metrics.RecordRebuild(count)
			}
		}, logger)
		if err != nil {
			logger.Warn("Manifest watcher unavailable", zap.Error(err))
		} else {
			watcher = w
		}
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS())
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit))
	}

	handlers := httpapi.NewHandlers(cat, resolver, orchestrator, activityLog, cfg.Settings)

	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/v1")
	v1.GET("/apps", handlers.ListApps)
	v1.GET("/apps/:id/icon", handlers.AppIcon)
	v1.GET("/resolve", handlers.Resolve)
	v1.POST("/launch", handlers.Launch)
	v1.POST("/close", handlers.Close)
	v1.POST("/refresh", handlers.Refresh)
	v1.GET("/activity", handlers.Activity)
	v1.GET("/diag", handlers.Diagnostics)

	logger.Info("Launcher initialized", zap.Int("aliases", index.Len()))

	return &Server{
		router:  router,
		bus:     busClient,
		watcher: watcher,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

// Run starts the bus adapter, the watcher, and the HTTP server. It blocks
// until the HTTP server stops.
func (s *Server) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	if s.bus != nil {
		go s.bus.Run(ctx)
	}
	if s.watcher != nil {
		s.watcher.Start()
	}

	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting status API", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close shuts down the background components.
func (s *Server) Close() error {
	s.logger.Info("Shutting down launcher...")

	if s.cancel != nil {
		s.cancel()
	}
	if s.bus != nil {
		s.bus.Close()
	}
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			s.logger.Warn("Failed to close watcher", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
