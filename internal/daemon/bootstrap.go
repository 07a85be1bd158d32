// SPDX-License-Identifier: MIT

// Package daemon wires the configured components together and owns the
// server lifecycle.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ManuGH/flipbook/internal/api"
	"github.com/ManuGH/flipbook/internal/api/middleware"
	"github.com/ManuGH/flipbook/internal/cache"
	"github.com/ManuGH/flipbook/internal/config"
	"github.com/ManuGH/flipbook/internal/document"
	"github.com/ManuGH/flipbook/internal/health"
	"github.com/ManuGH/flipbook/internal/log"
	"github.com/ManuGH/flipbook/internal/storage"
	"github.com/ManuGH/flipbook/internal/telemetry"
	"github.com/ManuGH/flipbook/internal/transform"
	"github.com/ManuGH/flipbook/internal/viewer"
	"github.com/rs/zerolog"
)

// capacityThreshold is the viewer usage ratio reported as degraded.
const capacityThreshold = 0.9

// Runtime holds the components built from one configuration.
type Runtime struct {
	Config    config.AppConfig
	Store     storage.Store
	Cache     cache.Cache
	Processor document.Processor
	Viewers   *viewer.Manager
	Health    *health.Manager
	Telemetry *telemetry.Provider
	API       *api.Server

	closers []namedHook
	logger  zerolog.Logger
}

// Bootstrap opens storage, cache and telemetry and builds the viewer
// manager and API server. On error everything opened so far is closed.
func Bootstrap(ctx context.Context, cfg config.AppConfig) (*Runtime, error) {
	rt := &Runtime{Config: cfg, logger: log.WithComponent("daemon")}
	if err := rt.open(ctx); err != nil {
		if cerr := rt.Close(context.WithoutCancel(ctx)); cerr != nil {
			rt.logger.Warn().
				Err(cerr).
				Str(log.FieldEvent, "daemon.bootstrap_cleanup_failed").
				Msg("failed to release partially opened runtime")
		}
		return nil, err
	}
	return rt, nil
}

func (rt *Runtime) open(ctx context.Context) error {
	cfg := rt.Config
	var err error

	if err := health.PerformStartupChecks(ctx, cfg); err != nil {
		return fmt.Errorf("startup checks: %w", err)
	}

	rt.Telemetry, err = telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: cfg.Version,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	rt.addCloser("telemetry", rt.Telemetry.Shutdown)

	rt.Store, err = storage.Open(ctx, storage.Config{
		Backend: cfg.Storage.Backend,
		Dir:     cfg.DataDir,
		Redis:   storage.RedisConfig(cfg.Storage.Redis),
	})
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	rt.addCloser("storage", func(context.Context) error { return rt.Store.Close() })

	rt.Cache, err = openCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	rt.addCloser("cache", func(context.Context) error { return rt.Cache.Close() })

	rt.Processor = document.NewCachedProcessor(
		document.NewPipeline(cfg.Document.MaxUploadMB), rt.Cache, cfg.Cache.TTL)

	rt.Viewers = viewer.NewManager(viewerOptions(cfg, rt.Store))
	rt.addCloser("viewers", func(ctx context.Context) error {
		rt.Viewers.CloseAll(ctx)
		return nil
	})

	rt.Health = health.NewManager(cfg.Version)
	rt.registerChecks()

	rt.API = api.New(api.Config{
		MaxUploadMB:    cfg.Document.MaxUploadMB,
		ThumbnailWidth: cfg.Document.ThumbnailWidth,
		Stack:          stackConfig(cfg),
	}, api.Deps{
		Viewers:   rt.Viewers,
		Processor: rt.Processor,
		Health:    rt.Health,
	})

	rt.logger.Info().
		Str(log.FieldEvent, "daemon.bootstrapped").
		Str(log.FieldBackend, cfg.Storage.Backend).
		Str("cache", cfg.Cache.Backend).
		Bool("telemetry", cfg.Telemetry.Enabled).
		Msg("runtime ready")
	return nil
}

func openCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "", "none":
		return cache.NewNoOpCache(), nil
	case "memory":
		return cache.NewMemoryCache(cfg.CleanupInterval, nil), nil
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig(cfg.Redis))
	default:
		return nil, fmt.Errorf("unknown cache backend: %s (supported: none, memory, redis)", cfg.Backend)
	}
}

func viewerOptions(cfg config.AppConfig, store storage.Store) viewer.ManagerOptions {
	vc := cfg.Viewer
	return viewer.ManagerOptions{
		Viewer: viewer.Options{
			Zoom: transform.ZoomOptions{
				Min:     vc.Zoom.Min,
				Max:     vc.Zoom.Max,
				Step:    vc.Zoom.Step,
				Initial: vc.Zoom.Initial,
			},
			Size: transform.SizeOptions{
				AspectRatio: vc.Size.AspectRatio,
				MaxWidth:    vc.Size.MaxWidth,
				MaxHeight:   vc.Size.MaxHeight,
				Padding:     vc.Size.Padding,
			},
			AutoFlipInterval: vc.AutoFlipInterval,
			WindowRadius:     vc.WindowRadius,
			SampleHotspots:   vc.SampleHotspots,
		},
		Store:           store,
		BaseURL:         vc.BaseURL,
		SystemClipboard: vc.SystemClipboard,
		MaxViewers:      vc.MaxViewers,
		FlushInterval:   vc.FlushInterval,
	}
}

func stackConfig(cfg config.AppConfig) middleware.StackConfig {
	sc := middleware.StackConfig{
		EnableCORS:            true,
		AllowedOrigins:        cfg.Server.CORSOrigins,
		EnableSecurityHeaders: true,
		CSP:                   middleware.DefaultCSP,
		EnableMetrics:         true,
		EnableLogging:         true,
		EnableRateLimit:       cfg.Server.RateLimit.Enabled,
		RateLimitRequests:     cfg.Server.RateLimit.Requests,
		RateLimitWindow:       cfg.Server.RateLimit.Window,
	}
	if cfg.Telemetry.Enabled {
		sc.TracingService = cfg.Telemetry.ServiceName
	}
	return sc
}

func (rt *Runtime) registerChecks() {
	cfg := rt.Config
	if p, ok := rt.Store.(storage.Pinger); ok {
		rt.Health.RegisterChecker(health.NewPingChecker("storage", p.Ping))
	}
	if rc, ok := rt.Cache.(*cache.RedisCache); ok {
		rt.Health.RegisterChecker(health.NewPingChecker("cache", rc.HealthCheck))
	}
	if cfg.Storage.Backend == storage.BackendSQLite {
		rt.Health.RegisterChecker(health.NewIntegrityChecker(filepath.Join(cfg.DataDir, "flipbook.sqlite")))
	}
	rt.Health.RegisterChecker(health.NewDirChecker("data_dir", cfg.DataDir))
	rt.Health.RegisterChecker(health.NewCapacityChecker("viewers", func() (int, int) {
		return rt.Viewers.Len(), cfg.Viewer.MaxViewers
	}, capacityThreshold))
	rt.Health.RegisterChecker(health.NewBacklogChecker("analytics_backlog", rt.Viewers.Pending))
}

func (rt *Runtime) addCloser(name string, fn ShutdownHook) {
	rt.closers = append(rt.closers, namedHook{name: name, hook: fn})
}

// RegisterShutdownHooks hands the runtime's resources to m so they are
// released after the server stops.
func (rt *Runtime) RegisterShutdownHooks(m Manager) {
	for _, c := range rt.closers {
		m.RegisterShutdownHook(c.name, c.hook)
	}
	rt.closers = nil
}

// Close releases every resource in reverse order of opening. It is a
// no-op after RegisterShutdownHooks.
func (rt *Runtime) Close(ctx context.Context) error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		c := rt.closers[i]
		if err := c.hook(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", c.name, err))
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}
