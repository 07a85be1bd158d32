// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"time"

	"github.com/ManuGH/flipbook/internal/validate"
)

// Validate checks cfg using the centralized validation package.
// All problems are collected and returned as a single error.
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.Directory("dataDir", cfg.DataDir, false)
	v.Custom("logLevel", cfg.LogLevel, func(value any) error {
		if _, err := validate.ParseLogLevel(value.(string)); err != nil {
			return fmt.Errorf("invalid log level %q", value)
		}
		return nil
	})

	validateServer(v, cfg.Server)

	v.OneOf("storage.backend", cfg.Storage.Backend, []string{"memory", "file", "sqlite", "badger", "redis"})
	if cfg.Storage.Backend == "redis" {
		v.ListenAddr("storage.redis.addr", cfg.Storage.Redis.Addr)
		v.NonNegative("storage.redis.db", cfg.Storage.Redis.DB)
	}

	v.OneOf("cache.backend", cfg.Cache.Backend, []string{"none", "memory", "redis"})
	if cfg.Cache.Backend != "none" {
		v.MinDuration("cache.ttl", cfg.Cache.TTL, time.Second)
	}
	if cfg.Cache.Backend == "memory" {
		v.MinDuration("cache.cleanupInterval", cfg.Cache.CleanupInterval, time.Second)
	}
	if cfg.Cache.Backend == "redis" {
		v.ListenAddr("cache.redis.addr", cfg.Cache.Redis.Addr)
		v.NonNegative("cache.redis.db", cfg.Cache.Redis.DB)
	}

	v.Range("document.maxUploadMB", cfg.Document.MaxUploadMB, 1, 1024)
	v.Range("document.thumbnailWidth", cfg.Document.ThumbnailWidth, 16, 1024)

	validateViewer(v, cfg.Viewer)

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, []string{"grpc", "http"})
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.NotEmpty("telemetry.serviceName", cfg.Telemetry.ServiceName)
		v.FloatRange("telemetry.samplingRate", cfg.Telemetry.SamplingRate, 0, 1)
	}

	return v.Err()
}

func validateServer(v *validate.Validator, s ServerConfig) {
	v.ListenAddr("server.listen", s.Listen)
	v.MinDuration("server.readTimeout", s.ReadTimeout, time.Second)
	v.MinDuration("server.writeTimeout", s.WriteTimeout, time.Second)
	v.MinDuration("server.idleTimeout", s.IdleTimeout, time.Second)
	v.MinDuration("server.shutdownTimeout", s.ShutdownTimeout, time.Second)
	if s.RateLimit.Enabled {
		v.Positive("server.rateLimit.requests", s.RateLimit.Requests)
		v.MinDuration("server.rateLimit.window", s.RateLimit.Window, time.Second)
	}
}

func validateViewer(v *validate.Validator, vc ViewerConfig) {
	v.URL("viewer.baseUrl", vc.BaseURL, []string{"http", "https"})
	v.NonNegative("viewer.windowRadius", vc.WindowRadius)
	v.MinDuration("viewer.autoFlipInterval", vc.AutoFlipInterval, 100*time.Millisecond)
	v.Positive("viewer.maxViewers", vc.MaxViewers)
	v.MinDuration("viewer.flushInterval", vc.FlushInterval, time.Second)

	z := vc.Zoom
	if z.Min <= 0 {
		v.AddError("viewer.zoom.min", "minimum zoom must be positive", z.Min)
	}
	if z.Max < z.Min {
		v.AddError("viewer.zoom.max", "maximum zoom must not be below minimum", z.Max)
	}
	if z.Step <= 0 {
		v.AddError("viewer.zoom.step", "zoom step must be positive", z.Step)
	}
	if z.Initial < z.Min || z.Initial > z.Max {
		v.AddError("viewer.zoom.initial", "initial zoom must be within [min, max]", z.Initial)
	}

	sz := vc.Size
	if sz.AspectRatio <= 0 {
		v.AddError("viewer.size.aspectRatio", "aspect ratio must be positive", sz.AspectRatio)
	}
	if sz.MaxWidth <= 0 {
		v.AddError("viewer.size.maxWidth", "maximum width must be positive", sz.MaxWidth)
	}
	if sz.MaxHeight <= 0 {
		v.AddError("viewer.size.maxHeight", "maximum height must be positive", sz.MaxHeight)
	}
	if sz.Padding < 0 {
		v.AddError("viewer.size.padding", "padding cannot be negative", sz.Padding)
	}
}
