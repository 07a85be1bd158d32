// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

// Default returns the built-in configuration.
func Default() AppConfig {
	return AppConfig{
		DataDir:  "data",
		LogLevel: "info",
		Server: ServerConfig{
			Listen:          ":8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimit: RateLimit{
				Enabled:  true,
				Requests: 300,
				Window:   time.Minute,
			},
		},
		Storage: StorageConfig{
			Backend: "sqlite",
			Redis:   RedisConfig{Addr: "localhost:6379", KeyPrefix: "flipbook:"},
		},
		Cache: CacheConfig{
			Backend:         "memory",
			TTL:             24 * time.Hour,
			CleanupInterval: 10 * time.Minute,
			Redis:           RedisConfig{Addr: "localhost:6379", KeyPrefix: "flipbook:cache:"},
		},
		Document: DocumentConfig{
			MaxUploadMB:    50,
			ThumbnailWidth: 120,
		},
		Viewer: ViewerConfig{
			BaseURL:          "http://localhost:8080/view",
			WindowRadius:     2,
			AutoFlipInterval: 3 * time.Second,
			MaxViewers:       1000,
			FlushInterval:    30 * time.Second,
			Zoom:             ZoomConfig{Min: 0.5, Max: 2, Step: 0.25, Initial: 1},
			Size:             SizeConfig{AspectRatio: 1.414, MaxWidth: 1200, MaxHeight: 800, Padding: 40},
		},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			ServiceName:  "flipbook",
			SamplingRate: 1.0,
		},
	}
}
