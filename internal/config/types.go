// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

// AppConfig is the complete server configuration. The yaml tags define the
// file format.
type AppConfig struct {
	// Version is set from the binary, never from the file.
	Version string `yaml:"-"`

	DataDir  string `yaml:"dataDir"`
	LogLevel string `yaml:"logLevel"`

	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Cache     CacheConfig     `yaml:"cache"`
	Document  DocumentConfig  `yaml:"document"`
	Viewer    ViewerConfig    `yaml:"viewer"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Listen          string        `yaml:"listen"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	CORSOrigins     []string      `yaml:"corsOrigins"`
	RateLimit       RateLimit     `yaml:"rateLimit"`
}

// RateLimit limits requests per client IP.
type RateLimit struct {
	Enabled  bool          `yaml:"enabled"`
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// RedisConfig is shared by the redis storage and cache backends.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"keyPrefix"`
}

// StorageConfig selects the durable store for analytics and hotspots.
type StorageConfig struct {
	Backend string      `yaml:"backend"` // memory|file|sqlite|badger|redis
	Redis   RedisConfig `yaml:"redis"`
}

// CacheConfig configures the converted-document cache.
type CacheConfig struct {
	Backend         string        `yaml:"backend"` // none|memory|redis
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanupInterval"`
	Redis           RedisConfig   `yaml:"redis"`
}

// DocumentConfig configures document conversion.
type DocumentConfig struct {
	MaxUploadMB    int `yaml:"maxUploadMB"`
	ThumbnailWidth int `yaml:"thumbnailWidth"`
}

// ZoomConfig bounds the zoom factor.
type ZoomConfig struct {
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Step    float64 `yaml:"step"`
	Initial float64 `yaml:"initial"`
}

// SizeConfig configures responsive page sizing.
type SizeConfig struct {
	AspectRatio float64 `yaml:"aspectRatio"`
	MaxWidth    int     `yaml:"maxWidth"`
	MaxHeight   int     `yaml:"maxHeight"`
	Padding     int     `yaml:"padding"`
}

// ViewerConfig configures viewer instances.
type ViewerConfig struct {
	BaseURL          string        `yaml:"baseUrl"`
	WindowRadius     int           `yaml:"windowRadius"`
	AutoFlipInterval time.Duration `yaml:"autoFlipInterval"`
	MaxViewers       int           `yaml:"maxViewers"`
	FlushInterval    time.Duration `yaml:"flushInterval"`
	SampleHotspots   bool          `yaml:"sampleHotspots"`
	SystemClipboard  bool          `yaml:"systemClipboard"`
	Zoom             ZoomConfig    `yaml:"zoom"`
	Size             SizeConfig    `yaml:"size"`
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"` // grpc|http
	Endpoint     string  `yaml:"endpoint"`
	ServiceName  string  `yaml:"serviceName"`
	SamplingRate float64 `yaml:"samplingRate"`
}
