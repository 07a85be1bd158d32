// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

// mergeEnvConfig overrides cfg with FLIPBOOK_* variables. Every key read is
// recorded in ConsumedEnvKeys.
func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.DataDir = l.envString("FLIPBOOK_DATA_DIR", cfg.DataDir)
	cfg.LogLevel = l.envString("FLIPBOOK_LOG_LEVEL", cfg.LogLevel)

	s := &cfg.Server
	s.Listen = l.envString("FLIPBOOK_LISTEN", s.Listen)
	s.ReadTimeout = l.envDuration("FLIPBOOK_READ_TIMEOUT", s.ReadTimeout)
	s.WriteTimeout = l.envDuration("FLIPBOOK_WRITE_TIMEOUT", s.WriteTimeout)
	s.IdleTimeout = l.envDuration("FLIPBOOK_IDLE_TIMEOUT", s.IdleTimeout)
	s.ShutdownTimeout = l.envDuration("FLIPBOOK_SHUTDOWN_TIMEOUT", s.ShutdownTimeout)
	s.CORSOrigins = l.envStringList("FLIPBOOK_CORS_ORIGINS", s.CORSOrigins)
	s.RateLimit.Enabled = l.envBool("FLIPBOOK_RATELIMIT_ENABLED", s.RateLimit.Enabled)
	s.RateLimit.Requests = l.envInt("FLIPBOOK_RATELIMIT_REQUESTS", s.RateLimit.Requests)
	s.RateLimit.Window = l.envDuration("FLIPBOOK_RATELIMIT_WINDOW", s.RateLimit.Window)

	st := &cfg.Storage
	st.Backend = l.envString("FLIPBOOK_STORAGE_BACKEND", st.Backend)
	l.mergeRedisEnv("FLIPBOOK_STORAGE_REDIS_", &st.Redis)

	c := &cfg.Cache
	c.Backend = l.envString("FLIPBOOK_CACHE_BACKEND", c.Backend)
	c.TTL = l.envDuration("FLIPBOOK_CACHE_TTL", c.TTL)
	c.CleanupInterval = l.envDuration("FLIPBOOK_CACHE_CLEANUP_INTERVAL", c.CleanupInterval)
	l.mergeRedisEnv("FLIPBOOK_CACHE_REDIS_", &c.Redis)

	d := &cfg.Document
	d.MaxUploadMB = l.envInt("FLIPBOOK_MAX_UPLOAD_MB", d.MaxUploadMB)
	d.ThumbnailWidth = l.envInt("FLIPBOOK_THUMBNAIL_WIDTH", d.ThumbnailWidth)

	v := &cfg.Viewer
	v.BaseURL = l.envString("FLIPBOOK_BASE_URL", v.BaseURL)
	v.WindowRadius = l.envInt("FLIPBOOK_WINDOW_RADIUS", v.WindowRadius)
	v.AutoFlipInterval = l.envDuration("FLIPBOOK_AUTOFLIP_INTERVAL", v.AutoFlipInterval)
	v.MaxViewers = l.envInt("FLIPBOOK_MAX_VIEWERS", v.MaxViewers)
	v.FlushInterval = l.envDuration("FLIPBOOK_FLUSH_INTERVAL", v.FlushInterval)
	v.SampleHotspots = l.envBool("FLIPBOOK_SAMPLE_HOTSPOTS", v.SampleHotspots)
	v.SystemClipboard = l.envBool("FLIPBOOK_SYSTEM_CLIPBOARD", v.SystemClipboard)
	v.Zoom.Min = l.envFloat("FLIPBOOK_ZOOM_MIN", v.Zoom.Min)
	v.Zoom.Max = l.envFloat("FLIPBOOK_ZOOM_MAX", v.Zoom.Max)
	v.Zoom.Step = l.envFloat("FLIPBOOK_ZOOM_STEP", v.Zoom.Step)
	v.Zoom.Initial = l.envFloat("FLIPBOOK_ZOOM_INITIAL", v.Zoom.Initial)

	t := &cfg.Telemetry
	t.Enabled = l.envBool("FLIPBOOK_TELEMETRY_ENABLED", t.Enabled)
	t.Exporter = l.envString("FLIPBOOK_TELEMETRY_EXPORTER", t.Exporter)
	t.Endpoint = l.envString("FLIPBOOK_TELEMETRY_ENDPOINT", t.Endpoint)
	t.ServiceName = l.envString("FLIPBOOK_TELEMETRY_SERVICE_NAME", t.ServiceName)
	t.SamplingRate = l.envFloat("FLIPBOOK_TELEMETRY_SAMPLING_RATE", t.SamplingRate)
}

func (l *Loader) mergeRedisEnv(prefix string, r *RedisConfig) {
	r.Addr = l.envString(prefix+"ADDR", r.Addr)
	r.Password = l.envString(prefix+"PASSWORD", r.Password)
	r.DB = l.envInt(prefix+"DB", r.DB)
	r.KeyPrefix = l.envString(prefix+"KEY_PREFIX", r.KeyPrefix)
}
