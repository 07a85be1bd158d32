// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config loads the flipbook server configuration.
//
// Precedence is ENV > YAML file > defaults. The YAML file is parsed
// strictly: unknown keys are an error. A ConfigHolder keeps the active
// configuration and reloads it on file change or SIGHUP.
package config
