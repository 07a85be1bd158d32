// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "errors"

// ErrUnknownConfigField wraps strict YAML failures on keys flipbook does
// not know, such as a misspelled viewer.zoom.step.
var ErrUnknownConfigField = errors.New("unknown config field")
