// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

// Deps is what the Manager needs from Bootstrap: a logger and the
// flipbook API router built over the opened Runtime.
type Deps struct {
	Logger     zerolog.Logger
	APIHandler http.Handler
}

// Validate reports every missing dependency at once.
func (d *Deps) Validate() error {
	var errs []error
	if d.Logger.GetLevel() == zerolog.Disabled {
		errs = append(errs, ErrMissingLogger)
	}
	if d.APIHandler == nil {
		errs = append(errs, ErrMissingAPIHandler)
	}
	return errors.Join(errs...)
}
