// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ManuGH/flipbook/internal/persistence/sqlite"
)

// PingChecker reports unhealthy when ping fails. It backs the storage and
// redis cache checks.
type PingChecker struct {
	name string
	ping func(ctx context.Context) error
}

// NewPingChecker creates a checker around ping. A nil ping reports the
// component as not configured.
func NewPingChecker(name string, ping func(ctx context.Context) error) *PingChecker {
	return &PingChecker{name: name, ping: ping}
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) Check(ctx context.Context) CheckResult {
	if c.ping == nil {
		return CheckResult{Status: StatusHealthy, Message: "not configured (optional)"}
	}
	if err := c.ping(ctx); err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	return CheckResult{Status: StatusHealthy, Message: "reachable"}
}

// CapacityChecker reports degraded once usage reaches the threshold
// fraction of the limit. It never reports unhealthy; a full server still
// serves existing viewers.
type CapacityChecker struct {
	name      string
	usage     func() (used, limit int)
	threshold float64
}

// NewCapacityChecker creates a capacity checker. threshold outside (0, 1]
// defaults to 0.9.
func NewCapacityChecker(name string, usage func() (used, limit int), threshold float64) *CapacityChecker {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.9
	}
	return &CapacityChecker{name: name, usage: usage, threshold: threshold}
}

func (c *CapacityChecker) Name() string { return c.name }

func (c *CapacityChecker) Check(context.Context) CheckResult {
	used, limit := c.usage()
	msg := fmt.Sprintf("%d/%d in use", used, limit)
	if limit > 0 && float64(used) >= c.threshold*float64(limit) {
		return CheckResult{Status: StatusDegraded, Message: msg}
	}
	return CheckResult{Status: StatusHealthy, Message: msg}
}

// BacklogChecker reports degraded while work is pending, for example
// analytics sessions that could not be written yet.
type BacklogChecker struct {
	name    string
	pending func() int
}

func NewBacklogChecker(name string, pending func() int) *BacklogChecker {
	return &BacklogChecker{name: name, pending: pending}
}

func (c *BacklogChecker) Name() string { return c.name }

func (c *BacklogChecker) Check(context.Context) CheckResult {
	if n := c.pending(); n > 0 {
		return CheckResult{Status: StatusDegraded, Message: fmt.Sprintf("%d pending", n)}
	}
	return CheckResult{Status: StatusHealthy, Message: "nothing pending"}
}

// DirChecker verifies a directory exists and is writable.
type DirChecker struct {
	name string
	path string
}

func NewDirChecker(name, path string) *DirChecker {
	return &DirChecker{name: name, path: path}
}

func (c *DirChecker) Name() string { return c.name }

func (c *DirChecker) Check(context.Context) CheckResult {
	if c.path == "" {
		return CheckResult{Status: StatusHealthy, Message: "not configured (optional)"}
	}
	if err := checkWritableDir(c.path); err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error(), Message: c.path}
	}
	return CheckResult{Status: StatusHealthy, Message: "directory writable"}
}

func checkWritableDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", path)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	// Check write permissions by creating a temp file
	f, err := os.CreateTemp(path, ".write_test_*")
	if err != nil {
		return fmt.Errorf("directory is not writable: %s (error: %v)", path, err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(filepath.Clean(name))
	return nil
}

// IntegrityChecker runs a quick sqlite integrity check against path.
type IntegrityChecker struct {
	path string
}

func NewIntegrityChecker(path string) *IntegrityChecker {
	return &IntegrityChecker{path: path}
}

func (c *IntegrityChecker) Name() string { return "sqlite_integrity" }

func (c *IntegrityChecker) Check(context.Context) CheckResult {
	if _, err := os.Stat(c.path); err != nil {
		if os.IsNotExist(err) {
			return CheckResult{Status: StatusHealthy, Message: "database not created yet"}
		}
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	issues, err := sqlite.VerifyIntegrity(c.path, "quick")
	if err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	if len(issues) > 0 {
		return CheckResult{Status: StatusUnhealthy, Error: strings.Join(issues, "; ")}
	}
	return CheckResult{Status: StatusHealthy, Message: "ok"}
}
