// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// ExampleConfigName is the shipped sample configuration at the module root.
const ExampleConfigName = "config.example.yaml"

// ModuleRoot walks up from this file to the directory holding go.mod.
func ModuleRoot() (string, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("testutil: caller unknown")
	}
	for dir := filepath.Dir(file); ; {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("testutil: no go.mod above " + filepath.Dir(file))
		}
		dir = parent
	}
}

// ExampleConfigPath returns the path of the sample configuration and fails
// the test when it is not present.
func ExampleConfigPath(t testing.TB) string {
	t.Helper()
	root, err := ModuleRoot()
	if err != nil {
		t.Fatalf("module root: %v", err)
	}
	path := filepath.Join(root, ExampleConfigName)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("sample config: %v", err)
	}
	return path
}
