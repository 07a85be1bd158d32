// SPDX-License-Identifier: MIT
package validate

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func check(t *testing.T, v *Validator, wantErr bool) {
	t.Helper()
	if wantErr && v.IsValid() {
		t.Errorf("expected error, got none")
	}
	if !wantErr && !v.IsValid() {
		t.Errorf("unexpected error: %v", v.Err())
	}
}

func TestValidator_URL(t *testing.T) {
	tests := []struct {
		name           string
		value          string
		allowedSchemes []string
		wantErr        bool
	}{
		{"valid http", "http://example.com", []string{"http", "https"}, false},
		{"valid https", "https://example.com", []string{"http", "https"}, false},
		{"empty url", "", []string{"http"}, true},
		{"no host", "http://", []string{"http"}, true},
		{"invalid scheme", "ftp://example.com", []string{"http", "https"}, true},
		{"no scheme", "example.com", []string{"http"}, true},
		{"with port", "http://example.com:8080", []string{"http"}, false},
		{"with path", "http://example.com/view", []string{"http"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.URL("testURL", tt.value, tt.allowedSchemes)
			check(t, v, tt.wantErr)
		})
	}
}

func TestValidator_ListenAddr(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{"port only", ":8080", false},
		{"host and port", "127.0.0.1:8080", false},
		{"ephemeral", ":0", false},
		{"ipv6", "[::1]:9000", false},
		{"missing port", "localhost", true},
		{"port out of range", ":70000", true},
		{"named port", ":http", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.ListenAddr("listen", tt.addr)
			check(t, v, tt.wantErr)
		})
	}
}

func TestValidator_Range(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		min     int
		max     int
		wantErr bool
	}{
		{"in range", 5, 1, 10, false},
		{"at min", 1, 1, 10, false},
		{"at max", 10, 1, 10, false},
		{"below min", 0, 1, 10, true},
		{"above max", 11, 1, 10, true},
		{"negative range", -5, -10, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Range("testValue", tt.value, tt.min, tt.max)
			check(t, v, tt.wantErr)
		})
	}
}

func TestValidator_FloatRange(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"inside", 1.25, false},
		{"at min", 0.1, false},
		{"at max", 10, false},
		{"below", 0.05, true},
		{"above", 10.5, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.FloatRange("zoom", tt.value, 0.1, 10)
			check(t, v, tt.wantErr)
		})
	}
}

func TestValidator_MinDuration(t *testing.T) {
	v := New()
	v.MinDuration("interval", 500*time.Millisecond, 100*time.Millisecond)
	check(t, v, false)

	v = New()
	v.MinDuration("interval", 0, 100*time.Millisecond)
	check(t, v, true)
}

func TestValidator_Directory(t *testing.T) {
	tmpDir := t.TempDir()
	nonExistentDir := filepath.Join(tmpDir, "nonexistent")
	file := filepath.Join(tmpDir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		path      string
		mustExist bool
		wantErr   bool
	}{
		{"existing dir", tmpDir, true, false},
		{"existing dir no mustExist", tmpDir, false, false},
		{"nonexistent mustExist", nonExistentDir, true, true},
		{"nonexistent create", filepath.Join(tmpDir, "auto", "create", "nested"), false, false},
		{"empty path", "", false, true},
		{"path traversal", "../etc", false, true},
		{"regular file", file, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Directory("testDir", tt.path, tt.mustExist)
			check(t, v, tt.wantErr)
		})
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "auto", "create", "nested")); err != nil {
		t.Errorf("directory was not created: %v", err)
	}
}

func TestValidator_NotEmpty(t *testing.T) {
	for _, value := range []string{"", "   ", "\t", "\n"} {
		v := New()
		v.NotEmpty("testField", value)
		check(t, v, true)
	}
	v := New()
	v.NotEmpty("testField", "hello")
	check(t, v, false)
}

func TestValidator_OneOf(t *testing.T) {
	allowed := []string{"memory", "redis", "none"}

	v := New()
	v.OneOf("backend", "redis", allowed)
	check(t, v, false)

	v = New()
	v.OneOf("backend", "Redis", allowed)
	check(t, v, true)
}

func TestValidator_PositiveAndNonNegative(t *testing.T) {
	v := New()
	v.Positive("a", 1)
	v.NonNegative("b", 0)
	check(t, v, false)

	v = New()
	v.Positive("a", 0)
	v.NonNegative("b", -1)
	if got := len(v.Errors()); got != 2 {
		t.Errorf("expected 2 errors, got %d", got)
	}
}

func TestValidator_Custom(t *testing.T) {
	v := New()
	v.Custom("even", 3, func(x any) error {
		if x.(int)%2 != 0 {
			return errors.New("must be even")
		}
		return nil
	})
	check(t, v, true)
	if msg := v.Errors()[0].Message; msg != "must be even" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestValidator_MultipleErrors(t *testing.T) {
	v := New()
	v.ListenAddr("listen", "nope")
	v.URL("url", "", []string{"http"})
	v.NotEmpty("name", "")

	if v.IsValid() {
		t.Fatal("expected errors, got none")
	}
	if got := len(v.Errors()); got != 3 {
		t.Errorf("expected 3 errors, got %d", got)
	}

	err := v.Err()
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
	var ve ValidationError
	if !errors.As(err, &ve) || len(ve.Errors()) != 3 {
		t.Errorf("expected ValidationError with 3 entries, got %#v", err)
	}
	for _, field := range []string{"listen", "url", "name"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error message should mention %q", field)
		}
	}
}

func TestValidator_ErrIsNilWhenValid(t *testing.T) {
	if err := New().Err(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestLogLevel_IsValid(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  bool
	}{
		{LogLevelTrace, true},
		{LogLevelDebug, true},
		{LogLevelInfo, true},
		{LogLevelWarn, true},
		{LogLevelError, true},
		{LogLevel("invalid"), false},
		{LogLevel(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			if got := tt.level.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	got, err := ParseLogLevel("warn")
	if err != nil || got != LogLevelWarn {
		t.Errorf("ParseLogLevel(warn) = %v, %v", got, err)
	}
	if _, err := ParseLogLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}
