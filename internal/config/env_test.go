// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseString(t *testing.T) {
	assert.Equal(t, "def", ParseString("FLIPBOOK_TEST_STR", "def"))

	t.Setenv("FLIPBOOK_TEST_STR", "")
	assert.Equal(t, "def", ParseString("FLIPBOOK_TEST_STR", "def"), "empty falls back")

	t.Setenv("FLIPBOOK_TEST_STR", "value")
	assert.Equal(t, "value", ParseString("FLIPBOOK_TEST_STR", "def"))

	t.Setenv("FLIPBOOK_TEST_PASSWORD", "secret")
	assert.Equal(t, "secret", ParseString("FLIPBOOK_TEST_PASSWORD", ""))
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		name string
		env  string
		set  bool
		want int
	}{
		{"unset", "", false, 7},
		{"valid", "42", true, 42},
		{"whitespace", " 13 ", true, 13},
		{"invalid", "abc", true, 7},
		{"empty", "", true, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				t.Setenv("FLIPBOOK_TEST_INT", tt.env)
			}
			assert.Equal(t, tt.want, ParseInt("FLIPBOOK_TEST_INT", 7))
		})
	}
}

func TestParseBool(t *testing.T) {
	for env, want := range map[string]bool{
		"true": true, "TRUE": true, "1": true, "yes": true,
		"false": false, "0": false, "no": false,
	} {
		t.Run(env, func(t *testing.T) {
			t.Setenv("FLIPBOOK_TEST_BOOL", env)
			assert.Equal(t, want, ParseBool("FLIPBOOK_TEST_BOOL", !want))
		})
	}
	t.Run("invalid", func(t *testing.T) {
		t.Setenv("FLIPBOOK_TEST_BOOL", "maybe")
		assert.True(t, ParseBool("FLIPBOOK_TEST_BOOL", true))
	})
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, time.Second, ParseDuration("FLIPBOOK_TEST_DUR", time.Second))

	t.Setenv("FLIPBOOK_TEST_DUR", "250ms")
	assert.Equal(t, 250*time.Millisecond, ParseDuration("FLIPBOOK_TEST_DUR", time.Second))

	t.Setenv("FLIPBOOK_TEST_DUR", "soon")
	assert.Equal(t, time.Second, ParseDuration("FLIPBOOK_TEST_DUR", time.Second))
}

func TestParseFloat(t *testing.T) {
	t.Setenv("FLIPBOOK_TEST_FLOAT", "0.75")
	assert.InDelta(t, 0.75, ParseFloat("FLIPBOOK_TEST_FLOAT", 1), 1e-9)

	t.Setenv("FLIPBOOK_TEST_FLOAT", "x")
	assert.InDelta(t, 1.0, ParseFloat("FLIPBOOK_TEST_FLOAT", 1), 1e-9)
}

func TestParseStringList(t *testing.T) {
	def := []string{"*"}
	assert.Equal(t, def, ParseStringList("FLIPBOOK_TEST_LIST", def))

	t.Setenv("FLIPBOOK_TEST_LIST", " https://a.example , ,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, ParseStringList("FLIPBOOK_TEST_LIST", def))
}
