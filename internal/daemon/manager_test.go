// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/ManuGH/flipbook/internal/config"
	"github.com/ManuGH/flipbook/internal/log"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		Listen:          "127.0.0.1:0",
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		IdleTimeout:     10 * time.Second,
		ShutdownTimeout: 2 * time.Second,
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

func waitForAddr(t *testing.T, m *manager) string {
	t.Helper()
	var addr string
	require.Eventually(t, func() bool {
		addr = m.Addr()
		return addr != ""
	}, 2*time.Second, 10*time.Millisecond)
	return addr
}

func TestNewManager_ValidDeps(t *testing.T) {
	mgr, err := NewManager(testServerConfig(), Deps{
		Logger:     log.WithComponent("test"),
		APIHandler: http.NotFoundHandler(),
	})
	require.NoError(t, err)
	require.NotNil(t, mgr)
}

func TestNewManager_MissingLogger(t *testing.T) {
	_, err := NewManager(testServerConfig(), Deps{
		Logger:     zerolog.Nop(),
		APIHandler: http.NotFoundHandler(),
	})
	require.ErrorIs(t, err, ErrMissingLogger)
}

func TestNewManager_MissingAPIHandler(t *testing.T) {
	_, err := NewManager(testServerConfig(), Deps{Logger: log.WithComponent("test")})
	require.ErrorIs(t, err, ErrMissingAPIHandler)
}

func TestNewManager_ReportsAllMissingDeps(t *testing.T) {
	_, err := NewManager(testServerConfig(), Deps{Logger: zerolog.Nop()})
	require.ErrorIs(t, err, ErrMissingLogger)
	require.ErrorIs(t, err, ErrMissingAPIHandler)
}

func TestManager_StartStop_OK(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	mgrIface, err := NewManager(testServerConfig(), Deps{
		Logger:     log.WithComponent("test"),
		APIHandler: okHandler(),
	})
	require.NoError(t, err)
	mgr := mgrIface.(*manager)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- mgr.Start(ctx) }()

	addr := waitForAddr(t, mgr)
	client := &http.Client{Timeout: time.Second, Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + addr + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Start did not return after cancellation")
	}
}

func TestManager_Start_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()

	cfg := testServerConfig()
	cfg.Listen = ln.Addr().String()
	mgr, err := NewManager(cfg, Deps{Logger: log.WithComponent("test"), APIHandler: okHandler()})
	require.NoError(t, err)

	closed := false
	mgr.RegisterShutdownHook("store", func(context.Context) error {
		closed = true
		return nil
	})

	err = mgr.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start API server")
	assert.True(t, closed, "hooks run even when the server never started")
}

func TestManager_Start_Twice(t *testing.T) {
	mgr, err := NewManager(testServerConfig(), Deps{Logger: log.WithComponent("test"), APIHandler: okHandler()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- mgr.Start(ctx) }()
	waitForAddr(t, mgr.(*manager))

	err = mgr.Start(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already started")

	cancel()
	require.NoError(t, <-errCh)
}

func TestManager_Shutdown_NotStarted(t *testing.T) {
	mgr, err := NewManager(testServerConfig(), Deps{Logger: log.WithComponent("test"), APIHandler: okHandler()})
	require.NoError(t, err)
	assert.ErrorIs(t, mgr.Shutdown(context.Background()), ErrManagerNotStarted)
}

func TestManager_ShutdownHooks_LIFO(t *testing.T) {
	mgr, err := NewManager(testServerConfig(), Deps{Logger: log.WithComponent("test"), APIHandler: okHandler()})
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		order []string
	)
	record := func(name string, err error) ShutdownHook {
		return func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return err
		}
	}
	mgr.RegisterShutdownHook("first", record("first", nil))
	mgr.RegisterShutdownHook("second", record("second", errors.New("boom")))
	mgr.RegisterShutdownHook("third", record("third", nil))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- mgr.Start(ctx) }()
	waitForAddr(t, mgr.(*manager))
	cancel()

	err = <-errCh
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hook second: boom")
	assert.Equal(t, []string{"third", "second", "first"}, order)

	// A second shutdown is a no-op.
	assert.NoError(t, mgr.Shutdown(context.Background()))
}
