package entrypoint_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-api/internal/config"
	"library-api/internal/database"
	"library-api/internal/entrypoint"
	"library-api/internal/testutil"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		HTTP: config.HTTP{
			Host:         "127.0.0.1",
			Port:         8080,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
		Global: config.Global{Environment: "test", ShutdownTimeout: time.Second},
		Database: config.Database{
			Driver:   config.DriverSQLite,
			URL:      filepath.Join(t.TempDir(), "library.db"),
			LogLevel: "silent",
		},
		Covers: config.Covers{Timeout: time.Second},
		Log:    config.Log{Level: "error", Format: "text"},
	}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewServer(t *testing.T) {
	cfg := testConfig(t)
	db := testutil.NewDB(t)

	srv := entrypoint.NewServer(db, cfg, discard())
	assert.Equal(t, "127.0.0.1:8080", srv.Addr)
	assert.Equal(t, time.Second, srv.ReadTimeout)

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books/1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Book not found"}`, w.Body.String())
}

func TestServeStopsOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	srv := &http.Server{Addr: addr, Handler: http.NotFoundHandler()}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- entrypoint.Serve(ctx, srv, time.Second, discard()) }()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServeReportsListenErrors(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	srv := &http.Server{Addr: l.Addr().String(), Handler: http.NotFoundHandler()}
	err = entrypoint.Serve(context.Background(), srv, time.Second, discard())
	assert.ErrorContains(t, err, "listen")
}

func TestMigrate(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, entrypoint.Migrate(cfg))

	db, err := database.Open(cfg.Database)
	require.NoError(t, err)
	defer database.Close(db)
	assert.True(t, db.Migrator().HasTable("loans"))
	assert.True(t, db.Migrator().HasTable("publishing_companies"))
}
