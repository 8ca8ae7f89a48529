package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cabewaldrop/lightoladb/internal/config"
	"github.com/cabewaldrop/lightoladb/internal/database"
	"github.com/cabewaldrop/lightoladb/internal/logger"
)

// newTestServer creates a server with rate limiting disabled.
func newTestServer(t *testing.T, db *database.Database) *Server {
	t.Helper()
	cfg := config.Default().Server
	cfg.RateLimit = 0
	return NewServer(cfg, db, logger.Discard())
}

func TestServerStartup(t *testing.T) {
	// Create server with nil database (no database needed for basic tests)
	srv := newTestServer(t, nil)

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("Failed to GET /health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	if string(body) != "ok" {
		t.Errorf("Expected body 'ok', got %q", string(body))
	}
}

func TestServerMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, createTestDatabase(t))
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	// Generate at least one API request so the HTTP collectors have samples.
	resp, err := http.Get(ts.URL + "/api/tables")
	if err != nil {
		t.Fatalf("Failed to GET /api/tables: %v", err)
	}
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("Failed to GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{
		"lightoladb_http_requests_total",
		`path="/api/tables"`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("expected %q in /metrics output", want)
		}
	}
}

func TestServerNotFound(t *testing.T) {
	srv := newTestServer(t, nil)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("Failed to GET /nope: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}
}

func TestServerRunShutdown(t *testing.T) {
	// Reserve a free port, then release it for the server.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	l.Close()

	cfg := config.Default().Server
	cfg.Addr = addr
	srv := NewServer(cfg, createTestDatabase(t), logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	// Wait for the listener.
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/health")
		if err == nil {
			resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not start: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServerRunListenError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()

	cfg := config.Default().Server
	cfg.Addr = l.Addr().String()
	srv := NewServer(cfg, nil, logger.Discard())

	if err := srv.Run(context.Background()); err == nil {
		t.Error("expected error when the address is in use")
	}
}
