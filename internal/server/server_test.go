package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Addr != ":8090" {
		t.Fatalf("Addr = %q; want %q", cfg.Addr, ":8090")
	}
	if cfg.ReadTimeout != 15*time.Second {
		t.Fatalf("ReadTimeout = %v; want %v", cfg.ReadTimeout, 15*time.Second)
	}
	if cfg.WriteTimeout != 15*time.Second {
		t.Fatalf("WriteTimeout = %v; want %v", cfg.WriteTimeout, 15*time.Second)
	}
	if cfg.IdleTimeout != 60*time.Second {
		t.Fatalf("IdleTimeout = %v; want %v", cfg.IdleTimeout, 60*time.Second)
	}
}

func TestNewServer_ConfiguresAddressAndHandler(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	cfg := Config{Addr: "127.0.0.1:18090", ReadTimeout: time.Second, WriteTimeout: 2 * time.Second, IdleTimeout: 3 * time.Second}
	s := NewServer(handler, cfg, zap.NewNop())

	if s == nil {
		t.Fatal("NewServer() returned nil")
	}
	if s.http == nil {
		t.Fatal("server.http should not be nil")
	}
	if s.http.Addr != "127.0.0.1:18090" {
		t.Fatalf("Addr = %q; want %q", s.http.Addr, "127.0.0.1:18090")
	}
	if s.http.Handler == nil {
		t.Fatal("Handler should not be nil")
	}
}

// TestServer_StartServesAndShutdownDrains starts a real listener on a free
// port, serves one request, then verifies Start unblocks cleanly on Shutdown.
func TestServer_StartServesAndShutdownDrains(t *testing.T) {
	// Grab a free port first so the test never collides with another run.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close() //nolint:errcheck

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("pong")) //nolint:errcheck
	})
	s := NewServer(handler, Config{Addr: addr, ReadTimeout: time.Second, WriteTimeout: time.Second, IdleTimeout: time.Second}, zap.NewNop())

	startErr := make(chan error, 1)
	go func() {
		startErr <- s.Start(context.Background())
	}()

	// Poll until the listener answers.
	var resp *http.Response
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		resp, err = http.Get(fmt.Sprintf("http://%s/", addr))
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never answered: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close() //nolint:errcheck
	if string(body) != "pong" {
		t.Fatalf("body = %q; want pong", body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown error = %v", err)
	}

	select {
	case err := <-startErr:
		if err != nil {
			t.Fatalf("Start returned error after graceful shutdown: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not unblock after Shutdown")
	}
}
