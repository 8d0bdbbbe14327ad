package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLivenessAlwaysOK(t *testing.T) {
	c := New(0)
	c.Register("store", func(ctx context.Context) error {
		return errors.New("store down")
	})

	status := c.Liveness(context.Background())
	if status.Status != "ok" {
		t.Errorf("expected ok, got %q", status.Status)
	}
}

func TestReadinessNoChecks(t *testing.T) {
	c := New(0)

	status := c.Readiness(context.Background())
	if status.Status != "ready" {
		t.Errorf("expected ready, got %q", status.Status)
	}
	if len(status.Checks) != 0 {
		t.Errorf("expected no check results, got %d", len(status.Checks))
	}
}

func TestReadinessAggregation(t *testing.T) {
	c := New(time.Second)
	c.Register("store", func(ctx context.Context) error { return nil })
	c.Register("events", func(ctx context.Context) error {
		return errors.New("broker unreachable")
	})

	status := c.Readiness(context.Background())
	if status.Status != "degraded" {
		t.Fatalf("expected degraded, got %q", status.Status)
	}
	if status.Checks["store"].Status != "ok" {
		t.Errorf("store check: got %q", status.Checks["store"].Status)
	}
	events := status.Checks["events"]
	if events.Status != "unhealthy" {
		t.Errorf("events check: got %q", events.Status)
	}
	if events.Message != "broker unreachable" {
		t.Errorf("events message: got %q", events.Message)
	}
}

func TestReadinessTimeout(t *testing.T) {
	c := New(50 * time.Millisecond)
	c.Register("slow", func(ctx context.Context) error {
		select {
		case <-time.After(2 * time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	status := c.Readiness(context.Background())
	if status.Status != "degraded" {
		t.Fatalf("expected degraded, got %q", status.Status)
	}
}

func TestUnregister(t *testing.T) {
	c := New(0)
	c.Register("store", func(ctx context.Context) error { return nil })
	c.Unregister("store")

	if len(c.Names()) != 0 {
		t.Errorf("expected no registered checks, got %v", c.Names())
	}
}

func TestReadinessHandlerStatusCodes(t *testing.T) {
	c := New(time.Second)

	rec := httptest.NewRecorder()
	c.ReadinessHandler()(rec, httptest.NewRequest("GET", "/health/ready", nil))
	if rec.Code != 200 {
		t.Fatalf("healthy: expected 200, got %d", rec.Code)
	}

	c.Register("store", func(ctx context.Context) error {
		return errors.New("down")
	})

	rec = httptest.NewRecorder()
	c.ReadinessHandler()(rec, httptest.NewRequest("GET", "/health/ready", nil))
	if rec.Code != 503 {
		t.Fatalf("degraded: expected 503, got %d", rec.Code)
	}

	var status Status
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if status.Checks["store"].Message != "down" {
		t.Errorf("expected failure message in body, got %+v", status)
	}
}

func TestLivenessHandlerMethods(t *testing.T) {
	c := New(0)

	rec := httptest.NewRecorder()
	c.LivenessHandler()(rec, httptest.NewRequest("POST", "/health/live", nil))
	if rec.Code != 405 {
		t.Errorf("POST: expected 405, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	c.LivenessHandler()(rec, httptest.NewRequest("HEAD", "/health/live", nil))
	if rec.Code != 200 {
		t.Errorf("HEAD: expected 200, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("HEAD: expected empty body")
	}
}

func TestVersionHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	VersionHandler("1.2.0", "abc123", "2026-08-01")(rec, httptest.NewRequest("GET", "/version", nil))

	var info VersionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Version != "1.2.0" || info.Commit != "abc123" {
		t.Errorf("unexpected version info: %+v", info)
	}
	if info.GoVersion == "" {
		t.Errorf("go version missing")
	}
}
