package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lowkey-merch/storefront/internal/domain"
)

type stubSystemService struct {
	reportFunc func(ctx context.Context) (domain.SystemHealthReport, error)
}

func (s *stubSystemService) HealthReport(ctx context.Context) (domain.SystemHealthReport, error) {
	if s.reportFunc != nil {
		return s.reportFunc(ctx)
	}
	return domain.SystemHealthReport{}, errors.New("not implemented")
}

func TestHealthzAlwaysOK(t *testing.T) {
	handler := NewHealthHandlers(nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	handler.Healthz(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != domain.HealthStatusOK {
		t.Fatalf("unexpected status %v", resp["status"])
	}
}

func TestReadyzWithoutSystemService(t *testing.T) {
	handler := NewHealthHandlers(nil)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rr := httptest.NewRecorder()
	handler.Readyz(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
}

func TestReadyzReportsChecks(t *testing.T) {
	generated := time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)
	service := &stubSystemService{
		reportFunc: func(ctx context.Context) (domain.SystemHealthReport, error) {
			return domain.SystemHealthReport{
				Status: domain.HealthStatusDegraded,
				Checks: map[string]domain.SystemHealthCheck{
					"catalog": {Status: domain.HealthStatusOK, Detail: "18 products", Latency: 3 * time.Millisecond},
					"orders":  {Status: domain.HealthStatusDegraded, Error: "slow responses"},
				},
				Version:     "1.4.0",
				Environment: "test",
				Uptime:      90 * time.Minute,
				GeneratedAt: generated,
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rr := httptest.NewRecorder()
	NewHealthHandlers(service).Readyz(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected degraded report to stay 200, got %d", rr.Code)
	}

	var resp readyPayload
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != domain.HealthStatusDegraded || resp.Version != "1.4.0" {
		t.Fatalf("unexpected payload %+v", resp)
	}
	if resp.Uptime != "1h30m0s" {
		t.Fatalf("unexpected uptime %q", resp.Uptime)
	}
	if len(resp.Checks) != 2 || resp.Checks["catalog"].LatencyMS != 3 {
		t.Fatalf("unexpected checks %+v", resp.Checks)
	}
}

func TestReadyzErrorStatus(t *testing.T) {
	service := &stubSystemService{
		reportFunc: func(ctx context.Context) (domain.SystemHealthReport, error) {
			return domain.SystemHealthReport{Status: domain.HealthStatusError}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rr := httptest.NewRecorder()
	NewHealthHandlers(service).Readyz(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}
}

func TestReadyzReportFailure(t *testing.T) {
	service := &stubSystemService{
		reportFunc: func(ctx context.Context) (domain.SystemHealthReport, error) {
			return domain.SystemHealthReport{}, errors.New("store offline")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rr := httptest.NewRecorder()
	NewHealthHandlers(service).Readyz(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if resp["error"] != "health_unavailable" {
		t.Fatalf("unexpected error code %v", resp["error"])
	}
}
