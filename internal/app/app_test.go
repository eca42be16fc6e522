package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/esports-hub/internal/config"
	"github.com/riskibarqy/esports-hub/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:              config.EnvDev,
		ServiceName:         "esports-hub-api-test",
		HTTPAddr:            ":0",
		StorageDriver:       config.StorageMemory,
		CacheEnabled:        true,
		CacheTTL:            time.Minute,
		CORSAllowedOrigins:  []string{"*"},
		IngestMaxBatch:      100,
		AutoPromoteEnabled:  true,
		AutoPromoteInterval: time.Hour,
		NotifyWorkers:       2,
	}
}

func TestNewHTTPServer_MemoryStore(t *testing.T) {
	srv, shutdown, err := NewHTTPServer(context.Background(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("build server: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			t.Fatalf("shutdown: %v", err)
		}
	}()

	paths := []struct {
		path string
		want int
	}{
		{path: "/healthz", want: http.StatusOK},
		{path: "/v1/events/live", want: http.StatusOK},
		{path: "/v1/matches/match-sen-fnc", want: http.StatusOK},
		{path: "/v1/matches/unknown", want: http.StatusNotFound},
	}
	for _, tc := range paths {
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rec.Code != tc.want {
			t.Fatalf("GET %s: expected %d, got %d: %s", tc.path, tc.want, rec.Code, rec.Body.String())
		}
	}
}

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	cfg := memoryConfig()
	cfg.HTTPAddr = ""
	if _, _, err := NewHTTPServer(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestNewHTTPServer_SchedulerDisabled(t *testing.T) {
	cfg := memoryConfig()
	cfg.AutoPromoteEnabled = false
	cfg.CacheEnabled = false

	_, shutdown, err := NewHTTPServer(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build server: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
