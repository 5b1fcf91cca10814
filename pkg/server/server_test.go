package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"quantwp/pkg/config"
	"quantwp/pkg/envsource"
	"quantwp/pkg/envsync"
	"quantwp/pkg/handlers"
	"quantwp/pkg/hooks"
	"quantwp/pkg/settings/memstore"
)

func newTestServer(t *testing.T, rateLimit int) *HTTPServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server:   &config.ServerConfig{Port: 0, Address: "127.0.0.1"},
		App:      &config.AppConfig{Environment: "development"},
		Store:    &config.StoreConfig{Driver: "memory"},
		Settings: &config.SettingsConfig{Key: "quant_settings"},
		Sync:     &config.SyncConfig{RateLimit: rateLimit},
		Edge:     &config.EdgeConfig{OrigHostHeader: "Quant-Orig-Host"},
		Site:     &config.SiteConfig{HomeURL: "https://static.example.com"},
	}
	store := memstore.New()
	syncer := envsync.New(envsync.Options{Store: store, SettingsKey: cfg.Settings.Key, Env: envsource.FromMap(nil)})
	h := handlers.NewHandlerService(cfg, handlers.Dependencies{Store: store, Syncer: syncer, Registry: hooks.NewRegistry()})

	return NewHTTPServer(&Config{Address: "127.0.0.1", Port: 0, Config: cfg}, h)
}

func TestRoutes(t *testing.T) {
	s := newTestServer(t, 0)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/ping", http.StatusOK},
		{http.MethodGet, "/api/v1/status", http.StatusOK},
		{http.MethodGet, "/api/v1/site", http.StatusOK},
		{http.MethodGet, "/api/v1/settings", http.StatusOK},
		{http.MethodPost, "/api/v1/settings/sync", http.StatusOK},
		{http.MethodGet, "/api/v1/mail/from", http.StatusOK},
		{http.MethodGet, "/api/v1/scheduler/status", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
			if w.Header().Get("X-Request-ID") == "" {
				t.Error("missing X-Request-ID header")
			}
		})
	}
}

func TestSyncRateLimited(t *testing.T) {
	s := newTestServer(t, 1)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/settings/sync", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 429]", codes)
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, 0)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/site", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code >= http.StatusMultipleChoices {
		t.Errorf("preflight status = %d, want 2xx", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestStartAndShutdown(t *testing.T) {
	s := newTestServer(t, 0)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if err := <-errCh; err != nil {
		t.Errorf("Start() error = %v", err)
	}
}
