package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lysyi3m/rss-base-sync/app/feed"
	"github.com/lysyi3m/rss-base-sync/app/httpclient"
	"github.com/lysyi3m/rss-base-sync/app/syncer"
)

func newTestServer(apiKey string) http.Handler {
	httpClient := httpclient.New(time.Second, "Test Agent")
	runner := syncer.NewRunner(nil, httpClient, nil, nil, nil, nil)
	scheduler := syncer.NewScheduler(runner, time.Hour)
	handler := NewHandler(scheduler, []feed.Source{{URL: "https://a.com/rss", Enabled: true}})
	return NewServer(handler, apiKey)
}

func TestHealthCheck(t *testing.T) {
	server := newTestServer("")

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestStats(t *testing.T) {
	server := newTestServer("")

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestAPIRequiresKey(t *testing.T) {
	server := newTestServer("secret-key")

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sources", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without key, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/sources", nil)
	req.Header.Set("X-API-Key", "secret-key")
	server.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 with key, got %d", w.Code)
	}
}

func TestAPIDisabledWithoutKey(t *testing.T) {
	server := newTestServer("")

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sources", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 when API is disabled, got %d", w.Code)
	}
}
