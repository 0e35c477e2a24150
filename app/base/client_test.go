package base

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lysyi3m/rss-base-sync/app/httpclient"
)

func newTestClient(serverURL string) *Client {
	httpClient := httpclient.New(5*time.Second, "Test Agent")
	return NewClient(httpClient, serverURL, "cli_app", "secret", "bascn000", "tbl000")
}

func TestTenantAccessToken_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v3/tenant_access_token/internal" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}

		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["app_id"] != "cli_app" || creds["app_secret"] != "secret" {
			t.Errorf("Credentials not forwarded: %v", creds)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"code": 0, "msg": "ok", "tenant_access_token": "t-abc123",
		})
	}))
	defer server.Close()

	token, err := newTestClient(server.URL).TenantAccessToken()
	if err != nil {
		t.Fatalf("Expected token, got error: %v", err)
	}
	if token != "t-abc123" {
		t.Errorf("Expected token 't-abc123', got %q", token)
	}
}

func TestTenantAccessToken_RejectedCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"code": 99991663, "msg": "app not found"})
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).TenantAccessToken(); err == nil {
		t.Fatal("Expected error for non-zero response code")
	}
}

func TestNormalizeLinkField(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"plain string", "https://x/1", "https://x/1"},
		{"link structure", map[string]any{"text": "Read", "link": "https://x/2"}, "https://x/2"},
		{"typed structure", LinkField{Text: "Read", Link: "https://x/3"}, "https://x/3"},
		{"structure without link", map[string]any{"text": "Read"}, ""},
		{"nil", nil, ""},
		{"number", 42.0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeLinkField(tt.input); got != tt.expected {
				t.Errorf("NormalizeLinkField(%v) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}
