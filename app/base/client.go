// Package base implements the client for the remote tabular store: token
// acquisition, paginated record listing, chunked batch inserts and document
// publishing. The store holds synced records in rows/fields and is reached
// via token-authenticated HTTP calls.
package base

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/lysyi3m/rss-base-sync/app/httpclient"
)

type Client struct {
	httpClient *httpclient.Client
	apiBase    string
	appID      string
	appSecret  string
	baseToken  string
	tableID    string
}

func NewClient(httpClient *httpclient.Client, apiBase, appID, appSecret, baseToken, tableID string) *Client {
	return &Client{
		httpClient: httpClient,
		apiBase:    apiBase,
		appID:      appID,
		appSecret:  appSecret,
		baseToken:  baseToken,
		tableID:    tableID,
	}
}

// TenantAccessToken exchanges the application credentials for a short-lived
// bearer token. The token is scoped to one run and never cached. Any failure
// here is fatal to the run: no store operation is possible without it.
func (c *Client) TenantAccessToken() (string, error) {
	payload, err := json.Marshal(map[string]string{
		"app_id":     c.appID,
		"app_secret": c.appSecret,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode credentials: %w", err)
	}

	resp, err := c.httpClient.PostJSON(c.apiBase+"/auth/v3/tenant_access_token/internal", payload)
	if err != nil {
		return "", fmt.Errorf("failed to request access token: %w", err)
	}
	defer resp.Body.Close()

	var token tokenResponse
	if err := decodeResponse(resp, &token); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	if token.Code != 0 {
		return "", fmt.Errorf("token request rejected: code %d: %s", token.Code, token.Msg)
	}
	if token.TenantAccessToken == "" {
		return "", fmt.Errorf("token response contained no token")
	}

	return token.TenantAccessToken, nil
}

func (c *Client) recordsURL() string {
	return fmt.Sprintf("%s/bitable/v1/apps/%s/tables/%s/records", c.apiBase, c.baseToken, c.tableID)
}

func (c *Client) getAuthorized(token, url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	return c.httpClient.Do(req)
}

func (c *Client) postAuthorized(token, url string, payload []byte) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}

func decodeResponse(resp *http.Response, out any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response (HTTP %d): %w", resp.StatusCode, err)
	}

	return nil
}
