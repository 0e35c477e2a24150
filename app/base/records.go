package base

import (
	"encoding/json"
	"fmt"
	"net/url"
)

const PageSize = 100

// ListRecords fetches one page of the records table. Pass the previous
// page's continuation token, or an empty string for the first page.
func (c *Client) ListRecords(token, pageToken string) (*RecordPage, error) {
	params := url.Values{}
	params.Set("page_size", fmt.Sprintf("%d", PageSize))
	if pageToken != "" {
		params.Set("page_token", pageToken)
	}

	resp, err := c.getAuthorized(token, c.recordsURL()+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer resp.Body.Close()

	var list listRecordsResponse
	if err := decodeResponse(resp, &list); err != nil {
		return nil, fmt.Errorf("failed to decode records page: %w", err)
	}

	if list.Code != 0 {
		return nil, fmt.Errorf("records listing rejected: code %d: %s", list.Code, list.Msg)
	}

	return &RecordPage{
		Records:   list.Data.Items,
		PageToken: list.Data.PageToken,
		HasMore:   list.Data.HasMore,
	}, nil
}

// BatchCreateRecords inserts one chunk of records. Callers are responsible
// for keeping the chunk within the store's per-call limit.
func (c *Client) BatchCreateRecords(token string, records []Record) error {
	payload, err := json.Marshal(map[string]any{"records": records})
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}

	resp, err := c.postAuthorized(token, c.recordsURL()+"/batch_create", payload)
	if err != nil {
		return fmt.Errorf("failed to submit records: %w", err)
	}
	defer resp.Body.Close()

	var result batchCreateResponse
	if err := decodeResponse(resp, &result); err != nil {
		return fmt.Errorf("failed to decode batch create response: %w", err)
	}

	if result.Code != 0 {
		return fmt.Errorf("batch create rejected: code %d: %s", result.Code, result.Msg)
	}

	return nil
}
