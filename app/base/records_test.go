package base

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListRecords_Pagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer t-abc" {
			t.Errorf("Missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		if r.URL.Query().Get("page_size") != "100" {
			t.Errorf("Expected page_size 100, got %q", r.URL.Query().Get("page_size"))
		}

		if r.URL.Query().Get("page_token") == "" {
			json.NewEncoder(w).Encode(map[string]any{
				"code": 0,
				"data": map[string]any{
					"items": []map[string]any{
						{"fields": map[string]any{"Link": "https://x/1"}},
					},
					"has_more":   true,
					"page_token": "next-page",
				},
			})
			return
		}

		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{
				"items": []map[string]any{
					{"fields": map[string]any{"Link": map[string]any{"text": "Read", "link": "https://x/2"}}},
				},
				"has_more": false,
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	first, err := client.ListRecords("t-abc", "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !first.HasMore || first.PageToken != "next-page" {
		t.Errorf("Expected continuation signal, got has_more=%v token=%q", first.HasMore, first.PageToken)
	}
	if len(first.Records) != 1 {
		t.Fatalf("Expected 1 record on first page, got %d", len(first.Records))
	}

	second, err := client.ListRecords("t-abc", first.PageToken)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if second.HasMore {
		t.Error("Expected final page")
	}

	if got := NormalizeLinkField(second.Records[0].Fields["Link"]); got != "https://x/2" {
		t.Errorf("Expected normalized link 'https://x/2', got %q", got)
	}
}

func TestListRecords_RejectedCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"code": 1254043, "msg": "table not found"})
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).ListRecords("t-abc", ""); err == nil {
		t.Fatal("Expected error for non-zero response code")
	}
}

func TestBatchCreateRecords(t *testing.T) {
	var received struct {
		Records []Record `json:"records"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bitable/v1/apps/bascn000/tables/tbl000/records/batch_create" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&received)
		json.NewEncoder(w).Encode(map[string]any{"code": 0})
	}))
	defer server.Close()

	records := []Record{
		{Fields: map[string]any{"Title": "A", "Link": LinkField{Text: "Read", Link: "https://x/1"}}},
		{Fields: map[string]any{"Title": "B", "Link": LinkField{Text: "Read", Link: "https://x/2"}}},
	}

	if err := newTestClient(server.URL).BatchCreateRecords("t-abc", records); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(received.Records) != 2 {
		t.Fatalf("Expected 2 records submitted, got %d", len(received.Records))
	}
	if received.Records[0].Fields["Title"] != "A" || received.Records[1].Fields["Title"] != "B" {
		t.Error("Record order not preserved in submission")
	}
}

func TestBatchCreateRecords_BodyCodeFailure(t *testing.T) {
	// HTTP 200 with a non-zero body code must still be an error
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"code": 1254045, "msg": "field not found"})
	}))
	defer server.Close()

	records := []Record{{Fields: map[string]any{"Title": "A"}}}
	if err := newTestClient(server.URL).BatchCreateRecords("t-abc", records); err == nil {
		t.Fatal("Expected error for non-zero body code")
	}
}
