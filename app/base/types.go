package base

// API payload types for the remote base. Success of a call is signaled by
// the Code field embedded in the JSON body, not by HTTP status alone.

type LinkField struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

// Record is one row submitted to or read from the records table.
type Record struct {
	Fields map[string]any `json:"fields"`
}

// RecordPage is one page of the records listing.
type RecordPage struct {
	Records   []Record
	PageToken string
	HasMore   bool
}

type tokenResponse struct {
	Code              int    `json:"code"`
	Msg               string `json:"msg"`
	TenantAccessToken string `json:"tenant_access_token"`
}

type listRecordsResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Items     []Record `json:"items"`
		PageToken string   `json:"page_token"`
		HasMore   bool     `json:"has_more"`
	} `json:"data"`
}

type batchCreateResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

type createDocumentResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Document struct {
			DocumentID string `json:"document_id"`
		} `json:"document"`
	} `json:"data"`
}

type appendBlocksResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// NormalizeLinkField reduces the two wire representations of a link field
// (plain string, or a text+URL structure) to the canonical URL string. This
// is the single normalization point for the dedup key.
func NormalizeLinkField(v any) string {
	switch field := v.(type) {
	case string:
		return field
	case map[string]any:
		if link, ok := field["link"].(string); ok {
			return link
		}
		return ""
	case LinkField:
		return field.Link
	default:
		return ""
	}
}
