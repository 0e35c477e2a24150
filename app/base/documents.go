package base

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// The store enforces a per-write size limit on document content, so long
// text is appended as multiple fixed-size blocks.
const MaxBlockSize = 3000

const docURLBase = "https://www.feishu.cn/docx/"

// CreateDocument creates an empty document entity and returns its ID and
// shareable URL.
func (c *Client) CreateDocument(token, title string) (string, string, error) {
	payload, err := json.Marshal(map[string]string{"title": title})
	if err != nil {
		return "", "", fmt.Errorf("failed to encode document request: %w", err)
	}

	resp, err := c.postAuthorized(token, c.apiBase+"/docx/v1/documents", payload)
	if err != nil {
		return "", "", fmt.Errorf("failed to create document: %w", err)
	}
	defer resp.Body.Close()

	var created createDocumentResponse
	if err := decodeResponse(resp, &created); err != nil {
		return "", "", fmt.Errorf("failed to decode document response: %w", err)
	}

	if created.Code != 0 {
		return "", "", fmt.Errorf("document creation rejected: code %d: %s", created.Code, created.Msg)
	}

	docID := created.Data.Document.DocumentID
	if docID == "" {
		return "", "", fmt.Errorf("document response contained no document ID")
	}

	return docID, docURLBase + docID, nil
}

// AppendDocumentText writes text into the document as paragraph blocks,
// chunked to the store's per-write size limit. Returns an error only when
// no block at all could be written; a partially written document is still
// usable and its link stays valid.
func (c *Client) AppendDocumentText(token, docID, text string) error {
	chunks := splitBlocks(text, MaxBlockSize)

	written := 0
	var lastErr error

	for i, chunk := range chunks {
		if err := c.appendBlock(token, docID, chunk); err != nil {
			lastErr = err
			slog.Warn("Failed to append document block",
				"document_id", docID,
				"block", i+1,
				"blocks", len(chunks),
				"error", err)
			continue
		}
		written++
	}

	if written == 0 && lastErr != nil {
		return fmt.Errorf("failed to write any document block: %w", lastErr)
	}

	return nil
}

func (c *Client) appendBlock(token, docID, content string) error {
	payload, err := json.Marshal(map[string]any{
		"children": []map[string]any{
			{
				"block_type": 2,
				"text": map[string]any{
					"elements": []map[string]any{
						{"text_run": map[string]string{"content": content}},
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to encode block: %w", err)
	}

	url := fmt.Sprintf("%s/docx/v1/documents/%s/blocks/%s/children", c.apiBase, docID, docID)

	resp, err := c.postAuthorized(token, url, payload)
	if err != nil {
		return fmt.Errorf("failed to append block: %w", err)
	}
	defer resp.Body.Close()

	var result appendBlocksResponse
	if err := decodeResponse(resp, &result); err != nil {
		return fmt.Errorf("failed to decode append response: %w", err)
	}

	if result.Code != 0 {
		return fmt.Errorf("block append rejected: code %d: %s", result.Code, result.Msg)
	}

	return nil
}

// splitBlocks cuts text into rune-safe chunks of at most maxSize bytes.
func splitBlocks(text string, maxSize int) []string {
	if text == "" {
		return nil
	}

	var chunks []string
	current := make([]rune, 0, maxSize)
	size := 0

	for _, r := range text {
		runeLen := len(string(r))
		if size+runeLen > maxSize && len(current) > 0 {
			chunks = append(chunks, string(current))
			current = current[:0]
			size = 0
		}
		current = append(current, r)
		size += runeLen
	}

	if len(current) > 0 {
		chunks = append(chunks, string(current))
	}

	return chunks
}
