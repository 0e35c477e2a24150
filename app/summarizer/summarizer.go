// Package summarizer turns extracted article text into a short synopsis.
// An AI backend is used when configured and the text is rich enough;
// every other path, including any backend failure, falls back to the same
// deterministic truncation so summarization never blocks an item.
package summarizer

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/lysyi3m/rss-base-sync/app/httpclient"
)

const (
	// MinTextLength is the bar below which the AI backend is skipped.
	MinTextLength = 50
	// TruncateLength is the character cap of the fallback summary.
	TruncateLength = 100

	// Input cap for the backend prompt, keeps requests bounded.
	maxPromptText = 4000

	prompt = "Summarize the following article in one sentence of at most 50 characters. Respond with the summary only, no preamble."
)

type Summarizer struct {
	httpClient *httpclient.Client
	apiBase    string
	apiKey     string
	model      string
}

func NewSummarizer(httpClient *httpclient.Client, apiBase, apiKey, model string) *Summarizer {
	return &Summarizer{
		httpClient: httpClient,
		apiBase:    apiBase,
		apiKey:     apiKey,
		model:      model,
	}
}

func (s *Summarizer) Run(text string) string {
	if s.apiKey == "" || len(text) < MinTextLength {
		return Truncate(text)
	}

	summary, err := s.complete(text)
	if err != nil {
		slog.Warn("Summarization backend failed, using truncation fallback", "error", err)
		return Truncate(text)
	}

	if summary == "" {
		return Truncate(text)
	}

	return summary
}

func (s *Summarizer) complete(text string) (string, error) {
	input := text
	if len(input) > maxPromptText {
		input = truncateRunes(input, maxPromptText)
	}

	payload, err := json.Marshal(map[string]any{
		"model": s.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt + "\n\n" + input},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	resp, err := s.httpClient.PostJSONWithAuth(s.apiBase+"/chat/completions", payload, s.apiKey)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("completion request rejected: HTTP %d", resp.StatusCode)
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("completion response contained no choices")
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// Truncate is the deterministic fallback summary: the text capped to
// TruncateLength runes with an ellipsis marker appended. Identical output
// whether or not a backend is configured.
func Truncate(text string) string {
	if text == "" {
		return ""
	}
	return truncateRunes(text, TruncateLength) + "..."
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
