// Package syncer drives one ingestion run: dedup index load, per-feed
// fetch/parse, per-item enrichment and the chunked write-back. Failures
// are isolated at the narrowest boundary; only a missing access token
// aborts a run.
package syncer

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lysyi3m/rss-base-sync/app/base"
	"github.com/lysyi3m/rss-base-sync/app/feed"
	"github.com/lysyi3m/rss-base-sync/app/httpclient"
)

// Text longer than this is externalized into a separate document so table
// rows stay compact.
const docPublishThreshold = 50

const linkText = "Read article"

type Result struct {
	StartedAt    time.Time `json:"started_at"`
	Duration     string    `json:"duration"`
	Feeds        int       `json:"feeds"`
	FailedFeeds  int       `json:"failed_feeds"`
	Scanned      int       `json:"scanned"`
	Existing     int       `json:"existing"`
	Filtered     int       `json:"filtered"`
	New          int       `json:"new"`
	Synced       int       `json:"synced"`
	FailedChunks int       `json:"failed_chunks"`
	IndexSize    int       `json:"index_size"`
	PartialIndex bool      `json:"partial_index"`
}

type Runner struct {
	store      StoreClient
	httpClient *httpclient.Client
	parser     *feed.Parser
	filterer   *feed.Filterer
	extractor  Extractor
	summarizer Summarizer
	notifier   Notifier
	writer     *Writer
	sources    []feed.Source
}

func NewRunner(store StoreClient, httpClient *httpclient.Client, extractor Extractor,
	summarizer Summarizer, notifier Notifier, sources []feed.Source) *Runner {
	return &Runner{
		store:      store,
		httpClient: httpClient,
		parser:     feed.NewParser(),
		filterer:   feed.NewFilterer(),
		extractor:  extractor,
		summarizer: summarizer,
		notifier:   notifier,
		writer:     NewWriter(store, notifier),
		sources:    sources,
	}
}

// Run executes one full sync. Feeds are processed in configured order and
// items in feed order; the run is strictly sequential.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	result := &Result{StartedAt: time.Now()}

	token, err := r.store.TenantAccessToken()
	if err != nil {
		r.notifier.Send(fmt.Sprintf("Sync aborted: access token request failed: %v", err))
		return nil, fmt.Errorf("failed to acquire access token: %w", err)
	}

	index := NewIndex(r.store)
	index.Load(token)
	result.IndexSize = index.Len()
	result.PartialIndex = index.Partial()

	slog.Info("Existing record index loaded",
		"links", index.Len(),
		"partial", index.Partial())

	var records []base.Record

	for _, source := range r.sources {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		records = append(records, r.processSource(token, source, index, result)...)
	}

	result.Synced, result.FailedChunks = r.writer.Write(token, records)
	result.Duration = time.Since(result.StartedAt).String()

	slog.Info("Sync run completed",
		"feeds", result.Feeds,
		"failed_feeds", result.FailedFeeds,
		"scanned", result.Scanned,
		"existing", result.Existing,
		"filtered", result.Filtered,
		"new", result.New,
		"synced", result.Synced,
		"failed_chunks", result.FailedChunks,
		"duration", result.Duration)

	return result, nil
}

// processSource fetches and parses one feed and assembles records for its
// new items. Fetch and parse failures skip this feed only; sibling feeds
// keep processing.
func (r *Runner) processSource(token string, source feed.Source, index *Index, result *Result) []base.Record {
	result.Feeds++
	name := cmp.Or(source.Name, source.URL)

	slog.Info("Checking feed", "feed", name, "url", source.URL)

	data, err := r.fetchFeed(source.URL)
	if err != nil {
		result.FailedFeeds++
		slog.Error("Failed to fetch feed", "feed", name, "error", err)
		r.notifier.Send(fmt.Sprintf("Failed to fetch feed %s: %v", source.URL, err))
		return nil
	}

	metadata, items, err := r.parser.Run(data)
	if err != nil {
		result.FailedFeeds++
		slog.Error("Failed to parse feed", "feed", name, "error", err)
		r.notifier.Send(fmt.Sprintf("Failed to parse feed %s: %v", source.URL, err))
		return nil
	}

	sourceName := cmp.Or(source.Name, metadata.Title)

	if source.MaxItems > 0 && len(items) > source.MaxItems {
		items = items[:source.MaxItems]
	}

	var records []base.Record

	for _, item := range items {
		result.Scanned++

		if item.Link == "" {
			slog.Warn("Item has no link, dedup key is empty", "feed", sourceName, "title", item.Title)
		}

		if index.Has(item.Link) {
			result.Existing++
			continue
		}
		// Insert at discovery time so the same link appearing twice in
		// this run (overlapping feeds) is also suppressed
		index.Add(item.Link)

		if excluded, reason := r.filterer.Run(item, source.Filters); excluded {
			result.Filtered++
			slog.Debug("Item filtered", "feed", sourceName, "title", item.Title, "reason", reason)
			continue
		}

		records = append(records, r.assembleRecord(token, item, sourceName))
		result.New++
	}

	slog.Info("Feed processed",
		"feed", sourceName,
		"total", len(items),
		"new", result.New,
		"existing", result.Existing)

	return records
}

func (r *Runner) fetchFeed(url string) ([]byte, error) {
	resp, err := r.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// assembleRecord runs the enrichment chain for one new item. Extraction,
// document publishing and summarization degrade internally; the item
// always produces a record.
func (r *Runner) assembleRecord(token string, item feed.Item, sourceName string) base.Record {
	text := r.extractor.Run(item)

	documentURL := ""
	if len(text) > docPublishThreshold {
		documentURL = r.publishDocument(token, item.Title, text)
	}

	summary := r.summarizer.Run(text)

	if !item.PublishedSet {
		slog.Debug("Published time approximated with wall clock", "link", item.Link)
	}

	fields := map[string]any{
		"Title":   item.Title,
		"Link":    base.LinkField{Text: linkText, Link: item.Link},
		"Source":  sourceName,
		"Author":  item.Author,
		"Summary": summary,
		"Date":    item.PublishedAt.UnixMilli(),
	}

	if documentURL != "" {
		fields["Document"] = base.LinkField{Text: "Full text", Link: documentURL}
	}

	return base.Record{Fields: fields}
}

// publishDocument externalizes long text into a document entity. Creation
// failure yields no reference; once the document exists its link is kept
// even when content blocks only partially land.
func (r *Runner) publishDocument(token, title, text string) string {
	docID, url, err := r.store.CreateDocument(token, title)
	if err != nil {
		slog.Warn("Document creation failed, record proceeds without reference", "title", title, "error", err)
		return ""
	}

	if err := r.store.AppendDocumentText(token, docID, text); err != nil {
		slog.Warn("Document content write failed, keeping reference", "document_id", docID, "error", err)
	}

	return url
}
