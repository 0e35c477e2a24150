package syncer

import (
	"fmt"
	"log/slog"

	"github.com/lysyi3m/rss-base-sync/app/base"
)

// ChunkSize matches the store's per-call record limit.
const ChunkSize = 100

// Writer submits assembled records to the store in bounded-size chunks.
// Chunks fail independently: partial success is the accepted outcome and
// there is no rollback.
type Writer struct {
	store    StoreClient
	notifier Notifier
}

func NewWriter(store StoreClient, notifier Notifier) *Writer {
	return &Writer{
		store:    store,
		notifier: notifier,
	}
}

// Write submits records in input order, ChunkSize at a time. Returns the
// number of records accepted and the number of failed chunks.
func (w *Writer) Write(token string, records []base.Record) (int, int) {
	if len(records) == 0 {
		return 0, 0
	}

	synced := 0
	failedChunks := 0

	for start := 0; start < len(records); start += ChunkSize {
		end := min(start+ChunkSize, len(records))
		chunk := records[start:end]

		if err := w.store.BatchCreateRecords(token, chunk); err != nil {
			failedChunks++
			slog.Error("Record chunk submission failed",
				"chunk_start", start,
				"chunk_size", len(chunk),
				"error", err)
			w.notifier.Send(fmt.Sprintf("Failed to sync a chunk of %d records: %v", len(chunk), err))
			continue
		}

		synced += len(chunk)
		slog.Info("Synced records", "count", len(chunk))
	}

	return synced, failedChunks
}
