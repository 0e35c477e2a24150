package syncer

import (
	"github.com/lysyi3m/rss-base-sync/app/base"
	"github.com/lysyi3m/rss-base-sync/app/feed"
)

// StoreClient is the surface of the remote base used by the pipeline.
// Implemented by base.Client.
type StoreClient interface {
	TenantAccessToken() (string, error)
	ListRecords(token, pageToken string) (*base.RecordPage, error)
	BatchCreateRecords(token string, records []base.Record) error
	CreateDocument(token, title string) (string, string, error)
	AppendDocumentText(token, docID, text string) error
}

// Extractor produces plain text for a feed item. Implemented by
// feed.Extractor; never fails by contract.
type Extractor interface {
	Run(item feed.Item) string
}

// Summarizer produces a short synopsis. Implemented by
// summarizer.Summarizer; never fails by contract.
type Summarizer interface {
	Run(text string) string
}

// Notifier is the fire-and-forget failure alert sink.
type Notifier interface {
	Send(message string)
}
