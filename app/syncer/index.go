package syncer

import (
	"log/slog"

	"github.com/lysyi3m/rss-base-sync/app/base"
)

// LinkFieldName is the record field carrying the dedup key.
const LinkFieldName = "Link"

// Index is the set of canonical links already present in the store,
// rebuilt fresh every run from a full paginated scan. Owned exclusively
// by one run; nothing is persisted locally.
type Index struct {
	store   StoreClient
	links   map[string]struct{}
	partial bool
}

func NewIndex(store StoreClient) *Index {
	return &Index{
		store: store,
		links: make(map[string]struct{}),
	}
}

// Load pages through the store's record listing and collects normalized
// dedup keys. A page-fetch error halts pagination early and keeps whatever
// was accumulated: a partial index is safer than aborting the run, at the
// cost of possible duplicate inserts that the next full load dedups away.
func (i *Index) Load(token string) {
	pageToken := ""

	for {
		page, err := i.store.ListRecords(token, pageToken)
		if err != nil {
			i.partial = true
			slog.Warn("Record index load halted early, continuing with partial dedup set",
				"loaded", len(i.links),
				"error", err)
			return
		}

		for _, record := range page.Records {
			i.links[base.NormalizeLinkField(record.Fields[LinkFieldName])] = struct{}{}
		}

		if !page.HasMore {
			return
		}
		pageToken = page.PageToken
	}
}

func (i *Index) Has(link string) bool {
	_, ok := i.links[link]
	return ok
}

// Add marks a link as seen, suppressing duplicates both against the store
// and across overlapping feeds within the same run.
func (i *Index) Add(link string) {
	i.links[link] = struct{}{}
}

func (i *Index) Len() int {
	return len(i.links)
}

// Partial reports whether pagination halted before the full scan finished.
func (i *Index) Partial() bool {
	return i.partial
}
