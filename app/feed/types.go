package feed

import (
	"time"
)

// Feed processing types

type Metadata struct {
	Title       string
	Link        string
	Description string
}

type Item struct {
	Title       string
	Link        string // canonical identifier, sole dedup key
	Author      string // falls back to feed-level title when absent
	Description string
	Content     string

	PublishedAt time.Time
	// PublishedSet is false when no timestamp could be parsed from the
	// item and PublishedAt carries approximate wall-clock time instead.
	PublishedSet bool
}

// Source configuration types

type Source struct {
	Name     string         `yaml:"name"`
	URL      string         `yaml:"url"`
	Enabled  bool           `yaml:"enabled"`
	MaxItems int            `yaml:"max_items"`
	Filters  []SourceFilter `yaml:"filters"`
}

type SourceFilter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}
