package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *Parser) Run(data []byte) (*Metadata, []Item, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	metadata := &Metadata{
		Title:       cmp.Or(parsed.Title, "Unknown Source"),
		Link:        parsed.Link,
		Description: parsed.Description,
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		items = append(items, p.normalizeItem(item, metadata.Title))
	}

	return metadata, items, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item, feedTitle string) Item {
	normalized := Item{
		Title:       cmp.Or(item.Title, "No Title"),
		Link:        item.Link,
		Author:      cmp.Or(p.extractAuthor(item), feedTitle),
		Description: item.Description,
		Content:     item.Content,
	}

	switch {
	case item.PublishedParsed != nil:
		normalized.PublishedAt = *item.PublishedParsed
		normalized.PublishedSet = true
	case item.UpdatedParsed != nil:
		normalized.PublishedAt = *item.UpdatedParsed
		normalized.PublishedSet = true
	default:
		// Approximate: no timestamp in the item metadata
		normalized.PublishedAt = time.Now()
	}

	return normalized
}

func (p *Parser) extractAuthor(item *gofeed.Item) string {
	for _, author := range item.Authors {
		if author == nil {
			continue
		}
		if name := strings.TrimSpace(author.Name); name != "" {
			return name
		}
		if email := strings.TrimSpace(author.Email); email != "" {
			return email
		}
	}

	if item.Author != nil {
		if name := strings.TrimSpace(item.Author.Name); name != "" {
			return name
		}
	}

	return ""
}
