package feed

import (
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	readability "codeberg.org/readeck/go-readability"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"

	"github.com/lysyi3m/rss-base-sync/app/httpclient"
)

const (
	// MaxContentLength caps extracted plain text.
	MaxContentLength = 10000
	// MinContentLength is the bar below which the live page is scraped.
	MinContentLength = 100

	maxScrapeBody = 2 << 20 // 2 MB
)

// Extractor produces the best-available plain text for a feed item via a
// cascade of strategies: structured content block, summary/description
// fields, then a live page scrape. It never fails; a degraded (possibly
// empty) result is returned instead.
type Extractor struct {
	httpClient *httpclient.Client
	stripper   *bluemonday.Policy

	// Randomized pre-scrape delay bounds, reduces blocking risk on
	// scraped sites. Zeroed in tests.
	scrapeDelayMin time.Duration
	scrapeDelayMax time.Duration
}

func NewExtractor(httpClient *httpclient.Client) *Extractor {
	return &Extractor{
		httpClient:     httpClient,
		stripper:       bluemonday.StrictPolicy(),
		scrapeDelayMin: 1 * time.Second,
		scrapeDelayMax: 4 * time.Second,
	}
}

func (e *Extractor) Run(item Item) string {
	strategies := []func(Item) string{
		e.fromContent,
		e.fromDescription,
	}

	var text string
	for _, strategy := range strategies {
		if candidate := strategy(item); candidate != "" {
			text = candidate
			break
		}
	}

	if len(text) < MinContentLength && item.Link != "" {
		if scraped := e.scrape(item.Link); len(scraped) > len(text) {
			text = scraped
		}
	}

	return truncate(text, MaxContentLength)
}

func (e *Extractor) fromContent(item Item) string {
	return e.stripHTML(item.Content)
}

func (e *Extractor) fromDescription(item Item) string {
	return e.stripHTML(item.Description)
}

// scrape fetches the live page and extracts text from the main content
// container, falling back to paragraph elements and finally the whole
// page body. Any failure yields empty text, never an error: the item
// proceeds with whatever shorter text was already available.
func (e *Extractor) scrape(url string) string {
	e.scrapeDelay()

	resp, err := e.httpClient.Get(url)
	if err != nil {
		slog.Debug("Page scrape failed", "url", url, "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		slog.Debug("Page scrape failed", "url", url, "status", resp.StatusCode)
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxScrapeBody))
	if err != nil {
		slog.Debug("Page scrape failed", "url", url, "error", err)
		return ""
	}

	raw := string(data)

	// Main content container via readability
	if article, err := readability.FromReader(strings.NewReader(raw), nil); err == nil {
		if text := normalizeWhitespace(article.TextContent); len(text) >= MinContentLength {
			return text
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return e.stripHTML(raw)
	}

	// Paragraph-like elements
	var paragraphs []string
	doc.Find("p").Each(func(i int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) > 0 {
		return normalizeWhitespace(strings.Join(paragraphs, " "))
	}

	// Entire page body as last resort
	doc.Find("head, script, style, noscript").Remove()
	return normalizeWhitespace(doc.Find("body").Text())
}

func (e *Extractor) scrapeDelay() {
	if e.scrapeDelayMax <= e.scrapeDelayMin {
		return
	}
	delay := e.scrapeDelayMin + time.Duration(rand.Int63n(int64(e.scrapeDelayMax-e.scrapeDelayMin)))
	time.Sleep(delay)
}

func (e *Extractor) stripHTML(raw string) string {
	if raw == "" {
		return ""
	}
	return normalizeWhitespace(e.stripper.Sanitize(raw))
}

func normalizeWhitespace(s string) string {
	fields := strings.Fields(s)
	return norm.NFC.String(strings.Join(fields, " "))
}

// truncate caps s to max runes without cutting a rune in half.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
