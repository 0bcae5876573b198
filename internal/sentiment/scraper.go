package sentiment

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"sentiment-trading-bot/internal/logger"
)

// Scraper fetches one news-listing page and extracts headline text.
type Scraper struct {
	pageURL string
	timeout time.Duration
}

// NewScraper creates a scraper for the given listing URL.
func NewScraper(pageURL string, timeout time.Duration) *Scraper {
	return &Scraper{pageURL: pageURL, timeout: timeout}
}

// Headlines fetches the listing page and returns all headline-level text
// nodes. One best-effort attempt, no retry.
func (s *Scraper) Headlines(ctx context.Context) ([]string, error) {
	var headlines []string
	var parseErr error

	c := colly.NewCollector(
		colly.AllowedDomains(hostOf(s.pageURL)),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	})

	c.OnResponse(func(r *colly.Response) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			parseErr = err
			return
		}
		headlines = ParseHeadlines(doc)
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Headline fetch failed", err, "url", s.pageURL)
	})

	if err := c.Visit(s.pageURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", s.pageURL, err)
	}
	c.Wait()

	if parseErr != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.pageURL, parseErr)
	}
	return headlines, nil
}

// ParseHeadlines extracts non-empty headline text from a parsed document.
func ParseHeadlines(doc *goquery.Document) []string {
	var out []string
	doc.Find("h4").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text != "" {
			out = append(out, text)
		}
	})
	return out
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
