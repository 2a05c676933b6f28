package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// Fetcher retrieves a URL and returns the parsed document. Implementations own
// the request pacing policy.
type Fetcher interface {
	Get(ctx context.Context, url string) (*goquery.Document, error)
}

// PoliteFetcher issues sequential GET requests paced by a fixed-interval token
// bucket, so the crawl never exceeds one request per delay against the source
// site regardless of which crawl phase is calling.
type PoliteFetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// NewFetcher constructs a PoliteFetcher. A zero delay disables pacing (used by
// tests); timeout bounds each request, after which it is reported as failed.
func NewFetcher(delay, timeout time.Duration, userAgent string) *PoliteFetcher {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &PoliteFetcher{
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: userAgent,
	}
}

func (f *PoliteFetcher) Get(ctx context.Context, url string) (*goquery.Document, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}
