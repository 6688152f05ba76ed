package bref

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// BaseURL for Basketball-Reference season pages
	BaseURL = "https://www.basketball-reference.com"

	// UserAgent for requests; the site rejects default Go clients
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// MinRequestInterval to stay under the site's rate limit
	MinRequestInterval = 3 * time.Second
)

// Client scrapes Basketball-Reference schedule pages with rate limiting.
type Client struct {
	baseURL     string
	http        *http.Client
	lastRequest time.Time
	interval    time.Duration
}

// New creates a client with a custom base URL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: 30 * time.Second},
		interval: MinRequestInterval,
	}
}

// NewClient creates a client against the live site.
func NewClient() *Client {
	return New(BaseURL)
}

// FetchMonthPage fetches the schedule page for one month of a season.
// endYear is the season's closing year (2024 for the 2023-24 season); month
// is lowercase, e.g. "october".
func (c *Client) FetchMonthPage(ctx context.Context, endYear int, month string) (*goquery.Document, error) {
	url := fmt.Sprintf("%s/leagues/NBA_%d_games-%s.html", c.baseURL, endYear, month)
	return c.fetch(ctx, url)
}

func (c *Client) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	if elapsed := time.Since(c.lastRequest); elapsed < c.interval {
		select {
		case <-time.After(c.interval - elapsed):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	c.lastRequest = time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	return doc, nil
}
