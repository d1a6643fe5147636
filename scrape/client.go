package scrape

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

// LiveQuoteItem is one raw entry of the live price feed. Price and change
// are locale-formatted strings on the wire.
type LiveQuoteItem struct {
	Company string `json:"company" validate:"required"`
	Price   string `json:"price"`
	Change  string `json:"change"`
}

type liveFeed struct {
	Data []LiveQuoteItem `json:"data"`
}

// Client fetches the summary page and the live feed from the exchange site.
type Client struct {
	http     *resty.Client
	baseURL  string
	livePath string
	validate *validator.Validate
}

// NewClient builds a Client against the given origin. The timeout bounds
// every fetch; the site is slow around the daily publish.
func NewClient(baseURL, livePath string, timeout time.Duration) *Client {
	c := resty.New()
	c.SetBaseURL(baseURL)
	c.SetTimeout(timeout)
	c.SetHeader("User-Agent", "Mozilla/5.0 (compatible; dse2db/1.0)")

	return &Client{
		http:     c,
		baseURL:  baseURL,
		livePath: livePath,
		validate: validator.New(),
	}
}

// SummaryPage fetches the market summary homepage and returns its HTML.
func (c *Client) SummaryPage(ctx context.Context) (string, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/")
	if err != nil {
		return "", fmt.Errorf("fetch summary page: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("fetch summary page: status %d", resp.StatusCode())
	}
	return resp.String(), nil
}

// LivePrices fetches and decodes the live market price feed, dropping
// entries that fail validation (no company name) rather than failing the
// whole feed.
func (c *Client) LivePrices(ctx context.Context) ([]LiveQuoteItem, error) {
	resp, err := c.http.R().SetContext(ctx).Get(c.livePath)
	if err != nil {
		return nil, fmt.Errorf("fetch live prices: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("fetch live prices: status %d", resp.StatusCode())
	}

	var feed liveFeed
	if err := json.Unmarshal(resp.Body(), &feed); err != nil {
		return nil, fmt.Errorf("decode live prices: %w", err)
	}

	items := feed.Data[:0]
	for _, item := range feed.Data {
		if err := c.validate.Struct(item); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
