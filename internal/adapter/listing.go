package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/jobscout/internal/model"
	"github.com/amishk599/jobscout/internal/ratelimit"
)

// Ensure ListingClient implements model.ListingFetcher.
var _ model.ListingFetcher = (*ListingClient)(nil)

const listingSearchPath = "/jobs-guest/jobs/api/seeMoreJobPostings/search"

// ListingClient fetches pages of job IDs from the guest job-search endpoint.
// Transport failures are soft: a failed page is logged and contributes zero
// IDs, never an error; the batch always continues.
type ListingClient struct {
	baseURL string
	client  *http.Client
	limiter *ratelimit.Limiter
	logger  *slog.Logger
}

// NewListingClient creates a client for the listing search endpoint rooted at
// baseURL. The limiter may be nil to disable pacing.
func NewListingClient(baseURL string, client *http.Client, limiter *ratelimit.Limiter, logger *slog.Logger) *ListingClient {
	return &ListingClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		limiter: limiter,
		logger:  logger,
	}
}

// Search fetches one result page and returns the job IDs it lists, in page
// order. The returned slice may contain IDs already seen on other pages or
// queries; deduplication is the store's concern. Only context cancellation
// surfaces as an error.
func (c *ListingClient) Search(ctx context.Context, query, location string, offset int) ([]string, error) {
	if err := c.limiter.Wait(ctx, "listing"); err != nil {
		return nil, err
	}

	searchURL := fmt.Sprintf(
		"%s%s?keywords=%s&location=%s&trk=public_jobs_jobs-search-bar_search-submit&pageNum=0&start=%d",
		c.baseURL, listingSearchPath, url.QueryEscape(query), url.QueryEscape(location), offset,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("listing search for %q: %w", query, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("listing search for %q: %w", query, err)
		}
		c.logger.Warn("listing fetch failed, skipping page",
			"query", query, "offset", offset, "error", err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("listing fetch failed, skipping page",
			"query", query, "offset", offset, "status", resp.StatusCode)
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		c.logger.Warn("listing page unparseable, skipping",
			"query", query, "offset", offset, "error", err)
		return nil, nil
	}

	var ids []string
	doc.Find("li").Each(func(_ int, item *goquery.Selection) {
		// Each result item carries the job's entity URN on a nested base
		// card; items without one are not postings.
		card := item.Find("div.base-card").First()
		if card.Length() == 0 {
			return
		}
		urn, ok := card.Attr("data-entity-urn")
		if !ok {
			return
		}
		parts := strings.Split(urn, ":")
		id := parts[len(parts)-1]
		if id != "" {
			ids = append(ids, id)
		}
	})

	return ids, nil
}
