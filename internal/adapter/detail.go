package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/jobscout/internal/model"
	"github.com/amishk599/jobscout/internal/ratelimit"
)

// Ensure DetailClient implements model.DetailFetcher.
var _ model.DetailFetcher = (*DetailClient)(nil)

const detailPostingPath = "/jobs-guest/jobs/api/jobPosting/"

// DetailClient fetches the full posting page for a job ID and extracts the
// record fields. A posting that cannot be fetched is skipped; a field whose
// element is missing degrades to the Unknown sentinel.
type DetailClient struct {
	baseURL string
	client  *http.Client
	limiter *ratelimit.Limiter
	logger  *slog.Logger
}

// NewDetailClient creates a client for the posting detail endpoint rooted at
// baseURL. The limiter may be nil to disable pacing.
func NewDetailClient(baseURL string, client *http.Client, limiter *ratelimit.Limiter, logger *slog.Logger) *DetailClient {
	return &DetailClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		limiter: limiter,
		logger:  logger,
	}
}

// Fetch retrieves and parses the posting for jobID. Returns (nil, nil) when
// the page cannot be fetched; only context cancellation surfaces as an error.
func (c *DetailClient) Fetch(ctx context.Context, jobID string) (*model.JobRecord, error) {
	if err := c.limiter.Wait(ctx, "detail"); err != nil {
		return nil, err
	}

	jobURL := c.baseURL + detailPostingPath + jobID

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jobURL, nil)
	if err != nil {
		return nil, fmt.Errorf("detail fetch for %s: %w", jobID, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("detail fetch for %s: %w", jobID, err)
		}
		c.logger.Warn("detail fetch failed, skipping job", "job_id", jobID, "error", err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("detail fetch failed, skipping job", "job_id", jobID, "status", resp.StatusCode)
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		c.logger.Warn("detail page unparseable, skipping job", "job_id", jobID, "error", err)
		return nil, nil
	}

	record := parseDetail(doc, jobID, jobURL)
	return &record, nil
}

// parseDetail extracts the eight record fields from a posting page. Every
// extraction falls back to Unknown on a missing element; a sparse page still
// yields a valid record.
func parseDetail(doc *goquery.Document, jobID, jobURL string) model.JobRecord {
	org := doc.Find("a.topcard__org-name-link")

	// The applicant count renders in one of two shapes depending on the
	// page template.
	applicants := textOrUnknown(doc.Find("figcaption.num-applicants__caption"))
	if applicants == model.Unknown {
		applicants = textOrUnknown(doc.Find("span.num-applicants__caption"))
	}

	return model.JobRecord{
		ID:               jobID,
		Title:            textOrUnknown(doc.Find("h2.top-card-layout__title")),
		OrganisationName: textOrUnknown(org),
		OrganisationURL:  attrOrUnknown(org, "href"),
		Description:      textOrUnknown(doc.Find("div.show-more-less-html__markup")),
		Criteria:         textOrUnknown(doc.Find("ul.description__job-criteria-list")),
		URL:              jobURL,
		PostedTime:       textOrUnknown(doc.Find("span.posted-time-ago__text")),
		Applicants:       applicants,
	}
}
