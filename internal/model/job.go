package model

import "context"

// Unknown is the sentinel stored for any posting field whose element is
// absent from the fetched page. Records never carry empty fields.
const Unknown = "Unknown"

// JobRecord is one scraped posting, keyed by the job board's numeric ID.
// Records are immutable after creation and persist across runs.
type JobRecord struct {
	ID               string // entity ID parsed from the listing card
	Title            string
	OrganisationName string
	OrganisationURL  string
	Description      string
	Criteria         string
	URL              string // detail endpoint URL for this posting
	PostedTime       string // raw relative string ("2 weeks ago")
	Applicants       string // raw applicant-count string
}

// Profile describes what the user is looking for. It is loaded from config
// and threaded explicitly through every LLM-backed component.
type Profile struct {
	Summary          string   // free-text career profile
	Keywords         []string // must-relate-to keywords
	ExcludedKeywords []string // never-appear keywords
}

// QueryPlan is the query-generation output driving the scrape stage.
type QueryPlan struct {
	Location string
	Queries  []string // sanitized: deduplicated, no excluded keyword
}

// JobSummary condenses a posting into two bullet lists.
type JobSummary struct {
	KeyRequirements []string
	RoleDetails     []string
}

// RelevanceVerdict is the per-job classification output.
type RelevanceVerdict struct {
	Relevant    bool
	Confidence  float64 // always within [0,1]; validated, never coerced
	Explanation string
}

// EnrichedJob is the unit written to the result store: the scraped record
// plus its summary and verdict.
type EnrichedJob struct {
	JobRecord
	Summary JobSummary
	Verdict RelevanceVerdict
}

// ListingFetcher searches the listing endpoint for one query/location/offset
// page. Transport failures are handled inside the fetcher (logged, empty
// result); the error return is reserved for context cancellation.
type ListingFetcher interface {
	Search(ctx context.Context, query, location string, offset int) ([]string, error)
}

// DetailFetcher retrieves the full posting for one job ID. Returns (nil, nil)
// when the detail page cannot be fetched; missing page elements degrade to
// the Unknown sentinel rather than failing the record.
type DetailFetcher interface {
	Fetch(ctx context.Context, jobID string) (*JobRecord, error)
}

// JobStore durably accumulates scraped records across batches and runs,
// keyed by job ID with upsert semantics.
type JobStore interface {
	LoadJobs() ([]JobRecord, error)
	UpsertJobs(records []JobRecord) error
	HasJob(jobID string) (bool, error)
}

// ResultStore durably accumulates enriched jobs, checkpointed one record at
// a time so a crash loses at most the in-flight job.
type ResultStore interface {
	LoadResults() ([]EnrichedJob, error)
	UpsertResult(job EnrichedJob) error
	HasResult(jobID string) (bool, error)
}

// Notifier delivers enriched jobs that passed the relevance gate.
type Notifier interface {
	Notify(jobs []EnrichedJob) error
}
