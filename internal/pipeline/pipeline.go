package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amishk599/jobscout/internal/config"
	"github.com/amishk599/jobscout/internal/model"
)

// Planner generates the query plan driving the scrape stage.
type Planner interface {
	Plan(ctx context.Context, profile model.Profile) (model.QueryPlan, error)
}

// Summarizer condenses one scraped posting into a summary.
type Summarizer interface {
	Summarize(ctx context.Context, job model.JobRecord) (model.JobSummary, error)
}

// Classifier scores one posting against the user profile.
type Classifier interface {
	Classify(ctx context.Context, job model.JobRecord, summary model.JobSummary, profile model.Profile) (model.RelevanceVerdict, error)
}

// Deps bundles everything a Pipeline needs.
type Deps struct {
	Planner    Planner
	Listing    model.ListingFetcher
	Detail     model.DetailFetcher
	Jobs       model.JobStore
	Results    model.ResultStore
	Summarizer Summarizer
	Classifier Classifier
	Notifier   model.Notifier // may be nil
	Logger     *slog.Logger
}

// Pipeline owns one full pass: PLAN → SCRAPE → LOAD → ENRICH. Every stage
// runs strictly sequentially; each network and model call blocks until its
// result is in before the next one starts.
type Pipeline struct {
	deps          Deps
	profile       model.Profile
	scrape        config.ScrapeConfig
	minConfidence float64
}

// New creates a pipeline for the given profile and scrape bounds.
// minConfidence is the relevance floor below which jobs are not notified.
func New(deps Deps, profile model.Profile, scrape config.ScrapeConfig, minConfidence float64) *Pipeline {
	return &Pipeline{
		deps:          deps,
		profile:       profile,
		scrape:        scrape,
		minConfidence: minConfidence,
	}
}

// Run executes one full pipeline pass. A planning failure aborts the run;
// scrape-stage transport failures and per-job enrichment failures are
// skipped locally and the run continues.
func (p *Pipeline) Run(ctx context.Context) error {
	plan, err := p.deps.Planner.Plan(ctx, p.profile)
	if err != nil {
		return fmt.Errorf("planning queries: %w", err)
	}
	p.deps.Logger.Info("query plan ready",
		"location", plan.Location,
		"queries", len(plan.Queries),
	)

	if err := p.scrapeAll(ctx, plan); err != nil {
		return err
	}

	jobs, err := p.deps.Jobs.LoadJobs()
	if err != nil {
		return fmt.Errorf("loading scraped jobs: %w", err)
	}
	p.deps.Logger.Info("enrichment starting", "jobs", len(jobs))

	if err := p.enrichAll(ctx, jobs); err != nil {
		return err
	}

	p.deps.Logger.Info("pipeline done")
	return nil
}

// scrapeAll runs the full query list at each pagination offset (0, 25, …
// up to the configured ceiling). The loop is fixed-count, not adaptive;
// offsets beyond the available results simply contribute fewer or zero IDs.
// The job store is checkpointed after every query/offset batch.
func (p *Pipeline) scrapeAll(ctx context.Context, plan model.QueryPlan) error {
	for offset := 0; offset < p.scrape.MaxScrape; offset += p.scrape.PageSize {
		for _, query := range plan.Queries {
			if err := ctx.Err(); err != nil {
				return err
			}

			ids, err := p.deps.Listing.Search(ctx, query, plan.Location, offset)
			if err != nil {
				return fmt.Errorf("searching %q at offset %d: %w", query, offset, err)
			}

			batch, err := p.fetchNewDetails(ctx, ids)
			if err != nil {
				return err
			}

			if err := p.deps.Jobs.UpsertJobs(batch); err != nil {
				return fmt.Errorf("storing batch for %q at offset %d: %w", query, offset, err)
			}

			p.deps.Logger.Info("scraped page",
				"query", query,
				"offset", offset,
				"listed", len(ids),
				"new", len(batch),
			)
		}
	}
	return nil
}

// fetchNewDetails fetches detail records for the IDs not already stored.
// IDs repeated within the page and postings whose detail page cannot be
// fetched are skipped.
func (p *Pipeline) fetchNewDetails(ctx context.Context, ids []string) ([]model.JobRecord, error) {
	seen := make(map[string]struct{}, len(ids))
	var batch []model.JobRecord
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		stored, err := p.deps.Jobs.HasJob(id)
		if err != nil {
			return nil, fmt.Errorf("checking job %s: %w", id, err)
		}
		if stored {
			continue
		}

		record, err := p.deps.Detail.Fetch(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("fetching detail for %s: %w", id, err)
		}
		if record != nil {
			batch = append(batch, *record)
		}
	}
	return batch, nil
}

// enrichAll processes stored jobs one at a time in stored order:
// summarize, classify, persist. The result store is checkpointed after
// every job, so an interrupted run loses at most the in-flight job and
// resumes past already-enriched ones. A ModelError drops the job from
// this run; it is not retried.
func (p *Pipeline) enrichAll(ctx context.Context, jobs []model.JobRecord) error {
	var notify []model.EnrichedJob
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			return err
		}

		done, err := p.deps.Results.HasResult(job.ID)
		if err != nil {
			return fmt.Errorf("checking result for %s: %w", job.ID, err)
		}
		if done {
			p.deps.Logger.Debug("already enriched, skipping", "job_id", job.ID)
			continue
		}

		summary, err := p.deps.Summarizer.Summarize(ctx, job)
		if err != nil {
			if skip, serr := p.skipOrAbort(err, job.ID, "summarize"); skip {
				continue
			} else {
				return serr
			}
		}

		verdict, err := p.deps.Classifier.Classify(ctx, job, summary, p.profile)
		if err != nil {
			if skip, serr := p.skipOrAbort(err, job.ID, "classify"); skip {
				continue
			} else {
				return serr
			}
		}

		enriched := model.EnrichedJob{JobRecord: job, Summary: summary, Verdict: verdict}
		if err := p.deps.Results.UpsertResult(enriched); err != nil {
			return fmt.Errorf("persisting result for %s: %w", job.ID, err)
		}

		p.deps.Logger.Info("job enriched",
			"job_id", job.ID,
			"title", job.Title,
			"relevant", verdict.Relevant,
			"confidence", verdict.Confidence,
			"progress", fmt.Sprintf("%d/%d", i+1, len(jobs)),
		)

		if verdict.Relevant && verdict.Confidence >= p.minConfidence {
			notify = append(notify, enriched)
		}
	}

	if len(notify) > 0 && p.deps.Notifier != nil {
		if err := p.deps.Notifier.Notify(notify); err != nil {
			p.deps.Logger.Error("notification failed", "error", err)
		}
	}
	return nil
}

// skipOrAbort decides whether a per-job enrichment failure drops the job
// (logged, run continues) or aborts the run. Only context cancellation
// aborts; model and transport failures cost one job each.
func (p *Pipeline) skipOrAbort(err error, jobID, stage string) (bool, error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false, err
	}

	var modelErr *model.ModelError
	if errors.As(err, &modelErr) {
		p.deps.Logger.Warn("model output invalid, dropping job",
			"job_id", jobID, "stage", stage, "error", err)
		return true, nil
	}

	p.deps.Logger.Warn("enrichment call failed, dropping job",
		"job_id", jobID, "stage", stage, "error", err)
	return true, nil
}
