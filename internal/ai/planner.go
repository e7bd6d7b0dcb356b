package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amishk599/jobscout/internal/filter"
	"github.com/amishk599/jobscout/internal/model"
)

// QueryPlanner turns the user profile and keyword policy into a location and
// a list of search queries via one structured-generation call. A response
// that fails validation aborts the run; planning is never retried.
type QueryPlanner struct {
	provider Provider
	logger   *slog.Logger
}

// NewQueryPlanner creates a planner backed by the given provider.
func NewQueryPlanner(provider Provider, logger *slog.Logger) *QueryPlanner {
	return &QueryPlanner{provider: provider, logger: logger}
}

// rawQueryPlan is the JSON shape returned by the model (matches queryPlanSchema).
type rawQueryPlan struct {
	Location string   `json:"location"`
	Queries  []string `json:"queries"`
}

// Plan generates the query plan for profile. The model is prompted not to
// emit duplicates or excluded keywords; the output is sanitized in code
// anyway so the invariant holds regardless of model quality.
func (p *QueryPlanner) Plan(ctx context.Context, profile model.Profile) (model.QueryPlan, error) {
	var promptBuf bytes.Buffer
	err := queryPlanTemplate.Execute(&promptBuf, struct {
		Profile          string
		Keywords         string
		ExcludedKeywords string
	}{
		Profile:          profile.Summary,
		Keywords:         strings.Join(profile.Keywords, ", "),
		ExcludedKeywords: strings.Join(profile.ExcludedKeywords, ", "),
	})
	if err != nil {
		return model.QueryPlan{}, fmt.Errorf("render query plan prompt: %w", err)
	}

	raw, err := p.provider.Generate(ctx, Request{
		Prompt:     promptBuf.String(),
		SchemaName: "query_plan",
		Schema:     queryPlanSchema,
	})
	if err != nil {
		return model.QueryPlan{}, fmt.Errorf("generate query plan: %w", err)
	}

	var rp rawQueryPlan
	if err := json.Unmarshal([]byte(raw), &rp); err != nil {
		return model.QueryPlan{}, &model.ModelError{Stage: "query_plan", Err: err}
	}

	location := strings.TrimSpace(rp.Location)
	if location == "" {
		location = "Worldwide"
	}

	excluded := filter.NewExcludedMatcher(profile.ExcludedKeywords)
	queries := filter.SanitizeQueries(rp.Queries, excluded)
	if dropped := len(rp.Queries) - len(queries); dropped > 0 {
		p.logger.Warn("dropped queries violating keyword policy", "dropped", dropped)
	}
	if len(queries) == 0 {
		return model.QueryPlan{}, &model.ModelError{
			Stage: "query_plan",
			Err:   fmt.Errorf("no usable queries in response"),
		}
	}

	return model.QueryPlan{Location: location, Queries: queries}, nil
}
