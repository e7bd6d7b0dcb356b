package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/amishk599/jobscout/internal/model"
)

// Summarizer condenses one posting into key-requirement and role-detail
// bullet lists via a single model call under a fixed system instruction.
type Summarizer struct {
	provider Provider
}

// NewSummarizer creates a summarizer backed by the given provider.
func NewSummarizer(provider Provider) *Summarizer {
	return &Summarizer{provider: provider}
}

// rawSummary is the JSON shape returned by the model (matches jobSummarySchema).
type rawSummary struct {
	KeyRequirements []string `json:"key_requirements"`
	RoleDetails     []string `json:"role_details"`
}

// Summarize produces the summary for job. A response that fails validation
// returns a ModelError; the caller drops the job from this run.
func (s *Summarizer) Summarize(ctx context.Context, job model.JobRecord) (model.JobSummary, error) {
	var promptBuf bytes.Buffer
	err := summaryTemplate.Execute(&promptBuf, struct {
		Title       string
		Description string
		Criteria    string
	}{
		Title:       job.Title,
		Description: job.Description,
		Criteria:    job.Criteria,
	})
	if err != nil {
		return model.JobSummary{}, fmt.Errorf("render summary prompt: %w", err)
	}

	raw, err := s.provider.Generate(ctx, Request{
		System:     summarySystem,
		Prompt:     promptBuf.String(),
		SchemaName: "job_summary",
		Schema:     jobSummarySchema,
	})
	if err != nil {
		return model.JobSummary{}, fmt.Errorf("generate summary for %s: %w", job.ID, err)
	}

	var rs rawSummary
	if err := json.Unmarshal([]byte(raw), &rs); err != nil {
		return model.JobSummary{}, &model.ModelError{Stage: "summary", Err: err}
	}
	if len(rs.KeyRequirements) == 0 && len(rs.RoleDetails) == 0 {
		return model.JobSummary{}, &model.ModelError{
			Stage: "summary",
			Err:   fmt.Errorf("empty summary for job %s", job.ID),
		}
	}

	return model.JobSummary{
		KeyRequirements: rs.KeyRequirements,
		RoleDetails:     rs.RoleDetails,
	}, nil
}
