package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/amishk599/jobscout/internal/model"
)

// RelevanceClassifier scores one job against the user profile. Each job is
// an independent call; no conversation state is shared between jobs. The
// decision policy lives in the prompt, not here.
type RelevanceClassifier struct {
	provider Provider
}

// NewRelevanceClassifier creates a classifier backed by the given provider.
func NewRelevanceClassifier(provider Provider) *RelevanceClassifier {
	return &RelevanceClassifier{provider: provider}
}

// rawVerdict is the JSON shape returned by the model (matches relevanceSchema).
type rawVerdict struct {
	Relevant    bool    `json:"relevant"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// Classify scores job given its previously computed summary. Confidence
// outside [0,1] is a validation failure, not coerced; the caller drops the
// job from this run on ModelError.
func (c *RelevanceClassifier) Classify(ctx context.Context, job model.JobRecord, summary model.JobSummary, profile model.Profile) (model.RelevanceVerdict, error) {
	var promptBuf bytes.Buffer
	err := relevanceTemplate.Execute(&promptBuf, struct {
		Profile          string
		Keywords         string
		ExcludedKeywords string
		Title            string
		Summary          string
	}{
		Profile:          profile.Summary,
		Keywords:         strings.Join(profile.Keywords, ", "),
		ExcludedKeywords: strings.Join(profile.ExcludedKeywords, ", "),
		Title:            job.Title,
		Summary:          renderSummary(summary),
	})
	if err != nil {
		return model.RelevanceVerdict{}, fmt.Errorf("render relevance prompt: %w", err)
	}

	raw, err := c.provider.Generate(ctx, Request{
		Prompt:     promptBuf.String(),
		SchemaName: "relevance",
		Schema:     relevanceSchema,
	})
	if err != nil {
		return model.RelevanceVerdict{}, fmt.Errorf("classify %s: %w", job.ID, err)
	}

	var rv rawVerdict
	if err := json.Unmarshal([]byte(raw), &rv); err != nil {
		return model.RelevanceVerdict{}, &model.ModelError{Stage: "relevance", Err: err}
	}
	if rv.Confidence < 0 || rv.Confidence > 1 {
		return model.RelevanceVerdict{}, &model.ModelError{
			Stage: "relevance",
			Err:   fmt.Errorf("confidence %v outside [0,1]", rv.Confidence),
		}
	}

	return model.RelevanceVerdict{
		Relevant:    rv.Relevant,
		Confidence:  rv.Confidence,
		Explanation: rv.Explanation,
	}, nil
}

// renderSummary flattens a summary into the plain-text block the relevance
// prompt expects.
func renderSummary(s model.JobSummary) string {
	var b strings.Builder
	b.WriteString("Key requirements: ")
	b.WriteString(strings.Join(s.KeyRequirements, "; "))
	b.WriteString(". Role details: ")
	b.WriteString(strings.Join(s.RoleDetails, "; "))
	b.WriteString(".")
	return b.String()
}
