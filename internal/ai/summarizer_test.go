package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/amishk599/jobscout/internal/model"
)

func testJob() model.JobRecord {
	return model.JobRecord{
		ID:          "1001",
		Title:       "Doctoral Researcher",
		Description: "We study fertility in wild populations.",
		Criteria:    "Seniority level Entry level",
	}
}

func TestSummarize_ParsesBulletLists(t *testing.T) {
	stub := &stubProvider{response: `{
		"key_requirements": ["MSc in biology", "Lab experience"],
		"role_details": ["Field work", "Data analysis"]
	}`}
	s := NewSummarizer(stub)

	sum, err := s.Summarize(context.Background(), testJob())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sum.KeyRequirements) != 2 || sum.KeyRequirements[0] != "MSc in biology" {
		t.Errorf("KeyRequirements = %v", sum.KeyRequirements)
	}
	if len(sum.RoleDetails) != 2 || sum.RoleDetails[1] != "Data analysis" {
		t.Errorf("RoleDetails = %v", sum.RoleDetails)
	}

	if stub.lastReq.System == "" {
		t.Error("summarizer must send its system instruction")
	}
	if stub.lastReq.SchemaName != "job_summary" {
		t.Errorf("SchemaName = %q, want job_summary", stub.lastReq.SchemaName)
	}
	if !strings.Contains(stub.lastReq.Prompt, "Doctoral Researcher") {
		t.Error("prompt missing job title")
	}
	if !strings.Contains(stub.lastReq.Prompt, "fertility in wild populations") {
		t.Error("prompt missing description")
	}
}

func TestSummarize_MalformedJSONIsModelError(t *testing.T) {
	s := NewSummarizer(&stubProvider{response: `{{nope`})

	_, err := s.Summarize(context.Background(), testJob())
	var modelErr *model.ModelError
	if !errors.As(err, &modelErr) {
		t.Fatalf("expected ModelError, got %v", err)
	}
	if modelErr.Stage != "summary" {
		t.Errorf("Stage = %q, want summary", modelErr.Stage)
	}
}

func TestSummarize_EmptySummaryIsModelError(t *testing.T) {
	s := NewSummarizer(&stubProvider{response: `{"key_requirements": [], "role_details": []}`})

	_, err := s.Summarize(context.Background(), testJob())
	var modelErr *model.ModelError
	if !errors.As(err, &modelErr) {
		t.Fatalf("expected ModelError for empty summary, got %v", err)
	}
}

func TestSummarize_ProviderErrorPropagates(t *testing.T) {
	wantErr := errors.New("timeout")
	s := NewSummarizer(&stubProvider{err: wantErr})

	_, err := s.Summarize(context.Background(), testJob())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
}
