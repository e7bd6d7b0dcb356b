package ai

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/amishk599/jobscout/internal/model"
)

// stubProvider is a deterministic Provider for tests. It records the last
// request it saw.
type stubProvider struct {
	response string
	err      error
	lastReq  Request
}

func (s *stubProvider) Generate(_ context.Context, req Request) (string, error) {
	s.lastReq = req
	return s.response, s.err
}

func testProfile() model.Profile {
	return model.Profile{
		Summary:          "I want a PhD in reproduction.",
		Keywords:         []string{"Reproduction", "fertility", "embryology"},
		ExcludedKeywords: []string{"Postdoctoral", "internship", "senior"},
	}
}

func newTestPlanner(p Provider) *QueryPlanner {
	return NewQueryPlanner(p, slog.New(slog.DiscardHandler))
}

func TestPlan_ParsesLocationAndQueries(t *testing.T) {
	stub := &stubProvider{response: `{
		"location": "Worldwide",
		"queries": ["PhD Reproduction", "fertility research position", "PhD embryology"]
	}`}
	planner := newTestPlanner(stub)

	plan, err := planner.Plan(context.Background(), testProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Location != "Worldwide" {
		t.Errorf("Location = %q, want Worldwide", plan.Location)
	}
	if len(plan.Queries) != 3 {
		t.Fatalf("expected 3 queries, got %v", plan.Queries)
	}
	if plan.Queries[0] != "PhD Reproduction" {
		t.Errorf("Queries[0] = %q", plan.Queries[0])
	}

	if stub.lastReq.SchemaName != "query_plan" {
		t.Errorf("SchemaName = %q, want query_plan", stub.lastReq.SchemaName)
	}
	if !strings.Contains(stub.lastReq.Prompt, "PhD in reproduction") {
		t.Error("prompt missing profile text")
	}
	if !strings.Contains(stub.lastReq.Prompt, "Postdoctoral, internship, senior") {
		t.Error("prompt missing excluded keywords")
	}
}

func TestPlan_DropsQueriesWithExcludedKeywords(t *testing.T) {
	// "Senior fertility scientist" carries an excluded keyword as a
	// substring (case-insensitive); it must not survive.
	stub := &stubProvider{response: `{
		"location": "Worldwide",
		"queries": ["PhD Reproduction", "Senior fertility scientist", "embryology INTERNSHIP", "PhD Reproduction"]
	}`}
	planner := newTestPlanner(stub)

	plan, err := planner.Plan(context.Background(), testProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Queries) != 1 || plan.Queries[0] != "PhD Reproduction" {
		t.Fatalf("Queries = %v, want only [PhD Reproduction]", plan.Queries)
	}

	for _, q := range plan.Queries {
		lower := strings.ToLower(q)
		for _, kw := range testProfile().ExcludedKeywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				t.Errorf("query %q contains excluded keyword %q", q, kw)
			}
		}
	}
}

func TestPlan_EmptyLocationDefaultsToWorldwide(t *testing.T) {
	stub := &stubProvider{response: `{"location": "", "queries": ["PhD Reproduction"]}`}
	planner := newTestPlanner(stub)

	plan, err := planner.Plan(context.Background(), testProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Location != "Worldwide" {
		t.Errorf("Location = %q, want Worldwide", plan.Location)
	}
}

func TestPlan_MalformedJSONIsModelError(t *testing.T) {
	stub := &stubProvider{response: `not json at all`}
	planner := newTestPlanner(stub)

	_, err := planner.Plan(context.Background(), testProfile())
	var modelErr *model.ModelError
	if !errors.As(err, &modelErr) {
		t.Fatalf("expected ModelError, got %v", err)
	}
	if modelErr.Stage != "query_plan" {
		t.Errorf("Stage = %q, want query_plan", modelErr.Stage)
	}
}

func TestPlan_NoUsableQueriesIsModelError(t *testing.T) {
	stub := &stubProvider{response: `{"location": "Worldwide", "queries": ["senior internship"]}`}
	planner := newTestPlanner(stub)

	_, err := planner.Plan(context.Background(), testProfile())
	var modelErr *model.ModelError
	if !errors.As(err, &modelErr) {
		t.Fatalf("expected ModelError when all queries violate policy, got %v", err)
	}
}

func TestPlan_ProviderErrorPropagates(t *testing.T) {
	wantErr := errors.New("endpoint down")
	planner := newTestPlanner(&stubProvider{err: wantErr})

	_, err := planner.Plan(context.Background(), testProfile())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
}
