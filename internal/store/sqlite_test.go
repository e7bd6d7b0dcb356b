package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/amishk599/jobscout/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(dbPath, testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func record(id string) model.JobRecord {
	return model.JobRecord{
		ID:               id,
		Title:            "Title " + id,
		OrganisationName: "Org " + id,
		OrganisationURL:  "https://example.com/org/" + id,
		Description:      "Description " + id,
		Criteria:         "Criteria " + id,
		URL:              "https://example.com/jobs/" + id,
		PostedTime:       "1 day ago",
		Applicants:       "5 applicants",
	}
}

func enriched(id string) model.EnrichedJob {
	return model.EnrichedJob{
		JobRecord: record(id),
		Summary: model.JobSummary{
			KeyRequirements: []string{"req A", "req B"},
			RoleDetails:     []string{"detail A"},
		},
		Verdict: model.RelevanceVerdict{
			Relevant:    true,
			Confidence:  0.8,
			Explanation: "matches field and level",
		},
	}
}

func TestUpsertThenLoadPreservesOrder(t *testing.T) {
	s := newTestStore(t)

	var want []model.JobRecord
	for i := 0; i < 5; i++ {
		want = append(want, record(fmt.Sprintf("%d", 1000+i)))
	}
	if err := s.UpsertJobs(want); err != nil {
		t.Fatalf("UpsertJobs: %v", err)
	}

	got, err := s.LoadJobs()
	if err != nil {
		t.Fatalf("LoadJobs: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("loaded %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLoadSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "jobs.db")

	s, err := Open(dbPath, testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.UpsertJobs([]model.JobRecord{record("1"), record("2")}); err != nil {
		t.Fatalf("UpsertJobs: %v", err)
	}
	s.Close()

	s2, err := Open(dbPath, testLogger())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got, err := s2.LoadJobs()
	if err != nil {
		t.Fatalf("LoadJobs: %v", err)
	}
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Errorf("after reopen got %+v", got)
	}
}

func TestUpsertDeduplicatesByID(t *testing.T) {
	s := newTestStore(t)

	if err := s.UpsertJobs([]model.JobRecord{record("1001")}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// Re-scrape the same posting with refreshed data.
	updated := record("1001")
	updated.Applicants = "50 applicants"
	if err := s.UpsertJobs([]model.JobRecord{updated}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := s.LoadJobs()
	if err != nil {
		t.Fatalf("LoadJobs: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record after duplicate upsert, got %d", len(got))
	}
	if got[0].Applicants != "50 applicants" {
		t.Errorf("Applicants = %q, want refreshed value", got[0].Applicants)
	}
}

func TestHasJob(t *testing.T) {
	s := newTestStore(t)

	if err := s.UpsertJobs([]model.JobRecord{record("1001")}); err != nil {
		t.Fatalf("UpsertJobs: %v", err)
	}

	seen, err := s.HasJob("1001")
	if err != nil {
		t.Fatalf("HasJob: %v", err)
	}
	if !seen {
		t.Error("expected HasJob to return true for stored ID")
	}

	seen, err = s.HasJob("9999")
	if err != nil {
		t.Fatalf("HasJob: %v", err)
	}
	if seen {
		t.Error("expected HasJob to return false for unknown ID")
	}
}

func TestResultCheckpointCounts(t *testing.T) {
	s := newTestStore(t)

	// The enrich loop checkpoints after every job: after k of n jobs the
	// store must hold exactly k results.
	n := 4
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("%d", 2000+i)
		if err := s.UpsertJobs([]model.JobRecord{record(id)}); err != nil {
			t.Fatalf("UpsertJobs: %v", err)
		}
		if err := s.UpsertResult(enriched(id)); err != nil {
			t.Fatalf("UpsertResult: %v", err)
		}

		results, err := s.LoadResults()
		if err != nil {
			t.Fatalf("LoadResults: %v", err)
		}
		if len(results) != i+1 {
			t.Fatalf("after job %d: %d results, want %d", i+1, len(results), i+1)
		}
	}
}

func TestResultRoundTrip(t *testing.T) {
	s := newTestStore(t)

	want := enriched("1001")
	if err := s.UpsertJobs([]model.JobRecord{want.JobRecord}); err != nil {
		t.Fatalf("UpsertJobs: %v", err)
	}
	if err := s.UpsertResult(want); err != nil {
		t.Fatalf("UpsertResult: %v", err)
	}

	results, err := s.LoadResults()
	if err != nil {
		t.Fatalf("LoadResults: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	got := results[0]
	if got.JobRecord != want.JobRecord {
		t.Errorf("JobRecord = %+v, want %+v", got.JobRecord, want.JobRecord)
	}
	if got.Verdict != want.Verdict {
		t.Errorf("Verdict = %+v, want %+v", got.Verdict, want.Verdict)
	}
	if len(got.Summary.KeyRequirements) != 2 || got.Summary.KeyRequirements[0] != "req A" {
		t.Errorf("KeyRequirements = %v", got.Summary.KeyRequirements)
	}
	if len(got.Summary.RoleDetails) != 1 || got.Summary.RoleDetails[0] != "detail A" {
		t.Errorf("RoleDetails = %v", got.Summary.RoleDetails)
	}

	has, err := s.HasResult("1001")
	if err != nil {
		t.Fatalf("HasResult: %v", err)
	}
	if !has {
		t.Error("expected HasResult true after upsert")
	}
}

func TestOpenCorruptFileStartsFresh(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "jobs.db")
	if err := os.WriteFile(dbPath, []byte("this is not a database"), 0o644); err != nil {
		t.Fatalf("writing garbage file: %v", err)
	}

	s, err := Open(dbPath, testLogger())
	if err != nil {
		t.Fatalf("Open on corrupt file should recover, got: %v", err)
	}
	defer s.Close()

	jobs, err := s.LoadJobs()
	if err != nil {
		t.Fatalf("LoadJobs: %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("expected empty store after corruption, got %d jobs", len(jobs))
	}

	if _, err := os.Stat(dbPath + ".corrupt"); err != nil {
		t.Errorf("expected corrupt file to be moved aside: %v", err)
	}
}
