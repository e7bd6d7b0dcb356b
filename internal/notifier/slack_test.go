package notifier

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amishk599/jobscout/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func enrichedJob() model.EnrichedJob {
	return model.EnrichedJob{
		JobRecord: model.JobRecord{
			ID:               "4242",
			Title:            "Embryologist",
			OrganisationName: "Acme Fertility",
			URL:              "https://example.com/jobs/4242",
			PostedTime:       "3 days ago",
		},
		Summary: model.JobSummary{
			KeyRequirements: []string{"MSc", "ICSI experience", "Lab QA", "Fourth requirement"},
		},
		Verdict: model.RelevanceVerdict{
			Relevant:    true,
			Confidence:  0.85,
			Explanation: "Direct clinical embryology match.",
		},
	}
}

func TestNotify_SendsBlockKitPayload(t *testing.T) {
	var got slackPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewSlackNotifier(server.URL, server.Client(), testLogger())
	if err := n.Notify([]model.EnrichedJob{enrichedJob()}); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if len(got.Blocks) == 0 {
		t.Fatal("no blocks in payload")
	}
	header := got.Blocks[0]
	if header.Type != "header" || !strings.Contains(header.Text.Text, "Acme Fertility: Embryologist") {
		t.Errorf("header block = %+v", header)
	}

	var foundButton, foundReqs bool
	for _, b := range got.Blocks {
		if b.Type == "actions" {
			for _, e := range b.Elements {
				if e.Type == "button" && e.URL == "https://example.com/jobs/4242" {
					foundButton = true
				}
			}
		}
		if b.Type == "section" && b.Text != nil && strings.Contains(b.Text.Text, "Key requirements") {
			foundReqs = true
			// Only the first three requirements are shown.
			if strings.Contains(b.Text.Text, "Fourth requirement") {
				t.Error("payload includes more than three requirements")
			}
		}
	}
	if !foundButton {
		t.Error("no View Posting button in payload")
	}
	if !foundReqs {
		t.Error("no key-requirements section in payload")
	}
}

func TestNotify_RetriesOnRateLimit(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewSlackNotifier(server.URL, server.Client(), testLogger())
	if err := n.Notify([]model.EnrichedJob{enrichedJob()}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want retry after 429", calls)
	}
}

func TestNotify_ErrorOnlyWhenAllFail(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewSlackNotifier(server.URL, server.Client(), testLogger())

	// One of two messages fails: not an error.
	if err := n.Notify([]model.EnrichedJob{enrichedJob(), enrichedJob()}); err != nil {
		t.Fatalf("partial failure should not error: %v", err)
	}
}

func TestNotify_AllFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	n := NewSlackNotifier(server.URL, server.Client(), testLogger())
	if err := n.Notify([]model.EnrichedJob{enrichedJob()}); err == nil {
		t.Fatal("expected error when every message fails")
	}
}

func TestNotify_EmptyList(t *testing.T) {
	n := NewSlackNotifier("http://unreachable.invalid", http.DefaultClient, testLogger())
	if err := n.Notify(nil); err != nil {
		t.Fatalf("empty notify: %v", err)
	}
}
