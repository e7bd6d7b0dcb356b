package notifier

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/amishk599/jobscout/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes relevant jobs to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each job via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each job with organisation, title, confidence and the first
// few key requirements. Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(jobs []model.EnrichedJob) error {
	for _, j := range jobs {
		n.logger.Info("relevant job",
			"organisation", j.OrganisationName,
			"title", j.Title,
			"confidence", fmt.Sprintf("%.2f", j.Verdict.Confidence),
			"posted", j.PostedTime,
			"url", j.URL,
			"requirements", strings.Join(topN(j.Summary.KeyRequirements, 3), "; "),
		)
	}
	return nil
}

func topN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
