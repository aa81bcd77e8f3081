// Package stats derives display summaries from the history archive. It is
// read-only; nothing here mutates stored state.
package stats

import (
	"github.com/example/omrsheet/internal/history"
	"github.com/example/omrsheet/pkg/models"
)

// Result is one archived test reduced to chart-friendly numbers.
// OverallPercentage divides by the theoretical maximum score, unlike
// ScoreDetails.Percentage which is accuracy over attempted questions.
type Result struct {
	TestID            string
	Name              string
	EvaluatedAt       string
	Score             int
	MaxScore          int
	OverallPercentage float64
	Accuracy          float64
}

// Summary aggregates the whole archive for the dashboard
type Summary struct {
	TotalTests         int
	AverageAccuracy    float64
	BestScore          int
	BestTestName       string
	AverageElapsedSecs int
}

// Aggregator reads the archive and computes summaries
type Aggregator struct {
	archive *history.Archive
}

// NewAggregator creates an aggregator over the given archive
func NewAggregator(archive *history.Archive) *Aggregator {
	return &Aggregator{archive: archive}
}

// RecentResults returns up to limit results, the most recent ones, ordered
// by evaluation time ascending for charting.
func (a *Aggregator) RecentResults(limit int) ([]Result, error) {
	tests, err := a.archive.ListByEvaluatedAt()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(tests) > limit {
		tests = tests[len(tests)-limit:]
	}

	results := make([]Result, 0, len(tests))
	for i := range tests {
		results = append(results, toResult(&tests[i]))
	}
	return results, nil
}

// Summarize reduces the whole archive to dashboard totals
func (a *Aggregator) Summarize() (*Summary, error) {
	tests, err := a.archive.ListByEvaluatedAt()
	if err != nil {
		return nil, err
	}

	summary := &Summary{TotalTests: len(tests)}
	if len(tests) == 0 {
		return summary, nil
	}

	var accuracySum float64
	var elapsedSum, elapsedCount int
	best := &tests[0]
	for i := range tests {
		t := &tests[i]
		accuracySum += t.ScoreDetails.Percentage
		if t.ElapsedTimeSeconds != nil {
			elapsedSum += *t.ElapsedTimeSeconds
			elapsedCount++
		}
		if t.ScoreDetails.Score > best.ScoreDetails.Score {
			best = t
		}
	}
	summary.AverageAccuracy = accuracySum / float64(len(tests))
	summary.BestScore = best.ScoreDetails.Score
	summary.BestTestName = best.Name
	if elapsedCount > 0 {
		summary.AverageElapsedSecs = elapsedSum / elapsedCount
	}
	return summary, nil
}

// toResult computes the overall percentage against the maximum achievable
// score, yielding 0 rather than dividing by zero for degenerate configs.
func toResult(t *models.EvaluatedTest) Result {
	r := Result{
		TestID:      t.ID,
		Name:        t.Name,
		EvaluatedAt: t.EvaluatedAt,
		Score:       t.ScoreDetails.Score,
		MaxScore:    t.Config.MaxScore(),
		Accuracy:    t.ScoreDetails.Percentage,
	}
	if r.MaxScore > 0 {
		r.OverallPercentage = float64(r.Score) / float64(r.MaxScore) * 100
	}
	return r
}
