package stats

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/omrsheet/internal/database"
	"github.com/example/omrsheet/internal/history"
	"github.com/example/omrsheet/pkg/models"
)

func intPtr(v int) *int { return &v }

func archiveWith(t *testing.T, tests ...*models.EvaluatedTest) *history.Archive {
	t.Helper()
	archive := history.NewArchive(database.NewMemoryStore())
	for _, test := range tests {
		require.NoError(t, archive.Append(test))
	}
	return archive
}

func scoredTest(name string, score, questions, markingCorrect int, evaluatedAt time.Time) *models.EvaluatedTest {
	return &models.EvaluatedTest{
		ID:   uuid.NewString(),
		Name: name,
		Config: models.TestConfig{
			Name:              name,
			NumberOfQuestions: questions,
			TimerMode:         models.TimerModeNone,
			MarkingCorrect:    markingCorrect,
			MarkingIncorrect:  -1,
		},
		Questions:    []models.Question{},
		Status:       models.StatusEvaluated,
		EvaluatedAt:  evaluatedAt.Format(time.RFC3339),
		ScoreDetails: models.ScoreDetails{Score: score, Percentage: 50},
	}
}

func TestRecentResults_OrderAndLimit(t *testing.T) {
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	var tests []*models.EvaluatedTest
	for i := 1; i <= 5; i++ {
		tests = append(tests, scoredTest(fmt.Sprintf("Mock %d", i), i*10, 25, 4, base.Add(time.Duration(i)*time.Hour)))
	}
	agg := NewAggregator(archiveWith(t, tests...))

	results, err := agg.RecentResults(3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// The three most recent, oldest first
	assert.Equal(t, "Mock 3", results[0].Name)
	assert.Equal(t, "Mock 4", results[1].Name)
	assert.Equal(t, "Mock 5", results[2].Name)
}

func TestRecentResults_OverallPercentage(t *testing.T) {
	// score 30 of max 25*4=100
	agg := NewAggregator(archiveWith(t, scoredTest("Mock", 30, 25, 4, time.Now())))

	results, err := agg.RecentResults(10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 100, results[0].MaxScore)
	assert.InDelta(t, 30.0, results[0].OverallPercentage, 0.0001)
	assert.InDelta(t, 50.0, results[0].Accuracy, 0.0001)
}

func TestRecentResults_ZeroMaxScore(t *testing.T) {
	// markingCorrect 0 makes the theoretical maximum 0
	agg := NewAggregator(archiveWith(t, scoredTest("Degenerate", 0, 10, 0, time.Now())))

	results, err := agg.RecentResults(10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Zero(t, results[0].OverallPercentage, "must yield 0 rather than divide by zero")
}

func TestSummarize(t *testing.T) {
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	a := scoredTest("Low", 10, 25, 4, base)
	a.ElapsedTimeSeconds = intPtr(600)
	b := scoredTest("High", 80, 25, 4, base.Add(time.Hour))
	b.ElapsedTimeSeconds = intPtr(1200)

	agg := NewAggregator(archiveWith(t, a, b))
	summary, err := agg.Summarize()
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalTests)
	assert.Equal(t, 80, summary.BestScore)
	assert.Equal(t, "High", summary.BestTestName)
	assert.Equal(t, 900, summary.AverageElapsedSecs)
	assert.InDelta(t, 50.0, summary.AverageAccuracy, 0.0001)
}

func TestSummarize_EmptyArchive(t *testing.T) {
	agg := NewAggregator(archiveWith(t))
	summary, err := agg.Summarize()
	require.NoError(t, err)
	assert.Zero(t, summary.TotalTests)
	assert.Zero(t, summary.AverageAccuracy)
}
