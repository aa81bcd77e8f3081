package models

import "time"

// TimerMode selects how the clock behaves during a test
type TimerMode string

const (
	// TimerModeTimer counts down from a fixed duration
	TimerModeTimer TimerMode = "timer"
	// TimerModeStopwatch counts up without a limit
	TimerModeStopwatch TimerMode = "stopwatch"
	// TimerModeNone disables the clock entirely
	TimerModeNone TimerMode = "none"
)

// IsValidTimerMode reports whether m is a recognized timer mode
func IsValidTimerMode(m TimerMode) bool {
	switch m {
	case TimerModeTimer, TimerModeStopwatch, TimerModeNone:
		return true
	}
	return false
}

// TestConfig holds the normalized settings a test was created with.
// DurationMinutes is set iff TimerMode is "timer".
type TestConfig struct {
	Name              string    `json:"name"`
	NumberOfQuestions int       `json:"numberOfQuestions"`
	TimerMode         TimerMode `json:"timerMode"`
	DurationMinutes   *int      `json:"durationMinutes,omitempty"`
	MarkingCorrect    int       `json:"markingCorrect"`
	MarkingIncorrect  int       `json:"markingIncorrect"`
}

// MaxScore returns the theoretical best score for this configuration
func (c TestConfig) MaxScore() int {
	return c.NumberOfQuestions * c.MarkingCorrect
}

// Snapshot is the frozen session state handed to self-evaluation when the
// user submits: the config, the questions with answers and flags fixed, and
// the real creation/submission moments.
type Snapshot struct {
	Config             TestConfig `json:"config"`
	Questions          []Question `json:"questions"`
	CreatedAt          time.Time  `json:"createdAt"`
	SubmittedAt        time.Time  `json:"submittedAt"`
	ElapsedTimeSeconds *int       `json:"elapsedTimeSeconds,omitempty"`
}

// ScoreDetails summarizes a completed evaluation. CorrectCount,
// IncorrectCount and UnattemptedCount always partition the question count.
// Percentage is accuracy: correct over attempted, 0 when nothing attempted.
type ScoreDetails struct {
	Score            int     `json:"score"`
	CorrectCount     int     `json:"correctCount"`
	IncorrectCount   int     `json:"incorrectCount"`
	UnattemptedCount int     `json:"unattemptedCount"`
	Percentage       float64 `json:"percentage"`
}

// StatusEvaluated is the only status an archived test can carry
const StatusEvaluated = "evaluated"

// EvaluatedTest is the persisted unit of history: one fully scored test.
// Immutable once archived, except for wholesale replacement during restore.
type EvaluatedTest struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	Config             TestConfig   `json:"config"`
	Questions          []Question   `json:"questions"`
	Status             string       `json:"status"`
	CreatedAt          string       `json:"createdAt"`   // RFC 3339
	SubmittedAt        string       `json:"submittedAt"` // RFC 3339
	EvaluatedAt        string       `json:"evaluatedAt"` // RFC 3339
	ScoreDetails       ScoreDetails `json:"scoreDetails"`
	ElapsedTimeSeconds *int         `json:"elapsedTimeSeconds,omitempty"`
}

// EvaluatedAtTime parses the evaluation timestamp, returning the zero time
// if the field is malformed
func (t *EvaluatedTest) EvaluatedAtTime() time.Time {
	ts, err := time.Parse(time.RFC3339, t.EvaluatedAt)
	if err != nil {
		return time.Time{}
	}
	return ts
}
