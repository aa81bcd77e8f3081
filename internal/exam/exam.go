package exam

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/example/omrsheet/pkg/models"
)

// Limits enforced on user-entered configuration
const (
	MinNameLength = 3
	MaxNameLength = 100
	MinQuestions  = 1
	MaxQuestions  = 100
)

// ValidationError reports a single invalid field in the creation input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Input is the raw user-entered test creation form
type Input struct {
	Name              string
	NumberOfQuestions int
	TimerMode         models.TimerMode
	DurationMinutes   *int
	MarkingCorrect    int
	MarkingIncorrect  int
}

// InputFromDefaults pre-fills a creation form from the stored defaults.
// The user's own edits always take precedence afterwards.
func InputFromDefaults(s models.Settings) Input {
	in := Input{
		TimerMode:        s.TimerPreferences.DefaultMode,
		MarkingCorrect:   s.ScoringRules.Correct,
		MarkingIncorrect: s.ScoringRules.Incorrect,
	}
	if s.TimerPreferences.DefaultDurationMinutes != nil {
		d := *s.TimerPreferences.DefaultDurationMinutes
		in.DurationMinutes = &d
	}
	return in
}

// BuildConfig validates the input and returns a normalized TestConfig.
// The first failing rule is reported as a field-tagged validation error.
func BuildConfig(in Input) (*models.TestConfig, error) {
	name := strings.TrimSpace(in.Name)
	if len(name) < MinNameLength || len(name) > MaxNameLength {
		return nil, &ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("must be between %d and %d characters", MinNameLength, MaxNameLength),
		}
	}
	if in.NumberOfQuestions < MinQuestions || in.NumberOfQuestions > MaxQuestions {
		return nil, &ValidationError{
			Field:   "numberOfQuestions",
			Message: fmt.Sprintf("must be between %d and %d", MinQuestions, MaxQuestions),
		}
	}
	if !models.IsValidTimerMode(in.TimerMode) {
		return nil, &ValidationError{Field: "timerMode", Message: "must be timer, stopwatch or none"}
	}

	config := &models.TestConfig{
		Name:              name,
		NumberOfQuestions: in.NumberOfQuestions,
		TimerMode:         in.TimerMode,
		MarkingCorrect:    in.MarkingCorrect,
		MarkingIncorrect:  in.MarkingIncorrect,
	}

	// DurationMinutes is present iff the mode is timer
	if in.TimerMode == models.TimerModeTimer {
		if in.DurationMinutes == nil || *in.DurationMinutes <= 0 {
			return nil, &ValidationError{Field: "durationMinutes", Message: "must be a positive number of minutes"}
		}
		d := *in.DurationMinutes
		config.DurationMinutes = &d
	} else if in.DurationMinutes != nil {
		return nil, &ValidationError{Field: "durationMinutes", Message: "only applies to timer mode"}
	}

	return config, nil
}

// GenerateQuestions creates n blank answer-sheet questions with unique ids,
// generic labels and the canonical four options.
func GenerateQuestions(n int) []models.Question {
	questions := make([]models.Question, n)
	for i := range questions {
		questions[i] = models.Question{
			ID:      uuid.NewString(),
			Text:    fmt.Sprintf("Question %d", i+1),
			Options: models.CanonicalOptions(),
		}
	}
	return questions
}

// ApplyContent overlays generated question content onto blank questions,
// position by position. Extra content beyond the question count is ignored;
// questions past the content keep their generic labels.
func ApplyContent(questions []models.Question, content []models.AIQuestion) {
	for i := range questions {
		if i >= len(content) {
			return
		}
		c := content[i]
		questions[i].Text = c.QuestionText
		questions[i].AIQuestionText = c.QuestionText
		questions[i].AIExplanation = c.Explanation
		if len(c.Options) > 0 {
			opts := make(map[models.Option]string, len(c.Options))
			for k, v := range c.Options {
				opts[k] = v
			}
			questions[i].AIOptions = opts
		}
		if models.IsValidOption(c.CorrectAnswerKey) {
			key := c.CorrectAnswerKey
			questions[i].AICorrectAnswerKey = &key
		}
	}
}
