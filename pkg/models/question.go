package models

// Option identifies one of the four answer slots on an OMR sheet
type Option string

// The canonical answer slots. Every question carries exactly these four,
// in this order.
const (
	Option1 Option = "1"
	Option2 Option = "2"
	Option3 Option = "3"
	Option4 Option = "4"
)

// CanonicalOptions returns a fresh copy of the fixed four-option set
func CanonicalOptions() []Option {
	return []Option{Option1, Option2, Option3, Option4}
}

// IsValidOption reports whether o is one of the canonical answer slots
func IsValidOption(o Option) bool {
	switch o {
	case Option1, Option2, Option3, Option4:
		return true
	}
	return false
}

// Question represents a single answer-sheet row. UserAnswer stays nil while
// the question is unattempted; IsCorrect stays nil until self-evaluation.
type Question struct {
	ID                string   `json:"id"`
	Text              string   `json:"text"` // e.g. "Question 3", or real content from a question source
	Options           []Option `json:"options"`
	UserAnswer        *Option  `json:"userAnswer,omitempty"`
	IsCorrect         *bool    `json:"isCorrect,omitempty"`
	IsMarkedForReview bool     `json:"isMarkedForReview"`
	IsMarkedForLater  bool     `json:"isMarkedForLater"`

	// Optional content from an external question source
	AIQuestionText     string            `json:"aiGeneratedQuestionText,omitempty"`
	AIOptions          map[Option]string `json:"aiGeneratedOptions,omitempty"`
	AICorrectAnswerKey *Option           `json:"aiGeneratedCorrectAnswerKey,omitempty"`
	AIExplanation      string            `json:"aiGeneratedExplanation,omitempty"`
}

// Attempted reports whether the user selected an answer for this question
func (q *Question) Attempted() bool {
	return q.UserAnswer != nil
}

// Clone returns a deep copy of the question
func (q *Question) Clone() Question {
	c := *q
	c.Options = append([]Option(nil), q.Options...)
	if q.UserAnswer != nil {
		v := *q.UserAnswer
		c.UserAnswer = &v
	}
	if q.IsCorrect != nil {
		v := *q.IsCorrect
		c.IsCorrect = &v
	}
	if q.AICorrectAnswerKey != nil {
		v := *q.AICorrectAnswerKey
		c.AICorrectAnswerKey = &v
	}
	if q.AIOptions != nil {
		c.AIOptions = make(map[Option]string, len(q.AIOptions))
		for k, v := range q.AIOptions {
			c.AIOptions[k] = v
		}
	}
	return c
}

// CloneQuestions deep-copies a question slice
func CloneQuestions(questions []Question) []Question {
	out := make([]Question, len(questions))
	for i := range questions {
		out[i] = questions[i].Clone()
	}
	return out
}
