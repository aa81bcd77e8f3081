package models

// AIQuestion is one generated question as returned by the external
// question-content source. Options are keyed by the canonical answer slots.
type AIQuestion struct {
	QuestionText     string            `json:"questionText"`
	Options          map[Option]string `json:"options"`
	CorrectAnswerKey Option            `json:"correctAnswer"`
	Explanation      string            `json:"explanation,omitempty"`
}
