package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/omrsheet/pkg/models"
)

const sampleReply = "```json\n" + `[
  {
    "questionText": "What is the SI unit of force?",
    "options": {"1": "Newton", "2": "Joule", "3": "Watt", "4": "Pascal"},
    "correctAnswer": "1",
    "explanation": "Force is measured in newtons."
  }
]` + "\n```"

func TestParseQuestions_FencedJSON(t *testing.T) {
	questions, err := ParseQuestions(sampleReply)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "What is the SI unit of force?", questions[0].QuestionText)
	assert.Equal(t, models.Option1, questions[0].CorrectAnswerKey)
	assert.Equal(t, "Joule", questions[0].Options[models.Option2])
}

func TestParseQuestions_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "here are your questions!"},
		{name: "missing options", content: `[{"questionText": "Q?", "options": {"1": "a"}, "correctAnswer": "1"}]`},
		{name: "bad answer key", content: `[{"questionText": "Q?", "options": {"1": "a", "2": "b", "3": "c", "4": "d"}, "correctAnswer": "A"}]`},
		{name: "empty text", content: `[{"questionText": "", "options": {"1": "a", "2": "b", "3": "c", "4": "d"}, "correctAnswer": "2"}]`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseQuestions(tc.content)
			assert.Error(t, err)
		})
	}
}
