// Package ai is the optional question-content collaborator: it asks an
// OpenAI chat model for real question text to overlay on a generated answer
// sheet. The core test flow never depends on it.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/example/omrsheet/pkg/models"
)

// MaxGeneratedQuestions caps one generation request
const MaxGeneratedQuestions = 20

// Generator is a client for the OpenAI chat-completions API
type Generator struct {
	apiKey      string
	apiURL      string
	model       string
	maxTokens   int
	temperature float64
	client      *http.Client
}

// New creates a generator from the OPENAI_API_KEY environment variable
func New() (*Generator, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}

	return &Generator{
		apiKey:      apiKey,
		apiURL:      "https://api.openai.com/v1/chat/completions",
		model:       "gpt-4o-mini",
		maxTokens:   2000,
		temperature: 0.7,
		client:      http.DefaultClient,
	}, nil
}

// Message represents a message in the chat conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a request to the chat-completions API
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// ChatResponse represents a response from the chat-completions API
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateQuestions asks the model for count questions on the given topic.
// Count is clamped to [1, MaxGeneratedQuestions]. The reply must be a JSON
// array of question objects; anything else is an error.
func (g *Generator) GenerateQuestions(ctx context.Context, topic string, count int) ([]models.AIQuestion, error) {
	if count < 1 {
		count = 1
	}
	if count > MaxGeneratedQuestions {
		count = MaxGeneratedQuestions
	}

	prompt := fmt.Sprintf(
		"Generate %d multiple-choice questions about %q. "+
			"Respond with only a JSON array; each element must have the fields "+
			`"questionText", "options" (object keyed "1"-"4"), "correctAnswer" ("1"-"4") and "explanation".`,
		count, topic,
	)

	request := ChatRequest{
		Model: g.model,
		Messages: []Message{
			{Role: "system", Content: "You write practice-test questions. Output strict JSON with no surrounding prose."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, bytes.NewBuffer(requestData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	var response ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %v", err)
	}
	if response.Error != nil {
		return nil, fmt.Errorf("api error: %s", response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("api returned no choices")
	}

	return ParseQuestions(response.Choices[0].Message.Content)
}

// ParseQuestions decodes the model's reply into question content, tolerating
// a fenced code block around the JSON.
func ParseQuestions(content string) ([]models.AIQuestion, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var questions []models.AIQuestion
	if err := json.Unmarshal([]byte(content), &questions); err != nil {
		return nil, fmt.Errorf("failed to parse generated questions: %v", err)
	}
	for i := range questions {
		if questions[i].QuestionText == "" || len(questions[i].Options) != len(models.CanonicalOptions()) {
			return nil, fmt.Errorf("generated question %d is malformed", i+1)
		}
		if !models.IsValidOption(questions[i].CorrectAnswerKey) {
			return nil, fmt.Errorf("generated question %d has an invalid answer key", i+1)
		}
	}
	return questions, nil
}
