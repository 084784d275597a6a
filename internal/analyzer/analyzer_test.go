package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moodflix/backend/internal/logger"
)

// MockLLMClient returns a canned response or error.
type MockLLMClient struct {
	Response string
	Err      error

	Prompts []string
}

func (m *MockLLMClient) Generate(ctx context.Context, system string, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func TestAnalyzeValidResponse(t *testing.T) {
	client := &MockLLMClient{Response: `{
		"primary_emotions": {"joy": 0.8, "excitement": 0.4},
		"movie_moods": {"comedy": 0.9, "feel-good": 0.7},
		"reasoning": "upbeat input"
	}`}
	a := New(client, logger.NewNop())

	got, err := a.Analyze(context.Background(), "I want to laugh out loud tonight with friends")

	assert.NoError(t, err)
	assert.Equal(t, "llm", got.Method)
	assert.InDelta(t, 0.9, got.Moods["comedy"], 1e-9)
	assert.InDelta(t, 0.8, got.Emotions["joy"], 1e-9)
	assert.Equal(t, "upbeat input", got.Reasoning)
}

func TestAnalyzeToleratesMarkdownFences(t *testing.T) {
	client := &MockLLMClient{Response: "```json\n{\"movie_moods\": {\"drama\": 0.6}}\n```"}
	a := New(client, logger.NewNop())

	got, err := a.Analyze(context.Background(), "something heavy")

	assert.NoError(t, err)
	assert.Equal(t, "llm", got.Method)
	assert.InDelta(t, 0.6, got.Moods["drama"], 1e-9)
}

func TestAnalyzeClampsAndDropsUnknownLabels(t *testing.T) {
	client := &MockLLMClient{Response: `{
		"primary_emotions": {"joy": 1.7, "ennui": 0.9},
		"movie_moods": {"comedy": -0.5, "action": 0.4, "bogus": 1.0}
	}`}
	a := New(client, logger.NewNop())

	got, err := a.Analyze(context.Background(), "whatever")

	assert.NoError(t, err)
	assert.InDelta(t, 1.0, got.Emotions["joy"], 1e-9)
	assert.NotContains(t, got.Emotions, "ennui")
	assert.NotContains(t, got.Moods, "comedy")
	assert.NotContains(t, got.Moods, "bogus")
	assert.InDelta(t, 0.4, got.Moods["action"], 1e-9)
}

func TestAnalyzeKeywordFallbackOnClientError(t *testing.T) {
	client := &MockLLMClient{Err: errors.New("connection refused")}
	a := New(client, logger.NewNop())

	got, err := a.Analyze(context.Background(), "I feel sad and want something funny")

	assert.NoError(t, err)
	assert.Equal(t, "fallback", got.Method)
	assert.InDelta(t, 0.6, got.Confidence, 1e-9)
	assert.InDelta(t, 0.8, got.Moods["comedy"], 1e-9)
	assert.InDelta(t, 0.8, got.Moods["uplifting"], 1e-9)
	assert.InDelta(t, 0.7, got.Emotions["joy"], 1e-9)
	assert.InDelta(t, 0.7, got.Emotions["sadness"], 1e-9)
}

func TestAnalyzeKeywordFallbackNoTriggers(t *testing.T) {
	client := &MockLLMClient{Err: errors.New("timeout")}
	a := New(client, logger.NewNop())

	got, err := a.Analyze(context.Background(), "zxqv")

	assert.NoError(t, err)
	assert.Equal(t, "fallback", got.Method)
	assert.Empty(t, got.Moods)
	assert.Empty(t, got.Emotions)
}

func TestAnalyzeParseFallbackOnGarbage(t *testing.T) {
	client := &MockLLMClient{Response: "sorry, I cannot help with that"}
	a := New(client, logger.NewNop())

	got, err := a.Analyze(context.Background(), "anything")

	assert.NoError(t, err)
	assert.Equal(t, "fallback", got.Method)
	assert.InDelta(t, 0.5, got.Confidence, 1e-9)
	assert.InDelta(t, 0.7, got.Moods["feel-good"], 1e-9)
	assert.InDelta(t, 0.5, got.Emotions["joy"], 1e-9)
}

func TestConfidenceHeuristics(t *testing.T) {
	client := &MockLLMClient{Response: `{"movie_moods": {"comedy": 0.9, "drama": 0.5}}`}
	a := New(client, logger.NewNop())

	// Short text, two strong moods.
	got, err := a.Analyze(context.Background(), "funny drama")
	assert.NoError(t, err)
	assert.InDelta(t, 0.9, got.Confidence, 1e-9)

	// Long text pushes it to the cap.
	got, err = a.Analyze(context.Background(), "a long winding description of my current mood tonight")
	assert.NoError(t, err)
	assert.InDelta(t, 0.95, got.Confidence, 1e-9)
}

func TestConfidenceBaseline(t *testing.T) {
	client := &MockLLMClient{Response: `{"movie_moods": {"comedy": 0.9}}`}
	a := New(client, logger.NewNop())

	got, err := a.Analyze(context.Background(), "funny")
	assert.NoError(t, err)
	assert.InDelta(t, 0.85, got.Confidence, 1e-9)
}

func TestBuildPromptListsVocabularies(t *testing.T) {
	prompt := buildPrompt("need a pick-me-up")

	assert.Contains(t, prompt, `"need a pick-me-up"`)
	assert.Contains(t, prompt, `"joy"`)
	assert.Contains(t, prompt, `"nostalgia"`)
	assert.Contains(t, prompt, `"feel-good"`)
	assert.Contains(t, prompt, "Return only valid JSON")
}

func TestParseJSONExtractsBraceWindow(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	got, err := ParseJSON[payload]("here you go: {\"name\": \"ok\"} hope that helps")
	assert.NoError(t, err)
	assert.Equal(t, "ok", got.Name)

	_, err = ParseJSON[payload]("no object here")
	assert.Error(t, err)

	_, err = ParseJSON[payload]("{not valid json}")
	assert.Error(t, err)
}
