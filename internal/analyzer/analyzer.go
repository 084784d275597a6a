package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/moodflix/backend/internal/llm"
	"github.com/moodflix/backend/internal/logger"
	"github.com/moodflix/backend/internal/recommend"
)

const systemPrompt = "You are an expert emotion analyst and movie recommendation specialist."

// Analyzer turns free-text user input into weighted mood and emotion vectors
// via an LLM, with a deterministic keyword fallback when the model is
// unreachable and a documented default when its output cannot be parsed.
type Analyzer struct {
	client llm.Client
	log    *logger.Logger
}

func New(client llm.Client, log *logger.Logger) *Analyzer {
	return &Analyzer{
		client: client,
		log:    log.With("component", "analyzer"),
	}
}

// Analyze never fails: every error path substitutes a usable analysis.
func (a *Analyzer) Analyze(ctx context.Context, text string) (*recommend.Analysis, error) {
	response, err := a.client.Generate(ctx, systemPrompt, buildPrompt(text))
	if err != nil {
		a.log.Warn("llm analysis failed, using keyword fallback", "error", err)
		return keywordFallback(text), nil
	}

	result, err := parseResponse(response)
	if err != nil {
		a.log.Warn("failed to parse analysis response, using defaults", "error", err)
		return parseFallback(), nil
	}

	result.Confidence = confidence(text, result)
	result.Method = "llm"
	return result, nil
}

func buildPrompt(text string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Analyze the emotional state and movie preferences from this user input: %q\n\n", text))
	sb.WriteString("Provide the analysis in the following JSON format:\n\n{\n")

	sb.WriteString("    \"primary_emotions\": {\n")
	emotions := recommend.EmotionLabels()
	for i, label := range emotions {
		sb.WriteString(fmt.Sprintf("        %q: 0.0-1.0", label))
		if i < len(emotions)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("    },\n")

	sb.WriteString("    \"movie_moods\": {\n")
	moods := recommend.AnalyzerMoodLabels()
	for i, label := range moods {
		sb.WriteString(fmt.Sprintf("        %q: 0.0-1.0", label))
		if i < len(moods)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("    },\n")

	sb.WriteString("    \"reasoning\": \"Brief explanation of why these moods were selected\"\n}\n\n")
	sb.WriteString("Focus on the user's current emotional state, the movie experience they seek, ")
	sb.WriteString("and the intensity they want. Omit labels that do not apply.\n")
	sb.WriteString("Return only valid JSON without any additional text.\n")
	return sb.String()
}

type analysisJSON struct {
	PrimaryEmotions map[string]float64 `json:"primary_emotions"`
	MovieMoods      map[string]float64 `json:"movie_moods"`
	Reasoning       string             `json:"reasoning"`
}

// parseResponse tolerates markdown fences and stray text around the JSON
// object, then clamps weights to [0,1] and drops labels outside the fixed
// vocabularies.
func parseResponse(response string) (*recommend.Analysis, error) {
	parsed, err := ParseJSON[analysisJSON](response)
	if err != nil {
		return nil, err
	}

	moods := make(recommend.MoodVector)
	for label, w := range parsed.MovieMoods {
		if !recommend.KnownMood(label) {
			continue
		}
		if w = clamp01(w); w > 0 {
			moods[label] = w
		}
	}

	emotions := make(recommend.EmotionVector)
	for label, w := range parsed.PrimaryEmotions {
		if !recommend.KnownEmotion(label) {
			continue
		}
		if w = clamp01(w); w > 0 {
			emotions[label] = w
		}
	}

	return &recommend.Analysis{
		Moods:     moods,
		Emotions:  emotions,
		Reasoning: parsed.Reasoning,
	}, nil
}

// confidence grows with more descriptive input and a broader mood read.
func confidence(text string, result *recommend.Analysis) float64 {
	c := 0.85
	if len(strings.Fields(text)) > 5 {
		c += 0.1
	}
	strong := 0
	for _, w := range result.Moods {
		if w > 0.3 {
			strong++
		}
	}
	if strong >= 2 {
		c += 0.05
	}
	if c > 0.95 {
		c = 0.95
	}
	return c
}

type keywordRule struct {
	triggers []string
	moods    recommend.MoodVector
	emotions recommend.EmotionVector
}

var keywordRules = []keywordRule{
	{
		triggers: []string{"excited", "action", "adventure", "thrilling"},
		moods:    recommend.MoodVector{"action": 0.8, "adventure": 0.7},
		emotions: recommend.EmotionVector{"excitement": 0.8},
	},
	{
		triggers: []string{"romantic", "love", "romance"},
		moods:    recommend.MoodVector{"romance": 0.9},
		emotions: recommend.EmotionVector{"joy": 0.6},
	},
	{
		triggers: []string{"funny", "comedy", "laugh", "humor"},
		moods:    recommend.MoodVector{"comedy": 0.8},
		emotions: recommend.EmotionVector{"joy": 0.7},
	},
	{
		triggers: []string{"sad", "depressed", "down", "upset"},
		moods:    recommend.MoodVector{"drama": 0.6, "uplifting": 0.8},
		emotions: recommend.EmotionVector{"sadness": 0.7},
	},
}

// keywordFallback is the deterministic substitute when the LLM is down.
func keywordFallback(text string) *recommend.Analysis {
	lower := strings.ToLower(text)

	moods := make(recommend.MoodVector)
	emotions := make(recommend.EmotionVector)

	for _, rule := range keywordRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(lower, trigger) {
				for label, w := range rule.moods {
					if w > moods[label] {
						moods[label] = w
					}
				}
				for label, w := range rule.emotions {
					if w > emotions[label] {
						emotions[label] = w
					}
				}
				break
			}
		}
	}

	return &recommend.Analysis{
		Moods:      moods,
		Emotions:   emotions,
		Confidence: 0.6,
		Reasoning:  "Fallback keyword-based analysis",
		Method:     "fallback",
	}
}

// parseFallback is the documented default when the model answered but the
// payload was unusable.
func parseFallback() *recommend.Analysis {
	return &recommend.Analysis{
		Moods:      recommend.MoodVector{"feel-good": 0.7, "comedy": 0.6},
		Emotions:   recommend.EmotionVector{"joy": 0.5},
		Confidence: 0.5,
		Reasoning:  "Default recommendation due to parsing error",
		Method:     "fallback",
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
