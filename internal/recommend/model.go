package recommend

import (
	"github.com/moodflix/backend/internal/tmdb"
)

// MoodVector maps a mood label to a weight in [0,1]. Keys are always members
// of the mood vocabulary.
type MoodVector map[string]float64

// EmotionVector maps an emotion label to a weight in [0,1].
type EmotionVector map[string]float64

// mergeMax folds src into dst keeping the strongest endorsement per label.
func mergeMax(dst MoodVector, src MoodVector) {
	for label, w := range src {
		if w > dst[label] {
			dst[label] = w
		}
	}
}

// Analysis is the outcome of emotion analysis over user text.
type Analysis struct {
	Moods      MoodVector    `json:"moods"`
	Emotions   EmotionVector `json:"emotions"`
	Confidence float64       `json:"confidence"`
	Reasoning  string        `json:"reasoning"`
	Method     string        `json:"analysis_method"`
}

// HasSignal reports whether the analysis produced any usable mood or emotion
// weights.
func (a *Analysis) HasSignal() bool {
	return a != nil && (len(a.Moods) > 0 || len(a.Emotions) > 0)
}

// RankedCandidate is one scored movie. Transient, one per request.
type RankedCandidate struct {
	Movie          tmdb.Movie    `json:"movie"`
	Score          float64       `json:"score"`
	MatchReasons   []string      `json:"match_reasons"`
	MoodMatches    MoodVector    `json:"mood_matches"`
	EmotionMatches EmotionVector `json:"emotion_matches"`
}
