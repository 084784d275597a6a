package recommend

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/moodflix/backend/internal/logger"
)

// ErrEmptyQuery is the one input error the ranking pipeline surfaces; every
// upstream failure degrades to a (possibly popularity-only) result list.
var ErrEmptyQuery = errors.New("search text cannot be empty")

// EmotionAnalyzer derives mood and emotion weights from free text.
type EmotionAnalyzer interface {
	Analyze(ctx context.Context, text string) (*Analysis, error)
}

type Options struct {
	// Diversity applies the genre/director diversity filter to ranked
	// results on both entry points.
	Diversity bool
}

// Engine sequences aggregation, scoring and selection for the two entry
// scenarios. Engines are stateless across requests and safe for concurrent
// use.
type Engine struct {
	aggregator *Aggregator
	analyzer   EmotionAnalyzer
	scorer     Scorer
	opts       Options
	log        *logger.Logger
}

func NewEngine(provider MetadataProvider, analyzer EmotionAnalyzer, opts Options, log *logger.Logger) *Engine {
	return &Engine{
		aggregator: NewAggregator(provider, log),
		analyzer:   analyzer,
		opts:       opts,
		log:        log.With("component", "engine"),
	}
}

// RecommendByMood ranks candidates against the target vectors and returns the
// top n. It always returns a list; with every upstream down the list is
// empty, never an error.
func (e *Engine) RecommendByMood(ctx context.Context, moods MoodVector, emotions EmotionVector, n int) []RankedCandidate {
	candidates := e.aggregator.GatherByMood(ctx, moods)

	ranked := make([]RankedCandidate, 0, len(candidates))
	for _, movie := range candidates {
		ranked = append(ranked, e.scorer.Rank(movie, moods, emotions))
	}
	sortByScore(ranked)

	return e.selectTop(ranked, n)
}

// RecommendByMoodText analyzes the user's mood text and ranks against the
// derived vectors. This is the mood entry point's text-facing form.
func (e *Engine) RecommendByMoodText(ctx context.Context, text string, n int) (*Analysis, []RankedCandidate, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, ErrEmptyQuery
	}

	analysis, err := e.analyzer.Analyze(ctx, text)
	if err != nil {
		e.log.Error("emotion analysis failed, using default profile", "error", err)
		analysis = defaultAnalysis()
	}

	return analysis, e.RecommendByMood(ctx, analysis.Moods, analysis.Emotions, n), nil
}

// RecommendByText derives a mood signal from the text and delegates to
// RecommendByMood when one exists; otherwise it falls back to text-relevance
// ranking. Empty or whitespace-only text is rejected.
func (e *Engine) RecommendByText(ctx context.Context, text string, n int) (*Analysis, []RankedCandidate, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, ErrEmptyQuery
	}

	analysis, err := e.analyzer.Analyze(ctx, text)
	if err != nil {
		e.log.Error("emotion analysis failed, using default profile", "error", err)
		analysis = defaultAnalysis()
	}

	criteria := ExtractCriteria(text)
	candidates := e.aggregator.GatherByText(ctx, text, criteria)

	if analysis.HasSignal() {
		return analysis, e.RecommendByMood(ctx, analysis.Moods, analysis.Emotions, n), nil
	}

	ranked := make([]RankedCandidate, 0, len(candidates))
	for _, movie := range candidates {
		ranked = append(ranked, e.scorer.RankByText(movie, text, criteria))
	}
	sortByScore(ranked)

	return analysis, e.selectTop(ranked, n), nil
}

func (e *Engine) selectTop(ranked []RankedCandidate, n int) []RankedCandidate {
	if e.opts.Diversity {
		return SelectDiverse(ranked, n)
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// sortByScore orders descending by score, keeping original order for ties.
func sortByScore(ranked []RankedCandidate) {
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
}

// defaultAnalysis is the documented substitute when analysis fails outright.
func defaultAnalysis() *Analysis {
	return &Analysis{
		Moods:      MoodVector{"feel-good": 0.8, "uplifting": 0.7, "comedy": 0.6},
		Emotions:   EmotionVector{"joy": 0.8, "excitement": 0.6},
		Confidence: 0.7,
		Method:     "fallback",
	}
}
