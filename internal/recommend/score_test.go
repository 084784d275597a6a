package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moodflix/backend/internal/tmdb"
)

func TestMoodScoreSingleGenre(t *testing.T) {
	movie := tmdb.Movie{Genres: []string{"Action"}}
	score, matches := Scorer{}.MoodScore(movie, MoodVector{"action": 0.8})

	assert.InDelta(t, 0.8, score, 1e-9)
	assert.InDelta(t, 0.8, matches["action"], 1e-9)
}

func TestMoodScoreNoGenres(t *testing.T) {
	score, matches := Scorer{}.MoodScore(tmdb.Movie{}, MoodVector{"action": 0.8})

	assert.Zero(t, score)
	assert.Zero(t, matches["action"])
}

func TestMoodScoreNormalizedByTargetWeight(t *testing.T) {
	movie := tmdb.Movie{Genres: []string{"Action"}}
	score, _ := Scorer{}.MoodScore(movie, MoodVector{"action": 0.8, "comedy": 0.4})

	// action contributes 0.8*0.8, comedy nothing; normalized by 1.2.
	assert.InDelta(t, 0.64/1.2, score, 1e-9)
}

func TestMoodScoreEmptyTarget(t *testing.T) {
	score, _ := Scorer{}.MoodScore(tmdb.Movie{Genres: []string{"Action"}}, MoodVector{})
	assert.Zero(t, score)
}

func TestMoodScoreInRange(t *testing.T) {
	movie := tmdb.Movie{Genres: []string{"Action", "Comedy", "Drama"}}
	score, _ := Scorer{}.MoodScore(movie, MoodVector{"action": 1.0, "comedy": 1.0, "drama": 1.0})

	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestEmotionScoreUsesStrongestGenrePath(t *testing.T) {
	movie := tmdb.Movie{Genres: []string{"Comedy"}}
	score, matches := Scorer{}.EmotionScore(movie, EmotionVector{"joy": 1.0})

	// Comedy's feel-good 0.8 against joy's feel-good 0.9 is the best pairing.
	assert.InDelta(t, 0.72, score, 1e-9)
	assert.InDelta(t, 0.72, matches["joy"], 1e-9)
}

func TestEmotionScoreUnknownEmotion(t *testing.T) {
	movie := tmdb.Movie{Genres: []string{"Comedy"}}
	score, matches := Scorer{}.EmotionScore(movie, EmotionVector{"ennui": 1.0})

	assert.Zero(t, score)
	assert.NotContains(t, matches, "ennui")
}

func TestQualityScoreCapsAndFloors(t *testing.T) {
	high := tmdb.Movie{VoteAverage: 10, Popularity: 200, VoteCount: 5000}
	assert.InDelta(t, 1.5, Scorer{}.QualityScore(high), 1e-9)

	mid := tmdb.Movie{VoteAverage: 6, Popularity: 10, VoteCount: 100}
	assert.InDelta(t, 0.8, Scorer{}.QualityScore(mid), 1e-9)

	assert.Zero(t, Scorer{}.QualityScore(tmdb.Movie{}))
}

func TestRankCombinesWeightedComponents(t *testing.T) {
	movie := tmdb.Movie{
		Genres:      []string{"Action"},
		VoteAverage: 8,
		Popularity:  60,
		VoteCount:   500,
	}
	ranked := Scorer{}.Rank(movie, MoodVector{"action": 0.8}, EmotionVector{})

	// mood 0.8*0.4, emotion 0, quality (0.8+0.3+0.2)*0.2
	assert.InDelta(t, 0.32+0.26, ranked.Score, 1e-9)
	assert.InDelta(t, 0.8, ranked.MoodMatches["action"], 1e-9)
}

func TestMatchReasonsOrderAndCap(t *testing.T) {
	movie := tmdb.Movie{
		Genres:      []string{"Action"},
		VoteAverage: 8,
		Popularity:  60,
	}
	ranked := Scorer{}.Rank(movie, MoodVector{"action": 0.8}, EmotionVector{})

	assert.Equal(t, []string{
		"Matches your action mood",
		"Great action film",
		"Highly rated film",
		"Popular choice",
	}, ranked.MatchReasons)
	assert.LessOrEqual(t, len(ranked.MatchReasons), 4)
}

func TestMatchReasonsHyphenatedMood(t *testing.T) {
	movie := tmdb.Movie{Genres: []string{"Comedy"}}
	ranked := Scorer{}.Rank(movie, MoodVector{"feel-good": 0.8}, EmotionVector{})

	assert.Contains(t, ranked.MatchReasons, "Matches your feel good mood")
}

func TestMatchReasonsWellReviewedTier(t *testing.T) {
	movie := tmdb.Movie{Genres: []string{"Drama"}, VoteAverage: 7.0}
	ranked := Scorer{}.Rank(movie, MoodVector{}, EmotionVector{})

	assert.Contains(t, ranked.MatchReasons, "Well-reviewed movie")
	assert.NotContains(t, ranked.MatchReasons, "Highly rated film")
}

func TestMatchReasonsFallback(t *testing.T) {
	ranked := Scorer{}.Rank(tmdb.Movie{}, MoodVector{}, EmotionVector{})
	assert.Equal(t, []string{"Recommended for you"}, ranked.MatchReasons)
}

func TestTextRelevanceClamped(t *testing.T) {
	movie := tmdb.Movie{
		Title:         "Space Battles",
		OriginalTitle: "Space Battles",
		Overview:      "space battles everywhere",
	}
	score := Scorer{}.TextRelevance(movie, "space battles", Criteria{})

	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestTextRelevanceYearProximity(t *testing.T) {
	exact := tmdb.Movie{ReleaseDate: "1994-06-01"}
	near := tmdb.Movie{ReleaseDate: "1996-06-01"}
	far := tmdb.Movie{ReleaseDate: "2005-06-01"}
	criteria := Criteria{Year: 1994}

	assert.InDelta(t, 0.5, Scorer{}.TextRelevance(exact, "", criteria), 1e-9)
	assert.InDelta(t, 0.2, Scorer{}.TextRelevance(near, "", criteria), 1e-9)
	assert.Zero(t, Scorer{}.TextRelevance(far, "", criteria))
}

func TestRankByTextReasons(t *testing.T) {
	movie := tmdb.Movie{
		Title:       "Funny Business",
		Genres:      []string{"Comedy"},
		ReleaseDate: "1994-01-15",
		VoteAverage: 8.1,
	}
	criteria := Criteria{Keywords: []string{"comedy"}, Year: 1994}
	ranked := Scorer{}.RankByText(movie, "funny business", criteria)

	assert.Equal(t, []string{
		"Title matches your search",
		"Matches Comedy genre",
		"From 1994",
		"Highly rated",
	}, ranked.MatchReasons)
	assert.Empty(t, ranked.MoodMatches)
	assert.Empty(t, ranked.EmotionMatches)
}

func TestRankByTextFallbackReason(t *testing.T) {
	ranked := Scorer{}.RankByText(tmdb.Movie{Title: "Else"}, "nothing shared", Criteria{})
	assert.Equal(t, []string{"Recommended based on your search"}, ranked.MatchReasons)
}

func TestReleaseYearParsing(t *testing.T) {
	year, ok := releaseYear(tmdb.Movie{ReleaseDate: "2010-07-16"})
	assert.True(t, ok)
	assert.Equal(t, 2010, year)

	_, ok = releaseYear(tmdb.Movie{})
	assert.False(t, ok)
}
