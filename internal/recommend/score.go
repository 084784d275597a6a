package recommend

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/moodflix/backend/internal/tmdb"
)

// Scorer is pure computation over a movie, the target vectors and the static
// lexicon. It performs no I/O and holds no mutable state.
type Scorer struct{}

const (
	moodWeight    = 0.4
	emotionWeight = 0.4
	qualityWeight = 0.2

	relevanceWeight   = 0.7
	textQualityWeight = 0.3

	reasonFloor = 0.3
	maxReasons  = 4
)

// movieMoodProfile merges the mood vectors of every genre on the movie by
// max per label: a movie's strength for a mood is the strongest endorsement
// from any of its genres.
func movieMoodProfile(movie tmdb.Movie) MoodVector {
	profile := make(MoodVector)
	for _, genre := range movie.Genres {
		mergeMax(profile, GenreToMoods(genre))
	}
	return profile
}

// MoodScore returns the normalized mood-match score in [0,1] and the
// per-label match values.
func (s Scorer) MoodScore(movie tmdb.Movie, target MoodVector) (float64, MoodVector) {
	profile := movieMoodProfile(movie)

	matches := make(MoodVector, len(target))
	total := 0.0
	totalTarget := 0.0

	for mood, targetW := range target {
		match := targetW
		if profile[mood] < match {
			match = profile[mood]
		}
		matches[mood] = match
		total += match * targetW
		totalTarget += targetW
	}

	if totalTarget > 0 {
		total /= totalTarget
	}
	return total, matches
}

// EmotionScore measures how strongly the movie's genres express the moods
// each target emotion implies.
func (s Scorer) EmotionScore(movie tmdb.Movie, target EmotionVector) (float64, EmotionVector) {
	matches := make(EmotionVector)
	total := 0.0
	totalTarget := 0.0

	for emotion, targetW := range target {
		totalTarget += targetW
		implied := EmotionToMoods(emotion)
		if len(implied) == 0 {
			continue
		}

		best := 0.0
		for mood, moodW := range implied {
			for _, genre := range movie.Genres {
				if v := GenreToMoods(genre)[mood] * moodW; v > best {
					best = v
				}
			}
		}

		matches[emotion] = best
		total += best * targetW
	}

	if totalTarget > 0 {
		total /= totalTarget
	}
	return total, matches
}

// QualityScore favors rating, with capped boosts for popularity and vote
// count. Deliberately uncapped: an exceptional movie may exceed 1.0.
func (s Scorer) QualityScore(movie tmdb.Movie) float64 {
	rating := movie.VoteAverage / 10.0
	if rating > 1.0 {
		rating = 1.0
	}

	popularity := movie.Popularity / 100.0
	if popularity > 0.3 {
		popularity = 0.3
	}

	votes := float64(movie.VoteCount) / 1000.0
	if votes > 0.2 {
		votes = 0.2
	}

	return rating + popularity + votes
}

// Rank scores one movie against the target vectors and builds its reasons.
func (s Scorer) Rank(movie tmdb.Movie, targetMoods MoodVector, targetEmotions EmotionVector) RankedCandidate {
	moodScore, moodMatches := s.MoodScore(movie, targetMoods)
	emotionScore, emotionMatches := s.EmotionScore(movie, targetEmotions)
	qualityScore := s.QualityScore(movie)

	score := moodScore*moodWeight + emotionScore*emotionWeight + qualityScore*qualityWeight

	return RankedCandidate{
		Movie:          movie,
		Score:          score,
		MatchReasons:   s.matchReasons(movie, moodMatches, emotionMatches, targetMoods, targetEmotions),
		MoodMatches:    moodMatches,
		EmotionMatches: emotionMatches,
	}
}

// RankByText scores one movie by text relevance and quality, for when no
// mood or emotion signal is available.
func (s Scorer) RankByText(movie tmdb.Movie, text string, criteria Criteria) RankedCandidate {
	relevance := s.TextRelevance(movie, text, criteria)
	quality := s.QualityScore(movie)

	return RankedCandidate{
		Movie:          movie,
		Score:          relevance*relevanceWeight + quality*textQualityWeight,
		MatchReasons:   s.textMatchReasons(movie, text, criteria),
		MoodMatches:    MoodVector{},
		EmotionMatches: EmotionVector{},
	}
}

// TextRelevance scores how well a movie matches the raw query, clamped to
// [0,1].
func (s Scorer) TextRelevance(movie tmdb.Movie, text string, criteria Criteria) float64 {
	score := 0.0
	search := strings.ToLower(strings.TrimSpace(text))

	if search != "" && strings.Contains(strings.ToLower(movie.Title), search) {
		score += 0.8
	}
	if search != "" && strings.Contains(strings.ToLower(movie.OriginalTitle), search) {
		score += 0.6
	}

	overviewWords := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(movie.Overview)) {
		overviewWords[w] = true
	}
	searchWords := strings.Fields(search)
	if len(searchWords) > 0 {
		matched := 0
		for _, w := range searchWords {
			if overviewWords[w] {
				matched++
			}
		}
		score += float64(matched) / float64(len(searchWords)) * 0.4
	}

	for _, keyword := range criteria.Keywords {
		for _, genre := range movie.Genres {
			if strings.Contains(strings.ToLower(genre), strings.ToLower(keyword)) {
				score += 0.3
			}
		}
	}

	if criteria.Year != 0 {
		if year, ok := releaseYear(movie); ok {
			diff := year - criteria.Year
			if diff < 0 {
				diff = -diff
			}
			switch {
			case diff == 0:
				score += 0.5
			case diff <= 2:
				score += 0.2
			}
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

func (s Scorer) matchReasons(movie tmdb.Movie, moodMatches MoodVector, emotionMatches EmotionVector,
	targetMoods MoodVector, targetEmotions EmotionVector) []string {
	var reasons []string

	for _, mood := range topLabels(moodMatches, 3) {
		if moodMatches[mood] > reasonFloor {
			if _, ok := targetMoods[mood]; ok {
				reasons = append(reasons, fmt.Sprintf("Matches your %s mood", strings.ReplaceAll(mood, "-", " ")))
			}
		}
	}

	for _, emotion := range topLabels(MoodVector(emotionMatches), 2) {
		if emotionMatches[emotion] > reasonFloor {
			if _, ok := targetEmotions[emotion]; ok {
				reasons = append(reasons, fmt.Sprintf("Suits your %s feeling", emotion))
			}
		}
	}

	if len(movie.Genres) > 0 {
		reasons = append(reasons, fmt.Sprintf("Great %s film", strings.ToLower(movie.Genres[0])))
	}

	switch {
	case movie.VoteAverage >= 7.5:
		reasons = append(reasons, "Highly rated film")
	case movie.VoteAverage >= 6.5:
		reasons = append(reasons, "Well-reviewed movie")
	}

	if movie.Popularity > 50 {
		reasons = append(reasons, "Popular choice")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Recommended for you")
	}
	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}
	return reasons
}

func (s Scorer) textMatchReasons(movie tmdb.Movie, text string, criteria Criteria) []string {
	var reasons []string
	search := strings.ToLower(strings.TrimSpace(text))

	if search != "" && strings.Contains(strings.ToLower(movie.Title), search) {
		reasons = append(reasons, "Title matches your search")
	}

	for _, keyword := range criteria.Keywords {
		for _, genre := range movie.Genres {
			if strings.Contains(strings.ToLower(genre), strings.ToLower(keyword)) {
				reasons = append(reasons, fmt.Sprintf("Matches %s genre", genre))
				break
			}
		}
	}

	if criteria.Year != 0 {
		if year, ok := releaseYear(movie); ok && year == criteria.Year {
			reasons = append(reasons, fmt.Sprintf("From %d", year))
		}
	}

	if movie.VoteAverage >= 7.5 {
		reasons = append(reasons, "Highly rated")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Recommended based on your search")
	}
	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}
	return reasons
}

// topLabels orders labels by descending value, ties broken alphabetically.
func topLabels(v MoodVector, n int) []string {
	labels := make([]string, 0, len(v))
	for label := range v {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if v[labels[i]] != v[labels[j]] {
			return v[labels[i]] > v[labels[j]]
		}
		return labels[i] < labels[j]
	})
	if len(labels) > n {
		labels = labels[:n]
	}
	return labels
}

func releaseYear(movie tmdb.Movie) (int, bool) {
	if len(movie.ReleaseDate) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(movie.ReleaseDate[:4])
	if err != nil {
		return 0, false
	}
	return year, true
}
