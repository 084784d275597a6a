package recommend

import (
	"context"
	"sort"

	"github.com/moodflix/backend/internal/logger"
	"github.com/moodflix/backend/internal/tmdb"
)

// MetadataProvider is the movie-metadata surface the aggregator consumes.
// Implemented by tmdb.Client; failures degrade to empty results, they never
// abort a batch.
type MetadataProvider interface {
	Search(ctx context.Context, query string) ([]tmdb.Movie, error)
	Discover(ctx context.Context, f tmdb.Filters) ([]tmdb.Movie, error)
	Popular(ctx context.Context, page int) ([]tmdb.Movie, error)
	GenreID(name string) int
}

const (
	perSearchLimit   = 10
	directTextLimit  = 15
	popularFillLimit = 20
	minCandidates    = 20
	topMoodCount     = 3
	moodFloor        = 0.3
)

type Aggregator struct {
	provider MetadataProvider
	log      *logger.Logger
}

func NewAggregator(provider MetadataProvider, log *logger.Logger) *Aggregator {
	return &Aggregator{
		provider: provider,
		log:      log.With("component", "aggregator"),
	}
}

// GatherByMood collects candidates for the strongest target moods, topping up
// from the popularity feed when searches come back thin.
func (a *Aggregator) GatherByMood(ctx context.Context, moods MoodVector) []tmdb.Movie {
	var candidates []tmdb.Movie

	for _, mood := range topMoods(moods, topMoodCount, moodFloor) {
		for _, term := range MoodSearchTerms(mood) {
			movies, err := a.provider.Search(ctx, term)
			if err != nil {
				a.log.Warn("mood search failed", "term", term, "error", err)
				continue
			}
			candidates = append(candidates, firstN(movies, perSearchLimit)...)
		}
	}

	if len(candidates) < minCandidates {
		popular, err := a.provider.Popular(ctx, 1)
		if err != nil {
			a.log.Warn("popular fallback failed", "error", err)
		} else {
			candidates = append(candidates, firstN(popular, popularFillLimit)...)
		}
	}

	return dedupe(candidates)
}

// GatherByText collects candidates for a free-text query plus whatever
// criteria were extracted from it.
func (a *Aggregator) GatherByText(ctx context.Context, text string, criteria Criteria) []tmdb.Movie {
	var candidates []tmdb.Movie

	direct, err := a.provider.Search(ctx, text)
	if err != nil {
		a.log.Warn("direct search failed", "error", err)
	} else {
		candidates = append(candidates, firstN(direct, directTextLimit)...)
	}

	for _, keyword := range criteria.Keywords {
		movies, err := a.provider.Search(ctx, keyword)
		if err != nil {
			a.log.Warn("keyword search failed", "keyword", keyword, "error", err)
			continue
		}
		candidates = append(candidates, firstN(movies, perSearchLimit)...)
	}

	for _, genre := range criteria.Genres {
		id := a.provider.GenreID(genre)
		if id == 0 {
			continue
		}
		movies, err := a.provider.Discover(ctx, tmdb.Filters{GenreID: id})
		if err != nil {
			a.log.Warn("genre discovery failed", "genre", genre, "error", err)
			continue
		}
		candidates = append(candidates, firstN(movies, perSearchLimit)...)
	}

	if criteria.Year != 0 {
		movies, err := a.provider.Discover(ctx, tmdb.Filters{Year: criteria.Year})
		if err != nil {
			a.log.Warn("year discovery failed", "year", criteria.Year, "error", err)
		} else {
			candidates = append(candidates, firstN(movies, perSearchLimit)...)
		}
	}

	if criteria.HasRuntime() {
		movies, err := a.provider.Discover(ctx, tmdb.Filters{
			RuntimeGTE: criteria.RuntimeGTE,
			RuntimeLTE: criteria.RuntimeLTE,
		})
		if err != nil {
			a.log.Warn("runtime discovery failed", "error", err)
		} else {
			candidates = append(candidates, firstN(movies, perSearchLimit)...)
		}
	}

	return dedupe(candidates)
}

// dedupe keeps the first occurrence of every id, preserving order.
func dedupe(movies []tmdb.Movie) []tmdb.Movie {
	seen := make(map[int]bool, len(movies))
	out := make([]tmdb.Movie, 0, len(movies))
	for _, m := range movies {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		out = append(out, m)
	}
	return out
}

// topMoods returns up to n mood labels ordered by descending weight, keeping
// only those above floor. Ties break alphabetically so output is stable.
func topMoods(moods MoodVector, n int, floor float64) []string {
	labels := make([]string, 0, len(moods))
	for label, w := range moods {
		if w > floor {
			labels = append(labels, label)
		}
	}
	sort.Slice(labels, func(i, j int) bool {
		if moods[labels[i]] != moods[labels[j]] {
			return moods[labels[i]] > moods[labels[j]]
		}
		return labels[i] < labels[j]
	})
	if len(labels) > n {
		labels = labels[:n]
	}
	return labels
}

func firstN(movies []tmdb.Movie, n int) []tmdb.Movie {
	if len(movies) > n {
		return movies[:n]
	}
	return movies
}
