package recommend

import (
	"context"

	"github.com/moodflix/backend/internal/tmdb"
)

// MockProvider serves canned results per query/filter and records the calls
// it received.
type MockProvider struct {
	SearchResults   map[string][]tmdb.Movie
	DiscoverResults []tmdb.Movie
	PopularResults  []tmdb.Movie
	GenreIDs        map[string]int

	SearchErr   error
	DiscoverErr error
	PopularErr  error

	SearchCalls   []string
	DiscoverCalls []tmdb.Filters
	PopularCalls  int
}

func (m *MockProvider) Search(ctx context.Context, query string) ([]tmdb.Movie, error) {
	m.SearchCalls = append(m.SearchCalls, query)
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.SearchResults[query], nil
}

func (m *MockProvider) Discover(ctx context.Context, f tmdb.Filters) ([]tmdb.Movie, error) {
	m.DiscoverCalls = append(m.DiscoverCalls, f)
	if m.DiscoverErr != nil {
		return nil, m.DiscoverErr
	}
	return m.DiscoverResults, nil
}

func (m *MockProvider) Popular(ctx context.Context, page int) ([]tmdb.Movie, error) {
	m.PopularCalls++
	if m.PopularErr != nil {
		return nil, m.PopularErr
	}
	return m.PopularResults, nil
}

func (m *MockProvider) GenreID(name string) int {
	return m.GenreIDs[name]
}

// MockAnalyzer returns a fixed analysis.
type MockAnalyzer struct {
	Result *Analysis
	Err    error
}

func (m *MockAnalyzer) Analyze(ctx context.Context, text string) (*Analysis, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}
