package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCriteriaYear(t *testing.T) {
	c := ExtractCriteria("something from 1994 please")
	assert.Equal(t, 1994, c.Year)
}

func TestExtractCriteriaImplausibleYearSkipped(t *testing.T) {
	// 3000 is out of range; 1999 is the first plausible match.
	c := ExtractCriteria("3000 leagues, set in 1999")
	assert.Equal(t, 1999, c.Year)
}

func TestExtractCriteriaNoYear(t *testing.T) {
	c := ExtractCriteria("a short fun movie")
	assert.Zero(t, c.Year)
}

func TestExtractCriteriaRuntime(t *testing.T) {
	c := ExtractCriteria("about 90 minutes long")
	assert.Equal(t, 75, c.RuntimeGTE)
	assert.Equal(t, 105, c.RuntimeLTE)
	assert.True(t, c.HasRuntime())
}

func TestExtractCriteriaRuntimeFloorsAtZero(t *testing.T) {
	c := ExtractCriteria("a 10 min short")
	assert.Equal(t, 0, c.RuntimeGTE)
	assert.Equal(t, 25, c.RuntimeLTE)
}

func TestExtractCriteriaRuntimeRequiresUnit(t *testing.T) {
	c := ExtractCriteria("top 100 movies")
	assert.False(t, c.HasRuntime())
}

func TestExtractCriteriaGenres(t *testing.T) {
	c := ExtractCriteria("A funny romantic movie")
	assert.Equal(t, []string{"Comedy", "Romance"}, c.Genres)
	assert.Contains(t, c.Keywords, "funny")
	assert.Contains(t, c.Keywords, "romantic")
}

func TestExtractCriteriaGenreDedup(t *testing.T) {
	c := ExtractCriteria("funny comedy night")
	count := 0
	for _, g := range c.Genres {
		if g == "Comedy" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestExtractCriteriaKeywords(t *testing.T) {
	c := ExtractCriteria("epic space battles")
	assert.Contains(t, c.Keywords, "epic")
	assert.Contains(t, c.Keywords, "space")
	assert.Contains(t, c.Keywords, "battles")
	// Short tokens are dropped.
	assert.NotContains(t, c.Keywords, "the")
}

func TestExtractCriteriaCombined(t *testing.T) {
	c := ExtractCriteria("a scary thriller from 2010, around 120 minutes")
	assert.Equal(t, 2010, c.Year)
	assert.Equal(t, 105, c.RuntimeGTE)
	assert.Equal(t, 135, c.RuntimeLTE)
	assert.Contains(t, c.Genres, "Horror")
	assert.Contains(t, c.Genres, "Thriller")
}
