package recommend

import (
	"regexp"
	"strconv"
	"strings"
)

// Criteria is what heuristic extraction pulls out of free search text.
// Fields stay zero-valued when the text says nothing about them.
type Criteria struct {
	Keywords   []string
	Genres     []string
	Year       int
	RuntimeGTE int
	RuntimeLTE int
}

func (c Criteria) HasRuntime() bool {
	return c.RuntimeLTE > 0
}

var (
	yearPattern    = regexp.MustCompile(`(\d{4})`)
	runtimePattern = regexp.MustCompile(`(\d+)\s*(?:minutes?|mins?|分)`)
	wordPattern    = regexp.MustCompile(`[a-zA-Z]+`)
)

// ExtractCriteria scans text for a release year, a runtime, genre trigger
// words and generic keywords. First match wins per field; this is pattern
// matching, not parsing.
func ExtractCriteria(text string) Criteria {
	var c Criteria
	lower := strings.ToLower(text)

	for _, m := range yearPattern.FindAllString(text, -1) {
		year, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		if year >= 1900 && year <= 2030 {
			c.Year = year
			break
		}
	}

	if m := runtimePattern.FindStringSubmatch(lower); m != nil {
		runtime, err := strconv.Atoi(m[1])
		if err == nil {
			gte := runtime - 15
			if gte < 0 {
				gte = 0
			}
			c.RuntimeGTE = gte
			c.RuntimeLTE = runtime + 15
		}
	}

	seenGenres := make(map[string]bool)
	for _, syn := range genreSynonyms {
		if strings.Contains(lower, syn.trigger) && !seenGenres[syn.genre] {
			seenGenres[syn.genre] = true
			c.Genres = append(c.Genres, syn.genre)
			c.Keywords = append(c.Keywords, syn.trigger)
		}
	}

	seenWords := make(map[string]bool)
	for _, kw := range c.Keywords {
		seenWords[kw] = true
	}
	for _, word := range wordPattern.FindAllString(lower, -1) {
		if len(word) > 3 && !seenWords[word] {
			seenWords[word] = true
			c.Keywords = append(c.Keywords, word)
		}
	}

	return c
}
