package recommend

// SelectDiverse picks up to n candidates from a score-sorted list while
// limiting genre and director repetition. Admission loosens progressively:
// the first 3 slots ignore genre redundancy and the first 5 ignore director
// redundancy, so top-scored picks are never blocked. Anything the greedy pass
// leaves short is backfilled in original score order.
func SelectDiverse(sorted []RankedCandidate, n int) []RankedCandidate {
	if n <= 0 {
		return nil
	}
	if len(sorted) <= n {
		out := make([]RankedCandidate, len(sorted))
		copy(out, sorted)
		return out
	}

	selected := make([]RankedCandidate, 0, n)
	picked := make(map[int]bool)
	usedGenres := make(map[string]bool)
	usedDirectors := make(map[string]bool)

	for _, c := range sorted {
		if len(selected) >= n {
			break
		}

		overlap := genreOverlap(c.Movie.Genres, usedGenres)
		director := c.Movie.Director
		directorUsed := director != "" && usedDirectors[director]

		if (overlap < 0.7 || len(selected) < 3) && (!directorUsed || len(selected) < 5) {
			selected = append(selected, c)
			picked[c.Movie.ID] = true
			for _, g := range c.Movie.Genres {
				usedGenres[g] = true
			}
			if director != "" {
				usedDirectors[director] = true
			}
		}
	}

	for _, c := range sorted {
		if len(selected) >= n {
			break
		}
		if !picked[c.Movie.ID] {
			selected = append(selected, c)
			picked[c.Movie.ID] = true
		}
	}

	return selected
}

// genreOverlap is |genres ∩ used| / |genres|, 0 when the movie has no genres.
func genreOverlap(genres []string, used map[string]bool) float64 {
	if len(genres) == 0 {
		return 0
	}
	shared := 0
	for _, g := range genres {
		if used[g] {
			shared++
		}
	}
	return float64(shared) / float64(len(genres))
}
