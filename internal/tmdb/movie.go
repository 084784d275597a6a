package tmdb

// Movie is one movie record as returned by the metadata provider. Immutable
// once fetched; request-local, never persisted.
type Movie struct {
	ID               int      `json:"id"`
	Title            string   `json:"title"`
	OriginalTitle    string   `json:"original_title"`
	Overview         string   `json:"overview"`
	ReleaseDate      string   `json:"release_date"`
	PosterPath       string   `json:"poster_path,omitempty"`
	BackdropPath     string   `json:"backdrop_path,omitempty"`
	GenreIDs         []int    `json:"genre_ids"`
	Genres           []string `json:"genres"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
	Popularity       float64  `json:"popularity"`
	Runtime          int      `json:"runtime,omitempty"`
	Adult            bool     `json:"adult"`
	OriginalLanguage string   `json:"original_language"`
	// Director is only known when a details lookup supplied credits; list
	// endpoints leave it empty.
	Director    string `json:"director,omitempty"`
	PosterURL   string `json:"poster_url,omitempty"`
	BackdropURL string `json:"backdrop_url,omitempty"`
}
