package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/moodflix/backend/internal/cache"
	"github.com/moodflix/backend/internal/config"
	"github.com/moodflix/backend/internal/logger"
)

const (
	searchTTL  = time.Hour
	detailsTTL = 24 * time.Hour
	genresTTL  = 7 * 24 * time.Hour
)

// Filters narrows a discovery call. Zero values mean "not set".
type Filters struct {
	GenreID      int
	Year         int
	RuntimeGTE   int
	RuntimeLTE   int
	SortBy       string
	VoteCountGTE int
	Page         int
}

type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	language     string
	httpClient   *http.Client
	limiter      *rate.Limiter
	store        cache.Store
	log          *logger.Logger
	genres       map[int]string
}

func NewClient(cfg config.TMDBConfig, store cache.Store, log *logger.Logger) *Client {
	c := &Client{
		apiKey:       cfg.APIKey,
		baseURL:      cfg.BaseURL,
		imageBaseURL: cfg.ImageBaseURL,
		language:     cfg.Language,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		// TMDB tolerates bursts but we keep a 50ms floor between requests.
		limiter: rate.NewLimiter(rate.Every(50*time.Millisecond), 1),
		store:   store,
		log:     log.With("component", "tmdb"),
	}
	c.loadGenres(context.Background())
	return c
}

type genreJSON struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type movieJSON struct {
	ID               int         `json:"id"`
	Title            string      `json:"title"`
	OriginalTitle    string      `json:"original_title"`
	Overview         string      `json:"overview"`
	ReleaseDate      string      `json:"release_date"`
	PosterPath       string      `json:"poster_path"`
	BackdropPath     string      `json:"backdrop_path"`
	GenreIDs         []int       `json:"genre_ids"`
	Genres           []genreJSON `json:"genres"`
	VoteAverage      float64     `json:"vote_average"`
	VoteCount        int         `json:"vote_count"`
	Popularity       float64     `json:"popularity"`
	Runtime          int         `json:"runtime"`
	Adult            bool        `json:"adult"`
	OriginalLanguage string      `json:"original_language"`
	Credits          *struct {
		Crew []struct {
			Name string `json:"name"`
			Job  string `json:"job"`
		} `json:"crew"`
	} `json:"credits"`
}

type listJSON struct {
	Results []movieJSON `json:"results"`
}

func (c *Client) request(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params.Set("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := 1
		if v := resp.Header.Get("Retry-After"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				retryAfter = n
			}
		}
		c.log.Warn("tmdb rate limit hit", "retry_after", retryAfter)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(retryAfter) * time.Second):
		}
		return c.request(ctx, endpoint, params, out)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb returned status %d for %s", resp.StatusCode, endpoint)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// loadGenres fills the id->name map, preferring cache, then the API, then the
// static English table. The client stays usable in every case.
func (c *Client) loadGenres(ctx context.Context) {
	key := "tmdb:genres:" + c.language

	if data, ok := c.store.Get(ctx, key); ok {
		var genres map[int]string
		if err := json.Unmarshal(data, &genres); err == nil && len(genres) > 0 {
			c.genres = genres
			return
		}
	}

	var resp struct {
		Genres []genreJSON `json:"genres"`
	}
	params := url.Values{}
	params.Set("language", c.language)
	if err := c.request(ctx, "genre/movie/list", params, &resp); err != nil {
		c.log.Error("failed to load genres, using fallback table", "error", err)
		c.genres = fallbackGenres()
		return
	}

	genres := make(map[int]string, len(resp.Genres))
	for _, g := range resp.Genres {
		genres[g.ID] = g.Name
	}
	c.genres = genres

	if data, err := json.Marshal(genres); err == nil {
		c.store.Set(ctx, key, data, genresTTL)
	}
	c.log.Info("loaded genres", "count", len(genres))
}

func fallbackGenres() map[int]string {
	return map[int]string{
		28: "Action", 12: "Adventure", 16: "Animation", 35: "Comedy",
		80: "Crime", 99: "Documentary", 18: "Drama", 10751: "Family",
		14: "Fantasy", 36: "History", 27: "Horror", 10402: "Music",
		9648: "Mystery", 10749: "Romance", 878: "Science Fiction",
		10770: "TV Movie", 53: "Thriller", 10752: "War", 37: "Western",
	}
}

// GenreID resolves a genre name to its provider id, case-sensitively on the
// provider's own names. Returns 0 when unknown.
func (c *Client) GenreID(name string) int {
	for id, n := range c.genres {
		if n == name {
			return id
		}
	}
	return 0
}

func (c *Client) mapGenres(ids []int) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		name, ok := c.genres[id]
		if !ok {
			name = fmt.Sprintf("Unknown(%d)", id)
			c.log.Warn("unknown genre id", "id", id)
		}
		names = append(names, name)
	}
	return names
}

func (c *Client) imageURL(path string, size string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s%s", c.imageBaseURL, size, path)
}

func (c *Client) fromList(m movieJSON) Movie {
	return Movie{
		ID:               m.ID,
		Title:            m.Title,
		OriginalTitle:    m.OriginalTitle,
		Overview:         m.Overview,
		ReleaseDate:      m.ReleaseDate,
		PosterPath:       m.PosterPath,
		BackdropPath:     m.BackdropPath,
		GenreIDs:         m.GenreIDs,
		Genres:           c.mapGenres(m.GenreIDs),
		VoteAverage:      m.VoteAverage,
		VoteCount:        m.VoteCount,
		Popularity:       m.Popularity,
		Adult:            m.Adult,
		OriginalLanguage: m.OriginalLanguage,
		PosterURL:        c.imageURL(m.PosterPath, "w500"),
		BackdropURL:      c.imageURL(m.BackdropPath, "w1280"),
	}
}

// Search looks up movies by free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]Movie, error) {
	key := cache.Key("tmdb:search", map[string]string{"query": query, "lang": c.language})
	if movies, ok := c.cachedList(ctx, key); ok {
		return movies, nil
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	params.Set("language", c.language)
	params.Set("page", "1")

	var resp listJSON
	if err := c.request(ctx, "search/movie", params, &resp); err != nil {
		return nil, fmt.Errorf("movie search failed: %w", err)
	}

	movies := make([]Movie, 0, len(resp.Results))
	for _, m := range resp.Results {
		movies = append(movies, c.fromList(m))
	}

	c.storeList(ctx, key, movies, searchTTL)
	c.log.Debug("search completed", "query", query, "count", len(movies))
	return movies, nil
}

// Discover lists movies matching the given filters, popularity-sorted unless
// the filters say otherwise.
func (c *Client) Discover(ctx context.Context, f Filters) ([]Movie, error) {
	params := url.Values{}
	params.Set("include_adult", "false")
	params.Set("language", c.language)
	params.Set("sort_by", "popularity.desc")
	params.Set("page", "1")

	fields := map[string]string{"lang": c.language}
	if f.GenreID != 0 {
		params.Set("with_genres", strconv.Itoa(f.GenreID))
		fields["genre"] = strconv.Itoa(f.GenreID)
	}
	if f.Year != 0 {
		params.Set("primary_release_year", strconv.Itoa(f.Year))
		fields["year"] = strconv.Itoa(f.Year)
	}
	if f.RuntimeGTE != 0 {
		params.Set("with_runtime.gte", strconv.Itoa(f.RuntimeGTE))
		fields["runtime_gte"] = strconv.Itoa(f.RuntimeGTE)
	}
	if f.RuntimeLTE != 0 {
		params.Set("with_runtime.lte", strconv.Itoa(f.RuntimeLTE))
		fields["runtime_lte"] = strconv.Itoa(f.RuntimeLTE)
	}
	if f.SortBy != "" {
		params.Set("sort_by", f.SortBy)
		fields["sort"] = f.SortBy
	}
	if f.VoteCountGTE != 0 {
		params.Set("vote_count.gte", strconv.Itoa(f.VoteCountGTE))
		fields["votes_gte"] = strconv.Itoa(f.VoteCountGTE)
	}
	if f.Page != 0 {
		params.Set("page", strconv.Itoa(f.Page))
		fields["page"] = strconv.Itoa(f.Page)
	}

	key := cache.Key("tmdb:discover", fields)
	if movies, ok := c.cachedList(ctx, key); ok {
		return movies, nil
	}

	var resp listJSON
	if err := c.request(ctx, "discover/movie", params, &resp); err != nil {
		return nil, fmt.Errorf("movie discovery failed: %w", err)
	}

	movies := make([]Movie, 0, len(resp.Results))
	for _, m := range resp.Results {
		movies = append(movies, c.fromList(m))
	}

	c.storeList(ctx, key, movies, searchTTL)
	return movies, nil
}

// Popular returns one popularity-ranked page.
func (c *Client) Popular(ctx context.Context, page int) ([]Movie, error) {
	return c.Discover(ctx, Filters{Page: page, SortBy: "popularity.desc"})
}

// TopRated returns a vote-average-ranked page, requiring enough votes for the
// average to mean anything.
func (c *Client) TopRated(ctx context.Context, page int) ([]Movie, error) {
	return c.Discover(ctx, Filters{Page: page, SortBy: "vote_average.desc", VoteCountGTE: 1000})
}

// Details fetches one movie with runtime, full genre names and director.
// Returns (nil, nil) when the movie does not exist.
func (c *Client) Details(ctx context.Context, id int) (*Movie, error) {
	key := cache.Key("tmdb:movie", map[string]string{"id": strconv.Itoa(id), "lang": c.language})
	if data, ok := c.store.Get(ctx, key); ok {
		var movie Movie
		if err := json.Unmarshal(data, &movie); err == nil {
			return &movie, nil
		}
	}

	params := url.Values{}
	params.Set("language", c.language)
	params.Set("append_to_response", "credits")

	var m movieJSON
	if err := c.request(ctx, fmt.Sprintf("movie/%d", id), params, &m); err != nil {
		return nil, fmt.Errorf("failed to get movie details for id %d: %w", id, err)
	}
	if m.ID == 0 {
		return nil, nil
	}

	genreIDs := make([]int, 0, len(m.Genres))
	genreNames := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		genreIDs = append(genreIDs, g.ID)
		genreNames = append(genreNames, g.Name)
	}

	movie := Movie{
		ID:               m.ID,
		Title:            m.Title,
		OriginalTitle:    m.OriginalTitle,
		Overview:         m.Overview,
		ReleaseDate:      m.ReleaseDate,
		PosterPath:       m.PosterPath,
		BackdropPath:     m.BackdropPath,
		GenreIDs:         genreIDs,
		Genres:           genreNames,
		VoteAverage:      m.VoteAverage,
		VoteCount:        m.VoteCount,
		Popularity:       m.Popularity,
		Runtime:          m.Runtime,
		Adult:            m.Adult,
		OriginalLanguage: m.OriginalLanguage,
		PosterURL:        c.imageURL(m.PosterPath, "w500"),
		BackdropURL:      c.imageURL(m.BackdropPath, "w1280"),
	}
	if m.Credits != nil {
		for _, crew := range m.Credits.Crew {
			if crew.Job == "Director" {
				movie.Director = crew.Name
				break
			}
		}
	}

	if data, err := json.Marshal(movie); err == nil {
		c.store.Set(ctx, key, data, detailsTTL)
	}
	return &movie, nil
}

// Healthy reports whether the API answers at all.
func (c *Client) Healthy(ctx context.Context) bool {
	var out map[string]interface{}
	return c.request(ctx, "configuration", url.Values{}, &out) == nil
}

func (c *Client) cachedList(ctx context.Context, key string) ([]Movie, bool) {
	data, ok := c.store.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var movies []Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, false
	}
	return movies, true
}

func (c *Client) storeList(ctx context.Context, key string, movies []Movie, ttl time.Duration) {
	data, err := json.Marshal(movies)
	if err != nil {
		return
	}
	c.store.Set(ctx, key, data, ttl)
}
