package server

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/moodflix/backend/internal/config"
	"github.com/moodflix/backend/internal/logger"
	"github.com/moodflix/backend/internal/ratelimit"
	"github.com/moodflix/backend/internal/recommend"
	"github.com/moodflix/backend/internal/tmdb"
)

const version = "2.0.0"

const (
	defaultRecommendations = 8
	maxRecommendations     = 20
)

type Server struct {
	cfg     *config.Config
	log     *logger.Logger
	engine  *recommend.Engine
	movies  *tmdb.Client
	limiter *ratelimit.Limiter
	usage   *ratelimit.UsageTracker
}

func New(cfg *config.Config, engine *recommend.Engine, movies *tmdb.Client,
	limiter *ratelimit.Limiter, usage *ratelimit.UsageTracker, log *logger.Logger) *Server {
	return &Server{
		cfg:     cfg,
		log:     log.With("component", "server"),
		engine:  engine,
		movies:  movies,
		limiter: limiter,
		usage:   usage,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	if s.cfg.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.log))
	r.Use(cors.Default())

	api := r.Group("/api")
	api.Use(s.emergencyStop())

	perMinute := s.cfg.RateLimit.PerMinute
	perDay := s.cfg.RateLimit.PerDay

	api.GET("/health", s.health)
	api.GET("/status", s.status)
	api.POST("/recommend/mood", s.rateLimit(perMinute, perDay), s.usageLimit(1500), s.recommendByMood)
	api.POST("/recommend/search", s.rateLimit(perMinute, perDay), s.usageLimit(1000), s.recommendBySearch)
	api.GET("/movie/:id", s.rateLimit(10, 200), s.movieDetails)
	api.GET("/movies/popular", s.rateLimit(5, 50), s.popularMovies)

	return r
}

type recommendRequest struct {
	Text               string `json:"text"`
	NumRecommendations int    `json:"num_recommendations"`
}

func (r *recommendRequest) count() int {
	n := r.NumRecommendations
	if n <= 0 {
		n = defaultRecommendations
	}
	if n > maxRecommendations {
		n = maxRecommendations
	}
	return n
}

type recommendationJSON struct {
	Movie          tmdb.Movie              `json:"movie"`
	Score          int                     `json:"score"`
	MatchReasons   []string                `json:"match_reasons"`
	MoodMatches    recommend.MoodVector    `json:"mood_matches"`
	EmotionMatches recommend.EmotionVector `json:"emotion_matches"`
}

func toJSON(ranked []recommend.RankedCandidate) []recommendationJSON {
	out := make([]recommendationJSON, 0, len(ranked))
	for _, rc := range ranked {
		out = append(out, recommendationJSON{
			Movie:          rc.Movie,
			Score:          int(math.Round(rc.Score * 100)),
			MatchReasons:   rc.MatchReasons,
			MoodMatches:    rc.MoodMatches,
			EmotionMatches: rc.EmotionMatches,
		})
	}
	return out
}

func (s *Server) recommendByMood(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad request",
			"message": "Missing required field: text",
		})
		return
	}

	analysis, ranked, err := s.engine.RecommendByMoodText(c.Request.Context(), req.Text, req.count())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad request",
			"message": "Text cannot be empty",
		})
		return
	}

	s.log.Info("mood recommendation completed",
		"count", len(ranked),
		"confidence", analysis.Confidence,
		"method", analysis.Method,
	)

	c.JSON(http.StatusOK, gin.H{
		"analysis":        analysis,
		"recommendations": toJSON(ranked),
		"metadata": gin.H{
			"total_found": len(ranked),
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"method":      "mood_analysis",
		},
	})
}

func (s *Server) recommendBySearch(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad request",
			"message": "Missing required field: text",
		})
		return
	}

	analysis, ranked, err := s.engine.RecommendByText(c.Request.Context(), req.Text, req.count())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad request",
			"message": "Search text cannot be empty",
		})
		return
	}

	s.log.Info("text search recommendation completed", "count", len(ranked))

	c.JSON(http.StatusOK, gin.H{
		"search_query":    req.Text,
		"analysis":        analysis,
		"recommendations": toJSON(ranked),
		"metadata": gin.H{
			"total_found": len(ranked),
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"method":      "text_search",
		},
	})
}

func (s *Server) movieDetails(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad request",
			"message": "Movie id must be an integer",
		})
		return
	}

	movie, err := s.movies.Details(c.Request.Context(), id)
	if err != nil {
		s.log.Error("failed to get movie details", "movie_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get movie details",
			"message": "Unable to retrieve movie information. Please try again.",
		})
		return
	}
	if movie == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Movie not found",
			"message": "Movie with id " + c.Param("id") + " not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"movie":     movie,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) popularMovies(c *gin.Context) {
	page := 1
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if page > 10 {
		page = 10
	}

	movies, err := s.movies.Popular(c.Request.Context(), page)
	if err != nil {
		s.log.Error("failed to get popular movies", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get popular movies",
			"message": "Unable to retrieve popular movies. Please try again.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"movies":    movies,
		"page":      page,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) health(c *gin.Context) {
	tmdbHealthy := s.movies.Healthy(c.Request.Context())
	llmConfigured := s.cfg.LLM.APIKey != ""

	status := "healthy"
	code := http.StatusOK
	if !tmdbHealthy || !llmConfigured {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services": gin.H{
			"tmdb": healthWord(tmdbHealthy),
			"llm":  healthWord(llmConfigured),
		},
		"version": version,
	})
}

func (s *Server) status(c *gin.Context) {
	usage := s.usage.MonthlyUsage(c.Request.Context())
	within, currentCost := s.usage.WithinBudget(c.Request.Context(), s.cfg.LLM.MonthlyBudgetUSD)

	c.JSON(http.StatusOK, gin.H{
		"system": gin.H{
			"status":         "operational",
			"emergency_stop": s.cfg.EmergencyStop,
			"rate_limiting":  s.cfg.RateLimit.Enabled,
			"version":        version,
		},
		"usage": gin.H{
			"llm": gin.H{
				"monthly_cost":        math.Round(currentCost*10000) / 10000,
				"monthly_limit":       s.cfg.LLM.MonthlyBudgetUSD,
				"within_limit":        within,
				"requests_this_month": usage.Requests,
				"tokens_this_month":   usage.TotalTokens,
			},
		},
		"limits": gin.H{
			"requests_per_minute": s.cfg.RateLimit.PerMinute,
			"requests_per_day":    s.cfg.RateLimit.PerDay,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func healthWord(ok bool) string {
	if ok {
		return "healthy"
	}
	return "unhealthy"
}
