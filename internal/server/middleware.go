package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/moodflix/backend/internal/logger"
)

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("request_id", requestID)

		c.Next()

		log.Info("request completed",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}

func (s *Server) emergencyStop() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.EmergencyStop {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Service temporarily unavailable",
				"message": "The service is currently under maintenance.",
			})
			return
		}
		c.Next()
	}
}

// rateLimit checks the per-minute and per-day windows for the calling client.
func (s *Server) rateLimit(perMinute, perDay int) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.ClientIP()

		if perMinute > 0 {
			allowed, current, limit := s.limiter.Allow(c.Request.Context(), clientID, perMinute, time.Minute)
			if !allowed {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"error":         "Rate limit exceeded",
					"message":       "Too many requests. Please try again later.",
					"current_count": current,
					"limit":         limit,
					"window":        "1 minute",
				})
				return
			}
		}

		if perDay > 0 {
			allowed, current, limit := s.limiter.Allow(c.Request.Context(), clientID, perDay, 24*time.Hour)
			if !allowed {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"error":         "Daily limit exceeded",
					"message":       "Daily request limit exceeded.",
					"current_count": current,
					"limit":         limit,
					"window":        "24 hours",
				})
				return
			}
		}

		c.Next()
	}
}

// usageLimit gates LLM-backed endpoints on the monthly budget, then records
// the request's estimated spend. Rough estimate: $0.002 per 1K tokens.
func (s *Server) usageLimit(estimatedTokens int) gin.HandlerFunc {
	estimatedCost := float64(estimatedTokens) / 1000.0 * 0.002

	return func(c *gin.Context) {
		within, currentCost := s.usage.WithinBudget(c.Request.Context(), s.cfg.LLM.MonthlyBudgetUSD)
		if !within {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":        "Monthly usage limit exceeded",
				"message":      "Monthly spending limit exceeded.",
				"current_cost": currentCost,
				"limit":        s.cfg.LLM.MonthlyBudgetUSD,
			})
			return
		}

		c.Next()

		s.usage.Track(c.Request.Context(), estimatedTokens, estimatedCost)
	}
}
