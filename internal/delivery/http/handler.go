package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nutrilens/backend/internal/domain"
	"github.com/nutrilens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	resolver *usecase.Resolver
	scoring  *usecase.ScoringEngine
}

// NewHandler creates a new HTTP handler
func NewHandler(resolver *usecase.Resolver, scoring *usecase.ScoringEngine) *Handler {
	return &Handler{
		resolver: resolver,
		scoring:  scoring,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "nutrilens-backend",
		"version": "1.0.0",
	})
}

// resolveRequest is the body for POST /foods/resolve
type resolveRequest struct {
	Query   string `json:"query" binding:"required"`
	Country string `json:"country"`
}

// ResolveFood maps an informal food reference to its single best canonical
// record
func (h *Handler) ResolveFood(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	food, err := h.resolver.Resolve(c.Request.Context(), req.Query, req.Country)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, food)
}

// SearchFoods runs the fuzzy multi-source search.
// Query params: q (required), limit, country, min_score.
func (h *Handler) SearchFoods(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	minScore := 0.0
	if raw := c.Query("min_score"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_score must be between 0 and 100"})
			return
		}
		minScore = parsed
	}

	results, err := h.resolver.Search(c.Request.Context(), query, limit, c.Query("country"), minScore)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"results": results,
		"count":   len(results),
	})
}

// LookupBarcode fetches a product by barcode/GTIN
func (h *Handler) LookupBarcode(c *gin.Context) {
	food, err := h.resolver.LookupBarcode(c.Request.Context(), c.Param("gtin"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, food)
}

// scoreRequest is the body for POST /foods/score
type scoreRequest struct {
	CanonicalID string   `json:"canonical_id" binding:"required"`
	Grams       *float64 `json:"grams" binding:"required"`
}

// ScorePortion scores a portion of a canonical food
func (h *Handler) ScorePortion(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "canonical_id and grams are required"})
		return
	}

	score, err := h.scoring.ScorePortionByID(c.Request.Context(), req.CanonicalID, *req.Grams)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, score)
}

// respondError maps domain errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuery),
		errors.Is(err, domain.ErrInvalidPortion),
		errors.Is(err, domain.ErrInvalidCanonicalID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrFoodNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "food not found"})
	case errors.Is(err, domain.ErrSourceUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "food source unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
