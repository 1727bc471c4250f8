package handler

import (
	"net/http"

	"studytour/internal/microservices/http-api/dto"
	"studytour/internal/microservices/http-api/middleware"
	"studytour/internal/microservices/http-api/models"
	"studytour/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingService service.RatingService
}

func NewRatingHandler(ratingService service.RatingService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
	}
}

// RegisterRoutes registers rating routes on the /campsites group.
func (h *RatingHandler) RegisterRoutes(router *gin.RouterGroup) {
	ratings := router.Group("/:id/ratings")
	{
		// Public routes
		ratings.GET("", h.List)
		ratings.GET("/summary", h.Summary)

		// Routes for the caller's own rating
		participate := middleware.RequirePermission(models.PermParticipate)
		ratings.GET("/me", participate, h.GetUserRating)
		ratings.PUT("/me", participate, h.Upsert)
		ratings.DELETE("/me", participate, h.Delete)
	}
}

// Upsert creates or replaces the caller's rating for a campsite
// PUT /api/campsites/:id/ratings/me
func (h *RatingHandler) Upsert(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.UpsertRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rating, err := h.ratingService.UpsertRating(ctx, c.Param("id"), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// GetUserRating retrieves the current user's rating for a campsite
// GET /api/campsites/:id/ratings/me
func (h *RatingHandler) GetUserRating(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	rating, err := h.ratingService.GetUserRating(ctx, c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// Delete removes the current user's rating
// DELETE /api/campsites/:id/ratings/me
func (h *RatingHandler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.ratingService.DeleteRating(ctx, c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rating deleted successfully"})
}

// GET /api/campsites/:id/ratings
func (h *RatingHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	ratings, err := h.ratingService.ListRatings(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": ratings})
}

// Summary returns the per-dimension averages and the overall histogram
// GET /api/campsites/:id/ratings/summary
func (h *RatingHandler) Summary(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	summary, err := h.ratingService.GetRatingSummary(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
