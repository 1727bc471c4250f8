package handler

import (
	"net/http"

	"studytour/internal/microservices/http-api/dto"
	"studytour/internal/microservices/http-api/middleware"
	"studytour/internal/microservices/http-api/models"
	"studytour/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the caller's profile and the follow graph.
type UserHandler struct {
	authService   service.AuthService
	followService service.FollowService
}

func NewUserHandler(authService service.AuthService, followService service.FollowService) *UserHandler {
	return &UserHandler{authService: authService, followService: followService}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", middleware.RequireAuth(), h.Me)
	rg.PATCH("/me", middleware.RequireAuth(), h.UpdateProfile)

	participate := middleware.RequirePermission(models.PermParticipate)
	rg.POST("/:id/follow", participate, h.Follow)
	rg.DELETE("/:id/follow", participate, h.Unfollow)

	rg.GET("/:id/follow-stats", h.FollowStats)
	rg.GET("/:id/followers", h.Followers)
	rg.GET("/:id/following", h.Following)
}

// GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.authService.Me(ctx, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// PATCH /api/users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.authService.UpdateProfile(ctx, middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// POST /api/users/:id/follow
func (h *UserHandler) Follow(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.followService.Follow(ctx, middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Followed"})
}

// DELETE /api/users/:id/follow
func (h *UserHandler) Unfollow(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.followService.Unfollow(ctx, middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed"})
}

// FollowStats reports is_following only for a logged-in viewer.
// GET /api/users/:id/follow-stats
func (h *UserHandler) FollowStats(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	stats, err := h.followService.GetFollowStats(ctx, c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /api/users/:id/followers
func (h *UserHandler) Followers(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.followService.ListFollowers(ctx, c.Param("id"), q.Page, q.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/users/:id/following
func (h *UserHandler) Following(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.followService.ListFollowing(ctx, c.Param("id"), q.Page, q.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
