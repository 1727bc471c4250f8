package handler

import (
	"net/http"

	"studytour/internal/microservices/http-api/dto"
	"studytour/internal/microservices/http-api/middleware"
	"studytour/internal/microservices/http-api/models"
	"studytour/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
	reportService  service.ReportService
}

func NewCommentHandler(commentService service.CommentService, reportService service.ReportService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		reportService:  reportService,
	}
}

// RegisterRoutes registers the campsite comment list/create routes on the
// /campsites group.
func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup) {
	campsiteComments := router.Group("/:id/comments")
	{
		campsiteComments.GET("", h.ListByCampsite)
		campsiteComments.POST("", middleware.RequirePermission(models.PermParticipate), h.Create)
	}
}

// RegisterCommentRoutes registers the per-comment routes on the /comments group.
func (h *CommentHandler) RegisterCommentRoutes(comments *gin.RouterGroup) {
	participate := middleware.RequirePermission(models.PermParticipate)
	comments.PUT("/:id", participate, h.Update)
	comments.DELETE("/:id", participate, h.Delete)
	comments.POST("/:id/like", participate, h.Like)
	comments.POST("/:id/dislike", participate, h.Dislike)
	comments.POST("/:id/report", participate, h.Report)
}

// Create creates a new comment for a campsite
// POST /api/campsites/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	comment, err := h.commentService.CreateComment(ctx, middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Update edits a comment (author only)
// PUT /api/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	comment, err := h.commentService.UpdateComment(ctx, middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Delete deletes a comment (author only)
// DELETE /api/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.commentService.DeleteComment(ctx, middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

// ListByCampsite retrieves published comments for a campsite with pagination
// GET /api/campsites/:id/comments?page=1&page_size=12
func (h *CommentHandler) ListByCampsite(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	comments, err := h.commentService.ListComments(ctx, c.Param("id"), q.Page, q.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// POST /api/comments/:id/like
func (h *CommentHandler) Like(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	comment, err := h.commentService.LikeComment(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// POST /api/comments/:id/dislike
func (h *CommentHandler) Dislike(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	comment, err := h.commentService.DislikeComment(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Report flags a comment for moderation
// POST /api/comments/:id/report
func (h *CommentHandler) Report(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	report, err := h.reportService.CreateReport(ctx, middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}
