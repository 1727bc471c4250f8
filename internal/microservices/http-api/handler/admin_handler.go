package handler

import (
	"net/http"

	"studytour/internal/microservices/http-api/dto"
	"studytour/internal/microservices/http-api/middleware"
	"studytour/internal/microservices/http-api/models"
	"studytour/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService  service.AdminService
	reportService service.ReportService
}

func NewAdminHandler(adminService service.AdminService, reportService service.ReportService) *AdminHandler {
	return &AdminHandler{adminService: adminService, reportService: reportService}
}

type adminListQuery struct {
	dto.PageQuery
	Role   string `form:"role"`
	Status string `form:"status"`
}

// RegisterRoutes registers the dashboard and moderation routes under /admin.
// Each route checks its own permission from models.Permissions.
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	dashboard := middleware.RequirePermission(models.PermViewDashboard)
	rg.GET("/stats", dashboard, h.Stats)
	rg.GET("/recent", dashboard, h.Recent)

	manageUsers := middleware.RequirePermission(models.PermManageUsers)
	rg.GET("/users", manageUsers, h.ListUsers)
	rg.PATCH("/users/:id", manageUsers, h.UpdateUser)

	moderate := middleware.RequirePermission(models.PermModerateComments)
	rg.GET("/comments", moderate, h.ListComments)
	rg.PATCH("/comments/:id/status", moderate, h.UpdateCommentStatus)
	rg.DELETE("/comments/:id", moderate, h.DeleteComment)

	resolve := middleware.RequirePermission(models.PermResolveReports)
	rg.GET("/reports", resolve, h.ListReports)
	rg.PATCH("/reports/:id", resolve, h.UpdateReportStatus)
}

// GET /api/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	stats, err := h.adminService.GetStats(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /api/admin/recent?limit=10
func (h *AdminHandler) Recent(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var q struct {
		Limit int `form:"limit,default=10"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	activity, err := h.adminService.RecentActivity(ctx, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, activity)
}

// GET /api/admin/users?role=&page=&page_size=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var q adminListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.adminService.ListUsers(ctx, q.Role, q.Page, q.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// PATCH /api/admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.adminService.UpdateUser(ctx, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GET /api/admin/comments?status=
func (h *AdminHandler) ListComments(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var q adminListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.adminService.ListComments(ctx, q.Status, q.Page, q.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// PATCH /api/admin/comments/:id/status
func (h *AdminHandler) UpdateCommentStatus(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.UpdateCommentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	comment, err := h.adminService.UpdateCommentStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// DELETE /api/admin/comments/:id
func (h *AdminHandler) DeleteComment(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.adminService.DeleteComment(ctx, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

// GET /api/admin/reports?status=pending
func (h *AdminHandler) ListReports(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var q adminListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.reportService.ListReports(ctx, q.Status, q.Page, q.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// PATCH /api/admin/reports/:id
func (h *AdminHandler) UpdateReportStatus(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.UpdateReportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	report, err := h.reportService.UpdateReportStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
