package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"studytour/internal/microservices/http-api/dto"
	"studytour/internal/microservices/http-api/handler"
	"studytour/internal/microservices/http-api/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AdminHandlerSuite struct {
	suite.Suite
	admin   *MockAdminService
	reports *MockReportService
}

func (s *AdminHandlerSuite) SetupTest() {
	s.admin = new(MockAdminService)
	s.reports = new(MockReportService)
}

func (s *AdminHandlerSuite) router(userID, role string) http.Handler {
	r := newEngine(userID, role)
	handler.NewAdminHandler(s.admin, s.reports).RegisterRoutes(r.Group("/admin"))
	return r
}

func (s *AdminHandlerSuite) TestStatsAllowedForOrganizer() {
	s.admin.On("GetStats", mock.Anything).Return(&dto.DashboardStats{TotalCampsites: 7, PendingReports: 2}, nil)

	w := doJSON(s.router("org-1", "organizer"), http.MethodGet, "/admin/stats", nil)

	s.Equal(http.StatusOK, w.Code)
	stats := decode[dto.DashboardStats](w)
	s.Equal(int64(7), stats.TotalCampsites)
	s.Equal(int64(2), stats.PendingReports)
}

func (s *AdminHandlerSuite) TestStatsDeniedForUser() {
	w := doJSON(s.router("user-1", "user"), http.MethodGet, "/admin/stats", nil)

	s.Equal(http.StatusForbidden, w.Code)
	s.admin.AssertNotCalled(s.T(), "GetStats", mock.Anything)
}

func (s *AdminHandlerSuite) TestRecentDefaultLimit() {
	s.admin.On("RecentActivity", mock.Anything, 10).
		Return(&dto.RecentActivity{Comments: []dto.CommentResponse{}, Users: []dto.UserResponse{}}, nil)

	w := doJSON(s.router("admin-1", "admin"), http.MethodGet, "/admin/recent", nil)

	s.Equal(http.StatusOK, w.Code)
	s.admin.AssertExpectations(s.T())
}

func (s *AdminHandlerSuite) TestUserManagementIsAdminOnly() {
	w := doJSON(s.router("org-1", "organizer"), http.MethodGet, "/admin/users", nil)
	s.Equal(http.StatusForbidden, w.Code)

	s.admin.On("ListUsers", mock.Anything, "organizer", 1, 12).
		Return(dto.NewPaginated([]dto.UserResponse{{ID: "org-1", Role: "organizer"}}, 1, 1, 12), nil)

	w = doJSON(s.router("admin-1", "admin"), http.MethodGet, "/admin/users?role=organizer", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Len(decode[dto.Paginated[dto.UserResponse]](w).Data, 1)
}

func (s *AdminHandlerSuite) TestUpdateUserRole() {
	req := dto.UpdateUserRequest{Role: stringPtr("organizer")}
	s.admin.On("UpdateUser", mock.Anything, "user-1", req).
		Return(&dto.UserResponse{ID: "user-1", Role: "organizer"}, nil)
	s.admin.On("UpdateUser", mock.Anything, "user-2", mock.Anything).
		Return(nil, fmt.Errorf("%w: invalid role %q", service.ErrValidation, "root"))

	w := doJSON(s.router("admin-1", "admin"), http.MethodPatch, "/admin/users/user-1", req)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("organizer", decode[dto.UserResponse](w).Role)

	w = doJSON(s.router("admin-1", "admin"), http.MethodPatch, "/admin/users/user-2", dto.UpdateUserRequest{Role: stringPtr("root")})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *AdminHandlerSuite) TestCommentModeration() {
	s.admin.On("ListComments", mock.Anything, "hidden", 1, 12).
		Return(dto.NewPaginated([]dto.CommentResponse{{ID: "c-1", Status: "hidden"}}, 1, 1, 12), nil)
	s.admin.On("UpdateCommentStatus", mock.Anything, "c-1", "published").
		Return(&dto.CommentResponse{ID: "c-1", Status: "published"}, nil)
	s.admin.On("DeleteComment", mock.Anything, "c-1").Return(nil)

	r := s.router("admin-1", "admin")

	w := doJSON(r, http.MethodGet, "/admin/comments?status=hidden", nil)
	s.Equal(http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPatch, "/admin/comments/c-1/status", dto.UpdateCommentStatusRequest{Status: "published"})
	s.Equal(http.StatusOK, w.Code)
	s.Equal("published", decode[dto.CommentResponse](w).Status)

	w = doJSON(r, http.MethodDelete, "/admin/comments/c-1", nil)
	s.Equal(http.StatusOK, w.Code)

	s.admin.AssertExpectations(s.T())
}

func (s *AdminHandlerSuite) TestCommentStatusRequiresBody() {
	w := doJSON(s.router("admin-1", "admin"), http.MethodPatch, "/admin/comments/c-1/status", map[string]string{})

	s.Equal(http.StatusBadRequest, w.Code)
	s.admin.AssertNotCalled(s.T(), "UpdateCommentStatus", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AdminHandlerSuite) TestReports() {
	s.reports.On("ListReports", mock.Anything, "pending", 1, 12).
		Return(dto.NewPaginated([]dto.ReportResponse{{ID: "rep-1", Status: "pending"}}, 1, 1, 12), nil)
	s.reports.On("UpdateReportStatus", mock.Anything, "rep-1", "resolved").
		Return(&dto.ReportResponse{ID: "rep-1", Status: "resolved"}, nil)
	s.reports.On("UpdateReportStatus", mock.Anything, "missing", "resolved").
		Return(nil, fmt.Errorf("%w: report", service.ErrNotFound))

	r := s.router("admin-1", "admin")

	w := doJSON(r, http.MethodGet, "/admin/reports?status=pending", nil)
	s.Equal(http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPatch, "/admin/reports/rep-1", dto.UpdateReportStatusRequest{Status: "resolved"})
	s.Equal(http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPatch, "/admin/reports/missing", dto.UpdateReportStatusRequest{Status: "resolved"})
	s.Equal(http.StatusNotFound, w.Code)

	s.reports.AssertExpectations(s.T())
}

func TestAdminHandlerSuite(t *testing.T) {
	suite.Run(t, new(AdminHandlerSuite))
}

func TestReportsDeniedForOrganizer(t *testing.T) {
	reports := new(MockReportService)
	r := newEngine("org-1", "organizer")
	handler.NewAdminHandler(new(MockAdminService), reports).RegisterRoutes(r.Group("/admin"))

	w := doJSON(r, http.MethodGet, "/admin/reports", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
