package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"studytour/internal/microservices/http-api/dto"
	"studytour/internal/microservices/http-api/models"
	"studytour/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

// --- HELPERS ---

func stringPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

// fakeAuth stands in for OptionalAuth: it sets the identity the handlers read.
func fakeAuth(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set(shared.CtxUserID, userID)
			c.Set(shared.CtxRole, role)
		}
		c.Next()
	}
}

func newEngine(userID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(fakeAuth(userID, role))
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	_ = json.Unmarshal(w.Body.Bytes(), &v)
	return v
}

// --- MOCK SERVICES ---

type MockCampsiteService struct {
	mock.Mock
}

func (m *MockCampsiteService) ListCampsites(ctx context.Context, filters dto.CampsiteFilters, page, pageSize int) (*dto.Paginated[dto.CampsiteResponse], error) {
	args := m.Called(ctx, filters, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.CampsiteResponse]), args.Error(1)
}

func (m *MockCampsiteService) GetCampsite(ctx context.Context, id string) (*dto.CampsiteResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CampsiteResponse), args.Error(1)
}

func (m *MockCampsiteService) ListCountries(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCampsiteService) CreateCampsite(ctx context.Context, req dto.CreateCampsiteRequest) (*dto.CampsiteResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CampsiteResponse), args.Error(1)
}

func (m *MockCampsiteService) UpdateCampsite(ctx context.Context, id string, req dto.UpdateCampsiteRequest) (*dto.CampsiteResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CampsiteResponse), args.Error(1)
}

func (m *MockCampsiteService) DeleteCampsite(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCampsiteService) ListNewest(ctx context.Context, page, pageSize int) (*dto.Paginated[dto.CampsiteResponse], error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.CampsiteResponse]), args.Error(1)
}

type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) UpsertRating(ctx context.Context, campsiteID, userID string, req dto.UpsertRatingRequest) (*dto.RatingResponse, error) {
	args := m.Called(ctx, campsiteID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RatingResponse), args.Error(1)
}

func (m *MockRatingService) DeleteRating(ctx context.Context, campsiteID, userID string) error {
	args := m.Called(ctx, campsiteID, userID)
	return args.Error(0)
}

func (m *MockRatingService) GetUserRating(ctx context.Context, campsiteID, userID string) (*dto.RatingResponse, error) {
	args := m.Called(ctx, campsiteID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RatingResponse), args.Error(1)
}

func (m *MockRatingService) ListRatings(ctx context.Context, campsiteID string) ([]dto.RatingResponse, error) {
	args := m.Called(ctx, campsiteID)
	return args.Get(0).([]dto.RatingResponse), args.Error(1)
}

func (m *MockRatingService) GetRatingSummary(ctx context.Context, campsiteID string) (*dto.RatingSummary, error) {
	args := m.Called(ctx, campsiteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RatingSummary), args.Error(1)
}

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) ListComments(ctx context.Context, campsiteID string, page, pageSize int) (*dto.Paginated[dto.CommentResponse], error) {
	args := m.Called(ctx, campsiteID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.CommentResponse]), args.Error(1)
}

func (m *MockCommentService) CreateComment(ctx context.Context, userID, campsiteID string, req dto.CommentRequest) (*dto.CommentResponse, error) {
	args := m.Called(ctx, userID, campsiteID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

func (m *MockCommentService) UpdateComment(ctx context.Context, userID, commentID string, req dto.CommentRequest) (*dto.CommentResponse, error) {
	args := m.Called(ctx, userID, commentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

func (m *MockCommentService) DeleteComment(ctx context.Context, userID, commentID string) error {
	args := m.Called(ctx, userID, commentID)
	return args.Error(0)
}

func (m *MockCommentService) LikeComment(ctx context.Context, commentID string) (*dto.CommentResponse, error) {
	args := m.Called(ctx, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

func (m *MockCommentService) DislikeComment(ctx context.Context, commentID string) (*dto.CommentResponse, error) {
	args := m.Called(ctx, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) CreateReport(ctx context.Context, reporterID, commentID string, req dto.CreateReportRequest) (*dto.ReportResponse, error) {
	args := m.Called(ctx, reporterID, commentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReportResponse), args.Error(1)
}

func (m *MockReportService) ListReports(ctx context.Context, status string, page, pageSize int) (*dto.Paginated[dto.ReportResponse], error) {
	args := m.Called(ctx, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.ReportResponse]), args.Error(1)
}

func (m *MockReportService) UpdateReportStatus(ctx context.Context, id, status string) (*dto.ReportResponse, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReportResponse), args.Error(1)
}

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResponse), args.Error(1)
}

func (m *MockAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RefreshResponse), args.Error(1)
}

func (m *MockAuthService) RevokeToken(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*shared.AuthClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.AuthClaims), args.Error(1)
}

func (m *MockAuthService) CurrentRole(ctx context.Context, userID string) (models.Role, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.Role), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

type MockFollowService struct {
	mock.Mock
}

func (m *MockFollowService) Follow(ctx context.Context, followerID, followingID string) error {
	args := m.Called(ctx, followerID, followingID)
	return args.Error(0)
}

func (m *MockFollowService) Unfollow(ctx context.Context, followerID, followingID string) error {
	args := m.Called(ctx, followerID, followingID)
	return args.Error(0)
}

func (m *MockFollowService) GetFollowStats(ctx context.Context, userID, currentUserID string) (*dto.FollowStats, error) {
	args := m.Called(ctx, userID, currentUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.FollowStats), args.Error(1)
}

func (m *MockFollowService) ListFollowers(ctx context.Context, userID string, page, pageSize int) (*dto.Paginated[dto.UserSummary], error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.UserSummary]), args.Error(1)
}

func (m *MockFollowService) ListFollowing(ctx context.Context, userID string, page, pageSize int) (*dto.Paginated[dto.UserSummary], error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.UserSummary]), args.Error(1)
}

type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) GetStats(ctx context.Context) (*dto.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DashboardStats), args.Error(1)
}

func (m *MockAdminService) ListUsers(ctx context.Context, role string, page, pageSize int) (*dto.Paginated[dto.UserResponse], error) {
	args := m.Called(ctx, role, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.UserResponse]), args.Error(1)
}

func (m *MockAdminService) UpdateUser(ctx context.Context, id string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockAdminService) ListComments(ctx context.Context, status string, page, pageSize int) (*dto.Paginated[dto.CommentResponse], error) {
	args := m.Called(ctx, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.CommentResponse]), args.Error(1)
}

func (m *MockAdminService) UpdateCommentStatus(ctx context.Context, id, status string) (*dto.CommentResponse, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

func (m *MockAdminService) DeleteComment(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAdminService) RecentActivity(ctx context.Context, limit int) (*dto.RecentActivity, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RecentActivity), args.Error(1)
}
