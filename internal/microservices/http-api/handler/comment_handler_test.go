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
)

type commentFixture struct {
	comments *MockCommentService
	reports  *MockReportService
}

func setupCommentRouter(userID, role string) (http.Handler, commentFixture) {
	f := commentFixture{comments: new(MockCommentService), reports: new(MockReportService)}
	r := newEngine(userID, role)
	h := handler.NewCommentHandler(f.comments, f.reports)
	h.RegisterRoutes(r.Group("/campsites"))
	h.RegisterCommentRoutes(r.Group("/comments"))
	return r, f
}

func TestCreateComment(t *testing.T) {
	r, f := setupCommentRouter("user-1", "user")

	req := dto.CommentRequest{Content: "Great campsite", Images: []string{"https://img.example.com/1.jpg"}}
	f.comments.On("CreateComment", mock.Anything, "user-1", "camp-1", req).
		Return(&dto.CommentResponse{ID: "c-1", Content: "Great campsite", Status: "published"}, nil)

	w := doJSON(r, http.MethodPost, "/campsites/camp-1/comments", req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "c-1", decode[dto.CommentResponse](w).ID)
	f.comments.AssertExpectations(t)
}

func TestCreateCommentAnonymous(t *testing.T) {
	r, f := setupCommentRouter("", "")

	w := doJSON(r, http.MethodPost, "/campsites/camp-1/comments", dto.CommentRequest{Content: "hi"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	f.comments.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListCommentsDefaultsPaging(t *testing.T) {
	r, f := setupCommentRouter("", "")

	f.comments.On("ListComments", mock.Anything, "camp-1", 1, 12).
		Return(dto.NewPaginated([]dto.CommentResponse{{ID: "c-1"}}, 1, 1, 12), nil)

	w := doJSON(r, http.MethodGet, "/campsites/camp-1/comments", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.Paginated[dto.CommentResponse]](w)
	assert.Equal(t, 1, resp.TotalPages)
	f.comments.AssertExpectations(t)
}

func TestListCommentsBadPage(t *testing.T) {
	r, f := setupCommentRouter("", "")

	f.comments.On("ListComments", mock.Anything, "camp-1", 0, 12).
		Return(nil, fmt.Errorf("%w: page must be >= 1, got 0", service.ErrValidation))

	w := doJSON(r, http.MethodGet, "/campsites/camp-1/comments?page=0", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateCommentForbidden(t *testing.T) {
	r, f := setupCommentRouter("user-2", "user")

	f.comments.On("UpdateComment", mock.Anything, "user-2", "c-1", mock.Anything).
		Return(nil, fmt.Errorf("%w: not the author of this comment", service.ErrForbidden))

	w := doJSON(r, http.MethodPut, "/comments/c-1", dto.CommentRequest{Content: "edited"})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteComment(t *testing.T) {
	r, f := setupCommentRouter("user-1", "user")

	f.comments.On("DeleteComment", mock.Anything, "user-1", "c-1").Return(nil)

	w := doJSON(r, http.MethodDelete, "/comments/c-1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	f.comments.AssertExpectations(t)
}

func TestReactToComment(t *testing.T) {
	r, f := setupCommentRouter("user-1", "user")

	f.comments.On("LikeComment", mock.Anything, "c-1").Return(&dto.CommentResponse{ID: "c-1", Likes: 3}, nil)
	f.comments.On("DislikeComment", mock.Anything, "c-1").Return(&dto.CommentResponse{ID: "c-1", Likes: 3, Dislikes: 1}, nil)

	w := doJSON(r, http.MethodPost, "/comments/c-1/like", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, decode[dto.CommentResponse](w).Likes)

	w = doJSON(r, http.MethodPost, "/comments/c-1/dislike", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[dto.CommentResponse](w).Dislikes)

	f.comments.AssertExpectations(t)
}

func TestReportComment(t *testing.T) {
	r, f := setupCommentRouter("user-1", "user")

	req := dto.CreateReportRequest{Reason: "spam"}
	f.reports.On("CreateReport", mock.Anything, "user-1", "c-1", req).
		Return(&dto.ReportResponse{ID: "rep-1", CommentID: "c-1", Reason: "spam", Status: "pending"}, nil)

	w := doJSON(r, http.MethodPost, "/comments/c-1/report", req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "pending", decode[dto.ReportResponse](w).Status)
	f.reports.AssertExpectations(t)
}
