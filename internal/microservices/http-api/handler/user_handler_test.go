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

func setupUserRouter(userID, role string) (http.Handler, *MockAuthService, *MockFollowService) {
	authService := new(MockAuthService)
	followService := new(MockFollowService)
	r := newEngine(userID, role)
	handler.NewUserHandler(authService, followService).RegisterRoutes(r.Group("/users"))
	return r, authService, followService
}

func TestMe(t *testing.T) {
	r, authService, _ := setupUserRouter("user-1", "user")

	authService.On("Me", mock.Anything, "user-1").
		Return(&dto.UserResponse{ID: "user-1", Email: "me@example.com", Interests: []string{}}, nil)

	w := doJSON(r, http.MethodGet, "/users/me", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "me@example.com", decode[dto.UserResponse](w).Email)
}

func TestMeAnonymous(t *testing.T) {
	r, authService, _ := setupUserRouter("", "")

	w := doJSON(r, http.MethodGet, "/users/me", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	authService.AssertNotCalled(t, "Me", mock.Anything, mock.Anything)
}

func TestUpdateProfile(t *testing.T) {
	r, authService, _ := setupUserRouter("user-1", "user")

	interests := []string{"hiking", "kayak"}
	req := dto.UpdateProfileRequest{Bio: stringPtr("outdoors"), Interests: &interests}
	authService.On("UpdateProfile", mock.Anything, "user-1", req).
		Return(&dto.UserResponse{ID: "user-1", Bio: stringPtr("outdoors"), Interests: interests}, nil)

	w := doJSON(r, http.MethodPatch, "/users/me", req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, interests, decode[dto.UserResponse](w).Interests)
	authService.AssertExpectations(t)
}

func TestFollowAndUnfollow(t *testing.T) {
	r, _, followService := setupUserRouter("user-1", "user")

	followService.On("Follow", mock.Anything, "user-1", "user-2").Return(nil).Once()
	followService.On("Follow", mock.Anything, "user-1", "user-2").
		Return(fmt.Errorf("%w: already following", service.ErrConflict)).Once()
	followService.On("Unfollow", mock.Anything, "user-1", "user-2").Return(nil)

	w := doJSON(r, http.MethodPost, "/users/user-2/follow", nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/users/user-2/follow", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodDelete, "/users/user-2/follow", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	followService.AssertExpectations(t)
}

func TestFollowSelfRejected(t *testing.T) {
	r, _, followService := setupUserRouter("user-1", "user")

	followService.On("Follow", mock.Anything, "user-1", "user-1").
		Return(fmt.Errorf("%w: cannot follow yourself", service.ErrValidation))

	w := doJSON(r, http.MethodPost, "/users/user-1/follow", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFollowStatsForAnonymousViewer(t *testing.T) {
	r, _, followService := setupUserRouter("", "")

	followService.On("GetFollowStats", mock.Anything, "user-2", "").
		Return(&dto.FollowStats{Followers: 3, Following: 1}, nil)

	w := doJSON(r, http.MethodGet, "/users/user-2/follow-stats", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"followers":3,"following":1,"is_following":false}`, w.Body.String())
}

func TestFollowerLists(t *testing.T) {
	r, _, followService := setupUserRouter("", "")

	followService.On("ListFollowers", mock.Anything, "user-2", 2, 10).
		Return(dto.NewPaginated([]dto.UserSummary{{ID: "user-9", Nickname: "nine"}}, 11, 2, 10), nil)
	followService.On("ListFollowing", mock.Anything, "user-2", 1, 12).
		Return(dto.NewPaginated[dto.UserSummary](nil, 0, 1, 12), nil)

	w := doJSON(r, http.MethodGet, "/users/user-2/followers?page=2&page_size=10", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	followers := decode[dto.Paginated[dto.UserSummary]](w)
	assert.Equal(t, 2, followers.TotalPages)
	assert.Equal(t, "nine", followers.Data[0].Nickname)

	w = doJSON(r, http.MethodGet, "/users/user-2/following", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[dto.Paginated[dto.UserSummary]](w).Data)

	followService.AssertExpectations(t)
}
