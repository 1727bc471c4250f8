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
	"github.com/stretchr/testify/require"
)

func setupRatingRouter(ratingService *MockRatingService, userID, role string) http.Handler {
	r := newEngine(userID, role)
	handler.NewRatingHandler(ratingService).RegisterRoutes(r.Group("/campsites"))
	return r
}

func TestUpsertRating(t *testing.T) {
	mockRatingService := new(MockRatingService)
	r := setupRatingRouter(mockRatingService, "user-1", "user")

	req := dto.UpsertRatingRequest{ScoreOverall: intPtr(5), ScoreSafety: intPtr(4)}
	mockRatingService.On("UpsertRating", mock.Anything, "camp-1", "user-1", req).
		Return(&dto.RatingResponse{ID: "r-1", UserID: "user-1", CampsiteID: "camp-1", ScoreOverall: intPtr(5), ScoreSafety: intPtr(4)}, nil)

	w := doJSON(r, http.MethodPut, "/campsites/camp-1/ratings/me", req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.RatingResponse](w)
	require.NotNil(t, resp.ScoreOverall)
	assert.Equal(t, 5, *resp.ScoreOverall)
	mockRatingService.AssertExpectations(t)
}

func TestUpsertRatingValidation(t *testing.T) {
	mockRatingService := new(MockRatingService)
	r := setupRatingRouter(mockRatingService, "user-1", "user")

	mockRatingService.On("UpsertRating", mock.Anything, "camp-1", "user-1", mock.Anything).
		Return(nil, fmt.Errorf("%w: score_overall must be between 1 and 5", service.ErrValidation))

	w := doJSON(r, http.MethodPut, "/campsites/camp-1/ratings/me", dto.UpsertRatingRequest{ScoreOverall: intPtr(9)})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]string](w)["error"], "score_overall")
}

func TestUpsertRatingRequiresLogin(t *testing.T) {
	mockRatingService := new(MockRatingService)
	r := setupRatingRouter(mockRatingService, "", "")

	w := doJSON(r, http.MethodPut, "/campsites/camp-1/ratings/me", dto.UpsertRatingRequest{ScoreOverall: intPtr(5)})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockRatingService.AssertNotCalled(t, "UpsertRating", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetUserRatingNotFound(t *testing.T) {
	mockRatingService := new(MockRatingService)
	r := setupRatingRouter(mockRatingService, "user-1", "user")

	mockRatingService.On("GetUserRating", mock.Anything, "camp-1", "user-1").
		Return(nil, fmt.Errorf("%w: rating", service.ErrNotFound))

	w := doJSON(r, http.MethodGet, "/campsites/camp-1/ratings/me", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRating(t *testing.T) {
	mockRatingService := new(MockRatingService)
	r := setupRatingRouter(mockRatingService, "user-1", "user")

	mockRatingService.On("DeleteRating", mock.Anything, "camp-1", "user-1").Return(nil)

	w := doJSON(r, http.MethodDelete, "/campsites/camp-1/ratings/me", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	mockRatingService.AssertExpectations(t)
}

func TestListRatingsIsPublic(t *testing.T) {
	mockRatingService := new(MockRatingService)
	r := setupRatingRouter(mockRatingService, "", "")

	mockRatingService.On("ListRatings", mock.Anything, "camp-1").
		Return([]dto.RatingResponse{{ID: "r-1"}, {ID: "r-2"}}, nil)

	w := doJSON(r, http.MethodGet, "/campsites/camp-1/ratings", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Data []dto.RatingResponse `json:"data"`
	}](w)
	assert.Len(t, resp.Data, 2)
}

func TestRatingSummary(t *testing.T) {
	mockRatingService := new(MockRatingService)
	r := setupRatingRouter(mockRatingService, "", "")

	mockRatingService.On("GetRatingSummary", mock.Anything, "camp-1").Return(&dto.RatingSummary{
		AverageOverall: 4.5,
		TotalRatings:   2,
		Distribution:   map[int]int{1: 0, 2: 0, 3: 0, 4: 1, 5: 1},
	}, nil)

	w := doJSON(r, http.MethodGet, "/campsites/camp-1/ratings/summary", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.RatingSummary](w)
	assert.Equal(t, 4.5, resp.AverageOverall)
	assert.Equal(t, 1, resp.Distribution[5])
}
