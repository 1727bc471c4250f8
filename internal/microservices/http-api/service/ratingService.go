package service

import (
	"context"

	"studytour/internal/cache"
	"studytour/internal/events"
	"studytour/internal/microservices/http-api/dto"
	"studytour/internal/microservices/http-api/models"
	"studytour/internal/microservices/http-api/repository"

	"go.uber.org/zap"
)

type RatingService interface {
	UpsertRating(ctx context.Context, campsiteID, userID string, req dto.UpsertRatingRequest) (*dto.RatingResponse, error)
	DeleteRating(ctx context.Context, campsiteID, userID string) error
	GetUserRating(ctx context.Context, campsiteID, userID string) (*dto.RatingResponse, error)
	ListRatings(ctx context.Context, campsiteID string) ([]dto.RatingResponse, error)
	GetRatingSummary(ctx context.Context, campsiteID string) (*dto.RatingSummary, error)
}

type ratingService struct {
	ratingRepo   repository.RatingRepository
	campsiteRepo repository.CampsiteRepository
	cache        cache.Cache
	publisher    events.Publisher
	logger       *zap.Logger
}

func NewRatingService(
	ratingRepo repository.RatingRepository,
	campsiteRepo repository.CampsiteRepository,
	c cache.Cache,
	publisher events.Publisher,
	logger *zap.Logger,
) RatingService {
	return &ratingService{
		ratingRepo:   ratingRepo,
		campsiteRepo: campsiteRepo,
		cache:        c,
		publisher:    publisher,
		logger:       logger,
	}
}

func checkScores(req dto.UpsertRatingRequest) error {
	if req.ScoreOverall == nil {
		return validationError("score_overall is required")
	}
	for name, v := range map[string]*int{
		"score_overall":  req.ScoreOverall,
		"score_quality":  req.ScoreQuality,
		"score_facility": req.ScoreFacility,
		"score_safety":   req.ScoreSafety,
	} {
		if v != nil && (*v < 1 || *v > 5) {
			return validationError("%s must be between 1 and 5, got %d", name, *v)
		}
	}
	return nil
}

// UpsertRating creates or overwrites the caller's rating for a campsite. The
// campsite's avg_rating is refreshed in the same storage transaction.
func (s *ratingService) UpsertRating(ctx context.Context, campsiteID, userID string, req dto.UpsertRatingRequest) (*dto.RatingResponse, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := checkScores(req); err != nil {
		return nil, err
	}
	if _, err := s.campsiteRepo.GetByID(ctx, campsiteID); err != nil {
		return nil, storageError("campsite", err)
	}

	stored, err := s.ratingRepo.Upsert(ctx, &models.Rating{
		UserID:        userID,
		CampsiteID:    campsiteID,
		ScoreOverall:  req.ScoreOverall,
		ScoreQuality:  req.ScoreQuality,
		ScoreFacility: req.ScoreFacility,
		ScoreSafety:   req.ScoreSafety,
	})
	if err != nil {
		s.logger.Error("rating upsert failed",
			zap.String("campsite_id", campsiteID),
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, storageError("rating", err)
	}

	s.invalidateSummary(ctx, campsiteID)

	event := events.RatingUpsertedEvent{
		RatingID:     stored.ID,
		CampsiteID:   campsiteID,
		UserID:       userID,
		ScoreOverall: *req.ScoreOverall,
	}
	if c, err := s.campsiteRepo.GetByID(ctx, campsiteID); err == nil {
		event.AvgRating = c.AvgRating
	}
	if err := s.publisher.Publish(ctx, events.RatingUpserted, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("event", events.RatingUpserted), zap.Error(err))
	}

	resp := dto.FromModelToRatingResponse(stored)
	return &resp, nil
}

func (s *ratingService) DeleteRating(ctx context.Context, campsiteID, userID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := s.ratingRepo.Delete(ctx, userID, campsiteID); err != nil {
		return storageError("rating", err)
	}
	s.invalidateSummary(ctx, campsiteID)
	return nil
}

func (s *ratingService) GetUserRating(ctx context.Context, campsiteID, userID string) (*dto.RatingResponse, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	r, err := s.ratingRepo.GetByUserAndCampsite(ctx, userID, campsiteID)
	if err != nil {
		return nil, storageError("rating", err)
	}
	resp := dto.FromModelToRatingResponse(r)
	return &resp, nil
}

func (s *ratingService) ListRatings(ctx context.Context, campsiteID string) ([]dto.RatingResponse, error) {
	if _, err := s.campsiteRepo.GetByID(ctx, campsiteID); err != nil {
		return nil, storageError("campsite", err)
	}
	rows, err := s.ratingRepo.ListByCampsite(ctx, campsiteID)
	if err != nil {
		return nil, storageError("ratings", err)
	}
	out := make([]dto.RatingResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModelToRatingResponse(&rows[i]))
	}
	return out, nil
}

// GetRatingSummary loads every rating of the campsite and aggregates them.
// Summaries are cached until the next rating write for that campsite.
func (s *ratingService) GetRatingSummary(ctx context.Context, campsiteID string) (*dto.RatingSummary, error) {
	key := cache.RatingSummaryKey(campsiteID)

	var cached dto.RatingSummary
	found, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		s.logger.Warn("rating summary cache read failed", zap.String("key", key), zap.Error(err))
	}
	if found {
		return &cached, nil
	}

	if _, err := s.campsiteRepo.GetByID(ctx, campsiteID); err != nil {
		return nil, storageError("campsite", err)
	}
	rows, err := s.ratingRepo.ListScores(ctx, campsiteID)
	if err != nil {
		return nil, storageError("ratings", err)
	}

	summary := SummarizeRatings(rows)
	if err := s.cache.SetJSON(ctx, key, summary); err != nil {
		s.logger.Warn("rating summary cache write failed", zap.String("key", key), zap.Error(err))
	}
	return &summary, nil
}

func (s *ratingService) invalidateSummary(ctx context.Context, campsiteID string) {
	if err := s.cache.Delete(ctx, cache.RatingSummaryKey(campsiteID)); err != nil {
		s.logger.Warn("rating summary invalidation failed", zap.String("campsite_id", campsiteID), zap.Error(err))
	}
}
