package repository

import (
	"context"
	"fmt"

	"studytour/internal/microservices/http-api/models"

	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository interface {
	Upsert(ctx context.Context, rating *models.Rating) (*models.Rating, error)
	Delete(ctx context.Context, userID, campsiteID string) error
	GetByUserAndCampsite(ctx context.Context, userID, campsiteID string) (*models.Rating, error)
	ListByCampsite(ctx context.Context, campsiteID string) ([]models.Rating, error)
	ListScores(ctx context.Context, campsiteID string) ([]models.Rating, error)
	RecomputeAverage(ctx context.Context, campsiteID string) error
	RecomputeAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// refreshAverageSQL recomputes one campsite's avg_rating from its ratings,
// rounded to one decimal. AVG over no rows is NULL, which clears the cache.
const refreshAverageSQL = `
UPDATE campsites SET avg_rating = (
	SELECT ROUND(AVG(score_overall)::numeric, 1)
	FROM ratings
	WHERE campsite_id = ? AND score_overall IS NOT NULL
) WHERE id = ?`

// ratingConflict overwrites the scores of an existing (user, campsite) row.
var ratingConflict = clause.OnConflict{
	Columns: []clause.Column{{Name: "user_id"}, {Name: "campsite_id"}},
	DoUpdates: clause.AssignmentColumns([]string{
		"score_overall", "score_quality", "score_facility", "score_safety", "updated_at",
	}),
}

func refreshAverage(tx *gorm.DB, campsiteID string) error {
	return tx.Exec(refreshAverageSQL, campsiteID, campsiteID).Error
}

// Upsert inserts or overwrites the (user, campsite) rating and refreshes the
// campsite's avg_rating in the same transaction. The returned row carries the
// stored id and created_at, which survive an overwrite.
func (r *ratingRepository) Upsert(ctx context.Context, rating *models.Rating) (*models.Rating, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "RatingRepository/Upsert")
	defer span.End()

	var stored models.Rating
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(ratingConflict).Create(rating).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ? AND campsite_id = ?", rating.UserID, rating.CampsiteID).
			First(&stored).Error; err != nil {
			return err
		}

		return refreshAverage(tx, rating.CampsiteID)
	})
	if err != nil {
		return nil, fmt.Errorf("upsert rating: %w", translate(err))
	}
	return &stored, nil
}

// Delete removes a user's rating and refreshes the cache in the same transaction.
func (r *ratingRepository) Delete(ctx context.Context, userID, campsiteID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND campsite_id = ?", userID, campsiteID).Delete(&models.Rating{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return refreshAverage(tx, campsiteID)
	})
}

func (r *ratingRepository) GetByUserAndCampsite(ctx context.Context, userID, campsiteID string) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND campsite_id = ?", userID, campsiteID).
		First(&rating).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rating, nil
}

// ListByCampsite returns every rating of a campsite, newest first.
func (r *ratingRepository) ListByCampsite(ctx context.Context, campsiteID string) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.WithContext(ctx).
		Where("campsite_id = ?", campsiteID).
		Preload("User").
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, translate(err)
	}
	return ratings, nil
}

// ListScores loads only the score columns of a campsite's ratings, without
// authors, for aggregation.
func (r *ratingRepository) ListScores(ctx context.Context, campsiteID string) ([]models.Rating, error) {
	var ratings []models.Rating
	err := scoresQuery(r.db.WithContext(ctx), campsiteID).Find(&ratings).Error
	if err != nil {
		return nil, translate(err)
	}
	return ratings, nil
}

func scoresQuery(db *gorm.DB, campsiteID string) *gorm.DB {
	return db.Model(&models.Rating{}).
		Select("score_overall", "score_quality", "score_facility", "score_safety").
		Where("campsite_id = ?", campsiteID)
}

func (r *ratingRepository) RecomputeAverage(ctx context.Context, campsiteID string) error {
	return refreshAverage(r.db.WithContext(ctx), campsiteID)
}

// RecomputeAll rebuilds avg_rating for every campsite in one statement and
// returns the number of campsites touched.
func (r *ratingRepository) RecomputeAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Exec(`
UPDATE campsites c SET avg_rating = (
	SELECT ROUND(AVG(r.score_overall)::numeric, 1)
	FROM ratings r
	WHERE r.campsite_id = c.id AND r.score_overall IS NOT NULL
)`)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *ratingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Rating{}).Count(&count).Error
	return count, err
}
