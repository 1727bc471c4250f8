package repository

import (
	"context"

	"studytour/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type FollowRepository interface {
	// Create returns ErrDuplicate when the edge already exists.
	Create(ctx context.Context, follow *models.Follow) error
	Delete(ctx context.Context, followerID, followingID string) error
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
	ListFollowers(ctx context.Context, userID string, page, pageSize int) ([]models.User, int64, error)
	ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]models.User, int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, follow *models.Follow) error {
	return translate(r.db.WithContext(ctx).Create(follow).Error)
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID string) error {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

func (r *followRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *followRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

// ListFollowers returns the users following userID, most recent edge first.
func (r *followRepository) ListFollowers(ctx context.Context, userID string, page, pageSize int) ([]models.User, int64, error) {
	return r.listEdge(ctx, "follows.follower_id", "follows.following_id", userID, page, pageSize)
}

// ListFollowing returns the users userID follows, most recent edge first.
func (r *followRepository) ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]models.User, int64, error) {
	return r.listEdge(ctx, "follows.following_id", "follows.follower_id", userID, page, pageSize)
}

func (r *followRepository) listEdge(ctx context.Context, joinCol, filterCol, userID string, page, pageSize int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := r.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON "+joinCol+" = users.id").
		Where(filterCol+" = ?", userID)

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Session(&gorm.Session{}).
		Order("follows.created_at DESC").
		Limit(pageSize).
		Offset(offset(page, pageSize)).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
