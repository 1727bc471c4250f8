package repository

import (
	"context"

	"studytour/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// Reaction columns accepted by CommentRepository.React.
const (
	ReactionLike    = "likes"
	ReactionDislike = "dislikes"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListPublishedByCampsite(ctx context.Context, campsiteID string, page, pageSize int) ([]models.Comment, int64, error)
	ListByStatus(ctx context.Context, status models.CommentStatus, page, pageSize int) ([]models.Comment, int64, error)
	ListRecent(ctx context.Context, limit int) ([]models.Comment, error)
	UpdateStatus(ctx context.Context, id string, status models.CommentStatus) error
	React(ctx context.Context, id, column string) (*models.Comment, error)
	Count(ctx context.Context) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// Update writes the editable columns only; counters and status have their own paths.
func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	result := r.db.WithContext(ctx).Model(comment).
		Select("content", "images", "updated_at").
		Updates(comment)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Preload("User").First(&comment, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *commentRepository) ListPublishedByCampsite(ctx context.Context, campsiteID string, page, pageSize int) ([]models.Comment, int64, error) {
	var comments []models.Comment
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("campsite_id = ? AND status = ?", campsiteID, models.CommentPublished)

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Session(&gorm.Session{}).
		Preload("User").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset(page, pageSize)).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// ListByStatus pages through comments for moderation. An empty status lists all.
func (r *commentRepository) ListByStatus(ctx context.Context, status models.CommentStatus, page, pageSize int) ([]models.Comment, int64, error) {
	var comments []models.Comment
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Comment{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Session(&gorm.Session{}).
		Preload("User").
		Preload("Campsite").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset(page, pageSize)).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

func (r *commentRepository) ListRecent(ctx context.Context, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Campsite").
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) UpdateStatus(ctx context.Context, id string, status models.CommentStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// React increments likes or dislikes in place and returns the updated comment.
func (r *commentRepository) React(ctx context.Context, id, column string) (*models.Comment, error) {
	if column != ReactionLike && column != ReactionDislike {
		return nil, gorm.ErrInvalidField
	}
	result := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *commentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Count(&count).Error
	return count, err
}
