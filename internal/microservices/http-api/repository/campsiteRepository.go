package repository

import (
	"context"
	"fmt"

	"studytour/internal/microservices/http-api/models"

	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
)

const tracerID = "campsite-repository-gorm"

type CampsiteRepository interface {
	List(ctx context.Context, q CampsiteQuery) ([]models.Campsite, int64, error)
	ListNewest(ctx context.Context, page, pageSize int) ([]models.Campsite, int64, error)
	GetByID(ctx context.Context, id string) (*models.Campsite, error)
	ExistsByURL(ctx context.Context, url string) (bool, error)
	Create(ctx context.Context, c *models.Campsite) error
	Update(ctx context.Context, c *models.Campsite) error
	Delete(ctx context.Context, id string) error
	Countries(ctx context.Context) ([]string, error)
	CountDependents(ctx context.Context, id string) (comments int64, ratings int64, err error)
	Count(ctx context.Context) (int64, error)
}

type campsiteRepository struct {
	db *gorm.DB
}

func NewCampsiteRepository(db *gorm.DB) CampsiteRepository {
	return &campsiteRepository{db: db}
}

// List runs the listing query: one COUNT over the filtered set and one
// ordered, paginated SELECT.
func (r *campsiteRepository) List(ctx context.Context, q CampsiteQuery) ([]models.Campsite, int64, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "CampsiteRepository/List")
	defer span.End()

	base := applyCampsiteFilters(r.db.WithContext(ctx).Model(&models.Campsite{}), q)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count campsites: %w", err)
	}

	list := make([]models.Campsite, 0, q.Limit)
	if err := base.Session(&gorm.Session{}).
		Order(campsiteOrder).
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list campsites: %w", err)
	}

	return list, total, nil
}

// applyCampsiteFilters adds the WHERE part of q. Pagination is left to the caller.
func applyCampsiteFilters(db *gorm.DB, q CampsiteQuery) *gorm.DB {
	if q.Search != "" {
		p := containsPattern(q.Search)
		// one grouped OR, not two filters
		db = db.Where("(name ILIKE ? OR COALESCE(description, '') ILIKE ?)", p, p)
	}
	if q.Country != "" {
		db = db.Where("country = ?", q.Country)
	}
	if q.Category != "" {
		db = db.Where("category = ?", q.Category)
	}
	if q.MinRating > 0 {
		db = db.Where("avg_rating >= ?", q.MinRating)
	}
	return db
}

func (r *campsiteRepository) ListNewest(ctx context.Context, page, pageSize int) ([]models.Campsite, int64, error) {
	var list []models.Campsite
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Campsite{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset(offset(page, pageSize)).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *campsiteRepository) GetByID(ctx context.Context, id string) (*models.Campsite, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "CampsiteRepository/GetByID")
	defer span.End()

	var c models.Campsite
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *campsiteRepository) ExistsByURL(ctx context.Context, url string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Campsite{}).Where("url = ?", url).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *campsiteRepository) Create(ctx context.Context, c *models.Campsite) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create campsite: %w", translate(err))
	}
	return nil
}

// Update saves every column except the rating cache, which only the rating
// repository writes.
func (r *campsiteRepository) Update(ctx context.Context, c *models.Campsite) error {
	res := r.db.WithContext(ctx).Model(c).
		Select("name", "url", "country", "category", "description", "thumbnail_url", "updated_at").
		Updates(c)
	if res.Error != nil {
		return fmt.Errorf("update campsite: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *campsiteRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Campsite{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete campsite: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Countries returns the distinct non-null countries in alphabetical order.
func (r *campsiteRepository) Countries(ctx context.Context) ([]string, error) {
	var countries []string
	err := r.db.WithContext(ctx).Model(&models.Campsite{}).
		Where("country IS NOT NULL AND country <> ''").
		Distinct("country").
		Order("country").
		Pluck("country", &countries).Error
	if err != nil {
		return nil, err
	}
	return countries, nil
}

func (r *campsiteRepository) CountDependents(ctx context.Context, id string) (int64, int64, error) {
	var comments, ratings int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("campsite_id = ?", id).Count(&comments).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Rating{}).Where("campsite_id = ?", id).Count(&ratings).Error; err != nil {
		return 0, 0, err
	}
	return comments, ratings, nil
}

func (r *campsiteRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Campsite{}).Count(&count).Error
	return count, err
}
