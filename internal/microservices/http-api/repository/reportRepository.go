package repository

import (
	"context"

	"studytour/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)
	List(ctx context.Context, status models.ReportStatus, page, pageSize int) ([]models.Report, int64, error)
	UpdateStatus(ctx context.Context, id string, status models.ReportStatus) error
	CountByStatus(ctx context.Context, status models.ReportStatus) (int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).
		Preload("Reporter").
		Preload("Comment").
		First(&report, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &report, nil
}

// List pages through reports, newest first. An empty status lists all.
func (r *reportRepository) List(ctx context.Context, status models.ReportStatus, page, pageSize int) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Session(&gorm.Session{}).
		Preload("Reporter").
		Preload("Comment").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset(page, pageSize)).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

func (r *reportRepository) UpdateStatus(ctx context.Context, id string, status models.ReportStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Report{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reportRepository) CountByStatus(ctx context.Context, status models.ReportStatus) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Count(&count).Error
	return count, err
}
