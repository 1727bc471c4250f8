package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"studytour/internal/events"
	"studytour/internal/microservices/http-api/dto"
	"studytour/internal/microservices/http-api/models"
	"studytour/internal/microservices/http-api/repository"

	"go.uber.org/zap"
)

const maxReportReasonLength = 500

type ReportService interface {
	CreateReport(ctx context.Context, reporterID, commentID string, req dto.CreateReportRequest) (*dto.ReportResponse, error)
	ListReports(ctx context.Context, status string, page, pageSize int) (*dto.Paginated[dto.ReportResponse], error)
	UpdateReportStatus(ctx context.Context, id, status string) (*dto.ReportResponse, error)
}

type reportService struct {
	reportRepo  repository.ReportRepository
	commentRepo repository.CommentRepository
	publisher   events.Publisher
	logger      *zap.Logger
}

func NewReportService(
	reportRepo repository.ReportRepository,
	commentRepo repository.CommentRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) ReportService {
	return &reportService{
		reportRepo:  reportRepo,
		commentRepo: commentRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

func (s *reportService) CreateReport(ctx context.Context, reporterID, commentID string, req dto.CreateReportRequest) (*dto.ReportResponse, error) {
	if err := requireUser(reporterID); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, validationError("reason is required")
	}
	if utf8.RuneCountInString(reason) > maxReportReasonLength {
		return nil, validationError("reason must be at most %d characters", maxReportReasonLength)
	}
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return nil, storageError("comment", err)
	}

	report := &models.Report{
		ReporterID: reporterID,
		CommentID:  commentID,
		Reason:     reason,
		Status:     models.ReportPending,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, storageError("report", err)
	}

	if err := s.publisher.Publish(ctx, events.ReportCreated, events.ReportCreatedEvent{
		ReportID:   report.ID,
		CommentID:  commentID,
		ReporterID: reporterID,
		Reason:     reason,
	}); err != nil {
		s.logger.Warn("event publish failed", zap.String("event", events.ReportCreated), zap.Error(err))
	}

	resp := dto.FromModelToReportResponse(report)
	return &resp, nil
}

// parseReportStatus accepts "" (no filter) or a known status.
func parseReportStatus(raw string) (models.ReportStatus, error) {
	if raw == "" {
		return "", nil
	}
	status := models.ReportStatus(strings.ToLower(raw))
	if !status.Valid() {
		return "", validationError("unknown report status %q", raw)
	}
	return status, nil
}

func (s *reportService) ListReports(ctx context.Context, status string, page, pageSize int) (*dto.Paginated[dto.ReportResponse], error) {
	if err := checkPage(page, pageSize); err != nil {
		return nil, err
	}
	st, err := parseReportStatus(status)
	if err != nil {
		return nil, err
	}

	reports, total, err := s.reportRepo.List(ctx, st, page, pageSize)
	if err != nil {
		return nil, storageError("reports", err)
	}

	out := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		out = append(out, dto.FromModelToReportResponse(&reports[i]))
	}
	return dto.NewPaginated(out, total, page, pageSize), nil
}

// UpdateReportStatus resolves a report. The reported comment is left as is;
// hiding it is a separate moderation action.
func (s *reportService) UpdateReportStatus(ctx context.Context, id, status string) (*dto.ReportResponse, error) {
	st, err := parseReportStatus(status)
	if err != nil {
		return nil, err
	}
	if st == "" {
		return nil, validationError("status is required")
	}

	if err := s.reportRepo.UpdateStatus(ctx, id, st); err != nil {
		return nil, storageError("report", err)
	}
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError("report", err)
	}
	resp := dto.FromModelToReportResponse(report)
	return &resp, nil
}
