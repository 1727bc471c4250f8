package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"studytour/internal/microservices/http-api/dto"
	"studytour/internal/microservices/http-api/models"
	"studytour/internal/microservices/http-api/repository"

	"go.uber.org/zap"
)

const (
	maxNicknameLength = 50
	maxRecentLimit    = 50
)

// AdminService backs the dashboard and the moderation screens. Permission
// checks happen in the router; this layer only validates input.
type AdminService interface {
	GetStats(ctx context.Context) (*dto.DashboardStats, error)
	ListUsers(ctx context.Context, role string, page, pageSize int) (*dto.Paginated[dto.UserResponse], error)
	UpdateUser(ctx context.Context, id string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	ListComments(ctx context.Context, status string, page, pageSize int) (*dto.Paginated[dto.CommentResponse], error)
	UpdateCommentStatus(ctx context.Context, id, status string) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, id string) error
	RecentActivity(ctx context.Context, limit int) (*dto.RecentActivity, error)
}

type adminService struct {
	userRepo         repository.UserRepository
	campsiteRepo     repository.CampsiteRepository
	commentRepo      repository.CommentRepository
	ratingRepo       repository.RatingRepository
	reportRepo       repository.ReportRepository
	refreshTokenRepo repository.RefreshTokenRepository
	logger           *zap.Logger
}

func NewAdminService(
	userRepo repository.UserRepository,
	campsiteRepo repository.CampsiteRepository,
	commentRepo repository.CommentRepository,
	ratingRepo repository.RatingRepository,
	reportRepo repository.ReportRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	logger *zap.Logger,
) AdminService {
	return &adminService{
		userRepo:         userRepo,
		campsiteRepo:     campsiteRepo,
		commentRepo:      commentRepo,
		ratingRepo:       ratingRepo,
		reportRepo:       reportRepo,
		refreshTokenRepo: refreshTokenRepo,
		logger:           logger,
	}
}

func (s *adminService) GetStats(ctx context.Context) (*dto.DashboardStats, error) {
	var stats dto.DashboardStats
	var err error

	if stats.TotalCampsites, err = s.campsiteRepo.Count(ctx); err != nil {
		return nil, storageError("campsites", err)
	}
	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, storageError("users", err)
	}
	if stats.TotalComments, err = s.commentRepo.Count(ctx); err != nil {
		return nil, storageError("comments", err)
	}
	if stats.TotalRatings, err = s.ratingRepo.Count(ctx); err != nil {
		return nil, storageError("ratings", err)
	}
	if stats.TotalReports, err = s.reportRepo.CountByStatus(ctx, ""); err != nil {
		return nil, storageError("reports", err)
	}
	if stats.PendingReports, err = s.reportRepo.CountByStatus(ctx, models.ReportPending); err != nil {
		return nil, storageError("reports", err)
	}
	return &stats, nil
}

func (s *adminService) ListUsers(ctx context.Context, role string, page, pageSize int) (*dto.Paginated[dto.UserResponse], error) {
	if err := checkPage(page, pageSize); err != nil {
		return nil, err
	}
	var r models.Role
	if role != "" {
		r = models.Role(strings.ToLower(role))
		if !r.Valid() {
			return nil, validationError("unknown role %q", role)
		}
	}

	users, total, err := s.userRepo.List(ctx, r, page, pageSize)
	if err != nil {
		return nil, storageError("users", err)
	}
	return dto.NewPaginated(dto.FromModelsToUserResponses(users), total, page, pageSize), nil
}

// UpdateUser changes a user's role and/or nickname. A role change revokes
// the user's refresh tokens so the new role applies from the next login.
func (s *adminService) UpdateUser(ctx context.Context, id string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if req.Role == nil && req.Nickname == nil {
		return nil, validationError("nothing to update")
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storageError("user", err)
	}

	roleChanged := false
	if req.Role != nil {
		role := models.Role(strings.ToLower(*req.Role))
		if !role.Valid() {
			return nil, validationError("unknown role %q", *req.Role)
		}
		roleChanged = role != user.Role
		user.Role = role
	}
	if req.Nickname != nil {
		nick, err := checkNickname(*req.Nickname)
		if err != nil {
			return nil, err
		}
		user.Nickname = nick
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, storageError("user", err)
	}

	if roleChanged {
		if err := s.refreshTokenRepo.RevokeAllForUser(ctx, user.ID); err != nil {
			s.logger.Warn("revoke refresh tokens failed", zap.String("user_id", user.ID), zap.Error(err))
		}
		s.logger.Info("user role changed", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	}

	resp := dto.FromModelToUserResponse(user)
	return &resp, nil
}

func parseCommentStatus(raw string) (models.CommentStatus, error) {
	if raw == "" {
		return "", nil
	}
	status := models.CommentStatus(strings.ToLower(raw))
	if !status.Valid() {
		return "", validationError("unknown comment status %q", raw)
	}
	return status, nil
}

func (s *adminService) ListComments(ctx context.Context, status string, page, pageSize int) (*dto.Paginated[dto.CommentResponse], error) {
	if err := checkPage(page, pageSize); err != nil {
		return nil, err
	}
	st, err := parseCommentStatus(status)
	if err != nil {
		return nil, err
	}

	comments, total, err := s.commentRepo.ListByStatus(ctx, st, page, pageSize)
	if err != nil {
		return nil, storageError("comments", err)
	}
	return dto.NewPaginated(dto.FromModelsToCommentResponses(comments), total, page, pageSize), nil
}

func (s *adminService) UpdateCommentStatus(ctx context.Context, id, status string) (*dto.CommentResponse, error) {
	st, err := parseCommentStatus(status)
	if err != nil {
		return nil, err
	}
	if st == "" {
		return nil, validationError("status is required")
	}

	if err := s.commentRepo.UpdateStatus(ctx, id, st); err != nil {
		return nil, storageError("comment", err)
	}
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError("comment", err)
	}
	resp := dto.FromModelToCommentResponse(comment)
	return &resp, nil
}

func (s *adminService) DeleteComment(ctx context.Context, id string) error {
	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return storageError("comment", err)
	}
	return nil
}

// RecentActivity returns the newest comments and sign-ups for the dashboard.
func (s *adminService) RecentActivity(ctx context.Context, limit int) (*dto.RecentActivity, error) {
	if limit < 1 || limit > maxRecentLimit {
		return nil, validationError("limit must be between 1 and %d", maxRecentLimit)
	}

	comments, err := s.commentRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, storageError("comments", err)
	}
	users, err := s.userRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, storageError("users", err)
	}

	return &dto.RecentActivity{
		Comments: dto.FromModelsToCommentResponses(comments),
		Users:    dto.FromModelsToUserResponses(users),
	}, nil
}

// checkNickname trims a nickname; blank clears it.
func checkNickname(raw string) (*string, error) {
	nick := strings.TrimSpace(raw)
	if nick == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(nick) > maxNicknameLength {
		return nil, validationError("nickname must be at most %d characters", maxNicknameLength)
	}
	return &nick, nil
}
