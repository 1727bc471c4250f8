package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"studytour/internal/microservices/http-api/dto"
	"studytour/internal/microservices/http-api/models"
	"studytour/internal/microservices/http-api/repository"

	"go.uber.org/zap"
)

const (
	maxCommentLength = 5000
	maxCommentImages = 10
)

type CommentService interface {
	ListComments(ctx context.Context, campsiteID string, page, pageSize int) (*dto.Paginated[dto.CommentResponse], error)
	CreateComment(ctx context.Context, userID, campsiteID string, req dto.CommentRequest) (*dto.CommentResponse, error)
	UpdateComment(ctx context.Context, userID, commentID string, req dto.CommentRequest) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, userID, commentID string) error
	LikeComment(ctx context.Context, commentID string) (*dto.CommentResponse, error)
	DislikeComment(ctx context.Context, commentID string) (*dto.CommentResponse, error)
}

type commentService struct {
	commentRepo  repository.CommentRepository
	campsiteRepo repository.CampsiteRepository
	logger       *zap.Logger
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	campsiteRepo repository.CampsiteRepository,
	logger *zap.Logger,
) CommentService {
	return &commentService{
		commentRepo:  commentRepo,
		campsiteRepo: campsiteRepo,
		logger:       logger,
	}
}

// checkComment trims the content and drops blank image urls.
func checkComment(req dto.CommentRequest) (string, []string, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return "", nil, validationError("content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return "", nil, validationError("content must be at most %d characters", maxCommentLength)
	}

	images := make([]string, 0, len(req.Images))
	for _, img := range req.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	if len(images) > maxCommentImages {
		return "", nil, validationError("at most %d images per comment", maxCommentImages)
	}
	return content, images, nil
}

// ListComments returns the published comments of a campsite, newest first.
func (s *commentService) ListComments(ctx context.Context, campsiteID string, page, pageSize int) (*dto.Paginated[dto.CommentResponse], error) {
	if err := checkPage(page, pageSize); err != nil {
		return nil, err
	}
	comments, total, err := s.commentRepo.ListPublishedByCampsite(ctx, campsiteID, page, pageSize)
	if err != nil {
		return nil, storageError("comments", err)
	}
	return dto.NewPaginated(dto.FromModelsToCommentResponses(comments), total, page, pageSize), nil
}

func (s *commentService) CreateComment(ctx context.Context, userID, campsiteID string, req dto.CommentRequest) (*dto.CommentResponse, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	content, images, err := checkComment(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.campsiteRepo.GetByID(ctx, campsiteID); err != nil {
		return nil, storageError("campsite", err)
	}

	comment := &models.Comment{
		UserID:     userID,
		CampsiteID: campsiteID,
		Content:    content,
		Images:     images,
		Status:     models.CommentPublished,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, storageError("comment", err)
	}

	// reload with the author
	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		s.logger.Warn("reload comment failed", zap.String("comment_id", comment.ID), zap.Error(err))
		created = comment
	}
	resp := dto.FromModelToCommentResponse(created)
	return &resp, nil
}

// ownComment loads a comment and checks that userID wrote it.
func (s *commentService) ownComment(ctx context.Context, userID, commentID string) (*models.Comment, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, storageError("comment", err)
	}
	if comment.UserID != userID {
		return nil, fmt.Errorf("%w: comment belongs to another user", ErrForbidden)
	}
	return comment, nil
}

func (s *commentService) UpdateComment(ctx context.Context, userID, commentID string, req dto.CommentRequest) (*dto.CommentResponse, error) {
	content, images, err := checkComment(req)
	if err != nil {
		return nil, err
	}
	comment, err := s.ownComment(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}

	comment.Content = content
	comment.Images = images
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, storageError("comment", err)
	}
	resp := dto.FromModelToCommentResponse(comment)
	return &resp, nil
}

func (s *commentService) DeleteComment(ctx context.Context, userID, commentID string) error {
	if _, err := s.ownComment(ctx, userID, commentID); err != nil {
		return err
	}
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return storageError("comment", err)
	}
	return nil
}

func (s *commentService) LikeComment(ctx context.Context, commentID string) (*dto.CommentResponse, error) {
	return s.react(ctx, commentID, repository.ReactionLike)
}

func (s *commentService) DislikeComment(ctx context.Context, commentID string) (*dto.CommentResponse, error) {
	return s.react(ctx, commentID, repository.ReactionDislike)
}

func (s *commentService) react(ctx context.Context, commentID, column string) (*dto.CommentResponse, error) {
	comment, err := s.commentRepo.React(ctx, commentID, column)
	if err != nil {
		return nil, storageError("comment", err)
	}
	resp := dto.FromModelToCommentResponse(comment)
	return &resp, nil
}
