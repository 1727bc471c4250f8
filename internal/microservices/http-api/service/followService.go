package service

import (
	"context"
	"errors"
	"fmt"

	"studytour/internal/microservices/http-api/dto"
	"studytour/internal/microservices/http-api/models"
	"studytour/internal/microservices/http-api/repository"
)

type FollowService interface {
	Follow(ctx context.Context, followerID, followingID string) error
	Unfollow(ctx context.Context, followerID, followingID string) error
	GetFollowStats(ctx context.Context, userID, currentUserID string) (*dto.FollowStats, error)
	ListFollowers(ctx context.Context, userID string, page, pageSize int) (*dto.Paginated[dto.UserSummary], error)
	ListFollowing(ctx context.Context, userID string, page, pageSize int) (*dto.Paginated[dto.UserSummary], error)
}

type followService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) FollowService {
	return &followService{followRepo: followRepo, userRepo: userRepo}
}

// Follow adds the edge follower -> following. Following yourself is rejected
// before any write; following twice is a conflict.
func (s *followService) Follow(ctx context.Context, followerID, followingID string) error {
	if err := requireUser(followerID); err != nil {
		return err
	}
	if followerID == followingID {
		return validationError("you cannot follow yourself")
	}
	if _, err := s.userRepo.FindByID(ctx, followingID); err != nil {
		return storageError("user", err)
	}

	err := s.followRepo.Create(ctx, &models.Follow{FollowerID: followerID, FollowingID: followingID})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("%w: already following", ErrConflict)
		}
		return storageError("follow", err)
	}
	return nil
}

func (s *followService) Unfollow(ctx context.Context, followerID, followingID string) error {
	if err := requireUser(followerID); err != nil {
		return err
	}
	if err := s.followRepo.Delete(ctx, followerID, followingID); err != nil {
		return storageError("follow", err)
	}
	return nil
}

// GetFollowStats counts both directions. IsFollowing is only computed for a
// logged-in viewer other than the user themself.
func (s *followService) GetFollowStats(ctx context.Context, userID, currentUserID string) (*dto.FollowStats, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, storageError("user", err)
	}

	followers, err := s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, storageError("followers", err)
	}
	following, err := s.followRepo.CountFollowing(ctx, userID)
	if err != nil {
		return nil, storageError("following", err)
	}

	stats := &dto.FollowStats{Followers: followers, Following: following}
	if currentUserID != "" && currentUserID != userID {
		if stats.IsFollowing, err = s.followRepo.Exists(ctx, currentUserID, userID); err != nil {
			return nil, storageError("follow", err)
		}
	}
	return stats, nil
}

func (s *followService) ListFollowers(ctx context.Context, userID string, page, pageSize int) (*dto.Paginated[dto.UserSummary], error) {
	if err := checkPage(page, pageSize); err != nil {
		return nil, err
	}
	users, total, err := s.followRepo.ListFollowers(ctx, userID, page, pageSize)
	if err != nil {
		return nil, storageError("followers", err)
	}
	return dto.NewPaginated(dto.FromModelsToUserSummaries(users), total, page, pageSize), nil
}

func (s *followService) ListFollowing(ctx context.Context, userID string, page, pageSize int) (*dto.Paginated[dto.UserSummary], error) {
	if err := checkPage(page, pageSize); err != nil {
		return nil, err
	}
	users, total, err := s.followRepo.ListFollowing(ctx, userID, page, pageSize)
	if err != nil {
		return nil, storageError("following", err)
	}
	return dto.NewPaginated(dto.FromModelsToUserSummaries(users), total, page, pageSize), nil
}
