package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"studytour/internal/config"
	"studytour/internal/microservices/http-api/dto"
	"studytour/internal/microservices/http-api/models"
	"studytour/internal/microservices/http-api/repository"
	"studytour/internal/middleware/auth"
	"studytour/internal/shared"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxBioLength       = 1000
	maxInterests       = 20
	tokenTypeBearer    = "Bearer"
	maxEmailLength     = 254
	maxInterestLength  = 50
	maxAvatarURLLength = 2048
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", ErrUnauthorized)
)

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error)
	RevokeToken(ctx context.Context, refreshToken string) error
	ValidateToken(tokenString string) (*shared.AuthClaims, error)
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
	CurrentRole(ctx context.Context, userID string) (models.Role, error)
	UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*dto.UserResponse, error)
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtSecret        string
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
	logger           *zap.Logger
	now              func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	cfg *config.Config,
	logger *zap.Logger,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtSecret:        cfg.JWTSecret,
		accessTokenTTL:   cfg.AccessTokenTTL,
		refreshTokenTTL:  cfg.RefreshTokenTTL,
		logger:           logger,
		now:              time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user account. The nickname defaults to the local part of the email.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(req.Email)
	at := strings.IndexByte(email, '@')
	if at < 1 || at == len(email)-1 || len(email) > maxEmailLength {
		return nil, validationError("a valid email is required")
	}
	if err := auth.CheckPasswordPolicy(req.Password); err != nil {
		return nil, validationError("%v", err)
	}

	nickname := email[:at]
	if req.Nickname != nil {
		nick, err := checkNickname(*req.Nickname)
		if err != nil {
			return nil, err
		}
		if nick != nil {
			nickname = *nick
		}
	}

	// Check if email exists
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already in use", ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, storageError("user", err)
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Email:    email,
		Password: hashedPassword,
		Nickname: &nickname,
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already in use", ErrConflict)
		}
		return nil, storageError("user", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	resp := dto.FromModelToUserResponse(user)
	return &resp, nil
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, storageError("user", err)
		}
		// same cost as a real comparison
		auth.BurnCompare(req.Password)
		return nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.Password, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("update last_login failed", zap.String("user_id", user.ID), zap.Error(err))
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenTypeBearer,
		ExpiresIn:    int64(s.accessTokenTTL / time.Second),
		User:         dto.FromModelToUserResponse(user),
	}, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := shared.AuthClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
		Type:   shared.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	refreshToken := &models.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: s.now().Add(s.refreshTokenTTL),
	}

	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return "", storageError("refresh token", err)
	}
	return refreshToken.Token, nil
}

// RefreshAccessToken mints a new access token. The user is reloaded so a
// changed role takes effect.
func (s *authService) RefreshAccessToken(ctx context.Context, refreshTokenString string) (*dto.RefreshResponse, error) {
	refreshToken, err := s.refreshTokenRepo.FindByToken(ctx, refreshTokenString)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, storageError("refresh token", err)
	}
	if !refreshToken.Usable(s.now()) {
		return nil, fmt.Errorf("%w: refresh token expired or revoked", ErrUnauthorized)
	}

	user, err := s.userRepo.FindByID(ctx, refreshToken.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, storageError("user", err)
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshResponse{
		AccessToken: accessToken,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int64(s.accessTokenTTL / time.Second),
	}, nil
}

func (s *authService) RevokeToken(ctx context.Context, refreshTokenString string) error {
	refreshToken, err := s.refreshTokenRepo.FindByToken(ctx, refreshTokenString)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return storageError("refresh token", err)
	}
	if err := s.refreshTokenRepo.Revoke(ctx, refreshToken.ID); err != nil {
		return storageError("refresh token", err)
	}
	return nil
}

// ValidateToken parses an access token and returns its claims.
func (s *authService) ValidateToken(tokenString string) (*shared.AuthClaims, error) {
	claims := &shared.AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != shared.TokenTypeAccess || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, storageError("user", err)
	}
	resp := dto.FromModelToUserResponse(user)
	return &resp, nil
}

// CurrentRole returns the stored role, which may differ from the role in a
// still valid access token.
func (s *authService) CurrentRole(ctx context.Context, userID string) (models.Role, error) {
	if err := requireUser(userID); err != nil {
		return "", err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", storageError("user", err)
	}
	return user.Role, nil
}

// UpdateProfile applies the non-nil fields of req to the caller's profile.
func (s *authService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, storageError("user", err)
	}

	if req.Nickname != nil {
		if user.Nickname, err = checkNickname(*req.Nickname); err != nil {
			return nil, err
		}
	}
	if req.AvatarURL != nil {
		avatar := trimmedOrNil(req.AvatarURL)
		if avatar != nil && len(*avatar) > maxAvatarURLLength {
			return nil, validationError("avatar_url is too long")
		}
		user.AvatarURL = avatar
	}
	if req.Bio != nil {
		bio := trimmedOrNil(req.Bio)
		if bio != nil && utf8.RuneCountInString(*bio) > maxBioLength {
			return nil, validationError("bio must be at most %d characters", maxBioLength)
		}
		user.Bio = bio
	}
	if req.Interests != nil {
		interests, err := checkInterests(*req.Interests)
		if err != nil {
			return nil, err
		}
		user.Interests = interests
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, storageError("user", err)
	}
	resp := dto.FromModelToUserResponse(user)
	return &resp, nil
}

// checkInterests trims, drops blanks and removes duplicates, keeping order.
func checkInterests(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, i := range in {
		i = strings.TrimSpace(i)
		if i == "" || seen[i] {
			continue
		}
		if utf8.RuneCountInString(i) > maxInterestLength {
			return nil, validationError("interest %q is too long", i)
		}
		seen[i] = true
		out = append(out, i)
	}
	if len(out) > maxInterests {
		return nil, validationError("at most %d interests", maxInterests)
	}
	return out, nil
}
