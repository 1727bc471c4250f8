package dto

import (
	"time"

	"studytour/internal/microservices/http-api/models"
)

// RegisterRequest: payload for user registration
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Nickname *string `json:"nickname"`
}

// LoginRequest: payload for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse: response payload after successful authentication
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"` // seconds
	User         UserResponse `json:"user"`
}

// RefreshTokenRequest: payload for refreshing or revoking a refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// UpdateProfileRequest: nil fields are left unchanged.
type UpdateProfileRequest struct {
	Nickname  *string   `json:"nickname"`
	AvatarURL *string   `json:"avatar_url"`
	Bio       *string   `json:"bio"`
	Interests *[]string `json:"interests"`
}

// UserResponse is the full account view returned to the user themself and to admins.
type UserResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Nickname  string     `json:"nickname"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
	Bio       *string    `json:"bio,omitempty"`
	Interests []string   `json:"interests"`
	Role      string     `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

func FromModelToUserResponse(u *models.User) UserResponse {
	interests := u.Interests
	if interests == nil {
		interests = []string{}
	}
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Nickname:  u.DisplayName(),
		AvatarURL: u.AvatarURL,
		Bio:       u.Bio,
		Interests: interests,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}

func FromModelsToUserResponses(list []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(list))
	for i := range list {
		out = append(out, FromModelToUserResponse(&list[i]))
	}
	return out
}
