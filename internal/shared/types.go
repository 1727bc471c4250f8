package shared

import "github.com/golang-jwt/jwt/v5"

// Token types carried in the "type" claim.
const (
	TokenTypeAccess = "access"
)

// AuthClaims is the JWT payload of an access token.
type AuthClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// Keys under which the auth middleware stores identity in the gin context.
const (
	CtxUserID = "userID"
	CtxEmail  = "email"
	CtxRole   = "role"
	CtxClaims = "claims"
)
