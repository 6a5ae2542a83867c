package service

import (
	"time"

	"mentormatch/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenIssuer   = "mentormatch"
	TokenAudience = "mentormatch-users"
)

// AuthClaims is the canonical token contract: registered claims carry the
// subject (user ID) and validity window, the custom claims carry what the
// client needs without a round trip.
type AuthClaims struct {
	jwt.RegisteredClaims
	Role  string `json:"role"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func newAuthClaims(user *model.User, ttl time.Duration) AuthClaims {
	now := time.Now()

	return AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuer,
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{TokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		Role:  user.Role,
		Email: user.Email,
		Name:  user.Name,
	}
}
