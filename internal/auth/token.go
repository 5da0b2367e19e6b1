package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fleetledger/internal/config"
)

// Claims carries identity and authorization directly on the token, so
// Authenticate never needs a per-request database round trip the way the
// teacher's IsAuthenticated looked the user back up by id on every call.
type Claims struct {
	UserID string   `json:"userId"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// IssueToken signs a JWT for userID/email/roles, valid for config.Envs.JWTTTL.
func IssueToken(userID, email string, roles []string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    config.Envs.JWTIssuer,
			Audience:  jwt.ClaimStrings{config.Envs.JWTAudience},
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(config.Envs.JWTTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Envs.JWTSecret))
}

// ParseToken validates signature, issuer, audience and expiry, returning the
// decoded claims on success.
func ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(config.Envs.JWTSecret), nil
	},
		jwt.WithIssuer(config.Envs.JWTIssuer),
		jwt.WithAudience(config.Envs.JWTAudience),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}
