package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/odontoflow/clinic-api/internal/access"
)

// Claims is the payload carried by every API token.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HMAC-signed bearer tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token carrying the user id and role.
func (t *Tokens) Issue(userID uuid.UUID, role access.Role) (string, error) {
	if len(t.secret) == 0 {
		return "", errors.New("auth: JWT secret is not configured")
	}
	claims := &Claims{
		UserID: userID.String(),
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses a token string and returns the caller's access context.
func (t *Tokens) Verify(tokenStr string) (access.Context, error) {
	if len(t.secret) == 0 {
		return access.Context{}, errors.New("auth: JWT secret is not configured")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return access.Context{}, errors.New("auth: invalid token")
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return access.Context{}, errors.New("auth: invalid token subject")
	}
	return access.Context{UserID: userID, Role: access.Role(claims.Role)}, nil
}
