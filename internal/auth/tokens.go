package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shadows-market/storefront/pkg/models"
)

// Tokens issues and verifies the HS256 bearer tokens the storefront runs on.
// The role travels as a custom claim; everything else is standard registered
// claims.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret []byte, ttl time.Duration) *Tokens {
	return &Tokens{secret: secret, ttl: ttl}
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (t *Tokens) Issue(username string, role models.Role) (string, error) {
	now := time.Now()
	c := claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
}

// Verify returns the subject and role baked into a token, or an error for
// anything expired, malformed or signed with the wrong key.
func (t *Tokens) Verify(token string) (string, models.Role, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", "", errors.New("invalid token")
	}
	role, ok := models.ParseRole(c.Role)
	if !ok {
		return "", "", errors.New("unknown role claim")
	}
	return c.Subject, role, nil
}
