package jwt

import (
	"errors"
	"fmt"
	"moviecatalog/auth"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carried by an admin access token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type JWTProvider struct {
	Secret    string
	AccessTTL time.Duration
	now       func() time.Time
}

func NewJWTProvider(secret string, accessTTL time.Duration) *JWTProvider {
	return &JWTProvider{
		Secret:    secret,
		AccessTTL: accessTTL,
		now:       time.Now,
	}
}

// GenerateAccessToken implements [auth.TokenProvider].
func (p *JWTProvider) GenerateAccessToken(a auth.Admin) (auth.Token, error) {
	issuedAt := p.now()
	expiresAt := issuedAt.Add(p.AccessTTL)
	claims := Claims{
		Email: a.Email,
		Role:  a.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.Email,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(p.Secret))
	if err != nil {
		return auth.Token{}, fmt.Errorf("sign access token: %w", err)
	}
	return auth.Token{AccessToken: signed, ExpiresAt: expiresAt}, nil
}

// ParseAccessToken verifies the signature and expiry of an HS256 token.
func (p *JWTProvider) ParseAccessToken(token string) (*Claims, error) {
	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(p.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
