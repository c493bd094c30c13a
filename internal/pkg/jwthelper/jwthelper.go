package jwthelper

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type PlayClaims struct {
	jwt.RegisteredClaims
	PlayID    string `json:"play_id"`
	UserAgent string `json:"user_agent"`
}

func GenerateToken(signingKey []byte, playID, userAgent string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := PlayClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		PlayID:    playID,
		UserAgent: userAgent,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(signingKey)
	if err != nil {
		return "", fmt.Errorf("token.SignedString -> %w", err)
	}

	return signed, nil
}

func ParseToken(signingKey []byte, tokenStr string) (PlayClaims, error) {
	var claims PlayClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		return signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}))
	if err != nil {
		return PlayClaims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.PlayID == "" {
		return PlayClaims{}, ErrInvalidToken
	}

	return claims, nil
}
