package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/nikahapp/matrimony-backend/env"
)

const issuer = "https://nikah.app"

// GenAccessToken issues an HS256 token bound to the signing device.
func GenAccessToken(aud, sub string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		ExpiresAt: time.Now().Add(2 * time.Hour).Unix(),
		IssuedAt:  time.Now().Unix(),
		Issuer:    issuer,
		Audience:  aud,
		Subject:   sub,
	})
	return token.SignedString(env.HS256_SECRET)
}

// ParseAccessToken verifies the signature and returns the claims.
func ParseAccessToken(raw string) (jwt.MapClaims, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return env.HS256_SECRET, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok || !t.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
