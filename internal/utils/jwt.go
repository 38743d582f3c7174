package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type JWTUtil struct {
	secret string
}

func NewJWTUtil(secret string) *JWTUtil {
	return &JWTUtil{secret: secret}
}

func (j *JWTUtil) GenerateToken(userID, role string, resetRequired bool) (string, error) {
	expirationTime := time.Now().Add(72 * time.Hour)
	claims := jwt.MapClaims{
		"user_id":        userID,
		"role":           role,
		"reset_required": resetRequired,
		"exp":            expirationTime.Unix(),
		"iat":            time.Now().Unix(),
		"jti":            uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secret))
}

func (j *JWTUtil) ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unauthorized")
		}
		return []byte(j.secret), nil
	})
}

// IsTokenBlacklisted reports whether the token's jti was blacklisted at
// logout. Redis errors are treated as "not blacklisted".
func (j *JWTUtil) IsTokenBlacklisted(ctx context.Context, token *jwt.Token, redis *RedisClient) bool {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	jti, ok := claims["jti"].(string)
	if !ok {
		return false
	}
	var blacklisted bool
	err := redis.Get(ctx, fmt.Sprintf("blacklist:%s", jti), &blacklisted)
	return err == nil && blacklisted
}
