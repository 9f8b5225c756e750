package middleware

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// GenerateToken выпускает токен, который принимает Authenticator с тем же секретом.
// Пользователей сервер не хранит: токены выдает tkdctl.
func GenerateToken(secret string, userID int, role string, ttl time.Duration) (string, error) {
	if role != RoleAdmin && role != RoleOperator && role != RoleDevice {
		return "", fmt.Errorf("unknown role %q", role)
	}
	now := time.Now()
	claims := jwt.MapClaims{
		jwtClaimUserID: userID,
		jwtClaimRole:   role,
		"iat":          now.Unix(),
		"exp":          now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
