package util

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims 自定义 JWT 负载
// Owner is the opaque identifier every note is filed under.
type Claims struct {
	Owner string `json:"owner"`
	jwt.RegisteredClaims
}

// GenerateToken 生成 owner 的 JWT，可指定有效期
func GenerateToken(secret, issuer, owner string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := time.Now()
	claims := &Claims{
		Owner: owner,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   owner,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken 解析并验证 JWT，返回 Claims
func ParseToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Owner == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
