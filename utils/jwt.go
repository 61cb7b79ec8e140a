package utils

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	redis "github.com/redis/go-redis/v9"
)

type contextKey string

const UserIDKey = contextKey("userID")
const RequestIDKey = contextKey("requestID")

// RedisClient is an optional shared Redis client used for token revocation and
// OTP request counters. It stays nil when REDIS_ADDR is not configured;
// callers fall back to in-memory state.
var RedisClient *redis.Client

// InitRedis connects the shared Redis client. A ping failure is reported but
// does not abort startup; revocation then degrades to in-memory behavior.
func InitRedis(addr, password string, db int) error {
	if addr == "" {
		return nil
	}
	rc := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rc.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	RedisClient = rc
	return nil
}

var jwtSecret []byte

// SetJWTSecret stores the signing key. Called once from main.
func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

// GenerateAccessToken issues a short-lived HS256 access token.
func GenerateAccessToken(userID uint, ttl time.Duration) (string, error) {
	if len(jwtSecret) == 0 {
		return "", errors.New("JWT secret is not set")
	}
	now := time.Now()
	jti, err := generateJTI(32)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"id":  userID,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": jti,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidateAccessToken parses the token, enforces HS256 and checks the jti
// against the revocation store when Redis is configured.
func ValidateAccessToken(tokenStr string) (jwt.MapClaims, error) {
	if len(jwtSecret) == 0 {
		return nil, errors.New("JWT secret is not set")
	}
	token, err := jwt.ParseWithClaims(tokenStr, jwt.MapClaims{}, func(t *jwt.Token) (interface{}, error) {
		// Require exact HS256 algorithm to avoid algorithm confusion.
		if t.Method == nil || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("token expired")
		}
		return nil, errors.New("invalid token")
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	if jti, ok := claims["jti"].(string); ok && jti != "" && RedisClient != nil {
		res, err := RedisClient.Get(context.Background(), "jwt:blacklist:"+jti).Result()
		if err == nil && res == "1" {
			return nil, errors.New("token revoked")
		}
		// ignore redis errors (do not fail auth due to redis outage)
	}

	return claims, nil
}

// RevokeJTI blacklists a token id until its natural expiry. No-op without Redis.
func RevokeJTI(jti string, ttl time.Duration) error {
	if jti == "" {
		return errors.New("empty jti")
	}
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Set(context.Background(), "jwt:blacklist:"+jti, "1", ttl).Err()
}

// UserIDFromClaims extracts the numeric user id, tolerating the float64 shape
// json decoding produces.
func UserIDFromClaims(claims jwt.MapClaims) (uint, bool) {
	rawID, ok := claims["id"]
	if !ok {
		return 0, false
	}
	switch v := rawID.(type) {
	case float64:
		return uint(v), true
	case int:
		return uint(v), true
	default:
		return 0, false
	}
}

// GetUserID reads the authenticated user id injected by the auth middleware.
func GetUserID(r *http.Request) (uint, bool) {
	v := r.Context().Value(UserIDKey)
	id, ok := v.(uint)
	return id, ok
}

// generateJTI creates a URL-safe random identifier used as JWT ID
func generateJTI(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	const hex = "0123456789abcdef"
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = hex[int(b[i])%len(hex)]
	}
	return string(out), nil
}
