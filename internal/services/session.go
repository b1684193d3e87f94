package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campusclubs/venuebook-backend/internal/authz"
)

var RedisClient *redis.Client

// SessionTTL matches the JWT expiry so a token never outlives its
// server-side session.
const SessionTTL = 7 * 24 * time.Hour

var ErrSessionNotFound = errors.New("session not found")

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// NewSessionID returns an opaque random session identifier.
func NewSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func sessionKey(sid string) string {
	return fmt.Sprintf("session:%s", sid)
}

// SaveSession stores the principal snapshot (identity, role name and
// materialized permission set) established at login.
func SaveSession(ctx context.Context, sid string, principal *authz.Principal) error {
	data, err := json.Marshal(principal)
	if err != nil {
		return err
	}
	return RedisClient.Set(ctx, sessionKey(sid), data, SessionTTL).Err()
}

// GetSession resolves a session id back into its principal. A missing
// key means the session was never created or has been revoked.
func GetSession(ctx context.Context, sid string) (*authz.Principal, error) {
	data, err := RedisClient.Get(ctx, sessionKey(sid)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var principal authz.Principal
	if err := json.Unmarshal([]byte(data), &principal); err != nil {
		return nil, err
	}
	return &principal, nil
}

// DeleteSession revokes a session at logout.
func DeleteSession(ctx context.Context, sid string) error {
	return RedisClient.Del(ctx, sessionKey(sid)).Err()
}
