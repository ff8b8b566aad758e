// internal/pkg/session/manager.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Manager keeps active sessions in Redis, keyed by account id and token JTI.
// Redis is the single source of truth; a missing key means the session is
// gone (logged out, revoked, or expired).
type Manager struct {
	client *redis.Client
}

func NewManager(client *redis.Client) *Manager {
	return &Manager{client: client}
}

// CreateSession stores a new session in Redis with a TTL matching the token.
func (m *Manager) CreateSession(ctx context.Context, session *SessionData) error {
	key := m.sessionKey(session.AccountID, session.JTI)

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	if err := m.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}

	return nil
}

// GetSession retrieves a session from Redis.
func (m *Manager) GetSession(ctx context.Context, accountID int64, jti string) (*SessionData, error) {
	key := m.sessionKey(accountID, jti)

	data, err := m.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("session not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// RevokeSession deletes a session and blacklists its JTI for the remainder
// of the token lifetime, so the token stops working immediately.
func (m *Manager) RevokeSession(ctx context.Context, accountID int64, jti string, tokenExpiry time.Time) error {
	key := m.sessionKey(accountID, jti)

	if err := m.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	ttl := time.Until(tokenExpiry)
	if ttl > 0 {
		if err := m.client.Set(ctx, m.blacklistKey(jti), "1", ttl).Err(); err != nil {
			return fmt.Errorf("failed to blacklist token: %w", err)
		}
	}

	return nil
}

// RevokeAllSessions deletes every session belonging to an account.
func (m *Manager) RevokeAllSessions(ctx context.Context, accountID int64) error {
	pattern := fmt.Sprintf("session:%d:*", accountID)

	iter := m.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := m.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete session %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan sessions: %w", err)
	}

	return nil
}

// IsTokenBlacklisted reports whether a JTI has been revoked.
func (m *Manager) IsTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := m.client.Exists(ctx, m.blacklistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return n > 0, nil
}

func (m *Manager) sessionKey(accountID int64, jti string) string {
	return fmt.Sprintf("session:%d:%s", accountID, jti)
}

func (m *Manager) blacklistKey(jti string) string {
	return fmt.Sprintf("blacklist:jti:%s", jti)
}
