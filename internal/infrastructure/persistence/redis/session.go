package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore 会话存储
//
// 教学要点:
// 1. JWT本身无状态,无法主动失效;登出通过把token加入黑名单实现
// 2. 黑名单条目的TTL与token剩余有效期一致,到期自动清理
// 3. 会话信息用Hash存储,便于按字段读取
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// SessionData 会话数据
type SessionData struct {
	UserID   uint
	Username string
	IsAdmin  bool
	LoginAt  time.Time
}

// SaveSession 保存用户会话
func (s *SessionStore) SaveSession(ctx context.Context, data *SessionData, ttl time.Duration) error {
	key := sessionKey(data.UserID)
	fields := map[string]interface{}{
		"user_id":  data.UserID,
		"username": data.Username,
		"is_admin": data.IsAdmin,
		"login_at": data.LoginAt.Unix(),
	}

	pipe := s.client.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("保存会话失败: %w", err)
	}
	return nil
}

// GetSession 读取用户会话,不存在时返回nil
func (s *SessionStore) GetSession(ctx context.Context, userID uint) (*SessionData, error) {
	key := sessionKey(userID)
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("读取会话失败: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	data := &SessionData{
		UserID:   userID,
		Username: fields["username"],
		IsAdmin:  fields["is_admin"] == "1",
	}
	return data, nil
}

// DeleteSession 删除用户会话
func (s *SessionStore) DeleteSession(ctx context.Context, userID uint) error {
	return s.client.Del(ctx, sessionKey(userID)).Err()
}

// AddToBlacklist 将token加入黑名单(登出)
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		// token已过期,无需拉黑
		return nil
	}
	return s.client.Set(ctx, blacklistKey(token), "1", ttl).Err()
}

// IsInBlacklist 判断token是否已被拉黑
func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("session:%d", userID)
}

func blacklistKey(token string) string {
	return fmt.Sprintf("blacklist:%s", token)
}
