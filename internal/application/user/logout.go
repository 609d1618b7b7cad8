package user

import (
	"context"
	"time"

	"github.com/is216/bookweb/internal/infrastructure/persistence/redis"
	"github.com/is216/bookweb/pkg/jwt"
)

// LogoutUseCase 用户登出用例
// 教学要点:JWT无法主动失效,登出通过两件事实现:
// 1. 把当前token加入黑名单,TTL取token剩余有效期
// 2. 删除Redis会话
type LogoutUseCase struct {
	sessions *redis.SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessions *redis.SessionStore) *LogoutUseCase {
	return &LogoutUseCase{sessions: sessions}
}

// Execute 执行登出
func (uc *LogoutUseCase) Execute(ctx context.Context, token string, claims *jwt.Claims) error {
	remaining := time.Until(claims.ExpiresAt.Time)
	if err := uc.sessions.AddToBlacklist(ctx, token, remaining); err != nil {
		return err
	}
	return uc.sessions.DeleteSession(ctx, claims.UserID)
}
