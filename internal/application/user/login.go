package user

import (
	"context"
	"log"
	"time"

	"github.com/is216/bookweb/internal/domain/user"
	"github.com/is216/bookweb/internal/infrastructure/persistence/redis"
	"github.com/is216/bookweb/pkg/jwt"
)

// LoginUseCase 用户登录用例
// 教学要点:
// 1. 领域服务校验身份,JWT管理器签发双Token
// 2. 会话写入Redis,有效期与Refresh Token一致
// 3. 会话写入失败不阻断登录(JWT本身自包含),只记录日志
type LoginUseCase struct {
	userService user.Service
	jwtManager  *jwt.Manager
	sessions    *redis.SessionStore
	sessionTTL  time.Duration
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessions *redis.SessionStore,
	sessionTTL time.Duration,
) *LoginUseCase {
	return &LoginUseCase{
		userService: userService,
		jwtManager:  jwtManager,
		sessions:    sessions,
		sessionTTL:  sessionTTL,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string
	Password string
}

// LoginResponse 登录响应
type LoginResponse struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	IsAdmin      bool   `json:"is_admin"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := uc.userService.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	tokens, err := uc.jwtManager.GenerateToken(u.ID, u.Username, u.IsAdmin)
	if err != nil {
		return nil, err
	}

	if err := uc.sessions.SaveSession(ctx, &redis.SessionData{
		UserID:   u.ID,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
		LoginAt:  time.Now(),
	}, uc.sessionTTL); err != nil {
		log.Printf("[登录] 保存用户[%s]会话失败: %v", u.Username, err)
	}

	return &LoginResponse{
		UserID:       u.ID,
		Username:     u.Username,
		IsAdmin:      u.IsAdmin,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
	}, nil
}
