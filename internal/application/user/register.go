// Package user 用户用例:注册、登录、登出、资料维护
package user

import (
	"context"

	"github.com/is216/bookweb/internal/domain/user"
)

// RegisterUseCase 用户注册用例
// 设计说明:
// 1. Application层负责用例编排,协调多个领域服务
// 2. 当前注册用例比较简单,只调用一个领域服务
// 3. 未来可能扩展:发送欢迎邮件、记录审计日志、触发事件等
type RegisterUseCase struct {
	userService user.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string
	Password string
}

// RegisterResponse 注册响应
// 说明:不返回密码字段(安全考虑)
type RegisterResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	u, err := uc.userService.Register(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	// 领域实体 → 应用层DTO,领域模型变更不影响API契约
	return &RegisterResponse{
		ID:       u.ID,
		Username: u.Username,
	}, nil
}
