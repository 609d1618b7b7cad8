// Package dto 定义HTTP层的请求/响应结构,包含参数验证tag
package dto

// RegisterRequest HTTP注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32" example:"alice"`
	Password string `json:"password" binding:"required,min=8,max=20" example:"passw0rd"`
}

// LoginRequest HTTP登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"passw0rd"`
}

// LoginResponse HTTP登录响应
type LoginResponse struct {
	UserID       uint   `json:"user_id" example:"1"`
	Username     string `json:"username" example:"alice"`
	IsAdmin      bool   `json:"is_admin" example:"false"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in" example:"7200"`
}

// UserResponse 用户响应(不包含密码)
type UserResponse struct {
	ID       uint   `json:"id" example:"1"`
	Username string `json:"username" example:"alice"`
}

// UpdateProfileRequest 资料更新请求(空字段表示不修改)
type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"max=50" example:"张三"`
	Email    string `json:"email" binding:"omitempty,email" example:"alice@example.com"`
	Phone    string `json:"phone" binding:"max=20" example:"13800138000"`
	Address  string `json:"address" binding:"max=255" example:"北京市海淀区中关村1号"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=20"`
}
