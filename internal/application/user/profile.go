package user

import (
	"context"

	"github.com/is216/bookweb/internal/domain/user"
)

// ProfileUseCase 用户资料用例
type ProfileUseCase struct {
	userRepo    user.Repository
	userService user.Service
}

// NewProfileUseCase 创建资料用例
func NewProfileUseCase(userRepo user.Repository, userService user.Service) *ProfileUseCase {
	return &ProfileUseCase{
		userRepo:    userRepo,
		userService: userService,
	}
}

// ProfileResponse 资料响应
type ProfileResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	IsAdmin  bool   `json:"is_admin"`
}

// UpdateProfileRequest 资料更新请求(空字段表示不修改)
type UpdateProfileRequest struct {
	FullName string
	Email    string
	Phone    string
	Address  string
}

// GetProfile 查询当前用户资料
func (uc *ProfileUseCase) GetProfile(ctx context.Context, userID uint) (*ProfileResponse, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(u), nil
}

// UpdateProfile 更新当前用户资料
func (uc *ProfileUseCase) UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest) (*ProfileResponse, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.UpdateProfile(req.FullName, req.Email, req.Phone, req.Address)
	if err := uc.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	return toProfileResponse(u), nil
}

// ChangePassword 修改密码
func (uc *ProfileUseCase) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	return uc.userService.ChangePassword(ctx, userID, oldPassword, newPassword)
}

func toProfileResponse(u *user.User) *ProfileResponse {
	return &ProfileResponse{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Email:    u.Email,
		Phone:    u.Phone,
		Address:  u.Address,
		IsAdmin:  u.IsAdmin,
	}
}
