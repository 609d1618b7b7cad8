package user

import (
	apperrors "github.com/is216/bookweb/pkg/errors"
)

// 用户领域错误定义
var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = apperrors.ErrUserNotFound

	// ErrUsernameDuplicate 用户名已被注册
	ErrUsernameDuplicate = apperrors.ErrUsernameDuplicate

	// ErrInvalidPassword 密码错误
	ErrInvalidPassword = apperrors.ErrInvalidPassword

	// ErrWeakPassword 密码强度不足
	ErrWeakPassword = apperrors.ErrWeakPassword

	// ErrInvalidUsername 用户名不合法
	ErrInvalidUsername = apperrors.New(apperrors.ErrCodeInvalidParams, "用户名应为3-32位字母、数字或下划线")
)
