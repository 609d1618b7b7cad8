package genre

import (
	apperrors "github.com/is216/bookweb/pkg/errors"
)

// 分类领域错误定义
var (
	// ErrGenreNotFound 分类不存在
	ErrGenreNotFound = apperrors.ErrGenreNotFound

	// ErrGenreDuplicate 分类名已存在
	ErrGenreDuplicate = apperrors.ErrGenreDuplicate

	// ErrEmptyName 分类名为空
	ErrEmptyName = apperrors.New(apperrors.ErrCodeInvalidParams, "分类名不能为空")
)
