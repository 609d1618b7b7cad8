package book

import (
	apperrors "github.com/is216/bookweb/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.ErrBookNotFound

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "价格不合法")

	// ErrInvalidStock 无效的库存
	ErrInvalidStock = apperrors.New(apperrors.ErrCodeInvalidParams, "库存不能为负数")

	// ErrInvalidQuantity 无效的数量
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")

	// ErrInvalidGenre 分类不存在
	ErrInvalidGenre = apperrors.New(apperrors.ErrCodeInvalidParams, "图书分类不存在")

	// ErrEmptyTitle 书名为空
	ErrEmptyTitle = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能为空")
)

// NewInsufficientStock 构造库存不足错误
// 错误信息携带图书ID,便于客户端定位是哪一行不满足
func NewInsufficientStock(bookID uint) *apperrors.AppError {
	return apperrors.Newf(apperrors.ErrCodeInsufficientStock, "图书[%d]库存不足", bookID)
}

// IsInsufficientStock 判断是否为库存不足错误
func IsInsufficientStock(err error) bool {
	return apperrors.HasCode(err, apperrors.ErrCodeInsufficientStock)
}
