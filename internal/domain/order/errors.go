package order

import (
	apperrors "github.com/is216/bookweb/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.ErrOrderNotFound

	// ErrEmptyCart 购物车为空,无法下单
	ErrEmptyCart = apperrors.ErrEmptyCart

	// ErrInvalidOrderItems 订单明细不合法
	ErrInvalidOrderItems = apperrors.New(apperrors.ErrCodeInvalidParams, "订单明细不能为空")

	// ErrInvalidQuantity 购买数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")

	// ErrCheckoutInProgress 同一用户的上一次下单尚未结束
	ErrCheckoutInProgress = apperrors.New(apperrors.ErrCodeCheckoutInProgress, "有一笔下单正在处理中,请稍后重试")
)

// NewInvalidTransition 构造非法状态流转错误
// 错误信息携带当前状态和目标状态,便于客户端提示
func NewInvalidTransition(current, target OrderStatus) *apperrors.AppError {
	return apperrors.Newf(apperrors.ErrCodeInvalidTransition,
		"订单状态不允许从[%s]流转到[%s]", current, target)
}

// NewCheckoutFailed 构造下单失败错误(基础设施原因,可安全重试)
// 已扣减的库存要么已回滚,要么回滚失败已记录日志待人工修复,
// 但订单一定未创建,客户端可重试
func NewCheckoutFailed(err error) *apperrors.AppError {
	return apperrors.WrapWithCode(err, apperrors.ErrCodeCheckoutFailed, "下单失败,请稍后重试")
}
