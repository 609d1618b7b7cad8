// Package payment 支付用例
package payment

import (
	"context"
	"net/url"

	"github.com/is216/bookweb/internal/domain/order"
	"github.com/is216/bookweb/internal/infrastructure/payment"
	apperrors "github.com/is216/bookweb/pkg/errors"
)

// UseCase 支付用例
// 设计说明:支付网关只承担两个最小职责——
// 构造支付跳转URL和校验回调,订单状态不因支付结果自动流转
// (发货等动作仍由管理员通过订单状态接口触发)
type UseCase struct {
	gateway   *payment.VNPayGateway
	orderRepo order.Repository
}

// NewUseCase 创建支付用例
func NewUseCase(gateway *payment.VNPayGateway, orderRepo order.Repository) *UseCase {
	return &UseCase{
		gateway:   gateway,
		orderRepo: orderRepo,
	}
}

// CreatePaymentResponse 支付URL响应
type CreatePaymentResponse struct {
	OrderNo    string `json:"order_no"`
	PaymentURL string `json:"payment_url"`
}

// CallbackResult 支付回调结果
type CallbackResult struct {
	OrderNo string `json:"order_no"`
	Success bool   `json:"success"`
}

// CreatePayment 为订单构造支付跳转URL
// 只允许为自己的待发货订单发起支付
func (uc *UseCase) CreatePayment(ctx context.Context, orderNo, username, clientIP string) (*CreatePaymentResponse, error) {
	o, err := uc.orderRepo.FindByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}
	if !o.IsOwnedBy(username) {
		return nil, order.ErrOrderNotFound
	}
	if o.Status != order.OrderStatusPending {
		return nil, apperrors.New(apperrors.ErrCodeBusinessError, "当前订单状态不支持支付")
	}

	return &CreatePaymentResponse{
		OrderNo:    o.OrderNo,
		PaymentURL: uc.gateway.BuildPaymentURL(o.OrderNo, o.Total, clientIP),
	}, nil
}

// HandleCallback 处理支付网关回调
func (uc *UseCase) HandleCallback(ctx context.Context, params url.Values) (*CallbackResult, error) {
	orderNo, success, err := uc.gateway.VerifyCallback(params)
	if err != nil {
		return nil, err
	}
	// 校验订单确实存在,防止伪造订单号
	if _, err := uc.orderRepo.FindByOrderNo(ctx, orderNo); err != nil {
		return nil, err
	}
	return &CallbackResult{OrderNo: orderNo, Success: success}, nil
}
