package handler

import (
	"github.com/gin-gonic/gin"

	apppayment "github.com/is216/bookweb/internal/application/payment"
	"github.com/is216/bookweb/internal/interface/http/middleware"
	apperrors "github.com/is216/bookweb/pkg/errors"
	"github.com/is216/bookweb/pkg/response"
)

// PaymentHandler 支付HTTP处理器
type PaymentHandler struct {
	paymentUseCase *apppayment.UseCase
}

// NewPaymentHandler 创建支付处理器
func NewPaymentHandler(paymentUseCase *apppayment.UseCase) *PaymentHandler {
	return &PaymentHandler{paymentUseCase: paymentUseCase}
}

// CreatePayment 构造支付跳转URL
// @Summary      发起支付
// @Description  为自己的待发货订单生成VNPay支付跳转URL
// @Tags         支付模块
// @Produce      json
// @Security     BearerAuth
// @Param        order_no query string true "订单号"
// @Success      200 {object} response.Response{data=apppayment.CreatePaymentResponse}
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/payment/vnpay [get]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	orderNo := c.Query("order_no")
	if orderNo == "" {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "缺少订单号")
		return
	}

	result, err := h.paymentUseCase.CreatePayment(c.Request.Context(), orderNo, middleware.MustGetUsername(c), c.ClientIP())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Callback 支付网关回调
// @Summary      支付回调
// @Description  VNPay支付完成后的回跳,校验签名并返回支付结果
// @Tags         支付模块
// @Produce      json
// @Success      200 {object} response.Response{data=apppayment.CallbackResult}
// @Failure      400 {object} response.Response "签名校验失败"
// @Router       /api/v1/payment/vnpay/callback [get]
func (h *PaymentHandler) Callback(c *gin.Context) {
	result, err := h.paymentUseCase.HandleCallback(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, err.Error())
		return
	}
	response.Success(c, result)
}
