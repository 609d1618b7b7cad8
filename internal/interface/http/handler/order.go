package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/is216/bookweb/internal/application/order"
	"github.com/is216/bookweb/internal/domain/order"
	"github.com/is216/bookweb/internal/interface/http/dto"
	"github.com/is216/bookweb/internal/interface/http/middleware"
	apperrors "github.com/is216/bookweb/pkg/errors"
	"github.com/is216/bookweb/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	checkoutUseCase     *apporder.CheckoutUseCase
	updateStatusUseCase *apporder.UpdateStatusUseCase
	queryUseCase        *apporder.QueryUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	checkoutUseCase *apporder.CheckoutUseCase,
	updateStatusUseCase *apporder.UpdateStatusUseCase,
	queryUseCase *apporder.QueryUseCase,
) *OrderHandler {
	return &OrderHandler{
		checkoutUseCase:     checkoutUseCase,
		updateStatusUseCase: updateStatusUseCase,
		queryUseCase:        queryUseCase,
	}
}

// Checkout 购物车下单
// @Summary      下单
// @Description  将当前用户的购物车转换为订单。
// @Description  成交价按图书当前数据快照(促销价优先),库存逐行条件扣减,
// @Description  任何一行不足则整体失败并回滚已扣减的行。
// @Tags         订单模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CheckoutRequest true "收货地址"
// @Success      200 {object} response.Response{data=apporder.OrderResponse} "下单成功"
// @Failure      400 {object} response.Response "购物车为空或库存不足"
// @Failure      500 {object} response.Response "下单失败,可重试"
// @Router       /api/v1/orders/checkout [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.checkoutUseCase.Execute(c.Request.Context(), apporder.CheckoutRequest{
		Username:        middleware.MustGetUsername(c),
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateStatus 订单状态流转
// @Summary      订单状态流转
// @Description  管理员可执行全部合法流转(发货/送达/取消);
// @Description  普通用户只能取消自己的待发货订单。
// @Description  重复请求同一终态是幂等no-op。
// @Tags         订单模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Param        request body dto.UpdateOrderStatusRequest true "目标状态"
// @Success      200 {object} response.Response{data=apporder.OrderResponse}
// @Failure      400 {object} response.Response "非法状态流转"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "订单ID不合法")
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.updateStatusUseCase.Execute(c.Request.Context(), apporder.UpdateStatusRequest{
		OrderID:  id,
		Target:   order.OrderStatus(req.Status),
		Username: middleware.MustGetUsername(c),
		IsAdmin:  middleware.IsAdmin(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetOrder 查询订单详情
// @Summary      订单详情
// @Description  普通用户只能查看自己的订单
// @Tags         订单模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=apporder.OrderResponse}
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "订单ID不合法")
		return
	}

	result, err := h.queryUseCase.GetOrder(c.Request.Context(), id, middleware.MustGetUsername(c), middleware.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListMyOrders 查询当前用户的订单
// @Summary      我的订单
// @Description  创建时间倒序分页
// @Tags         订单模块
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(10)
// @Success      200 {object} response.Response{data=apporder.OrderListResponse}
// @Router       /api/v1/orders [get]
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	var req dto.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.queryUseCase.ListMyOrders(c.Request.Context(), middleware.MustGetUsername(c), req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListAllOrders 管理员查询全部订单
// @Summary      全部订单(管理员)
// @Description  创建时间倒序分页,username参数可按用户过滤
// @Tags         订单模块
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(10)
// @Param        username query string false "按用户名过滤"
// @Success      200 {object} response.Response{data=apporder.OrderListResponse}
// @Failure      403 {object} response.Response "无权限"
// @Router       /api/v1/admin/orders [get]
func (h *OrderHandler) ListAllOrders(c *gin.Context) {
	var req dto.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.queryUseCase.ListAllOrders(c.Request.Context(), req.Username, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
