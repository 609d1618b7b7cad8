package dto

import (
	"encoding/json"
	"fmt"
)

// CheckoutRequest HTTP下单请求
// 下单内容来自当前用户的购物车,请求体只需要收货地址
type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required,max=255" example:"北京市海淀区中关村1号"`
}

// OrderStatusCode 订单状态参数
// 同时接受数字枚举(1-4)和状态名("Pending"/"Shipped"/"Delivered"/"Cancelled"),
// 响应里的status始终是状态名,这样客户端可以把响应值原样回传
type OrderStatusCode int

// UnmarshalJSON 解析数字或状态名两种形式
func (s *OrderStatusCode) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*s = OrderStatusCode(n)
		return nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("status应为数字或状态名: %s", data)
	}
	switch name {
	case "Pending":
		*s = 1
	case "Shipped":
		*s = 2
	case "Delivered":
		*s = 3
	case "Cancelled":
		*s = 4
	default:
		return fmt.Errorf("未知的订单状态: %s", name)
	}
	return nil
}

// UpdateOrderStatusRequest HTTP订单状态流转请求
type UpdateOrderStatusRequest struct {
	Status OrderStatusCode `json:"status" binding:"required,min=1,max=4" example:"2"` // 1待发货 2已发货 3已送达 4已取消
}

// ListOrdersRequest HTTP订单列表查询参数
type ListOrdersRequest struct {
	Page     int    `form:"page,default=1" binding:"min=0"`
	PageSize int    `form:"page_size,default=10" binding:"min=0,max=100"`
	Username string `form:"username" binding:"max=32"` // 仅管理员接口生效
}

// SetCartRequest HTTP购物车整体替换请求
type SetCartRequest struct {
	Items []SetCartItem `json:"items" binding:"dive"`
}

// SetCartItem 购物车行
type SetCartItem struct {
	BookID   uint `json:"book_id" binding:"required" example:"1"`
	Quantity int  `json:"quantity" binding:"required,min=1,max=999" example:"2"`
}
