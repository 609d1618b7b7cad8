package order

import (
	"context"
	"fmt"

	"github.com/is216/bookweb/internal/domain/order"
)

// QueryUseCase 订单查询用例
type QueryUseCase struct {
	orderRepo order.Repository
}

// NewQueryUseCase 创建订单查询用例
func NewQueryUseCase(orderRepo order.Repository) *QueryUseCase {
	return &QueryUseCase{orderRepo: orderRepo}
}

// OrderItemDTO 订单明细(返回给客户端)
type OrderItemDTO struct {
	BookID       uint   `json:"book_id"`
	Quantity     int    `json:"quantity"`
	Price        int64  `json:"price"`
	PriceYuan    string `json:"price_yuan"`
	Subtotal     int64  `json:"subtotal"`
	SubtotalYuan string `json:"subtotal_yuan"`
}

// OrderResponse 订单响应DTO
type OrderResponse struct {
	ID              uint           `json:"id"`
	OrderNo         string         `json:"order_no"`
	Username        string         `json:"username"`
	ShippingAddress string         `json:"shipping_address"`
	Total           int64          `json:"total"`
	TotalYuan       string         `json:"total_yuan"`
	Status          string         `json:"status"`
	Items           []OrderItemDTO `json:"items"`
	CreatedAt       string         `json:"created_at"`
}

// OrderListResponse 订单列表响应DTO
type OrderListResponse struct {
	Orders   []OrderResponse `json:"orders"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// GetOrder 查询单个订单
// 普通用户只能查看自己的订单,他人订单按不存在处理
func (uc *QueryUseCase) GetOrder(ctx context.Context, orderID uint, username string, isAdmin bool) (*OrderResponse, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !o.IsOwnedBy(username) {
		return nil, order.ErrOrderNotFound
	}
	return toOrderResponse(o), nil
}

// ListMyOrders 查询当前用户的订单(创建时间倒序)
func (uc *QueryUseCase) ListMyOrders(ctx context.Context, username string, page, pageSize int) (*OrderListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)
	orders, total, err := uc.orderRepo.ListByUsername(ctx, username, page, pageSize)
	if err != nil {
		return nil, err
	}
	return toOrderListResponse(orders, total, page, pageSize), nil
}

// ListAllOrders 管理员查询订单,username非空时按用户过滤
func (uc *QueryUseCase) ListAllOrders(ctx context.Context, username string, page, pageSize int) (*OrderListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)

	var (
		orders []*order.Order
		total  int64
		err    error
	)
	if username != "" {
		orders, total, err = uc.orderRepo.ListByUsername(ctx, username, page, pageSize)
	} else {
		orders, total, err = uc.orderRepo.ListAll(ctx, page, pageSize)
	}
	if err != nil {
		return nil, err
	}
	return toOrderListResponse(orders, total, page, pageSize), nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}

// toOrderResponse 领域实体转响应DTO
func toOrderResponse(o *order.Order) *OrderResponse {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			BookID:       item.BookID,
			Quantity:     item.Quantity,
			Price:        item.Price,
			PriceYuan:    formatPrice(item.Price),
			Subtotal:     item.Subtotal(),
			SubtotalYuan: formatPrice(item.Subtotal()),
		})
	}
	return &OrderResponse{
		ID:              o.ID,
		OrderNo:         o.OrderNo,
		Username:        o.Username,
		ShippingAddress: o.ShippingAddress,
		Total:           o.Total,
		TotalYuan:       formatPrice(o.Total),
		Status:          o.Status.String(),
		Items:           items,
		CreatedAt:       o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func toOrderListResponse(orders []*order.Order, total int64, page, pageSize int) *OrderListResponse {
	dtos := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, *toOrderResponse(o))
	}
	return &OrderListResponse{
		Orders:   dtos,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
}

// formatPrice 格式化价格(分→元)
func formatPrice(priceFen int64) string {
	return fmt.Sprintf("%.2f", float64(priceFen)/100.0)
}
