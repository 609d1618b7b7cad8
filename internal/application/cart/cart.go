// Package cart 购物车用例
package cart

import (
	"context"
	"fmt"

	"github.com/is216/bookweb/internal/domain/book"
	"github.com/is216/bookweb/internal/domain/user"
)

// UseCase 购物车用例
// 设计说明:
// 1. 购物车整体读整体写:前端提交完整购物车,后端全量替换
// 2. 写入前对所有行做库存校验,任何一行不足则整体拒绝
// 3. 写入时从图书当前数据刷新展示快照(标题、封面、单价),
//    快照仅用于展示,下单时的成交价以当时的图书数据为准
type UseCase struct {
	cartRepo user.CartRepository
	bookRepo book.Repository
}

// NewUseCase 创建购物车用例
func NewUseCase(cartRepo user.CartRepository, bookRepo book.Repository) *UseCase {
	return &UseCase{
		cartRepo: cartRepo,
		bookRepo: bookRepo,
	}
}

// SetCartItem 购物车行(客户端提交)
type SetCartItem struct {
	BookID   uint
	Quantity int
}

// CartItemDTO 购物车行(返回给客户端)
type CartItemDTO struct {
	BookID       uint   `json:"book_id"`
	Quantity     int    `json:"quantity"`
	Title        string `json:"title"`
	CoverURL     string `json:"cover_url"`
	Price        int64  `json:"price"`
	PriceYuan    string `json:"price_yuan"`
	Subtotal     int64  `json:"subtotal"`
	SubtotalYuan string `json:"subtotal_yuan"`
}

// CartResponse 购物车响应
type CartResponse struct {
	Items     []CartItemDTO `json:"items"`
	Total     int64         `json:"total"`
	TotalYuan string        `json:"total_yuan"`
}

// SetCart 整体替换购物车
//
// 执行流程:
// 1. 校验每行数量合法
// 2. 批量查询图书,不存在的图书整体拒绝
// 3. 按当前库存校验每行,任何一行不足则整体拒绝(报告不足的图书ID)
// 4. 刷新展示快照后全量替换
func (uc *UseCase) SetCart(ctx context.Context, username string, items []SetCartItem) (*CartResponse, error) {
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, book.ErrInvalidQuantity
		}
	}

	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.BookID)
	}
	books, err := uc.bookRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	bookMap := make(map[uint]*book.Book, len(books))
	for _, b := range books {
		bookMap[b.ID] = b
	}

	cartItems := make([]user.CartItem, 0, len(items))
	for i, item := range items {
		b, ok := bookMap[item.BookID]
		if !ok {
			return nil, book.ErrBookNotFound
		}
		// 库存校验只在写入时做一次,真正的防超卖由下单时的条件扣减保证
		if !b.HasStock(item.Quantity) {
			return nil, book.NewInsufficientStock(b.ID)
		}
		cartItems = append(cartItems, user.CartItem{
			Position: i,
			BookID:   b.ID,
			Quantity: item.Quantity,
			Title:    b.Title,
			CoverURL: b.CoverURL,
			Price:    b.UnitPrice(),
		})
	}

	if err := uc.cartRepo.ReplaceCart(ctx, username, cartItems); err != nil {
		return nil, err
	}
	return toCartResponse(cartItems), nil
}

// GetCart 查询购物车(按加入顺序返回)
func (uc *UseCase) GetCart(ctx context.Context, username string) (*CartResponse, error) {
	items, err := uc.cartRepo.GetCart(ctx, username)
	if err != nil {
		return nil, err
	}
	return toCartResponse(items), nil
}

// toCartResponse 组装购物车响应,合计仅基于展示快照
func toCartResponse(items []user.CartItem) *CartResponse {
	dtos := make([]CartItemDTO, 0, len(items))
	var total int64
	for _, item := range items {
		subtotal := item.Price * int64(item.Quantity)
		total += subtotal
		dtos = append(dtos, CartItemDTO{
			BookID:       item.BookID,
			Quantity:     item.Quantity,
			Title:        item.Title,
			CoverURL:     item.CoverURL,
			Price:        item.Price,
			PriceYuan:    formatPrice(item.Price),
			Subtotal:     subtotal,
			SubtotalYuan: formatPrice(subtotal),
		})
	}
	return &CartResponse{
		Items:     dtos,
		Total:     total,
		TotalYuan: formatPrice(total),
	}
}

// formatPrice 格式化价格(分→元)
func formatPrice(priceFen int64) string {
	return fmt.Sprintf("%.2f", float64(priceFen)/100.0)
}
