// Package book 图书目录用例
package book

import (
	"context"
	"fmt"

	"github.com/is216/bookweb/internal/domain/book"
)

// UseCase 图书用例
// 设计说明:业务规则在领域服务,这里只做DTO转换和参数传递
type UseCase struct {
	bookService book.Service
}

// NewUseCase 创建图书用例
func NewUseCase(bookService book.Service) *UseCase {
	return &UseCase{bookService: bookService}
}

// PublishBookRequest 上架图书请求
type PublishBookRequest struct {
	Title       string
	Author      string
	Genre       string
	Publisher   string
	Price       int64
	SalePrice   int64
	Stock       int
	CoverURL    string
	Description string
}

// UpdateBookRequest 更新图书请求
// 约定:Price为0表示不调价,Stock为-1表示不修改库存,空字符串字段不修改
type UpdateBookRequest struct {
	Title       string
	Author      string
	Genre       string
	Publisher   string
	Price       int64
	SalePrice   int64
	Stock       int
	CoverURL    string
	Description string
}

// BookResponse 图书响应DTO
type BookResponse struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         string `json:"genre"`
	Publisher     string `json:"publisher"`
	Price         int64  `json:"price"`
	PriceYuan     string `json:"price_yuan"`
	SalePrice     int64  `json:"sale_price"`
	SalePriceYuan string `json:"sale_price_yuan,omitempty"`
	Stock         int    `json:"stock"`
	SoldQty       int    `json:"sold_qty"`
	CoverURL      string `json:"cover_url"`
	Description   string `json:"description"`
	CreatedAt     string `json:"created_at"`
}

// BookListResponse 图书列表响应DTO
type BookListResponse struct {
	Books    []BookResponse `json:"books"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// PublishBook 上架图书(管理员)
func (uc *UseCase) PublishBook(ctx context.Context, req PublishBookRequest) (*BookResponse, error) {
	b, err := uc.bookService.PublishBook(ctx, req.Title, req.Author, req.Genre, req.Publisher,
		req.Price, req.SalePrice, req.Stock, req.CoverURL, req.Description)
	if err != nil {
		return nil, err
	}
	return toBookResponse(b), nil
}

// UpdateBook 更新图书(管理员)
func (uc *UseCase) UpdateBook(ctx context.Context, id uint, req UpdateBookRequest) (*BookResponse, error) {
	b, err := uc.bookService.UpdateBook(ctx, id, req.Title, req.Author, req.Genre, req.Publisher,
		req.Price, req.SalePrice, req.Stock, req.CoverURL, req.Description)
	if err != nil {
		return nil, err
	}
	return toBookResponse(b), nil
}

// DeleteBook 删除图书(管理员)
func (uc *UseCase) DeleteBook(ctx context.Context, id uint) error {
	return uc.bookService.DeleteBook(ctx, id)
}

// GetBook 查询图书详情
func (uc *UseCase) GetBook(ctx context.Context, id uint) (*BookResponse, error) {
	b, err := uc.bookService.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBookResponse(b), nil
}

// ListBooks 分页查询图书
func (uc *UseCase) ListBooks(ctx context.Context, params book.ListParams) (*BookListResponse, error) {
	books, total, err := uc.bookService.ListBooks(ctx, params)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookResponse, 0, len(books))
	for _, b := range books {
		dtos = append(dtos, *toBookResponse(b))
	}
	return &BookListResponse{
		Books:    dtos,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
}

func toBookResponse(b *book.Book) *BookResponse {
	resp := &BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Genre:       b.Genre,
		Publisher:   b.Publisher,
		Price:       b.Price,
		PriceYuan:   formatPrice(b.Price),
		SalePrice:   b.SalePrice,
		Stock:       b.Stock,
		SoldQty:     b.SoldQty,
		CoverURL:    b.CoverURL,
		Description: b.Description,
		CreatedAt:   b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if b.SalePrice > 0 {
		resp.SalePriceYuan = formatPrice(b.SalePrice)
	}
	return resp
}

// formatPrice 格式化价格(分→元)
func formatPrice(priceFen int64) string {
	return fmt.Sprintf("%.2f", float64(priceFen)/100.0)
}
