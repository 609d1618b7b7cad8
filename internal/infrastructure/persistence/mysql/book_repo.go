package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/is216/bookweb/internal/domain/book"
)

// bookRepository 图书仓储的MySQL实现
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return err
	}
	b.ID = model.ID
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, err
	}
	return toBookEntity(&model), nil
}

// FindByIDs 批量查找图书,不存在的ID不报错
func (r *bookRepository) FindByIDs(ctx context.Context, ids []uint) ([]*book.Book, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []BookModel
	if err := getDB(ctx, r.db).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	books := make([]*book.Book, 0, len(models))
	for i := range models {
		books = append(books, toBookEntity(&models[i]))
	}
	return books, nil
}

// Update 更新图书信息
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	return getDB(ctx, r.db).Save(model).Error
}

// Delete 删除图书
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	return getDB(ctx, r.db).Delete(&BookModel{}, id).Error
}

// List 分页查询图书列表
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	query := getDB(ctx, r.db).Model(&BookModel{})

	if params.Keyword != "" {
		keyword := "%" + params.Keyword + "%"
		query = query.Where("title LIKE ? OR author LIKE ? OR publisher LIKE ?", keyword, keyword, keyword)
	}
	if params.Genre != "" {
		query = query.Where("genre = ?", params.Genre)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch params.SortBy {
	case "price_asc":
		query = query.Order("price ASC")
	case "price_desc":
		query = query.Order("price DESC")
	case "sold_qty_desc":
		query = query.Order("sold_qty DESC")
	default:
		query = query.Order("created_at DESC")
	}

	offset := (params.Page - 1) * params.PageSize
	var models []BookModel
	if err := query.Offset(offset).Limit(params.PageSize).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	books := make([]*book.Book, 0, len(models))
	for i := range models {
		books = append(books, toBookEntity(&models[i]))
	}
	return books, total, nil
}

// DecrementStockForSale 条件扣减库存并累加销量
//
// 教学要点:用单条条件UPDATE代替"读-检查-写":
//
//	UPDATE books SET stock = stock - ?, sold_qty = sold_qty + ?
//	WHERE id = ? AND stock >= ?
//
// 数据库对行加锁保证原子性,并发下最多只有一个请求能扣走最后一件,
// 影响行数为0即表示库存不足(或图书不存在),库存永远不会为负
func (r *bookRepository) DecrementStockForSale(ctx context.Context, id uint, quantity int) error {
	if quantity <= 0 {
		return book.ErrInvalidQuantity
	}

	result := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Updates(map[string]interface{}{
			"stock":    gorm.Expr("stock - ?", quantity),
			"sold_qty": gorm.Expr("sold_qty + ?", quantity),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 区分"图书不存在"和"库存不足"
		var count int64
		if err := getDB(ctx, r.db).Model(&BookModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return book.ErrBookNotFound
		}
		return book.NewInsufficientStock(id)
	}
	return nil
}

// RestoreStockForSale 恢复库存并回退销量
func (r *bookRepository) RestoreStockForSale(ctx context.Context, id uint, quantity int) error {
	if quantity <= 0 {
		return book.ErrInvalidQuantity
	}

	result := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock":    gorm.Expr("stock + ?", quantity),
			"sold_qty": gorm.Expr("sold_qty - ?", quantity),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// toBookModel 领域实体转持久化模型
func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Genre:       b.Genre,
		Publisher:   b.Publisher,
		Price:       b.Price,
		SalePrice:   b.SalePrice,
		Stock:       b.Stock,
		SoldQty:     b.SoldQty,
		CoverURL:    b.CoverURL,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// toBookEntity 持久化模型转领域实体
func toBookEntity(m *BookModel) *book.Book {
	return &book.Book{
		ID:          m.ID,
		Title:       m.Title,
		Author:      m.Author,
		Genre:       m.Genre,
		Publisher:   m.Publisher,
		Price:       m.Price,
		SalePrice:   m.SalePrice,
		Stock:       m.Stock,
		SoldQty:     m.SoldQty,
		CoverURL:    m.CoverURL,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
