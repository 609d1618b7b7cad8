package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/is216/bookweb/internal/domain/user"
)

// cartRepository 购物车仓储的MySQL实现
//
// 设计说明:
// 1. 购物车整体读整体写,ReplaceCart在事务内删旧写新
// 2. Position列记录行序号,GetCart按其升序返回,保证展示顺序稳定
// 3. ClearCart可在下单事务中调用(通过context传入的事务句柄)
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) user.CartRepository {
	return &cartRepository{db: db}
}

// GetCart 按行序号升序返回用户购物车
func (r *cartRepository) GetCart(ctx context.Context, username string) ([]user.CartItem, error) {
	var models []CartItemModel
	err := getDB(ctx, r.db).
		Where("username = ?", username).
		Order("position ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	items := make([]user.CartItem, 0, len(models))
	for _, m := range models {
		items = append(items, user.CartItem{
			Position: m.Position,
			BookID:   m.BookID,
			Quantity: m.Quantity,
			Title:    m.Title,
			CoverURL: m.CoverURL,
			Price:    m.Price,
		})
	}
	return items, nil
}

// ReplaceCart 整体替换用户购物车
func (r *cartRepository) ReplaceCart(ctx context.Context, username string, items []user.CartItem) error {
	return getDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("username = ?", username).Delete(&CartItemModel{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}

		models := make([]CartItemModel, 0, len(items))
		for i, item := range items {
			models = append(models, CartItemModel{
				Username: username,
				Position: i,
				BookID:   item.BookID,
				Quantity: item.Quantity,
				Title:    item.Title,
				CoverURL: item.CoverURL,
				Price:    item.Price,
			})
		}
		return tx.Create(&models).Error
	})
}

// ClearCart 清空用户购物车
func (r *cartRepository) ClearCart(ctx context.Context, username string) error {
	return getDB(ctx, r.db).Where("username = ?", username).Delete(&CartItemModel{}).Error
}
