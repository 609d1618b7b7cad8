package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
// 3. 库存扣减使用条件更新而非悲观锁:
//    UPDATE books SET stock = stock - ?, sold_qty = sold_qty + ?
//    WHERE id = ? AND stock >= ?
//    影响行数为0时表示库存不足(或并发竞争失败)
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByIDs 批量查找图书(校验购物车/下单行时使用)
	// 不存在的ID不报错,调用方对比返回结果判断缺失
	FindByIDs(ctx context.Context, ids []uint) ([]*Book, error)

	// Update 更新图书信息
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书(软删除)
	Delete(ctx context.Context, id uint) error

	// List 分页查询图书列表
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// DecrementStockForSale 条件扣减库存并累加销量(原子操作)
	// 库存不足时返回库存不足错误,不修改任何行
	DecrementStockForSale(ctx context.Context, id uint, quantity int) error

	// RestoreStockForSale 恢复库存并回退销量(扣减的逆操作)
	// 用于下单中途失败时的补偿回滚
	RestoreStockForSale(ctx context.Context, id uint, quantity int) error
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 搜索关键词(搜索标题、作者、出版社)
	Genre    string // 分类过滤(空表示不过滤)
	SortBy   string // 排序字段(price_asc, price_desc, sold_qty_desc, created_at_desc)
}
