package book

import (
	"time"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. Book是图书聚合的根实体,包含图书的核心属性
// 2. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 3. SalePrice为促销价,0表示当前无促销
// 4. Stock只通过仓储层的条件更新扣减,实体不暴露直接减库存的方法
type Book struct {
	ID          uint
	Title       string // 书名
	Author      string // 作者
	Genre       string // 分类名(关联Genre.Name)
	Publisher   string // 出版社
	Price       int64  // 原价(单位:分,1元=100分)
	SalePrice   int64  // 促销价(分),0表示无促销
	Stock       int    // 库存数量
	SoldQty     int    // 累计销量
	CoverURL    string // 封面图片URL
	Description string // 图书描述
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBook 创建新图书(工厂方法)
func NewBook(title, author, genre, publisher string, price, salePrice int64, stock int, coverURL, description string) *Book {
	now := time.Now()
	return &Book{
		Title:       title,
		Author:      author,
		Genre:       genre,
		Publisher:   publisher,
		Price:       price,
		SalePrice:   salePrice,
		Stock:       stock,
		CoverURL:    coverURL,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// UnitPrice 当前成交单价
// 业务规则:有促销价时按促销价成交,否则按原价
// 下单时以此价格做快照,后续改价不影响历史订单
func (b *Book) UnitPrice() int64 {
	if b.SalePrice > 0 {
		return b.SalePrice
	}
	return b.Price
}

// HasStock 检查库存是否满足购买数量
// 注意:这只是一次读时判断,真正的防超卖由仓储层条件扣减保证
func (b *Book) HasStock(quantity int) bool {
	return quantity > 0 && b.Stock >= quantity
}

// UpdatePrice 更新价格(领域行为)
// 业务规则:原价必须>0,促销价>=0且不高于原价
func (b *Book) UpdatePrice(price, salePrice int64) error {
	if price <= 0 {
		return ErrInvalidPrice
	}
	if salePrice < 0 || salePrice > price {
		return ErrInvalidPrice
	}
	b.Price = price
	b.SalePrice = salePrice
	b.UpdatedAt = time.Now()
	return nil
}

// UpdateStock 设置库存(补货/盘点)
// 业务规则:库存不能为负数
func (b *Book) UpdateStock(newStock int) error {
	if newStock < 0 {
		return ErrInvalidStock
	}
	b.Stock = newStock
	b.UpdatedAt = time.Now()
	return nil
}

// UpdateInfo 更新图书基本信息
func (b *Book) UpdateInfo(title, author, genre, publisher, coverURL, description string) {
	if title != "" {
		b.Title = title
	}
	if author != "" {
		b.Author = author
	}
	if genre != "" {
		b.Genre = genre
	}
	if publisher != "" {
		b.Publisher = publisher
	}
	if coverURL != "" {
		b.CoverURL = coverURL
	}
	if description != "" {
		b.Description = description
	}
	b.UpdatedAt = time.Now()
}
