// Package mysql 提供基于 GORM 的 MySQL 持久化实现
//
// 设计说明:
// 1. 持久化模型(XxxModel)与领域实体(domain 包)分离,通过转换函数互转
// 2. 仓储实现领域层定义的 Repository 接口,领域层不感知 GORM
// 3. 事务通过 context 传递,仓储方法内部用 getDB(ctx) 取得当前事务句柄
package mysql

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/is216/bookweb/internal/infrastructure/config"
)

// NewDB 创建数据库连接并完成自动迁移
func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接失败: %w", err)
	}

	// 连接池配置
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&GenreModel{},
		&BookModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderItemModel{},
	)
}

// UserModel 用户持久化模型
type UserModel struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;size:32;not null"`
	Password  string `gorm:"size:100;not null"`
	FullName  string `gorm:"size:50"`
	Email     string `gorm:"size:100"`
	Phone     string `gorm:"size:20"`
	Address   string `gorm:"size:255"`
	IsAdmin   bool   `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// GenreModel 图书类别持久化模型
type GenreModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;size:50;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定表名
func (GenreModel) TableName() string {
	return "genres"
}

// BookModel 图书持久化模型
//
// Price/SalePrice 以"分"存储,避免浮点误差
type BookModel struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:200;not null;index"`
	Author      string `gorm:"size:100;index"`
	Genre       string `gorm:"size:50;index"`
	Publisher   string `gorm:"size:100"`
	Price       int64  `gorm:"not null"`
	SalePrice   int64  `gorm:"default:0"`
	Stock       int    `gorm:"not null;default:0"`
	SoldQty     int    `gorm:"not null;default:0"`
	CoverURL    string `gorm:"size:255"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// CartItemModel 购物车条目持久化模型
//
// Position 保存条目在购物车中的顺序,读取时按其升序返回
type CartItemModel struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"size:32;not null;index"`
	Position  int    `gorm:"not null"`
	BookID    uint   `gorm:"not null"`
	Quantity  int    `gorm:"not null"`
	Title     string `gorm:"size:200"`
	CoverURL  string `gorm:"size:255"`
	Price     int64  `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定表名
func (CartItemModel) TableName() string {
	return "cart_items"
}

// OrderModel 订单持久化模型
type OrderModel struct {
	ID               uint             `gorm:"primaryKey"`
	OrderNo          string           `gorm:"uniqueIndex;size:32;not null"`
	Username         string           `gorm:"size:32;not null;index"`
	ShippingAddress  string           `gorm:"size:255"`
	Total            int64            `gorm:"not null"`
	Status           int              `gorm:"not null;default:1"`
	InventoryDebited bool             `gorm:"not null;default:false"`
	Items            []OrderItemModel `gorm:"foreignKey:OrderID"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName 指定表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel 订单明细持久化模型
//
// Price 为下单时刻的成交单价快照,商品后续调价不影响历史订单
type OrderItemModel struct {
	ID        uint  `gorm:"primaryKey"`
	OrderID   uint  `gorm:"not null;index"`
	BookID    uint  `gorm:"not null"`
	Quantity  int   `gorm:"not null"`
	Price     int64 `gorm:"not null"`
	CreatedAt time.Time
}

// TableName 指定表名
func (OrderItemModel) TableName() string {
	return "order_items"
}
