package user

import (
	"context"
)

// Repository 用户仓储接口
// DDD设计说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/mysql层
// 3. 这样domain层不依赖任何外部框架（GORM、sqlx等）
// 4. 便于单元测试（Mock此接口）
type Repository interface {
	// Create 创建用户
	// 注意：如果用户名已存在，应返回ErrUsernameDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户
	// 如果不存在，返回ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByUsername 根据用户名查找用户
	// 如果不存在，返回ErrUserNotFound
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Update 更新用户信息
	Update(ctx context.Context, user *User) error

	// Delete 删除用户（软删除）
	Delete(ctx context.Context, id uint) error
}

// CartRepository 购物车仓储接口
// 设计说明：
// 1. 购物车整体读整体写，没有单行增删改接口
// 2. ReplaceCart在一个事务内删旧写新，保证替换的原子性
// 3. ClearCart在下单事务内调用（与订单持久化同一事务）
type CartRepository interface {
	// GetCart 按行序号升序返回用户购物车
	GetCart(ctx context.Context, username string) ([]CartItem, error)

	// ReplaceCart 整体替换用户购物车
	ReplaceCart(ctx context.Context, username string, items []CartItem) error

	// ClearCart 清空用户购物车
	ClearCart(ctx context.Context, username string) error
}
