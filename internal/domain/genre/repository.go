package genre

import (
	"context"
)

// Repository 分类仓储接口
// 设计说明:名称唯一性由数据库UNIQUE索引保证,
// 实现层捕获重复键错误并转换为ErrGenreDuplicate
type Repository interface {
	// Create 创建分类
	Create(ctx context.Context, genre *Genre) error

	// FindByID 根据ID查找分类
	FindByID(ctx context.Context, id uint) (*Genre, error)

	// FindByName 根据名称查找分类
	FindByName(ctx context.Context, name string) (*Genre, error)

	// List 查询全部分类(数量很小,不分页)
	List(ctx context.Context) ([]*Genre, error)

	// Update 更新分类
	Update(ctx context.Context, genre *Genre) error

	// Delete 删除分类
	Delete(ctx context.Context, id uint) error
}
