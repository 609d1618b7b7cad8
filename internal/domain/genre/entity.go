package genre

import (
	"time"
)

// Genre 图书分类实体
// 设计说明:
// 1. 分类是很小的聚合,只有唯一的名称
// 2. 图书通过分类名(而非ID)关联分类,改名不做级联(与参考系统一致)
type Genre struct {
	ID        uint
	Name      string // 分类名(唯一)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewGenre 创建新分类(工厂方法)
func NewGenre(name string) *Genre {
	now := time.Now()
	return &Genre{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Rename 分类改名(领域行为)
func (g *Genre) Rename(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	g.Name = name
	g.UpdatedAt = time.Now()
	return nil
}
