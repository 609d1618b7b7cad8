package genre

import (
	"context"
)

// Service 分类领域服务接口
type Service interface {
	// CreateGenre 创建分类
	// 业务规则:名称不能为空,不能重复
	CreateGenre(ctx context.Context, name string) (*Genre, error)

	// ListGenres 查询全部分类
	ListGenres(ctx context.Context) ([]*Genre, error)

	// RenameGenre 分类改名
	RenameGenre(ctx context.Context, id uint, name string) (*Genre, error)

	// DeleteGenre 删除分类
	DeleteGenre(ctx context.Context, id uint) error

	// ExistsByName 检查分类是否存在(发布图书时校验分类名)
	ExistsByName(ctx context.Context, name string) (bool, error)
}

type service struct {
	repo Repository
}

// NewService 创建分类领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateGenre 创建分类
func (s *service) CreateGenre(ctx context.Context, name string) (*Genre, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	genre := NewGenre(name)
	// 重复名称由数据库UNIQUE索引拦截,仓储层转换为ErrGenreDuplicate
	if err := s.repo.Create(ctx, genre); err != nil {
		return nil, err
	}
	return genre, nil
}

// ListGenres 查询全部分类
func (s *service) ListGenres(ctx context.Context) ([]*Genre, error) {
	return s.repo.List(ctx)
}

// RenameGenre 分类改名
func (s *service) RenameGenre(ctx context.Context, id uint, name string) (*Genre, error) {
	genre, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := genre.Rename(name); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, genre); err != nil {
		return nil, err
	}
	return genre, nil
}

// DeleteGenre 删除分类
func (s *service) DeleteGenre(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ExistsByName 检查分类是否存在
func (s *service) ExistsByName(ctx context.Context, name string) (bool, error) {
	_, err := s.repo.FindByName(ctx, name)
	if err == nil {
		return true, nil
	}
	if err == ErrGenreNotFound {
		return false, nil
	}
	return false, err
}
