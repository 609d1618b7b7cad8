package book

import (
	"context"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装跨实体的业务逻辑和业务规则校验
// 2. 不依赖具体的Repository实现(依赖倒置)
// 3. 管理员权限校验在接口层完成,领域服务只关心业务规则
type Service interface {
	// PublishBook 发布图书(上架)
	// 业务规则:
	// - 书名不能为空
	// - 原价必须在1-9999999分之间,促销价不高于原价
	// - 库存必须>=0
	PublishBook(ctx context.Context, title, author, genre, publisher string, price, salePrice int64, stock int, coverURL, description string) (*Book, error)

	// GetBookByID 根据ID获取图书详情
	GetBookByID(ctx context.Context, id uint) (*Book, error)

	// UpdateBook 更新图书信息(含价格和库存)
	UpdateBook(ctx context.Context, id uint, title, author, genre, publisher string, price, salePrice int64, stock int, coverURL, description string) (*Book, error)

	// DeleteBook 删除图书
	DeleteBook(ctx context.Context, id uint) error

	// ListBooks 分页查询图书列表
	// 公开接口,不需要权限校验
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// PublishBook 发布图书
func (s *service) PublishBook(ctx context.Context, title, author, genre, publisher string, price, salePrice int64, stock int, coverURL, description string) (*Book, error) {
	// 1. 基本信息校验
	if title == "" {
		return nil, ErrEmptyTitle
	}

	// 2. 价格范围校验(1分-99999.99元)
	if price < 1 || price > 9999999 {
		return nil, ErrInvalidPrice
	}
	if salePrice < 0 || salePrice > price {
		return nil, ErrInvalidPrice
	}

	// 3. 库存校验
	if stock < 0 {
		return nil, ErrInvalidStock
	}

	// 4. 创建图书实体并持久化
	book := NewBook(title, author, genre, publisher, price, salePrice, stock, coverURL, description)
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	return book, nil
}

// GetBookByID 根据ID获取图书
func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateBook 更新图书信息
func (s *service) UpdateBook(ctx context.Context, id uint, title, author, genre, publisher string, price, salePrice int64, stock int, coverURL, description string) (*Book, error) {
	// 1. 查询图书
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 2. 更新基本信息
	book.UpdateInfo(title, author, genre, publisher, coverURL, description)

	// 3. 更新价格(price>0表示要改价)
	if price > 0 {
		if err := book.UpdatePrice(price, salePrice); err != nil {
			return nil, err
		}
	}

	// 4. 更新库存(stock>=0表示要盘点,-1表示不修改)
	if stock >= 0 {
		if err := book.UpdateStock(stock); err != nil {
			return nil, err
		}
	}

	// 5. 持久化
	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// DeleteBook 删除图书
func (s *service) DeleteBook(ctx context.Context, id uint) error {
	// 先确认存在,保证删除不存在的图书返回404而非静默成功
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ListBooks 分页查询图书列表
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 10
	}
	return s.repo.List(ctx, params)
}
