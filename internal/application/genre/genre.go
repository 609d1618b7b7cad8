// Package genre 图书分类用例
package genre

import (
	"context"

	"github.com/is216/bookweb/internal/domain/genre"
)

// UseCase 分类用例
type UseCase struct {
	genreService genre.Service
}

// NewUseCase 创建分类用例
func NewUseCase(genreService genre.Service) *UseCase {
	return &UseCase{genreService: genreService}
}

// GenreResponse 分类响应DTO
type GenreResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// CreateGenre 创建分类(管理员)
func (uc *UseCase) CreateGenre(ctx context.Context, name string) (*GenreResponse, error) {
	g, err := uc.genreService.CreateGenre(ctx, name)
	if err != nil {
		return nil, err
	}
	return &GenreResponse{ID: g.ID, Name: g.Name}, nil
}

// ListGenres 查询全部分类
func (uc *UseCase) ListGenres(ctx context.Context) ([]GenreResponse, error) {
	genres, err := uc.genreService.ListGenres(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]GenreResponse, 0, len(genres))
	for _, g := range genres {
		dtos = append(dtos, GenreResponse{ID: g.ID, Name: g.Name})
	}
	return dtos, nil
}

// RenameGenre 重命名分类(管理员)
func (uc *UseCase) RenameGenre(ctx context.Context, id uint, name string) (*GenreResponse, error) {
	g, err := uc.genreService.RenameGenre(ctx, id, name)
	if err != nil {
		return nil, err
	}
	return &GenreResponse{ID: g.ID, Name: g.Name}, nil
}

// DeleteGenre 删除分类(管理员)
func (uc *UseCase) DeleteGenre(ctx context.Context, id uint) error {
	return uc.genreService.DeleteGenre(ctx, id)
}
