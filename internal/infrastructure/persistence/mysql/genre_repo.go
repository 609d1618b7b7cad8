package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/is216/bookweb/internal/domain/genre"
)

// genreRepository 分类仓储的MySQL实现
//
// 名称唯一性由genres.name上的UNIQUE索引保证,
// 捕获重复键错误并转换为领域错误ErrGenreDuplicate
type genreRepository struct {
	db *gorm.DB
}

// NewGenreRepository 创建分类仓储
func NewGenreRepository(db *gorm.DB) genre.Repository {
	return &genreRepository{db: db}
}

// Create 创建分类
func (r *genreRepository) Create(ctx context.Context, g *genre.Genre) error {
	model := toGenreModel(g)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return genre.ErrGenreDuplicate
		}
		return err
	}
	g.ID = model.ID
	return nil
}

// FindByID 根据ID查找分类
func (r *genreRepository) FindByID(ctx context.Context, id uint) (*genre.Genre, error) {
	var model GenreModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, genre.ErrGenreNotFound
		}
		return nil, err
	}
	return toGenreEntity(&model), nil
}

// FindByName 根据名称查找分类
func (r *genreRepository) FindByName(ctx context.Context, name string) (*genre.Genre, error) {
	var model GenreModel
	if err := getDB(ctx, r.db).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, genre.ErrGenreNotFound
		}
		return nil, err
	}
	return toGenreEntity(&model), nil
}

// List 查询全部分类
func (r *genreRepository) List(ctx context.Context) ([]*genre.Genre, error) {
	var models []GenreModel
	if err := getDB(ctx, r.db).Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	genres := make([]*genre.Genre, 0, len(models))
	for i := range models {
		genres = append(genres, toGenreEntity(&models[i]))
	}
	return genres, nil
}

// Update 更新分类
func (r *genreRepository) Update(ctx context.Context, g *genre.Genre) error {
	if err := getDB(ctx, r.db).Save(toGenreModel(g)).Error; err != nil {
		if isDuplicateError(err) {
			return genre.ErrGenreDuplicate
		}
		return err
	}
	return nil
}

// Delete 删除分类
func (r *genreRepository) Delete(ctx context.Context, id uint) error {
	return getDB(ctx, r.db).Delete(&GenreModel{}, id).Error
}

// toGenreModel 领域实体转持久化模型
func toGenreModel(g *genre.Genre) *GenreModel {
	return &GenreModel{
		ID:        g.ID,
		Name:      g.Name,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// toGenreEntity 持久化模型转领域实体
func toGenreEntity(m *GenreModel) *genre.Genre {
	return &genre.Genre{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
