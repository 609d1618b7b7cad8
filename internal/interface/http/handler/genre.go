package handler

import (
	"github.com/gin-gonic/gin"

	appgenre "github.com/is216/bookweb/internal/application/genre"
	"github.com/is216/bookweb/internal/interface/http/dto"
	apperrors "github.com/is216/bookweb/pkg/errors"
	"github.com/is216/bookweb/pkg/response"
)

// GenreHandler 分类HTTP处理器
type GenreHandler struct {
	genreUseCase *appgenre.UseCase
}

// NewGenreHandler 创建分类处理器
func NewGenreHandler(genreUseCase *appgenre.UseCase) *GenreHandler {
	return &GenreHandler{genreUseCase: genreUseCase}
}

// ListGenres 查询全部分类
// @Summary      分类列表
// @Tags         分类模块
// @Produce      json
// @Success      200 {object} response.Response{data=[]appgenre.GenreResponse}
// @Router       /api/v1/genres [get]
func (h *GenreHandler) ListGenres(c *gin.Context) {
	result, err := h.genreUseCase.ListGenres(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateGenre 创建分类
// @Summary      创建分类(管理员)
// @Tags         分类模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.GenreRequest true "分类名"
// @Success      200 {object} response.Response{data=appgenre.GenreResponse}
// @Failure      409 {object} response.Response "分类名已存在"
// @Router       /api/v1/genres [post]
func (h *GenreHandler) CreateGenre(c *gin.Context) {
	var req dto.GenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.genreUseCase.CreateGenre(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// RenameGenre 重命名分类
// @Summary      重命名分类(管理员)
// @Tags         分类模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "分类ID"
// @Param        request body dto.GenreRequest true "新分类名"
// @Success      200 {object} response.Response{data=appgenre.GenreResponse}
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/v1/genres/{id} [put]
func (h *GenreHandler) RenameGenre(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "分类ID不合法")
		return
	}

	var req dto.GenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.genreUseCase.RenameGenre(c.Request.Context(), id, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteGenre 删除分类
// @Summary      删除分类(管理员)
// @Tags         分类模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response "删除成功"
// @Router       /api/v1/genres/{id} [delete]
func (h *GenreHandler) DeleteGenre(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "分类ID不合法")
		return
	}

	if err := h.genreUseCase.DeleteGenre(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
