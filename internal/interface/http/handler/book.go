package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/is216/bookweb/internal/application/book"
	"github.com/is216/bookweb/internal/domain/book"
	"github.com/is216/bookweb/internal/interface/http/dto"
	apperrors "github.com/is216/bookweb/pkg/errors"
	"github.com/is216/bookweb/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	bookUseCase *appbook.UseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(bookUseCase *appbook.UseCase) *BookHandler {
	return &BookHandler{bookUseCase: bookUseCase}
}

// PublishBook 上架图书
// @Summary      上架图书
// @Description  创建新图书(管理员)
// @Tags         图书模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PublishBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=appbook.BookResponse} "上架成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      403 {object} response.Response "无权限"
// @Router       /api/v1/books [post]
func (h *BookHandler) PublishBook(c *gin.Context) {
	var req dto.PublishBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.bookUseCase.PublishBook(c.Request.Context(), appbook.PublishBookRequest{
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		Publisher:   req.Publisher,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		Stock:       req.Stock,
		CoverURL:    req.CoverURL,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateBook 更新图书
// @Summary      更新图书
// @Description  修改图书信息(管理员);price为0表示不调价,stock为-1表示不修改库存
// @Tags         图书模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=appbook.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "图书ID不合法")
		return
	}

	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.bookUseCase.UpdateBook(c.Request.Context(), id, appbook.UpdateBookRequest{
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		Publisher:   req.Publisher,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		Stock:       req.Stock,
		CoverURL:    req.CoverURL,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Description  下架并删除图书(管理员)
// @Tags         图书模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response "删除成功"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "图书ID不合法")
		return
	}

	if err := h.bookUseCase.DeleteBook(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetBook 查询图书详情
// @Summary      图书详情
// @Tags         图书模块
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "图书ID不合法")
		return
	}

	result, err := h.bookUseCase.GetBook(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListBooks 查询图书列表
// @Summary      图书列表
// @Description  分页查询,支持关键词搜索、分类过滤和排序
// @Tags         图书模块
// @Produce      json
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(10)
// @Param        keyword query string false "搜索关键词(标题/作者/出版社)"
// @Param        genre query string false "分类过滤"
// @Param        sort_by query string false "排序" Enums(price_asc, price_desc, sold_qty_desc, created_at_desc)
// @Success      200 {object} response.Response{data=appbook.BookListResponse}
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.bookUseCase.ListBooks(c.Request.Context(), book.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		Genre:    req.Genre,
		SortBy:   req.SortBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// parseIDParam 解析路径参数中的ID
func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
