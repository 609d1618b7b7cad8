package handler

import (
	"github.com/gin-gonic/gin"

	appcart "github.com/is216/bookweb/internal/application/cart"
	"github.com/is216/bookweb/internal/interface/http/dto"
	"github.com/is216/bookweb/internal/interface/http/middleware"
	apperrors "github.com/is216/bookweb/pkg/errors"
	"github.com/is216/bookweb/pkg/response"
)

// CartHandler 购物车HTTP处理器
type CartHandler struct {
	cartUseCase *appcart.UseCase
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(cartUseCase *appcart.UseCase) *CartHandler {
	return &CartHandler{cartUseCase: cartUseCase}
}

// GetCart 查询购物车
// @Summary      查询购物车
// @Description  按加入顺序返回当前用户的购物车
// @Tags         购物车模块
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appcart.CartResponse}
// @Router       /api/v1/cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	result, err := h.cartUseCase.GetCart(c.Request.Context(), middleware.MustGetUsername(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SetCart 整体替换购物车
// @Summary      保存购物车
// @Description  全量替换当前用户的购物车;提交空items即清空。
// @Description  所有行按当前库存校验,任何一行不足则整体拒绝。
// @Tags         购物车模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.SetCartRequest true "购物车内容"
// @Success      200 {object} response.Response{data=appcart.CartResponse} "保存后的购物车(快照已刷新)"
// @Failure      400 {object} response.Response "库存不足或图书不存在"
// @Router       /api/v1/cart [put]
func (h *CartHandler) SetCart(c *gin.Context) {
	var req dto.SetCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	items := make([]appcart.SetCartItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, appcart.SetCartItem{
			BookID:   item.BookID,
			Quantity: item.Quantity,
		})
	}

	result, err := h.cartUseCase.SetCart(c.Request.Context(), middleware.MustGetUsername(c), items)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
