// Package response 统一HTTP响应封装
//
// 所有接口返回同一结构 {code, message, data}：
// 1. Code=0 表示成功，非0是业务错误码（见pkg/errors的错误码表）
// 2. HTTP状态码按错误码段映射（401xx→401、404xx→404、5xxxx→500），
//    便于网关和监控按状态码聚合；客户端仍以body中的code为准
// 3. Data失败时省略
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/is216/bookweb/pkg/errors"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// httpStatus 按错误码段映射HTTP状态码
func httpStatus(code int) int {
	switch {
	case code == 0:
		return http.StatusOK
	case code >= 40100 && code < 40200:
		return http.StatusUnauthorized
	case code == apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case code >= 40400 && code < 40500:
		return http.StatusNotFound
	case code >= 50000:
		return http.StatusInternalServerError
	default:
		// 业务错误与参数错误统一400
		return http.StatusBadRequest
	}
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
// 自动提取AppError的业务错误码;非AppError统一按内部错误处理,
// 原始错误只进日志不出响应。
// 用法：
//
//	result, err := checkoutUseCase.Execute(ctx, req)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	c.JSON(httpStatus(appErr.Code), Response{
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}

// ErrorWithCode 按指定错误码和消息返回
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(httpStatus(code), Response{
		Code:    code,
		Message: message,
	})
}

// PageData 分页数据封装
type PageData struct {
	List       interface{} `json:"list"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// NewPageData 创建分页数据
func NewPageData(list interface{}, total int64, page, pageSize int) *PageData {
	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	return &PageData{
		List:       list,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	Success(c, NewPageData(list, total, page, pageSize))
}
