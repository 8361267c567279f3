package response

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody 统一错误响应结构
// 前端约定：出错时只看 HTTP 状态码和 error 字段里的文案
type ErrorBody struct {
	Error string `json:"error"`
}

// Error 错误响应
func Error(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, ErrorBody{Error: msg})
}

// AbortError 错误响应并终止后续 handler (中间件里用)
func AbortError(c *gin.Context, httpStatus int, msg string) {
	c.AbortWithStatusJSON(httpStatus, ErrorBody{Error: msg})
}
