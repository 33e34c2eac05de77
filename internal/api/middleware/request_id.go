package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CtxRequestID 请求 ID 上下文键
const CtxRequestID = "request_id"

// RequestID 请求 ID 中间件
// 优先使用客户端传入的 X-Request-ID，否则生成新的
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(CtxRequestID, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}
