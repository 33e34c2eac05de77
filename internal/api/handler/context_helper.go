package handler

import (
	"github.com/gin-gonic/gin"

	"classpulse/backend/internal/api/middleware"
	"classpulse/backend/pkg/jwt"
)

// ── 从 gin.Context 取认证身份的便捷方法 ──

func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserID)
}

func currentRole(c *gin.Context) string {
	return c.GetString(middleware.CtxUserRole)
}

func currentSectionID(c *gin.Context) string {
	return c.GetString(middleware.CtxSectionID)
}

func currentClaims(c *gin.Context) *jwt.Claims {
	v, ok := c.Get(middleware.CtxClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*jwt.Claims)
	return claims
}
