package middleware

import (
	"VibeHub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// CheckAdmin 管理端接口的准入检查，依赖 AuthMiddleware 先行注入身份
func CheckAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("is_admin") {
			response.Fail(c, response.Forbidden, "权限不足：无权访问该资源")
			c.Abort()
			return
		}

		c.Next()
	}
}
