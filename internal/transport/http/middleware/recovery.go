package middleware

import (
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"account-service/internal/transport/http/ez"
	resp "account-service/internal/transport/http/response"
)

// Recovery panic 记 zap（带堆栈），响应仍是统一信封
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, _ any) {
		ez.Abort(c, resp.CodeServerError, "internal error")
	})
}
