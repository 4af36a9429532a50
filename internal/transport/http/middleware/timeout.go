package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"account-service/internal/transport/http/ez"
	resp "account-service/internal/transport/http/response"
)

// Timeout 给下游（DB/redis）一个截止时间；d<=0 不限制
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			ez.Abort(c, resp.CodeTimeout, "timeout")
		}
	}
}
