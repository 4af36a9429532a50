package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"account-service/internal/domain"
	"account-service/internal/service"
	"account-service/internal/transport/http/ez"
)

// AuthJWT 解析 Bearer token 并加载当前 active 账户；roles 非空时要求至少具备其一
func AuthJWT(ids service.IdentityResolver, l *zap.Logger, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(ah, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			ez.Fail(c, l, domain.ErrInvalidCredentials)
			return
		}
		actor, err := ids.CurrentAccount(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			ez.Fail(c, l, err)
			return
		}
		if len(roles) > 0 && !actor.Roles.HasAny(roles...) {
			ez.Fail(c, l, domain.ErrForbidden)
			return
		}
		ez.SetActor(c, actor)
		c.Next()
	}
}
