package ez

import (
	"github.com/gin-gonic/gin"

	"account-service/internal/domain"
)

const (
	KeyActor     = "actor"
	KeyRequestID = "X-Request-ID"
)

func SetActor(c *gin.Context, a *domain.Account) { c.Set(KeyActor, a) }

// Actor 当前请求已鉴权的账户；未鉴权为 nil
func Actor(c *gin.Context) *domain.Account {
	v, ok := c.Get(KeyActor)
	if !ok {
		return nil
	}
	a, _ := v.(*domain.Account)
	return a
}

func RequestID(c *gin.Context) string { return c.GetString(KeyRequestID) }
