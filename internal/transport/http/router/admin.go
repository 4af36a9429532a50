package router

import (
	"github.com/gin-gonic/gin"

	"account-service/internal/domain"
	"account-service/internal/service"
	mdw "account-service/internal/transport/http/middleware"
)

// NewAdminEngine 管理端：/admin/v1 统一要求 ADMIN 或 SUPERADMIN
func NewAdminEngine(d Deps, ids service.IdentityResolver) *gin.Engine {
	d.defaults()
	r := newEngine("admin", d)

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(ids, d.Log, domain.RoleAdmin, domain.RoleSuperadmin))
	d.Registry.MountAdmin(admin)
	return r
}
