package router

import "github.com/gin-gonic/gin"

// NewAPIEngine 用户端：/api/v1
func NewAPIEngine(d Deps) *gin.Engine {
	d.defaults()
	r := newEngine("api", d)

	api := r.Group("/api/v1")
	d.Registry.MountAPI(api)
	return r
}
