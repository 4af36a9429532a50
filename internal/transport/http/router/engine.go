package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"account-service/internal/core/config"
	"account-service/internal/core/server"
	mdw "account-service/internal/transport/http/middleware"
)

const maxBody = 1 << 20

// Deps 构建 engine 所需的依赖
type Deps struct {
	Log      *zap.Logger
	Env      string
	HTTP     config.HTTP
	Registry *Registry
	// 为空时使用 prometheus 默认注册表
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

func (d *Deps) defaults() {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Registry == nil {
		d.Registry = &Registry{}
	}
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
}

// newEngine 公共中间件 + /health + /metrics
func newEngine(name string, d Deps) *gin.Engine {
	r := server.NewRouter(d.Log, server.Options{
		Name:        name,
		Mode:        server.ModeFor(d.Env),
		CorsOrigins: d.HTTP.CorsOrigins,
	},
		mdw.RequestID(),
		mdw.Recovery(d.Log),
		mdw.Metrics(d.Registerer),
		mdw.AccessLog(d.Log),
		mdw.ConcurrencyLimit(d.HTTP.MaxConcurrent),
		mdw.MaxBodyBytes(maxBody),
		mdw.Timeout(time.Duration(d.HTTP.RequestTimeoutSec)*time.Second),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	return r
}
