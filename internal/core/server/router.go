package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	Name        string
	Mode        string   // gin 模式：debug | release | test
	CorsOrigins []string // 为空时允许全部来源
}

// NewRouter 基础 engine：模式 + 调用方中间件 + CORS
func NewRouter(l *zap.Logger, opt Options, mw ...gin.HandlerFunc) *gin.Engine {
	if opt.Mode != "" {
		gin.SetMode(opt.Mode)
	}
	r := gin.New()
	r.Use(mw...)

	cc := cors.DefaultConfig()
	cc.AllowHeaders = append(cc.AllowHeaders, "Authorization", "X-Request-ID")
	cc.ExposeHeaders = []string{"X-Request-ID"}
	if len(opt.CorsOrigins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = opt.CorsOrigins
	}
	r.Use(cors.New(cc))

	l.Debug("router ready", zap.String("name", opt.Name), zap.String("mode", gin.Mode()))
	return r
}

// ModeFor app.env → gin 模式
func ModeFor(env string) string {
	switch env {
	case "prod", "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func StartHTTP(srv *http.Server, l *zap.Logger) error {
	l.Info("http starting", zap.String("addr", srv.Addr))
	return srv.ListenAndServe()
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       rt,
		ReadHeaderTimeout: rt,
		WriteTimeout:      wt,
		IdleTimeout:       it,
		MaxHeaderBytes:    1 << 20, // 1MB
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }
