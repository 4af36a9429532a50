package ez

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"account-service/internal/domain"
	resp "account-service/internal/transport/http/response"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定；空 body 视为零值
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindAuto  Binder = "auto"  // 按 Content-Type：JSON 或表单
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string        // GET | POST | PUT | PATCH | DELETE
	Path    string        // 例："/users/:id/admin-privilege"
	Binder  Binder        // 绑定方式
	Auth    bool          // 是否要求已解析出当前账户
	Roles   []domain.Role // 任一即可（可选）
	Handler func(c *gin.Context, in *I) (O, error)
}

func bind[I any](c *gin.Context, b Binder, in *I) error {
	var err error
	switch b {
	case BindJSON:
		err = c.ShouldBindJSON(in)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	case BindQuery:
		err = c.ShouldBindQuery(in)
	case BindAuto:
		err = c.ShouldBind(in)
	default: // BindNone
	}
	return err
}

// RegisterAction 在当前分组下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		if a.Auth {
			actor := Actor(c)
			if actor == nil {
				Fail(c, e.log, domain.ErrInvalidCredentials)
				return
			}
			if len(a.Roles) > 0 && !actor.Roles.HasAny(a.Roles...) {
				Fail(c, e.log, domain.ErrForbidden)
				return
			}
		}

		// 2) 绑定入参
		var in I
		if err := bind(c, a.Binder, &in); err != nil {
			Fail(c, e.log, BadRequest("invalid request: "+err.Error()))
			return
		}

		// 3) 执行 + 统一错误映射
		out, err := a.Handler(c, &in)
		if err != nil {
			Fail(c, e.log, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}
