package ez

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"account-service/internal/domain"
	"account-service/internal/feature/account"
	resp "account-service/internal/transport/http/response"
)

// MsgBadToken token 缺失/无效/过期/主体已删除时统一使用
const MsgBadToken = "could not validate credentials"

// 统一错误对象：直接指定 code/msg
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// MapError 错误 → (code, msg, data)；未知错误 internal=true
func MapError(err error) (code int, msg string, data any, internal bool) {
	var ae *AErr
	if errors.As(err, &ae) {
		return ae.Code, ae.Error(), nil, ae.Code >= 500
	}
	var ve *account.ValidationError
	if errors.As(err, &ve) {
		return resp.CodeUnprocessableEntity, ve.Error(), gin.H{"errors": ve.Fields}, false
	}
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrEmptyUpdate):
		return resp.CodeUnprocessableEntity, err.Error(), nil, false
	case errors.Is(err, domain.ErrInvalidCredentials):
		return resp.CodeUnauthorized, MsgBadToken, nil, false
	case errors.Is(err, domain.ErrNotFound):
		return resp.CodeNotFound, err.Error(), nil, false
	case errors.Is(err, domain.ErrForbidden):
		return resp.CodeForbidden, err.Error(), nil, false
	case errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrAlreadyPrivileged),
		errors.Is(err, domain.ErrNotAdmin):
		return resp.CodeConflict, err.Error(), nil, false
	case errors.Is(err, domain.ErrSuperadminProtected):
		return resp.CodeNotAcceptable, err.Error(), nil, false
	case errors.Is(err, domain.ErrSelfPrivilegeChange):
		return resp.CodeBadRequest, err.Error(), nil, false
	case errors.Is(err, domain.ErrUnavailable):
		return resp.CodeUnavailable, domain.ErrUnavailable.Error(), nil, true
	}
	return resp.CodeServerError, "internal error", nil, true
}

// Fail 写错误响应并中断；HTTP 状态与 code 一致
func Fail(c *gin.Context, l *zap.Logger, err error) {
	code, msg, data, internal := MapError(err)
	if internal && l != nil {
		l.Error("request failed",
			zap.String("rid", RequestID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	if code == resp.CodeUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(resp.Status(code), resp.ErrorWithData(code, msg, data))
}

// Abort 中间件用：直接按 code 中断
func Abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(resp.Status(code), resp.Error(code, msg))
}
