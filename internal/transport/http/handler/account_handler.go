package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"account-service/internal/domain"
	"account-service/internal/feature/account"
	"account-service/internal/service"
	"account-service/internal/transport/http/ez"
	mdw "account-service/internal/transport/http/middleware"
)

// AccountHandler /api/v1 下的账户接口
type AccountHandler struct {
	accounts *service.AccountService
	auth     *service.AuthService
	log      *zap.Logger
}

func NewAccountHandler(accounts *service.AccountService, auth *service.AuthService, l *zap.Logger) *AccountHandler {
	if l == nil {
		l = zap.NewNop()
	}
	return &AccountHandler{accounts: accounts, auth: auth, log: l}
}

func (h *AccountHandler) Priority() int { return 10 }

type byEmailQ struct {
	Email string `form:"email"`
}

func (h *AccountHandler) MountAPI(api *gin.RouterGroup) {
	public := ez.New(api, h.log)

	// --- 公共 ---
	ez.RegisterAction(public, ez.Action[account.RegisterRequest, account.PublicAccount]{
		Method:  http.MethodPost,
		Path:    "/users",
		Binder:  ez.BindJSON,
		Handler: h.register,
	})
	ez.RegisterAction(public, ez.Action[account.LoginRequest, account.TokenResponse]{
		Method:  http.MethodPost,
		Path:    "/login/token",
		Binder:  ez.BindAuto,
		Handler: h.login,
	})

	// --- 需要登录 ---
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(h.auth, h.log))
	priv := ez.New(authed, h.log)

	ez.RegisterAction(priv, ez.Action[struct{}, account.AccountRow]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (account.AccountRow, error) {
			return account.ToRow(ez.Actor(c)), nil
		},
	})
	// 静态段 by-email 优先于 :id 匹配
	ez.RegisterAction(priv, ez.Action[byEmailQ, account.PublicAccount]{
		Method: http.MethodGet,
		Path:   "/users/by-email",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *byEmailQ) (account.PublicAccount, error) {
			a, err := h.accounts.GetByEmail(c.Request.Context(), in.Email)
			if err != nil {
				return account.PublicAccount{}, err
			}
			return account.ToPublic(a), nil
		},
	})
	ez.RegisterAction(priv, ez.Action[struct{}, account.PublicAccount]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (account.PublicAccount, error) {
			id, err := pathID(c)
			if err != nil {
				return account.PublicAccount{}, err
			}
			a, err := h.accounts.Get(c.Request.Context(), id)
			if err != nil {
				return account.PublicAccount{}, err
			}
			return account.ToPublic(a), nil
		},
	})
	ez.RegisterAction(priv, ez.Action[account.UpdateRequest, account.UpdatedResponse]{
		Method: http.MethodPatch,
		Path:   "/users/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *account.UpdateRequest) (account.UpdatedResponse, error) {
			id, err := pathID(c)
			if err != nil {
				return account.UpdatedResponse{}, err
			}
			updated, err := h.accounts.Update(c.Request.Context(), ez.Actor(c), id, *in)
			return account.UpdatedResponse{UpdatedUserID: updated}, err
		},
	})
	ez.RegisterAction(priv, ez.Action[struct{}, account.DeletedResponse]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (account.DeletedResponse, error) {
			id, err := pathID(c)
			if err != nil {
				return account.DeletedResponse{}, err
			}
			deleted, err := h.accounts.Delete(c.Request.Context(), ez.Actor(c), id)
			return account.DeletedResponse{DeletedUserID: deleted}, err
		},
	})
	ez.RegisterAction(priv, ez.Action[struct{}, account.UpdatedResponse]{
		Method:  http.MethodPatch,
		Path:    "/users/:id/admin-privilege",
		Binder:  ez.BindNone,
		Auth:    true,
		Handler: h.privilege(h.accounts.GrantAdmin),
	})
	ez.RegisterAction(priv, ez.Action[struct{}, account.UpdatedResponse]{
		Method:  http.MethodDelete,
		Path:    "/users/:id/admin-privilege",
		Binder:  ez.BindNone,
		Auth:    true,
		Handler: h.privilege(h.accounts.RevokeAdmin),
	})
}

func (h *AccountHandler) register(c *gin.Context, in *account.RegisterRequest) (account.PublicAccount, error) {
	a, err := h.accounts.Register(c.Request.Context(), *in)
	if err != nil {
		return account.PublicAccount{}, err
	}
	return account.ToPublic(a), nil
}

func (h *AccountHandler) login(c *gin.Context, in *account.LoginRequest) (account.TokenResponse, error) {
	tok, err := h.auth.Login(c.Request.Context(), in.Email, in.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return account.TokenResponse{}, ez.Unauthorized("invalid email or password")
	}
	if err != nil {
		return account.TokenResponse{}, err
	}
	return account.TokenResponse{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		ExpiresAt:   tok.ExpiresAt.Unix(),
	}, nil
}

type roleChange func(ctx context.Context, actor *domain.Account, id string) (string, error)

func (h *AccountHandler) privilege(change roleChange) func(*gin.Context, *struct{}) (account.UpdatedResponse, error) {
	return func(c *gin.Context, _ *struct{}) (account.UpdatedResponse, error) {
		id, err := pathID(c)
		if err != nil {
			return account.UpdatedResponse{}, err
		}
		updated, err := change(c.Request.Context(), ez.Actor(c), id)
		return account.UpdatedResponse{UpdatedUserID: updated}, err
	}
}

func pathID(c *gin.Context) (string, error) {
	id := c.Param("id")
	if err := account.ValidateID(id); err != nil {
		return "", err
	}
	return id, nil
}
