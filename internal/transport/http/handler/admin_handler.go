package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"account-service/internal/domain"
	"account-service/internal/feature/account"
	"account-service/internal/service"
	"account-service/internal/transport/http/ez"
)

// AdminHandler /admin/v1 管理端
type AdminHandler struct {
	accounts *service.AccountService
	log      *zap.Logger
}

func NewAdminHandler(accounts *service.AccountService, l *zap.Logger) *AdminHandler {
	if l == nil {
		l = zap.NewNop()
	}
	return &AdminHandler{accounts: accounts, log: l}
}

type listQ struct {
	Offset       int    `form:"offset,default=0"`
	Limit        int    `form:"limit,default=20"`
	Q            string `form:"q"`             // 按 email/name/surname 模糊搜
	WithInactive bool   `form:"with_inactive"` // 是否包含已软删
}

type listOut struct {
	Total int64                `json:"total"`
	Items []account.AccountRow `json:"items"`
}

func (h *AdminHandler) MountAdmin(admin *gin.RouterGroup) {
	e := ez.New(admin, h.log)

	ez.RegisterAction(e, ez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Auth:   true,
		Roles:  []domain.Role{domain.RoleAdmin, domain.RoleSuperadmin},
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			if in.Offset < 0 {
				in.Offset = 0
			}
			items, total, err := h.accounts.List(c.Request.Context(), ez.Actor(c), domain.ListFilter{
				Offset:       in.Offset,
				Limit:        in.Limit,
				Query:        strings.TrimSpace(in.Q),
				WithInactive: in.WithInactive,
			})
			if err != nil {
				return listOut{}, err
			}
			out := listOut{Total: total, Items: make([]account.AccountRow, 0, len(items))}
			for i := range items {
				out.Items = append(out.Items, account.ToRow(&items[i]))
			}
			return out, nil
		},
	})
}
