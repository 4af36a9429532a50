package account

import "account-service/internal/domain"

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,letters,max=64"`
	Surname  string `json:"surname"  validate:"required,letters,max=64"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

// UpdateRequest 只有出现的字段会被更新
type UpdateRequest struct {
	Name    *string `json:"name"    validate:"omitnil,min=1,letters,max=64"`
	Surname *string `json:"surname" validate:"omitnil,min=1,letters,max=64"`
	Email   *string `json:"email"   validate:"omitnil,email,max=255"`
}

func (r UpdateRequest) Patch() domain.Patch {
	return domain.Patch{Name: r.Name, Surname: r.Surname, Email: r.Email}
}

type LoginRequest struct {
	Email    string `json:"email"    form:"username"`
	Password string `json:"password" form:"password"`
}

// PublicAccount 对外视图，不含任何口令材料
type PublicAccount struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

func ToPublic(a *domain.Account) PublicAccount {
	return PublicAccount{ID: a.ID, Name: a.Name, Surname: a.Surname, Email: a.Email, IsActive: a.IsActive}
}

// AccountRow 管理端列表行
type AccountRow struct {
	PublicAccount
	Roles domain.RoleSet `json:"roles"`
}

func ToRow(a *domain.Account) AccountRow {
	roles := a.Roles
	if roles == nil {
		roles = domain.RoleSet{}
	}
	return AccountRow{PublicAccount: ToPublic(a), Roles: roles}
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}

type UpdatedResponse struct {
	UpdatedUserID string `json:"updated_user_id"`
}

type DeletedResponse struct {
	DeletedUserID string `json:"deleted_user_id"`
}
