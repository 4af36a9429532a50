package domain

import (
	"context"
	"time"
)

type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	Roles        RoleSet   `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewAccount 创建入参（密码已哈希）
type NewAccount struct {
	Name         string
	Surname      string
	Email        string
	PasswordHash string
	Roles        RoleSet // 为空时默认 {USER}
}

// Patch 局部更新；nil 字段不动
type Patch struct {
	Name    *string
	Surname *string
	Email   *string
	Roles   RoleSet
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Surname == nil && p.Email == nil && p.Roles == nil
}

type ListFilter struct {
	Offset       int
	Limit        int
	Query        string // email/name/surname 模糊匹配
	WithInactive bool
}

// AccountRepository 仅作用于 active 账户（List 的 WithInactive 除外）。
// 找不到时 Find* 返回 (nil, nil)，Update/SoftDelete 返回 ("", nil)。
type AccountRepository interface {
	Create(ctx context.Context, in NewAccount) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	Update(ctx context.Context, id string, p Patch) (string, error)
	SoftDelete(ctx context.Context, id string) (string, error)
	List(ctx context.Context, f ListFilter) ([]Account, int64, error)
}
