package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"account-service/internal/domain"
	"account-service/internal/feature/account"
	"account-service/pkg/utils"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// AccountRepo 账户存储；每个写操作独立事务，只作用于 is_active 行
type AccountRepo struct{ db *gorm.DB }

var _ domain.AccountRepository = (*AccountRepo)(nil)

func NewAccountRepo(db *gorm.DB) *AccountRepo { return &AccountRepo{db: db} }

func (r *AccountRepo) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&account.AccountModel{})
}

func (r *AccountRepo) Create(ctx context.Context, in domain.NewAccount) (*domain.Account, error) {
	roles := domain.NewRoleSet(domain.RoleUser).Union(in.Roles)
	m := account.AccountModel{
		ID:           utils.NewID(),
		Name:         in.Name,
		Surname:      in.Surname,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		IsActive:     true,
		Roles:        roles,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&m).Error
	})
	if err != nil {
		if isDupKey(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return m.ToDomain(), nil
}

func (r *AccountRepo) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *AccountRepo) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *AccountRepo) findOne(ctx context.Context, cond string, arg any) (*domain.Account, error) {
	var m account.AccountModel
	err := r.db.WithContext(ctx).
		Where(cond, arg).
		Where("is_active = ?", true).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	return m.ToDomain(), nil
}

// Update 只更新 patch 中非 nil 字段；无匹配的 active 行返回 ""
func (r *AccountRepo) Update(ctx context.Context, id string, p domain.Patch) (string, error) {
	if p.IsEmpty() {
		return "", domain.ErrEmptyUpdate
	}
	values := map[string]any{}
	if p.Name != nil {
		values["name"] = *p.Name
	}
	if p.Surname != nil {
		values["surname"] = *p.Surname
	}
	if p.Email != nil {
		values["email"] = *p.Email
	}
	if p.Roles != nil {
		values["roles"] = p.Roles
	}
	return r.updateActive(ctx, id, values)
}

func (r *AccountRepo) SoftDelete(ctx context.Context, id string) (string, error) {
	return r.updateActive(ctx, id, map[string]any{"is_active": false})
}

func (r *AccountRepo) updateActive(ctx context.Context, id string, values map[string]any) (string, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&account.AccountModel{}).
			Where("id = ? AND is_active = ?", id, true).
			Updates(values)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		if isDupKey(err) {
			return "", domain.ErrDuplicateEmail
		}
		return "", fmt.Errorf("update account: %w", err)
	}
	if affected == 0 {
		return "", nil
	}
	return id, nil
}

func (r *AccountRepo) List(ctx context.Context, f domain.ListFilter) ([]domain.Account, int64, error) {
	if f.Limit <= 0 || f.Limit > maxListLimit {
		f.Limit = defaultListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	q := r.db.WithContext(ctx).Model(&account.AccountModel{})
	if !f.WithInactive {
		q = q.Where("is_active = ?", true)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + s + "%"
		q = q.Where("email LIKE ? OR name LIKE ? OR surname LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}
	var ms []account.AccountModel
	if err := q.Order("created_at DESC").Order("id").Limit(f.Limit).Offset(f.Offset).Find(&ms).Error; err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}
	out := make([]domain.Account, 0, len(ms))
	for i := range ms {
		out = append(out, *ms[i].ToDomain())
	}
	return out, total, nil
}

func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 驱动未翻译时按错误信息兜底
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
