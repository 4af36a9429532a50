package repo

import (
	"context"
	"time"

	"go.uber.org/zap"

	"account-service/internal/core/cache"
	"account-service/internal/domain"
)

// CachedAccountRepo 给 FindByID 加 redis 缓存；写操作成功后删除 key，未找到不缓存。
// 缓存里不放密码摘要。FindByEmail（登录和身份解析）直接查库。
type CachedAccountRepo struct {
	next  domain.AccountRepository
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

var _ domain.AccountRepository = (*CachedAccountRepo)(nil)

func NewCachedAccountRepo(next domain.AccountRepository, c *cache.Cache, ttl time.Duration, l *zap.Logger) *CachedAccountRepo {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &CachedAccountRepo{next: next, cache: c, ttl: ttl, log: l}
}

type cachedAccount struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Surname   string         `json:"surname"`
	Email     string         `json:"email"`
	IsActive  bool           `json:"is_active"`
	Roles     domain.RoleSet `json:"roles"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func toCached(a *domain.Account) *cachedAccount {
	if a == nil {
		return nil
	}
	return &cachedAccount{
		ID: a.ID, Name: a.Name, Surname: a.Surname, Email: a.Email,
		IsActive: a.IsActive, Roles: a.Roles,
		CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt,
	}
}

func (c *cachedAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID: c.ID, Name: c.Name, Surname: c.Surname, Email: c.Email,
		IsActive: c.IsActive, Roles: c.Roles,
		CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}

func idKey(id string) string { return "account:id:" + id }

func (r *CachedAccountRepo) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	ca, err := cache.GetOrLoadJSON(r.cache, ctx, idKey(id), r.ttl, func(ctx context.Context) (*cachedAccount, error) {
		a, err := r.next.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return toCached(a), nil
	})
	if err != nil || ca == nil {
		return nil, err
	}
	return ca.toDomain(), nil
}

func (r *CachedAccountRepo) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.next.FindByEmail(ctx, email)
}

func (r *CachedAccountRepo) Create(ctx context.Context, in domain.NewAccount) (*domain.Account, error) {
	return r.next.Create(ctx, in)
}

func (r *CachedAccountRepo) Update(ctx context.Context, id string, p domain.Patch) (string, error) {
	out, err := r.next.Update(ctx, id, p)
	if err != nil || out == "" {
		return out, err
	}
	r.invalidate(ctx, idKey(id))
	return out, nil
}

func (r *CachedAccountRepo) SoftDelete(ctx context.Context, id string) (string, error) {
	out, err := r.next.SoftDelete(ctx, id)
	if err != nil || out == "" {
		return out, err
	}
	r.invalidate(ctx, idKey(id))
	return out, nil
}

func (r *CachedAccountRepo) List(ctx context.Context, f domain.ListFilter) ([]domain.Account, int64, error) {
	return r.next.List(ctx, f)
}

func (r *CachedAccountRepo) invalidate(ctx context.Context, keys ...string) {
	if err := r.cache.Del(ctx, keys...); err != nil {
		r.log.Warn("account cache invalidate failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
