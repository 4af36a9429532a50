package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"account-service/internal/domain"
	"account-service/internal/feature/account"
)

// AccountService 账户用例编排：查目标 → 权限 → 变更
type AccountService struct {
	repo   domain.AccountRepository
	hasher PasswordHasher
	log    *zap.Logger
	m      *Metrics
}

func NewAccountService(repo domain.AccountRepository, hasher PasswordHasher, l *zap.Logger, m *Metrics) *AccountService {
	if l == nil {
		l = zap.NewNop()
	}
	return &AccountService{repo: repo, hasher: hasher, log: l, m: m}
}

// storeErr 已知的领域错误原样返回，其它视为存储不可用
func (s *AccountService) storeErr(op string, err error) error {
	if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrEmptyUpdate) {
		return err
	}
	s.log.Error("account store failed", zap.String("op", op), zap.Error(err))
	return unavailable(err)
}

func (s *AccountService) Register(ctx context.Context, in account.RegisterRequest) (a *domain.Account, err error) {
	defer func() { s.m.op("register", err) }()

	if err := account.ValidateRegister(in); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	a, err = s.repo.Create(ctx, domain.NewAccount{
		Name:         in.Name,
		Surname:      in.Surname,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, s.storeErr("register", err)
	}
	s.log.Info("account registered", zap.String("account_id", a.ID))
	return a, nil
}

func (s *AccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.target(ctx, id)
}

func (s *AccountService) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	a, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, s.storeErr("get_by_email", err)
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (s *AccountService) target(ctx context.Context, id string) (*domain.Account, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeErr("get", err)
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

// Update 空 patch 在任何存储调用之前拒绝
func (s *AccountService) Update(ctx context.Context, actor *domain.Account, id string, in account.UpdateRequest) (updated string, err error) {
	defer func() { s.m.op("update", err) }()

	if err := account.ValidateUpdate(in); err != nil {
		return "", err
	}
	patch := in.Patch()
	if patch.IsEmpty() {
		return "", domain.ErrEmptyUpdate
	}
	target, err := s.target(ctx, id)
	if err != nil {
		return "", err
	}
	if actor.ID != target.ID && !domain.CanModify(actor, target) {
		return "", domain.ErrForbidden
	}
	updated, err = s.repo.Update(ctx, target.ID, patch)
	if err != nil {
		return "", s.storeErr("update", err)
	}
	if updated == "" {
		return "", domain.ErrNotFound
	}
	s.log.Info("account updated", zap.String("account_id", updated), zap.String("actor_id", actor.ID))
	return updated, nil
}

func (s *AccountService) Delete(ctx context.Context, actor *domain.Account, id string) (deleted string, err error) {
	defer func() { s.m.op("delete", err) }()

	target, err := s.target(ctx, id)
	if err != nil {
		return "", err
	}
	if err := domain.CheckDelete(actor, target); err != nil {
		return "", err
	}
	deleted, err = s.repo.SoftDelete(ctx, target.ID)
	if err != nil {
		return "", s.storeErr("delete", err)
	}
	// 检查和删除之间被别人删掉了
	if deleted == "" {
		return "", domain.ErrNotFound
	}
	s.log.Info("account deleted", zap.String("account_id", deleted), zap.String("actor_id", actor.ID))
	return deleted, nil
}

func (s *AccountService) GrantAdmin(ctx context.Context, actor *domain.Account, id string) (updated string, err error) {
	defer func() { s.m.op("grant_admin", err) }()
	return s.changeRoles(ctx, actor, id, domain.PromoteToAdmin)
}

func (s *AccountService) RevokeAdmin(ctx context.Context, actor *domain.Account, id string) (updated string, err error) {
	defer func() { s.m.op("revoke_admin", err) }()
	return s.changeRoles(ctx, actor, id, domain.RevokeAdmin)
}

func (s *AccountService) changeRoles(ctx context.Context, actor *domain.Account, id string, next func(*domain.Account) (domain.RoleSet, error)) (string, error) {
	if err := domain.CheckPrivilegeChange(actor, id); err != nil {
		return "", err
	}
	target, err := s.target(ctx, id)
	if err != nil {
		return "", err
	}
	roles, err := next(target)
	if err != nil {
		return "", err
	}
	updated, err := s.repo.Update(ctx, target.ID, domain.Patch{Roles: roles})
	if err != nil {
		return "", s.storeErr("roles", err)
	}
	if updated == "" {
		return "", domain.ErrNotFound
	}
	s.log.Info("account roles changed",
		zap.String("account_id", updated),
		zap.String("actor_id", actor.ID),
		zap.String("roles", roles.String()),
	)
	return updated, nil
}

// List 仅 ADMIN / SUPERADMIN 可用
func (s *AccountService) List(ctx context.Context, actor *domain.Account, f domain.ListFilter) ([]domain.Account, int64, error) {
	if actor == nil || !actor.Roles.HasAny(domain.RoleAdmin, domain.RoleSuperadmin) {
		return nil, 0, domain.ErrForbidden
	}
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, s.storeErr("list", err)
	}
	return items, total, nil
}

type BootstrapInput struct {
	Email    string
	Password string
	Name     string
	Surname  string
}

// EnsureSuperadmin 幂等：不存在则创建 {USER, SUPERADMIN}，存在则补上 SUPERADMIN
func (s *AccountService) EnsureSuperadmin(ctx context.Context, in BootstrapInput) (*domain.Account, error) {
	in.Email = strings.TrimSpace(in.Email)
	existing, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, s.storeErr("bootstrap", err)
	}
	if existing != nil {
		if existing.Roles.Has(domain.RoleSuperadmin) {
			return existing, nil
		}
		roles := existing.Roles.Add(domain.RoleUser, domain.RoleSuperadmin)
		out, err := s.repo.Update(ctx, existing.ID, domain.Patch{Roles: roles})
		if err != nil {
			return nil, s.storeErr("bootstrap", err)
		}
		if out == "" {
			return nil, domain.ErrNotFound
		}
		existing.Roles = roles
		s.log.Info("superadmin granted", zap.String("account_id", existing.ID))
		return existing, nil
	}

	req := account.RegisterRequest{Name: in.Name, Surname: in.Surname, Email: in.Email, Password: in.Password}
	if err := account.ValidateRegister(req); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	a, err := s.repo.Create(ctx, domain.NewAccount{
		Name:         in.Name,
		Surname:      in.Surname,
		Email:        in.Email,
		PasswordHash: hash,
		Roles:        domain.NewRoleSet(domain.RoleUser, domain.RoleSuperadmin),
	})
	if err != nil {
		return nil, s.storeErr("bootstrap", err)
	}
	s.log.Info("superadmin created", zap.String("account_id", a.ID))
	return a, nil
}
