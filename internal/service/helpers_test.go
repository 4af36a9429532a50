package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"account-service/internal/core/auth"
	"account-service/internal/core/database"
	"account-service/internal/domain"
	"account-service/internal/feature/account"
	"account-service/internal/repo"
)

type fixture struct {
	repo     *repo.AccountRepo
	hasher   *auth.BcryptHasher
	jwt      *auth.JWTer
	accounts *AccountService
	auth     *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel: "silent",
		Logger:   zap.NewNop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	r := repo.NewAccountRepo(db)
	require.NoError(t, r.Migrate(context.Background()))

	j, err := auth.NewJWTer("test-secret", "account-service", 0)
	require.NoError(t, err)
	h := auth.NewBcryptHasher(bcrypt.MinCost)
	m := NewMetrics(nil)
	return &fixture{
		repo:     r,
		hasher:   h,
		jwt:      j,
		accounts: NewAccountService(r, h, zap.NewNop(), m),
		auth:     NewAuthService(r, h, j, zap.NewNop(), m),
	}
}

// register 注册后按需直接在库里补角色
func (f *fixture) register(t *testing.T, email string, roles ...domain.Role) *domain.Account {
	t.Helper()
	ctx := context.Background()
	a, err := f.accounts.Register(ctx, account.RegisterRequest{
		Name: "Alex", Surname: "Sokol", Email: email, Password: "pw-" + email,
	})
	require.NoError(t, err)
	if len(roles) > 0 {
		set := a.Roles.Add(roles...)
		_, err = f.repo.Update(ctx, a.ID, domain.Patch{Roles: set})
		require.NoError(t, err)
		a.Roles = set
	}
	return a
}

func strPtr(s string) *string { return &s }

// mockRepo 用于断言"没有存储调用"之类的交互
type mockRepo struct{ mock.Mock }

var _ domain.AccountRepository = (*mockRepo)(nil)

func (m *mockRepo) Create(ctx context.Context, in domain.NewAccount) (*domain.Account, error) {
	args := m.Called(ctx, in)
	a, _ := args.Get(0).(*domain.Account)
	return a, args.Error(1)
}

func (m *mockRepo) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*domain.Account)
	return a, args.Error(1)
}

func (m *mockRepo) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	a, _ := args.Get(0).(*domain.Account)
	return a, args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, id string, p domain.Patch) (string, error) {
	args := m.Called(ctx, id, p)
	return args.String(0), args.Error(1)
}

func (m *mockRepo) SoftDelete(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, f domain.ListFilter) ([]domain.Account, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]domain.Account)
	return items, args.Get(1).(int64), args.Error(2)
}
