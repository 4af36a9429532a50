package service

import (
	"context"
	"fmt"
	"time"

	"account-service/internal/domain"
)

type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(pw, hashed string) bool
}

type TokenIssuer interface {
	Issue(subject string, extra map[string]any) (string, time.Time, error)
	Validate(token string) (string, error)
}

// IdentityResolver 由 token 解析当前账户（HTTP 中间件使用）
type IdentityResolver interface {
	CurrentAccount(ctx context.Context, token string) (*domain.Account, error)
}

// unavailable 存储层意外错误统一包装
func unavailable(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
}
