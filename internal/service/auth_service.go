package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"account-service/internal/domain"
)

const TokenTypeBearer = "bearer"

type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

type AuthService struct {
	repo   domain.AccountRepository
	hasher PasswordHasher
	tokens TokenIssuer
	log    *zap.Logger
	m      *Metrics

	dummyOnce sync.Once
	dummyHash string
}

var _ IdentityResolver = (*AuthService)(nil)

func NewAuthService(repo domain.AccountRepository, hasher PasswordHasher, tokens TokenIssuer, l *zap.Logger, m *Metrics) *AuthService {
	if l == nil {
		l = zap.NewNop()
	}
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, log: l, m: m}
}

// 未知 email 也做一次口令比较，避免靠耗时区分"无此用户"和"密码错误"
func (s *AuthService) burnVerify(pw string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("not-a-real-password")
	})
	if s.dummyHash != "" {
		_ = s.hasher.Verify(pw, s.dummyHash)
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (tok *Token, err error) {
	defer func() { s.m.login(err) }()

	if email == "" || password == "" {
		s.burnVerify(password)
		return nil, domain.ErrInvalidCredentials
	}
	a, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("login lookup failed", zap.Error(err))
		return nil, unavailable(err)
	}
	if a == nil {
		s.burnVerify(password)
		return nil, domain.ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, a.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	access, exp, err := s.tokens.Issue(a.Email, map[string]any{"uid": a.ID})
	if err != nil {
		return nil, err
	}
	s.log.Debug("login ok", zap.String("account_id", a.ID))
	return &Token{AccessToken: access, TokenType: TokenTypeBearer, ExpiresAt: exp}, nil
}

// CurrentAccount token 无效/过期、或 subject 不再是 active 账户时都返回 ErrInvalidCredentials
func (s *AuthService) CurrentAccount(ctx context.Context, token string) (*domain.Account, error) {
	email, err := s.tokens.Validate(token)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	a, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("identity lookup failed", zap.Error(err))
		return nil, unavailable(err)
	}
	if a == nil {
		return nil, domain.ErrInvalidCredentials
	}
	return a, nil
}
