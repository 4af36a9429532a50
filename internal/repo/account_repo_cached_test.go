package repo

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"account-service/internal/core/cache"
	"account-service/internal/domain"
)

func newCachedRepoOver(t *testing.T, inner domain.AccountRepository) (*CachedAccountRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return NewCachedAccountRepo(inner, c, time.Minute, zap.NewNop()), mr
}

func newCachedRepo(t *testing.T) (*CachedAccountRepo, *AccountRepo, *miniredis.Miniredis) {
	t.Helper()
	inner := newTestRepo(t)
	r, mr := newCachedRepoOver(t, inner)
	return r, inner, mr
}

func TestCachedAccountRepo_CachesByIDWithoutHash(t *testing.T) {
	r, _, mr := newCachedRepo(t)
	ctx := context.Background()
	a := mustCreate(t, r, "a@example.com")

	got, err := r.FindByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.True(t, mr.Exists(idKey(a.ID)))

	raw, err := mr.Get(idKey(a.ID))
	require.NoError(t, err)
	assert.NotContains(t, raw, "hash")

	got, err = r.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Email, got.Email)
	assert.Empty(t, got.PasswordHash)
	assert.True(t, got.Roles.Has(domain.RoleUser))
}

func TestCachedAccountRepo_EmailLookupReadsStore(t *testing.T) {
	r, _, mr := newCachedRepo(t)
	ctx := context.Background()
	mustCreate(t, r, "a@example.com")

	got, err := r.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.Empty(t, mr.Keys())
}

func TestCachedAccountRepo_InvalidatesOnWrite(t *testing.T) {
	r, _, mr := newCachedRepo(t)
	ctx := context.Background()
	a := mustCreate(t, r, "a@example.com")

	_, err := r.FindByID(ctx, a.ID)
	require.NoError(t, err)

	_, err = r.Update(ctx, a.ID, domain.Patch{Email: strPtr("new@example.com")})
	require.NoError(t, err)
	assert.False(t, mr.Exists(idKey(a.ID)))

	got, err := r.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Email)

	_, err = r.SoftDelete(ctx, a.ID)
	require.NoError(t, err)

	gone, err := r.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, gone, "soft-deleted account must not be served from cache")
	gone, err = r.FindByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestCachedAccountRepo_DoesNotCacheMiss(t *testing.T) {
	r, _, mr := newCachedRepo(t)
	got, err := r.FindByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists(idKey("00000000-0000-0000-0000-000000000000")))
}

// pausingRepo 第一次 FindByID 读完库后停住，直到 release 关闭
type pausingRepo struct {
	*AccountRepo
	armed   atomic.Bool
	read    chan struct{}
	release chan struct{}
}

func (p *pausingRepo) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	a, err := p.AccountRepo.FindByID(ctx, id)
	if p.armed.CompareAndSwap(true, false) {
		close(p.read)
		<-p.release
	}
	return a, err
}

func TestCachedAccountRepo_SlowReadDoesNotResurrectDeleted(t *testing.T) {
	inner := &pausingRepo{AccountRepo: newTestRepo(t), read: make(chan struct{}), release: make(chan struct{})}
	r, mr := newCachedRepoOver(t, inner)
	ctx := context.Background()
	a := mustCreate(t, r, "a@example.com")

	inner.armed.Store(true)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		stale, err := r.FindByID(ctx, a.ID)
		assert.NoError(t, err)
		assert.NotNil(t, stale)
	}()

	<-inner.read
	out, err := r.SoftDelete(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, a.ID, out)
	close(inner.release)
	wg.Wait()

	assert.False(t, mr.Exists(idKey(a.ID)))
	gone, err := r.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	gone, err = r.FindByEmail(ctx, a.Email)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
