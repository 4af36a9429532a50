package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	c.Prefix = "test:"
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestGetOrLoadJSON_CachesHits(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (*item, error) {
		calls++
		return &item{Name: "alex"}, nil
	}

	v, err := GetOrLoadJSON(c, ctx, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "alex", v.Name)

	v, err = GetOrLoadJSON(c, ctx, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "alex", v.Name)
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists("test:k"))

	require.NoError(t, c.Del(ctx, "k", ""))
	assert.False(t, mr.Exists("test:k"))
}

func TestGetOrLoadJSON_DoesNotCacheMisses(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	v, err := GetOrLoadJSON(c, ctx, "missing", time.Minute, func(context.Context) (*item, error) { return nil, nil })
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.False(t, mr.Exists("test:missing"))
}

func TestGetOrLoadJSON_PropagatesLoadError(t *testing.T) {
	c, _ := newTestCache(t)
	boom := errors.New("boom")
	_, err := GetOrLoadJSON(c, context.Background(), "k", time.Minute, func(context.Context) (*item, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}

func TestGetOrLoad_RedisDown(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	b, err := c.GetOrLoad(context.Background(), "k", time.Minute, func(context.Context) ([]byte, error) {
		return []byte("v"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "v", string(b))
}

func TestGetOrLoad_SkipsWriteWhenDeletedDuringLoad(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	b, err := c.GetOrLoad(ctx, "k", time.Minute, func(ctx context.Context) ([]byte, error) {
		// 回源读到旧值之后 key 被失效
		require.NoError(t, c.Del(ctx, "k"))
		return []byte("stale"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "stale", string(b))
	assert.False(t, mr.Exists("test:k"))
	assert.True(t, mr.Exists("test:k:ver"))

	// 之后的回源正常写入
	b, err = c.GetOrLoad(ctx, "k", time.Minute, func(context.Context) ([]byte, error) {
		return []byte("fresh"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(b))
	got, err := mr.Get("test:k")
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)
}
