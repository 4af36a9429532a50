package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

type Cache struct {
	RDB    *redis.Client
	Prefix string
	sf     singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}))
}

func NewWithClient(rdb *redis.Client) *Cache {
	return &Cache{RDB: rdb}
}

// 版本号保留时间，需长于任何一次回源
const verTTL = 24 * time.Hour

func (c *Cache) key(k string) string { return c.Prefix + k }

func (c *Cache) verKey(k string) string { return c.Prefix + k + ":ver" }

func (c *Cache) Ping(ctx context.Context) error { return c.RDB.Ping(ctx).Err() }

func (c *Cache) Close() error { return c.RDB.Close() }

// GetOrLoad 先读缓存，未命中则 singleflight 合并回源；
// load 返回 nil 表示不写缓存（未找到不做负缓存）。
// 回源期间若 key 被 Del 过，结果只返回不写入。
// Redis 不可用时直接回源。
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if b, err := c.RDB.Get(ctx, c.key(key)).Bytes(); err == nil {
		return b, nil
	}
	v, err, _ := c.sf.Do(key, func() (any, error) {
		ver, verr := c.version(ctx, key)
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		if b != nil && verr == nil {
			_ = c.setIfVersion(ctx, key, ver, b, ttl)
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	b, _ := v.([]byte)
	return b, nil
}

// version 不存在时为 ""
func (c *Cache) version(ctx context.Context, key string) (string, error) {
	ver, err := c.RDB.Get(ctx, c.verKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return ver, err
}

// setIfVersion 仅当版本号未变时写入，WATCH 保证比较和写入之间没有 Del 插入
func (c *Cache) setIfVersion(ctx context.Context, key, ver string, b []byte, ttl time.Duration) error {
	vk := c.verKey(key)
	return c.RDB.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, vk).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != ver {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, c.key(key), b, ttl)
			return nil
		})
		return err
	}, vk)
}

// Del 删除若干 key 并递增其版本号；空 key 跳过
func (c *Cache) Del(ctx context.Context, keys ...string) error {
	live := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			live = append(live, k)
		}
	}
	if len(live) == 0 {
		return nil
	}
	_, err := c.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, k := range live {
			p.Incr(ctx, c.verKey(k))
			p.Expire(ctx, c.verKey(k), verTTL)
			p.Del(ctx, c.key(k))
		}
		return nil
	})
	return err
}
