package platform

import (
    "context"
    "errors"
    "time"

    "github.com/redis/go-redis/v9"
)

// TokenStore 平台凭证与元数据的共享存储
// 每次平台调用前重新读取持久化 token，刷新后先落库再复用（见 Set 的调用顺序约定）
type TokenStore interface {
    Token(ctx context.Context, platform string) (string, error)
    SetToken(ctx context.Context, platform, token string) error
    RefreshSecret(ctx context.Context, platform string) (string, error)
    SetRefreshSecret(ctx context.Context, platform, secret string) error
    // Meta 带 TTL 的小型键值缓存（如 LinkedIn author URN），显式按键失效
    Meta(ctx context.Context, key string) (string, error)
    SetMeta(ctx context.Context, key, val string, ttl time.Duration) error
}

type redisTokenStore struct {
    rdb *redis.Client
}

func NewTokenStore(rdb *redis.Client) TokenStore { return &redisTokenStore{rdb: rdb} }

func (s *redisTokenStore) get(ctx context.Context, key string) (string, error) {
    v, err := s.rdb.Get(ctx, key).Result()
    if errors.Is(err, redis.Nil) {
        return "", nil
    }
    return v, err
}

func (s *redisTokenStore) Token(ctx context.Context, platform string) (string, error) {
    return s.get(ctx, "autopub:token:"+platform)
}

func (s *redisTokenStore) SetToken(ctx context.Context, platform, token string) error {
    return s.rdb.Set(ctx, "autopub:token:"+platform, token, 0).Err()
}

func (s *redisTokenStore) RefreshSecret(ctx context.Context, platform string) (string, error) {
    return s.get(ctx, "autopub:refresh:"+platform)
}

func (s *redisTokenStore) SetRefreshSecret(ctx context.Context, platform, secret string) error {
    return s.rdb.Set(ctx, "autopub:refresh:"+platform, secret, 0).Err()
}

func (s *redisTokenStore) Meta(ctx context.Context, key string) (string, error) {
    return s.get(ctx, "autopub:meta:"+key)
}

func (s *redisTokenStore) SetMeta(ctx context.Context, key, val string, ttl time.Duration) error {
    return s.rdb.Set(ctx, "autopub:meta:"+key, val, ttl).Err()
}
