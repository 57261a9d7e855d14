package regioninfra

import (
	"context"
	"time"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/logx"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/region"
	"github.com/redis/go-redis/v9"
)

// RedisRegionCache implementación en Redis de la caché de listados.
// El dataset de wilayah cambia casi nunca, así que las listas de dropdowns se
// cachean con TTL largo; toda falla de Redis degrada silenciosamente a la DB.
type RedisRegionCache struct {
	client *redis.Client
}

// NewRedisRegionCache crea la caché de regiones sobre Redis
func NewRedisRegionCache(client *redis.Client) region.Cache {
	return &RedisRegionCache{
		client: client,
	}
}

func (c *RedisRegionCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logx.WithFields(logx.Fields{"key": key}).Warnf("region cache get failed: %v", err)
		}
		return nil, false
	}
	return data, true
}

func (c *RedisRegionCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		logx.WithFields(logx.Fields{"key": key}).Warnf("region cache set failed: %v", err)
	}
}

// Invalidate borra las claves que matchean el patrón (SCAN + DEL).
// Used after a dataset import; correctness does not depend on it.
func (c *RedisRegionCache) Invalidate(ctx context.Context, pattern string) {
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			logx.WithFields(logx.Fields{"key": iter.Val()}).Warnf("region cache invalidate failed: %v", err)
		}
	}
	if err := iter.Err(); err != nil {
		logx.WithFields(logx.Fields{"pattern": pattern}).Warnf("region cache scan failed: %v", err)
	}
}
