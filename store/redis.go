package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/rushteam/mindprep/core"
)

// RedisStore 是 Redis 实现的 Store，用于把目录镜像给在线服务。
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 连接 addr 并 Ping 一次，连不上时直接返回错误。
func NewRedisStore(addr string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

func (r *RedisStore) Name() string { return "redis" }

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrStoreNotFound
	}
	return val, err
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// hsetBatch 控制单条 HSET 的字段数，大目录分批经 pipeline 发送。
const hsetBatch = 1000

func (r *RedisStore) HSet(ctx context.Context, key string, fields map[string][]byte) error {
	if len(fields) == 0 {
		return nil
	}
	pipe := r.client.Pipeline()
	batch := make(map[string]interface{}, hsetBatch)
	for f, v := range fields {
		batch[f] = v
		if len(batch) == hsetBatch {
			pipe.HSet(ctx, key, batch)
			batch = make(map[string]interface{}, hsetBatch)
		}
	}
	if len(batch) > 0 {
		pipe.HSet(ctx, key, batch)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisStore) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	vals, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	result := make(map[string][]byte, len(vals))
	for k, v := range vals {
		result[k] = []byte(v)
	}
	return result, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

var _ core.Store = (*RedisStore)(nil)
