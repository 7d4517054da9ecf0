package util

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"umsshop/catalog-service/internal/app/catalog/entity"
	"umsshop/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	serviceName         = "catalog-service"
	categoriesKeyPrefix = "categories:"
	generationKey       = "catalog:categories:generation"
	scanBatch           = 100
)

type RedisClient struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(addr, password string, db int, ttl time.Duration) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client, ttl: ttl}, nil
}

func (r *RedisClient) SetListing(ctx context.Context, key string, items []entity.CategorySummary) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to set categories in cache: %w", err)
	}

	return nil
}

func (r *RedisClient) GetListing(ctx context.Context, key string) ([]entity.CategorySummary, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpGet)
	defer timer.ObserveDuration()

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheMiss(serviceName, categoriesKeyPrefix)
			return nil, nil
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get categories from cache: %w", err)
	}

	var items []entity.CategorySummary
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
	}

	metrics.RecordCacheHit(serviceName, categoriesKeyPrefix)
	return items, nil
}

// Generation текущее поколение списков, 0 пока не было ни одной записи
func (r *RedisClient) Generation(ctx context.Context) (int64, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpGet)
	defer timer.ObserveDuration()

	gen, err := r.client.Get(ctx, generationKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return 0, fmt.Errorf("failed to get categories generation: %w", err)
	}
	return gen, nil
}

// Invalidate сдвигает поколение и удаляет старые списки.
// Любая запись может поменять счетчики детей у соседнего уровня, поэтому чистим все.
func (r *RedisClient) Invalidate(ctx context.Context) error {
	if err := r.client.Incr(ctx, generationKey).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpIncr)
		return fmt.Errorf("failed to bump categories generation: %w", err)
	}

	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpScan)
	defer timer.ObserveDuration()

	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, categoriesKeyPrefix+"*", scanBatch).Result()
		if err != nil {
			metrics.RecordRedisError(serviceName, metrics.RedisOpScan)
			return fmt.Errorf("failed to scan category keys: %w", err)
		}

		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
				return fmt.Errorf("failed to delete categories from cache: %w", err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
