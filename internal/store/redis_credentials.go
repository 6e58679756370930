package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisCredentialStore хранит учетные данные в Redis.
// Используется в общих окружениях, где домашняя директория не сохраняется
// между запусками (контейнеры, CI агенты).
type RedisCredentialStore struct {
	client *redis.Client
	prefix string
}

// NewRedisCredentialStore создает новое хранилище учетных данных в Redis
func NewRedisCredentialStore(addr, password string, db int) (*RedisCredentialStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Проверяем подключение
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCredentialStore{
		client: rdb,
		prefix: "invera:cli:credentials:",
	}, nil
}

// Save сохраняет учетные данные в Redis
func (rs *RedisCredentialStore) Save(creds *Credentials) error {
	ctx := context.Background()

	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	key := rs.prefix + "current"
	if err := rs.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save credentials to Redis: %w", err)
	}

	return nil
}

// Load загружает учетные данные из Redis
func (rs *RedisCredentialStore) Load() (*Credentials, error) {
	ctx := context.Background()

	key := rs.prefix + "current"
	data, err := rs.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("credentials not found")
		}
		return nil, fmt.Errorf("failed to load credentials from Redis: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(data), &creds); err != nil {
		return nil, fmt.Errorf("failed to decode credentials: %w", err)
	}

	return &creds, nil
}

// Has проверяет наличие учетных данных
func (rs *RedisCredentialStore) Has() bool {
	ctx := context.Background()

	key := rs.prefix + "current"
	_, err := rs.client.Get(ctx, key).Result()
	return err == nil
}

// Clear удаляет учетные данные из Redis
func (rs *RedisCredentialStore) Clear() error {
	ctx := context.Background()

	key := rs.prefix + "current"
	if err := rs.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete credentials from Redis: %w", err)
	}

	return nil
}

// Close закрывает подключение к Redis
func (rs *RedisCredentialStore) Close() error {
	return rs.client.Close()
}
