package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Единственное известное имя, под которым хранится токен текущей сессии
const redisTokenKey = "lkadmin:cli:token:current"

// RedisTokenStore хранит токен в Redis
type RedisTokenStore struct {
	client *redis.Client
}

// NewRedisTokenStore создает новое хранилище токена в Redis
func NewRedisTokenStore(addr, password string, db int) (*RedisTokenStore, error) {
	// Подключаемся к Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Проверяем подключение
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("ошибка подключения к Redis: %w", err)
	}

	return &RedisTokenStore{client: rdb}, nil
}

// Save сохраняет токен в Redis
func (rts *RedisTokenStore) Save(credential *Credential) error {
	ctx := context.Background()

	// Сериализуем токен
	data, err := json.Marshal(credential)
	if err != nil {
		return fmt.Errorf("ошибка сериализации токена: %w", err)
	}

	// Срок жизни токена локально не отслеживается, храним без TTL
	if err := rts.client.Set(ctx, redisTokenKey, data, 0).Err(); err != nil {
		return fmt.Errorf("ошибка сохранения токена в Redis: %w", err)
	}

	return nil
}

// Load загружает токен из Redis
func (rts *RedisTokenStore) Load() (*Credential, error) {
	ctx := context.Background()

	data, err := rts.client.Get(ctx, redisTokenKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("токен не найден")
		}
		return nil, fmt.Errorf("ошибка загрузки токена из Redis: %w", err)
	}

	// Десериализуем токен
	var credential Credential
	if err := json.Unmarshal([]byte(data), &credential); err != nil {
		return nil, fmt.Errorf("ошибка десериализации токена: %w", err)
	}

	return &credential, nil
}

// Has проверяет наличие токена
func (rts *RedisTokenStore) Has() bool {
	credential, err := rts.Load()
	return err == nil && credential.AccessToken != ""
}

// Clear удаляет токен из Redis
func (rts *RedisTokenStore) Clear() error {
	ctx := context.Background()

	if err := rts.client.Del(ctx, redisTokenKey).Err(); err != nil {
		return fmt.Errorf("ошибка удаления токена из Redis: %w", err)
	}

	return nil
}

// AccessToken возвращает access токен
func (rts *RedisTokenStore) AccessToken() string {
	if credential, err := rts.Load(); err == nil {
		return credential.AccessToken
	}
	return ""
}

// Close закрывает подключение к Redis
func (rts *RedisTokenStore) Close() error {
	return rts.client.Close()
}
