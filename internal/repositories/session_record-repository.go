package repositories

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"shop-admin-gateway/internal/entities"
	apperrors "shop-admin-gateway/pkg/errors"
)

// SessionRecordRepositoryInterface - вторая (богатая) поверхность сессии.
// Хранит полную запись (email, storeId, userId) по токену - аналог
// local storage дашборда. Запись вспомогательная: её потеря никого
// не разлогинивает, токен в cookie остаётся единственным креденшелом.
type SessionRecordRepositoryInterface interface {
	Save(ctx context.Context, identity entities.Identity) error
	Find(ctx context.Context, token string) (*entities.Identity, error)
	Delete(ctx context.Context, token string) error
}

const sessionRecordKeyPrefix = "session_record:"

// RedisSessionRecordRepository - реализация записи сессии на Redis.
type RedisSessionRecordRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionRecordRepository(client *redis.Client, ttl time.Duration) SessionRecordRepositoryInterface {
	return &RedisSessionRecordRepository{client: client, ttl: ttl}
}

func recordKey(token string) string {
	return sessionRecordKeyPrefix + token
}

// Save пишет запись плоскими полями. TTL совпадает со сроком cookie,
// чтобы обе поверхности протухали вместе.
func (r *RedisSessionRecordRepository) Save(ctx context.Context, identity entities.Identity) error {
	if identity.Token == "" {
		return apperrors.ErrTokenNotFound
	}

	fields := map[string]interface{}{
		"token":   identity.Token,
		"email":   identity.Email,
		"role":    string(identity.Role),
		"user_id": identity.UserID,
	}
	if identity.StoreID != nil {
		fields["store_id"] = strconv.FormatUint(*identity.StoreID, 10)
	}

	key := recordKey(identity.Token)
	if err := r.client.HSet(ctx, key, fields).Err(); err != nil {
		return fmt.Errorf("не удалось сохранить запись сессии: %w", err)
	}
	return r.client.Expire(ctx, key, r.ttl).Err()
}

func (r *RedisSessionRecordRepository) Find(ctx context.Context, token string) (*entities.Identity, error) {
	if token == "" {
		return nil, apperrors.ErrNotFound
	}

	fields, err := r.client.HGetAll(ctx, recordKey(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать запись сессии: %w", err)
	}
	if len(fields) == 0 {
		return nil, apperrors.ErrNotFound
	}

	identity := &entities.Identity{
		Token:  token,
		Email:  fields["email"],
		Role:   entities.Role(fields["role"]),
		UserID: fields["user_id"],
	}
	if raw, ok := fields["store_id"]; ok && raw != "" {
		if storeID, parseErr := strconv.ParseUint(raw, 10, 64); parseErr == nil {
			identity.StoreID = &storeID
		}
	}
	return identity, nil
}

func (r *RedisSessionRecordRepository) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return r.client.Del(ctx, recordKey(token)).Err()
}
