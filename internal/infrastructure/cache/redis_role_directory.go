package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tramites/backend/internal/domain/notification"
	"github.com/tramites/backend/internal/domain/tramite"
)

// DefaultRoleTTL bounds how stale a cached role membership list may get.
// Role changes are rare and broadcasts tolerate a short lag.
const DefaultRoleTTL = time.Minute

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisClient creates a Redis client and verifies the connection
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisRoleDirectory caches role membership lookups in Redis in front of
// the database-backed directory. Cache failures fall through to the inner
// directory so a Redis outage never blocks a broadcast.
type RedisRoleDirectory struct {
	inner     notification.RoleDirectory
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisRoleDirectory creates a caching role directory
func NewRedisRoleDirectory(inner notification.RoleDirectory, client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisRoleDirectory {
	if ttl <= 0 {
		ttl = DefaultRoleTTL
	}
	return &RedisRoleDirectory{
		inner:     inner,
		client:    client,
		ttl:       ttl,
		keyPrefix: "roles:members:",
		logger:    logger,
	}
}

// MembersOf returns the user ids currently holding the role, served from
// cache when fresh
func (d *RedisRoleDirectory) MembersOf(ctx context.Context, role tramite.Role) ([]uuid.UUID, error) {
	key := d.keyPrefix + string(role)

	cached, err := d.client.Get(ctx, key).Bytes()
	if err == nil {
		var ids []uuid.UUID
		if jsonErr := json.Unmarshal(cached, &ids); jsonErr == nil {
			return ids, nil
		}
		// corrupt entry, fall through and overwrite
	} else if err != redis.Nil {
		d.logger.Warn("role cache read failed", zap.String("role", string(role)), zap.Error(err))
	}

	ids, err := d.inner.MembersOf(ctx, role)
	if err != nil {
		return nil, err
	}

	if data, jsonErr := json.Marshal(ids); jsonErr == nil {
		if setErr := d.client.Set(ctx, key, data, d.ttl).Err(); setErr != nil {
			d.logger.Warn("role cache write failed", zap.String("role", string(role)), zap.Error(setErr))
		}
	}
	return ids, nil
}

// Invalidate drops the cached membership for a role, used when role
// assignments change
func (d *RedisRoleDirectory) Invalidate(ctx context.Context, role tramite.Role) error {
	return d.client.Del(ctx, d.keyPrefix+string(role)).Err()
}

// Ensure RedisRoleDirectory implements the domain contract
var _ notification.RoleDirectory = (*RedisRoleDirectory)(nil)
