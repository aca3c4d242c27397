package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RedisCache implementa a interface Cache usando Redis
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
	tracer trace.Tracer
}

// NewRedisCache cria uma nova instância de RedisCache
func NewRedisCache(opts *redis.Options, logger *zap.Logger) (*RedisCache, error) {
	tracer := otel.GetTracerProvider().Tracer("fraud-api.cache.redis")

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ctx, span := tracer.Start(
		ctx,
		"RedisCache.Init",
		trace.WithAttributes(
			attribute.String("redis.addr", opts.Addr),
			attribute.Int("redis.db", opts.DB),
		),
	)
	defer span.End()

	// Verificar a conexão
	if err := client.Ping(ctx).Err(); err != nil {
		span.SetStatus(codes.Error, "connection failure")
		logger.Error("Falha ao conectar ao Redis",
			zap.String("addr", opts.Addr),
			zap.Error(err))
		return nil, err
	}

	span.SetStatus(codes.Ok, "connection successful")
	logger.Info("Conexão com Redis estabelecida com sucesso",
		zap.String("addr", opts.Addr),
		zap.Int("db", opts.DB))

	return &RedisCache{
		client: client,
		logger: logger,
		tracer: tracer,
	}, nil
}

// Set armazena um valor no cache
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	ctx, span := c.tracer.Start(
		ctx,
		"RedisCache.Set",
		trace.WithAttributes(
			attribute.String("cache.key", key),
			attribute.Int64("cache.expiration_ms", expiration.Milliseconds()),
		),
	)
	defer span.End()

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Error("falha ao serializar para cache", zap.Error(err))
		span.SetStatus(codes.Error, "serialization failure")
		return err
	}

	if err := c.client.Set(ctx, key, data, expiration).Err(); err != nil {
		c.logger.Error("falha ao armazenar no Redis",
			zap.String("key", key),
			zap.Error(err))
		span.SetStatus(codes.Error, "redis set failure")
		return err
	}

	return nil
}

// Get recupera um valor do cache
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	ctx, span := c.tracer.Start(
		ctx,
		"RedisCache.Get",
		trace.WithAttributes(attribute.String("cache.key", key)),
	)
	defer span.End()

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		span.SetAttributes(attribute.Bool("cache.hit", false))
		return false, nil
	}
	if err != nil {
		c.logger.Error("falha ao buscar do Redis",
			zap.String("key", key),
			zap.Error(err))
		span.SetStatus(codes.Error, "redis get failure")
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Error("falha ao deserializar do cache", zap.Error(err))
		span.SetStatus(codes.Error, "deserialization failure")
		return false, err
	}

	span.SetAttributes(attribute.Bool("cache.hit", true))
	return true, nil
}

// Delete remove um valor do cache
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	ctx, span := c.tracer.Start(
		ctx,
		"RedisCache.Delete",
		trace.WithAttributes(attribute.String("cache.key", key)),
	)
	defer span.End()

	return c.client.Del(ctx, key).Err()
}

// Clear remove todos os valores do cache
func (c *RedisCache) Clear(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "RedisCache.Clear")
	defer span.End()

	return c.client.FlushDB(ctx).Err()
}

// Ping verifica se o Redis está acessível
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
