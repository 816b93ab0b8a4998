package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/backsoul/teamquiz/pkg/errs"
)

// Reintentos del bucle optimista de UpdateJSON ante escrituras concurrentes
const maxTxRetries = 5

// RedisClient estructura para manejar conexiones con Redis
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient crea una nueva instancia del cliente Redis
func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, errs.Wrap(errs.KindInternal, err, "could not connect to redis")
	}

	return &RedisClient{
		client: rdb,
		ctx:    ctx,
	}, nil
}

// Get obtiene el valor de una clave
func (r *RedisClient) Get(key string) (string, error) {
	val, err := r.client.Get(r.ctx, key).Result()
	if err == redis.Nil {
		return "", errs.NotFoundf("key %q not found", key)
	}
	if err != nil {
		return "", errs.Wrap(errs.KindInternal, err, "redis get failed")
	}
	return val, nil
}

// Set guarda un valor; ttl 0 significa sin expiración
func (r *RedisClient) Set(key, value string, ttl time.Duration) error {
	if err := r.client.Set(r.ctx, key, value, ttl).Err(); err != nil {
		return errs.Wrap(errs.KindInternal, err, "redis set failed")
	}
	return nil
}

// SetNX guarda un valor solo si la clave no existe. Devuelve false si ya
// existía: es el mecanismo de unicidad de códigos, nombres y respuestas.
func (r *RedisClient) SetNX(key, value string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(r.ctx, key, value, ttl).Result()
	if err != nil {
		return false, errs.Wrap(errs.KindInternal, err, "redis setnx failed")
	}
	return ok, nil
}

// SAdd agrega miembros a un set
func (r *RedisClient) SAdd(key string, members ...string) error {
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	if err := r.client.SAdd(r.ctx, key, args...).Err(); err != nil {
		return errs.Wrap(errs.KindInternal, err, "redis sadd failed")
	}
	return nil
}

// SMembers devuelve los miembros de un set
func (r *RedisClient) SMembers(key string) ([]string, error) {
	members, err := r.client.SMembers(r.ctx, key).Result()
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, err, "redis smembers failed")
	}
	return members, nil
}

// SRem elimina miembros de un set
func (r *RedisClient) SRem(key string, members ...string) error {
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	if err := r.client.SRem(r.ctx, key, args...).Err(); err != nil {
		return errs.Wrap(errs.KindInternal, err, "redis srem failed")
	}
	return nil
}

// UpdateJSON aplica fn sobre el valor actual de la clave dentro de un bucle
// WATCH/MULTI: si otro proceso escribe la clave entre la lectura y la
// escritura, la transacción se descarta y se reintenta. fn puede devolver
// (nil, nil) para indicar que no hay nada que escribir.
func (r *RedisClient) UpdateJSON(key string, fn func(current []byte) ([]byte, error)) error {
	txf := func(tx *redis.Tx) error {
		val, err := tx.Get(r.ctx, key).Result()
		if err == redis.Nil {
			return errs.NotFoundf("key %q not found", key)
		}
		if err != nil {
			return errs.Wrap(errs.KindInternal, err, "redis get failed")
		}

		next, err := fn([]byte(val))
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}

		_, err = tx.TxPipelined(r.ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(r.ctx, key, next, redis.KeepTTL)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(r.ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return errs.Internalf("concurrent update on %q did not settle", key)
}

// HealthCheck verifica que Redis esté funcionando
func (r *RedisClient) HealthCheck() error {
	if _, err := r.client.Ping(r.ctx).Result(); err != nil {
		return errs.Wrap(errs.KindInternal, err, "redis health check failed")
	}
	return nil
}

// Close cierra la conexión con Redis
func (r *RedisClient) Close() error {
	return r.client.Close()
}
