package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisDriver keeps each object as a plain string value. The content type is
// stored alongside under "<key>:content-type".
type RedisDriver struct {
	Client *redis.Client
	Prefix string
}

func NewRedisDriver(ctx context.Context, addr, password string, db int, prefix string) (*RedisDriver, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}

	return &RedisDriver{Client: client, Prefix: prefix}, nil
}

func (d *RedisDriver) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := d.Client.Get(ctx, d.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get object '%s': %w", key, err)
	}
	return data, nil
}

func (d *RedisDriver) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := d.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, d.Prefix+key, data, 0)
		if contentType != "" {
			pipe.Set(ctx, d.Prefix+key+":content-type", contentType, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to put object '%s': %w", key, err)
	}
	return nil
}

func (d *RedisDriver) Close(ctx context.Context) error {
	return d.Client.Close()
}
