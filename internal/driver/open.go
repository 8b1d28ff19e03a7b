package driver

import (
	"context"
	"fmt"
	"strings"

	"github.com/ecospirit/greenmap/internal/config"
)

// Open builds the object driver selected by cfg.Backend.
func Open(ctx context.Context, cfg config.DatasetConfig, rc config.RedisConfig) (ObjectDriver, error) {
	switch strings.ToLower(cfg.Backend) {
	case "file":
		d, err := NewFileDriver(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return d, nil
	case "redis":
		d, err := NewRedisDriver(ctx, rc.Addr, rc.Password, rc.DB, rc.KeyPrefix)
		if err != nil {
			return nil, err
		}
		return d, nil
	case "memory":
		return NewMemoryDriver(), nil
	default:
		return nil, fmt.Errorf("unsupported dataset backend: %s", cfg.Backend)
	}
}
