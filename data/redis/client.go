package redis

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vortex-fintech/contactnorm/foundation/retry"
)

// newUniversal is replaced in tests.
var newUniversal = func(opt *redis.UniversalOptions) redis.UniversalClient {
	return redis.NewUniversalClient(opt)
}

// NewClient validates cfg, builds a universal client and pings it until it
// answers or p gives up. Config errors are not retried.
func NewClient(ctx context.Context, cfg Config, p retry.Policy) (redis.UniversalClient, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	mode := normalizeMode(cfg.Mode)
	addrs := normalizeAddrs(cfg)
	if err := validateConfig(cfg, mode, addrs); err != nil {
		return nil, err
	}

	opt := &redis.UniversalOptions{
		Addrs:       addrs,
		MasterName:  strings.TrimSpace(cfg.MasterName),
		DB:          cfg.DB,
		Username:    cfg.Username,
		Password:    cfg.Password,
		DialTimeout: cfg.DialTimeout,
	}
	if cfg.TLSEnabled {
		opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	rdb := newUniversal(opt)

	pingTimeout := cfg.DialTimeout
	if pingTimeout <= 0 {
		pingTimeout = 3 * time.Second
	}
	err := retry.Do(ctx, p, func(ctx context.Context) error {
		c, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return rdb.Ping(c).Err()
	})
	if err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
