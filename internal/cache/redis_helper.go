package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/andresuchdata/inventory-dashboard/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	defaultCacheTTL = time.Minute
	pingTimeout     = 5 * time.Second
)

// jsonStore keeps JSON documents under a common key prefix with a fixed TTL.
type jsonStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func newJSONStore(cfg config.CacheConfig, prefix string) (*jsonStore, error) {
	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s failed: %w", opts.Addr, err)
	}

	return &jsonStore{client: client, prefix: prefix, ttl: cacheTTL(cfg)}, nil
}

func cacheTTL(cfg config.CacheConfig) time.Duration {
	if cfg.DashboardTTLSeconds <= 0 {
		return defaultCacheTTL
	}
	return time.Duration(cfg.DashboardTTLSeconds) * time.Second
}

// buildRedisOptions prefers REDIS_URL and falls back to host/port.
func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host, port := cfg.RedisHost, cfg.RedisPort
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

func (s *jsonStore) key(suffix string) string {
	return s.prefix + ":" + suffix
}

// get decodes the document at suffix into dest. A missing key is a miss,
// not an error.
func (s *jsonStore) get(ctx context.Context, suffix string, dest interface{}) (bool, error) {
	payload, err := s.client.Get(ctx, s.key(suffix)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", s.key(suffix), err)
	}
	return true, nil
}

func (s *jsonStore) set(ctx context.Context, suffix string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.key(suffix), err)
	}

	if err := s.client.Set(ctx, s.key(suffix), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// purge unlinks every key under the store prefix, one scan page at a time.
func (s *jsonStore) purge(ctx context.Context, batchSize int64) error {
	iter := s.client.Scan(ctx, 0, s.prefix+":*", batchSize).Iterator()

	batch := make([]string, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.client.Unlink(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis unlink failed: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if int64(len(batch)) >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}
	return flush()
}
