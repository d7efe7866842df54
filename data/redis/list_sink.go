package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var errEmptyKey = errors.New("redis: list key is required")

// ListSink stores a batch of normalized e-mails as a Redis list. Each Write
// replaces the list in one MULTI/EXEC so readers never see a partial batch.
type ListSink struct {
	rdb redis.Cmdable
	key string
	ttl time.Duration
}

// NewListSink returns a sink writing to key. A ttl of zero keeps the key forever.
func NewListSink(rdb redis.Cmdable, key string, ttl time.Duration) (*ListSink, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errEmptyKey
	}
	return &ListSink{rdb: rdb, key: key, ttl: ttl}, nil
}

func (s *ListSink) Key() string { return s.key }

func (s *ListSink) Write(ctx context.Context, emails []string) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(emails) == 0 {
			return nil
		}
		pipe.RPush(ctx, s.key, toArgs(emails)...)
		if s.ttl > 0 {
			pipe.Expire(ctx, s.key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: write %d e-mails to %q: %w", len(emails), s.key, err)
	}
	return nil
}

func toArgs(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
