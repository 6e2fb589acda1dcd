package redis

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/rgtools/partner-admin/internal/core/domain"
	"github.com/rgtools/partner-admin/internal/core/ports"
)

const (
	providerName = "redis"
	scanCount    = 100
)

// RecordStore implements ports.RecordStore on plain Redis strings. Records
// never expire.
type RecordStore struct {
	client redis.UniversalClient
}

var _ ports.RecordStore = (*RecordStore)(nil)

func NewRecordStore(client redis.UniversalClient) *RecordStore {
	return &RecordStore{client: client}
}

func (s *RecordStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", upstream(err)
	}
	return value, nil
}

func (s *RecordStore) Put(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return upstream(err)
	}
	return nil
}

// ListKeys iterates SCAN until the cursor returns to 0. SCAN may yield a key
// more than once, so repeats are dropped.
func (s *RecordStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var (
		keys   []string
		seen   = make(map[string]struct{})
		cursor uint64
	)
	match := escapeGlob(prefix) + "*"
	for {
		page, next, err := s.client.Scan(ctx, cursor, match, scanCount).Result()
		if err != nil {
			return nil, upstream(err)
		}
		for _, k := range page {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

// escapeGlob quotes the characters SCAN MATCH treats as pattern syntax.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func upstream(err error) error {
	return &domain.UpstreamError{Provider: providerName, Err: err}
}
