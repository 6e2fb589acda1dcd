package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgtools/partner-admin/internal/core/domain"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RecordStore) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRecordStore(client)
}

func TestRecordStore_PutGet(t *testing.T) {
	mr, store := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "partner:acme", `{"id":"acme"}`))

	got, err := mr.Get("partner:acme")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"acme"}`, got)
	assert.False(t, mr.TTL("partner:acme") > 0, "records must not expire")

	value, err := store.Get(ctx, "partner:acme")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"acme"}`, value)
}

func TestRecordStore_GetMissingIsEmpty(t *testing.T) {
	_, store := setupTestRedis(t)

	value, err := store.Get(context.Background(), "partner:ghost")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestRecordStore_SoftDelete(t *testing.T) {
	mr, store := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("toplist:acme:1", `{"id":"1"}`))

	require.NoError(t, store.Put(ctx, "toplist:acme:1", ""))

	value, err := store.Get(ctx, "toplist:acme:1")
	require.NoError(t, err)
	assert.Empty(t, value)
	assert.True(t, mr.Exists("toplist:acme:1"))
}

func TestRecordStore_ListKeysAcrossScanPages(t *testing.T) {
	mr, store := setupTestRedis(t)
	var want []string
	for i := 0; i < 250; i++ {
		key := fmt.Sprintf("partner:p%03d", i)
		want = append(want, key)
		require.NoError(t, mr.Set(key, "{}"))
	}
	require.NoError(t, mr.Set("toplist:p001:x", "{}"))
	require.NoError(t, mr.Set("domain:d1", "{}"))

	keys, err := store.ListKeys(context.Background(), "partner:")
	require.NoError(t, err)

	sort.Strings(keys)
	assert.Equal(t, want, keys)
}

func TestRecordStore_ListKeysEscapesPattern(t *testing.T) {
	mr, store := setupTestRedis(t)
	require.NoError(t, mr.Set("toplist:a*:1", "{}"))
	require.NoError(t, mr.Set("toplist:ab:1", "{}"))

	keys, err := store.ListKeys(context.Background(), "toplist:a*:")
	require.NoError(t, err)
	assert.Equal(t, []string{"toplist:a*:1"}, keys)
}

func TestRecordStore_ServerDown(t *testing.T) {
	mr, store := setupTestRedis(t)
	mr.Close()

	_, err := store.Get(context.Background(), "partner:acme")
	var ue *domain.UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "redis", ue.Provider)
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `partner:`, escapeGlob("partner:"))
	assert.Equal(t, `a\*b\?c\[d\]\\`, escapeGlob(`a*b?c[d]\`))
}
