package cloudflare

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgtools/partner-admin/internal/core/domain"
)

const (
	testAccount   = "acct-1"
	testNamespace = "ns-1"
	valuesPrefix  = "/accounts/acct-1/storage/kv/namespaces/ns-1/values/"
	keysPath      = "/accounts/acct-1/storage/kv/namespaces/ns-1/keys"
)

// fakeKV serves the subset of the Workers KV API used by KVStore. Keys are
// listed in pages of pageSize, chained with opaque cursors.
type fakeKV struct {
	mu       sync.Mutex
	values   map[string]string
	order    []string
	pageSize int
	listReqs int
	failWith int
}

func newFakeKV(t *testing.T) (*fakeKV, *KVStore) {
	t.Helper()
	kv := &fakeKV{values: map[string]string{}, pageSize: 2}
	srv := httptest.NewServer(kv)
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL, APIToken: "tok"})
	return kv, NewKVStore(client, testAccount, testNamespace)
}

func (f *fakeKV) set(key, value string) {
	if _, ok := f.values[key]; !ok {
		f.order = append(f.order, key)
	}
	f.values[key] = value
}

func (f *fakeKV) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer tok" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if f.failWith != 0 {
		w.WriteHeader(f.failWith)
		_, _ = io.WriteString(w, `{"success":false,"errors":[{"code":10000,"message":"Authentication error"}]}`)
		return
	}

	switch {
	case strings.HasPrefix(r.URL.Path, valuesPrefix):
		key := strings.TrimPrefix(r.URL.Path, valuesPrefix)
		switch r.Method {
		case http.MethodGet:
			v, ok := f.values[key]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, `{"success":false,"errors":[{"code":10009,"message":"get: 'key not found'"}]}`)
				return
			}
			_, _ = io.WriteString(w, v)
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			f.set(key, string(body))
			_, _ = io.WriteString(w, `{"success":true,"errors":[],"messages":[],"result":{}}`)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	case r.URL.Path == keysPath:
		f.listReqs++
		prefix := r.URL.Query().Get("prefix")
		var matched []string
		for _, k := range f.order {
			if strings.HasPrefix(k, prefix) {
				matched = append(matched, k)
			}
		}
		start := 0
		if c := r.URL.Query().Get("cursor"); c != "" {
			_, _ = fmt.Sscanf(c, "page-%d", &start)
		}
		end := min(start+f.pageSize, len(matched))
		var names []string
		for _, k := range matched[start:end] {
			names = append(names, fmt.Sprintf(`{"name":%q}`, k))
		}
		cursor := ""
		if end < len(matched) {
			cursor = fmt.Sprintf("page-%d", end)
		}
		_, _ = fmt.Fprintf(w, `{"success":true,"errors":[],"messages":[],"result":[%s],"result_info":{"count":%d,"cursor":%q}}`,
			strings.Join(names, ","), len(names), cursor)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestKVStore_PutThenGet(t *testing.T) {
	kv, store := newFakeKV(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "partner:acme", `{"id":"acme"}`))
	assert.Equal(t, `{"id":"acme"}`, kv.values["partner:acme"])

	value, err := store.Get(ctx, "partner:acme")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"acme"}`, value)
}

func TestKVStore_GetMissingKeyIsEmpty(t *testing.T) {
	_, store := newFakeKV(t)

	value, err := store.Get(context.Background(), "partner:ghost")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestKVStore_SoftDeleteReadsBackEmpty(t *testing.T) {
	kv, store := newFakeKV(t)
	ctx := context.Background()
	kv.set("toplist:acme:1", `{"id":"1"}`)

	require.NoError(t, store.Put(ctx, "toplist:acme:1", ""))

	value, err := store.Get(ctx, "toplist:acme:1")
	require.NoError(t, err)
	assert.Empty(t, value)

	keys, err := store.ListKeys(ctx, "toplist:acme:")
	require.NoError(t, err)
	assert.Equal(t, []string{"toplist:acme:1"}, keys)
}

func TestKVStore_ListKeysDrainsAllPages(t *testing.T) {
	kv, store := newFakeKV(t)
	for _, k := range []string{"partner:a", "partner:b", "toplist:a:1", "partner:c", "partner:d"} {
		kv.set(k, "{}")
	}

	keys, err := store.ListKeys(context.Background(), "partner:")
	require.NoError(t, err)
	assert.Equal(t, []string{"partner:a", "partner:b", "partner:c", "partner:d"}, keys)
	assert.Equal(t, 2, kv.listReqs)
}

func TestKVStore_ListKeysEmpty(t *testing.T) {
	_, store := newFakeKV(t)

	keys, err := store.ListKeys(context.Background(), "domain:")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestKVStore_ErrorStatusIsUpstreamError(t *testing.T) {
	kv, store := newFakeKV(t)
	kv.failWith = http.StatusForbidden
	ctx := context.Background()

	_, err := store.Get(ctx, "partner:acme")
	var ue *domain.UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusForbidden, ue.StatusCode)
	assert.Contains(t, ue.Details, "Authentication error")

	require.Error(t, store.Put(ctx, "partner:acme", "{}"))

	_, err = store.ListKeys(ctx, "partner:")
	require.True(t, errors.As(err, &ue))
}

func TestKVStore_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	store := NewKVStore(NewClient(Config{BaseURL: srv.URL}), testAccount, testNamespace)

	_, err := store.Get(context.Background(), "partner:acme")
	var ue *domain.UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Zero(t, ue.StatusCode)
}
