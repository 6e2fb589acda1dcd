package cloudflare

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/rgtools/partner-admin/internal/core/ports"
)

// KVStore implements ports.RecordStore on a Workers KV namespace.
type KVStore struct {
	client    *resty.Client
	accountID string
	namespace string
}

var _ ports.RecordStore = (*KVStore)(nil)

func NewKVStore(client *resty.Client, accountID, namespaceID string) *KVStore {
	return &KVStore{client: client, accountID: accountID, namespace: namespaceID}
}

func (s *KVStore) request(ctx context.Context) *resty.Request {
	return s.client.R().
		SetContext(ctx).
		SetPathParam("account", s.accountID).
		SetPathParam("namespace", s.namespace)
}

const (
	kvValuePath = "/accounts/{account}/storage/kv/namespaces/{namespace}/values/{key}"
	kvKeysPath  = "/accounts/{account}/storage/kv/namespaces/{namespace}/keys"
)

// Get returns the raw value at key, or "" when the key does not exist.
func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	resp, err := s.request(ctx).
		SetPathParam("key", key).
		Get(kvValuePath)
	if err != nil {
		return "", transportError("kv get", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return "", nil
	}
	if resp.IsError() {
		return "", responseError(resp)
	}
	return resp.String(), nil
}

// Put writes value at key as text/plain.
func (s *KVStore) Put(ctx context.Context, key, value string) error {
	resp, err := s.request(ctx).
		SetPathParam("key", key).
		SetHeader("Content-Type", "text/plain").
		SetBody(value).
		Put(kvValuePath)
	if err != nil {
		return transportError("kv put", err)
	}
	_, err = decodeEnvelope(resp)
	return err
}

type kvKey struct {
	Name string `json:"name"`
}

// ListKeys follows result_info.cursor until the namespace reports no further
// page.
func (s *KVStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var (
		keys   []string
		cursor string
	)
	for {
		req := s.request(ctx).SetQueryParam("prefix", prefix)
		if cursor != "" {
			req.SetQueryParam("cursor", cursor)
		}
		resp, err := req.Get(kvKeysPath)
		if err != nil {
			return nil, transportError("kv list", err)
		}
		env, err := decodeEnvelope(resp)
		if err != nil {
			return nil, err
		}

		var page []kvKey
		if err := json.Unmarshal(env.Result, &page); err != nil {
			return nil, fmt.Errorf("kv list: decode keys: %w", err)
		}
		for _, k := range page {
			keys = append(keys, k.Name)
		}

		if env.Info == nil || env.Info.Cursor == "" {
			return keys, nil
		}
		cursor = env.Info.Cursor
	}
}
