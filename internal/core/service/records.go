package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rgtools/partner-admin/internal/core/domain"
	"github.com/rgtools/partner-admin/internal/core/ports"
)

// tombstone is written in place of a deleted record.
const tombstone = ""

// fetchRecords loads every live record under prefix. Tombstones are skipped,
// as are values that are not JSON.
func fetchRecords(ctx context.Context, store ports.RecordStore, prefix string, log zerolog.Logger) ([]json.RawMessage, error) {
	keys, err := store.ListKeys(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", prefix, err)
	}

	records := make([]json.RawMessage, 0, len(keys))
	for _, key := range keys {
		value, err := store.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("get %q: %w", key, err)
		}
		if value == tombstone {
			continue
		}
		if !json.Valid([]byte(value)) {
			log.Warn().Str("key", key).Msg("skipping non-JSON record")
			continue
		}
		records = append(records, json.RawMessage(value))
	}
	return records, nil
}

// mergeRecord shallow-merges patch into the JSON object stored at key and
// writes the result back. Keys in patch replace stored keys.
func mergeRecord(ctx context.Context, store ports.RecordStore, key string, patch map[string]any) (map[string]any, error) {
	existing, err := store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	if existing == tombstone {
		return nil, domain.ErrNotFound
	}

	merged := map[string]any{}
	dec := json.NewDecoder(bytes.NewReader([]byte(existing)))
	dec.UseNumber()
	if err := dec.Decode(&merged); err != nil {
		return nil, fmt.Errorf("decode %q: %w", key, err)
	}
	if merged == nil {
		return nil, fmt.Errorf("decode %q: not a JSON object", key)
	}
	for k, v := range patch {
		merged[k] = v
	}

	if err := putJSON(ctx, store, key, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

func putJSON(ctx context.Context, store ports.RecordStore, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if err := store.Put(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}
