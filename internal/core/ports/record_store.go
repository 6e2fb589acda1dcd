package ports

import "context"

// RecordStore is a flat, prefix-keyed key/value namespace holding JSON blobs.
type RecordStore interface {
	// Get returns the value stored at key. An absent key yields "" and a nil
	// error; transport or provider failures are returned as errors.
	Get(ctx context.Context, key string) (string, error)
	// Put overwrites the value at key.
	Put(ctx context.Context, key, value string) error
	// ListKeys drains every page of keys starting with prefix, in the order
	// the store returns them.
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}
