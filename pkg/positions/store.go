package positions

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// DefaultTTL is how long persisted snapshots live when the host does not say.
const DefaultTTL = 7 * 24 * time.Hour

// Store persists position snapshots.
type Store interface {
	// Load returns the snapshot stored under key. A miss is (nil, false, nil).
	Load(ctx context.Context, key string) (map[string]Position, bool, error)

	// Save stores a snapshot under key. A ttl of 0 means no expiration.
	Save(ctx context.Context, key string, snap map[string]Position, ttl time.Duration) error

	// Delete removes the snapshot under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every snapshot owned by the store.
	Clear(ctx context.Context) error

	// Close releases resources held by the store.
	Close() error
}

// Key derives the snapshot key for a dataset name.
// The key format is "positions:" followed by the hex SHA-256 of the name.
func Key(dataset string) string {
	return "positions:" + Hash([]byte(dataset))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// NullStore is a Store that persists nothing.
type NullStore struct{}

// NewNullStore creates a store that always misses.
func NewNullStore() *NullStore { return &NullStore{} }

func (NullStore) Load(context.Context, string) (map[string]Position, bool, error) {
	return nil, false, nil
}
func (NullStore) Save(context.Context, string, map[string]Position, time.Duration) error { return nil }
func (NullStore) Delete(context.Context, string) error                                   { return nil }
func (NullStore) Clear(context.Context) error                                            { return nil }
func (NullStore) Close() error                                                           { return nil }

var _ Store = NullStore{}
