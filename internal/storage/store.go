package storage

import "errors"

var ErrKeyNotFound = errors.New("storage: key not found")

// KVStore is the durable key/value contract the tracker persists through.
type KVStore interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	DeletePrefix(prefix string) error
	Keys(prefix string) ([]string, error)
	RunGC() error
	Sync() error
	Close() error
}
