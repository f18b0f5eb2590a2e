package storage

import (
	"errors"
	"fmt"
	"os"
	"reelsd/internal/providers"
	"reelsd/internal/structures"

	badger "github.com/dgraph-io/badger/v4"
)

const gcDiscardRatio = 0.5

type BadgerStore struct {
	db       *badger.DB
	logger   providers.Logger
	dataDir  string
	inMemory bool
}

type BadgerStoreOptionFunc func(*BadgerStore)

// WithDataDir sets the on-disk location of the database.
func WithDataDir(dir string) BadgerStoreOptionFunc {
	return func(s *BadgerStore) {
		s.dataDir = dir
	}
}

// WithInMemory keeps everything in memory. Nothing survives Close.
func WithInMemory(inMemory bool) BadgerStoreOptionFunc {
	return func(s *BadgerStore) {
		s.inMemory = inMemory
	}
}

func WithLogger(logger providers.Logger) BadgerStoreOptionFunc {
	return func(s *BadgerStore) {
		s.logger = logger
	}
}

func NewBadgerStore(opts ...BadgerStoreOptionFunc) (*BadgerStore, error) {
	s := &BadgerStore{}
	for _, opt := range opts {
		opt(s)
	}

	var badgerOpts badger.Options
	if s.inMemory || s.dataDir == "" {
		s.inMemory = true
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data dir: %w", err)
		}
		badgerOpts = badger.DefaultOptions(s.dataDir)
	}
	if s.logger != nil {
		badgerOpts = badgerOpts.WithLogger(NewBadgerLogger(s.logger))
	} else {
		badgerOpts = badgerOpts.WithLogger(nil)
	}
	badgerOpts = badgerOpts.WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	s.db = db
	return s, nil
}

// NewStoreProvider opens the store described by the storage config section.
func NewStoreProvider(conf *structures.Config, logger providers.Logger) (KVStore, func(), error) {
	store, err := NewBadgerStore(
		WithDataDir(conf.Storage.Dir),
		WithInMemory(conf.Storage.InMemory),
		WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Errorf(providers.TypeApp, "Error while closing store: %s", err)
		}
	}
	return store, cleanup, nil
}

func (s *BadgerStore) Get(key string) ([]byte, error) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrKeyNotFound
	}
	return val, err
}

func (s *BadgerStore) Set(key string, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

func (s *BadgerStore) Delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (s *BadgerStore) DeletePrefix(prefix string) error {
	return s.db.DropPrefix([]byte(prefix))
}

func (s *BadgerStore) Keys(prefix string) ([]string, error) {
	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	return keys, err
}

// RunGC rewrites value log files until badger reports nothing left to reclaim.
func (s *BadgerStore) RunGC() error {
	if s.inMemory {
		return nil
	}
	for {
		err := s.db.RunValueLogGC(gcDiscardRatio)
		if err == nil {
			continue
		}
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		return err
	}
}

func (s *BadgerStore) Sync() error {
	if s.inMemory {
		return nil
	}
	return s.db.Sync()
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
