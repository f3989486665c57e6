package utils

import (
	"errors"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// DiskCache persists downloaded datasets between runs.
type DiskCache struct {
	db  *badger.DB
	ttl time.Duration
	mem sync.Map
}

// OpenDiskCache opens (or creates) a cache at path. Entries older than ttl
// expire; ttl <= 0 keeps them forever.
func OpenDiskCache(path string, ttl time.Duration) (*DiskCache, error) {
	opts := badger.DefaultOptions(path)
	// Decrease logging verbosity
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &DiskCache{db: db, ttl: ttl}, nil
}

func (c *DiskCache) Close() error {
	return c.db.Close()
}

func (c *DiskCache) Put(key string, value []byte) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), value)
		if c.ttl > 0 {
			e = e.WithTTL(c.ttl)
		}
		return txn.SetEntry(e)
	})
	if err == nil {
		c.mem.Store(key, value)
	}
	return err
}

// Get returns nil, nil on a miss.
func (c *DiskCache) Get(key string) ([]byte, error) {
	if v, ok := c.mem.Load(key); ok {
		return v.([]byte), nil
	}
	var val []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.mem.Store(key, val)
	return val, nil
}

func (c *DiskCache) Delete(key string) error {
	c.mem.Delete(key)
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// ForEach visits every cached entry in key order.
func (c *DiskCache) ForEach(fn func(k []byte, v []byte) error) error {
	return c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			k := item.Key()
			err := item.Value(func(v []byte) error {
				return fn(k, v)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// CacheEntry describes one cached download.
type CacheEntry struct {
	Key  string
	Size int
}

// Entries lists the cached downloads in key order.
func (c *DiskCache) Entries() ([]CacheEntry, error) {
	var out []CacheEntry
	err := c.ForEach(func(k, v []byte) error {
		out = append(out, CacheEntry{Key: string(k), Size: len(v)})
		return nil
	})
	return out, err
}

// Clear deletes every cached download and returns how many were removed.
func (c *DiskCache) Clear() (int, error) {
	entries, err := c.Entries()
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		if err := c.Delete(e.Key); err != nil {
			return 0, err
		}
	}
	return len(entries), nil
}
